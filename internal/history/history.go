// Package history keeps an append-only JSON Lines log of what the shell has
// done. It is the audit trail of the session and the source the screen
// pipeline reads when it has to reconstruct terminal state from text.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const logFileName = "history.log"

// Kind constants for history entries.
const (
	KindCommand = "command"
	KindBuiltin = "builtin"
	KindTask    = "task"
	KindInspect = "inspect"
)

// Entry is a single history record.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Input     string    `json:"input"`
	Detail    string    `json:"detail,omitempty"`
}

// Log appends entries to a JSON Lines file.
type Log struct {
	path string
}

// NewLog creates a history log inside the given state directory.
func NewLog(stateDir string) *Log {
	return &Log{path: filepath.Join(stateDir, logFileName)}
}

// Path returns the location of the log file.
func (l *Log) Path() string {
	return l.path
}

// Append writes one entry. The log is best-effort: callers typically ignore
// the error so a broken log never blocks the shell.
func (l *Log) Append(kind, input, detail string) error {
	entry := Entry{
		Timestamp: time.Now(),
		Kind:      kind,
		Input:     input,
		Detail:    detail,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	jsonBytes = append(jsonBytes, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(jsonBytes)
	return err
}

// Recent returns up to limit entries from the tail of the log, oldest first.
// A missing log file yields an empty slice, not an error. Unparseable lines
// are skipped; the log may contain partial writes from interrupted sessions.
func (l *Log) Recent(limit int) ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
