// Package screen captures the current screen or terminal state and describes
// it, degrading through capture methods and AI backends so that an answer of
// some kind always comes back.
package screen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vibesh/internal/execx"
	"vibesh/internal/fallback"
	"vibesh/internal/history"
	"vibesh/internal/util"
)

// Artifact is the product of one capture: either a PNG on disk or
// reconstructed terminal text.
type Artifact struct {
	Method  string
	Path    string
	Text    string
	IsImage bool
}

// CaptureFunc produces an artifact. It is the candidate value in the capture
// fallback chain.
type CaptureFunc func(ctx context.Context) (*Artifact, error)

// HistorySource provides recent shell activity for the terminal-buffer
// fallback.
type HistorySource interface {
	Recent(limit int) ([]history.Entry, error)
}

// Capturer builds the ordered capture candidates. Dependencies are injectable
// so tests can simulate hosts with and without each method.
type Capturer struct {
	LookPath   func(name string) bool
	Run        func(ctx context.Context, command string, timeout time.Duration) (*execx.Result, error)
	History    HistorySource
	CaptureDir string
}

// NewCapturer creates a capturer backed by the real host.
func NewCapturer(hist HistorySource, captureDir string) *Capturer {
	return &Capturer{
		LookPath:   execx.LookPath,
		Run:        execx.Run,
		History:    hist,
		CaptureDir: captureDir,
	}
}

// historyWindow is how many history entries the terminal-buffer capture
// reconstructs.
const historyWindow = 20

// listingLimit bounds the directory-listing portion of the buffer capture.
const listingLimit = 40

// Candidates returns the capture methods in fixed priority order. Privileged
// capture yields the richest data so it goes first; the terminal-buffer
// method never fails, so resolution over this list cannot exhaust.
func (c *Capturer) Candidates() []fallback.Candidate[CaptureFunc] {
	return []fallback.Candidate[CaptureFunc]{
		{
			Name:  "screencap-root",
			Value: c.captureRoot,
			Probe: c.probeRoot,
		},
		{
			Name:  "termux-screenshot",
			Value: c.captureTermux,
			Probe: c.probeTermux,
		},
		{
			Name:  "terminal-buffer",
			Value: c.captureBuffer,
			Probe: func(ctx context.Context) error { return nil },
		},
	}
}

// probeRoot checks that su exists and actually grants root. Running `id` is
// idempotent, so repeated resolution is safe.
func (c *Capturer) probeRoot(ctx context.Context) error {
	if !c.LookPath("su") {
		return fmt.Errorf("su not found")
	}
	res, err := c.Run(ctx, "su -c id", execx.ProbeTimeout)
	if err != nil {
		return fmt.Errorf("su probe failed: %w", err)
	}
	if res.ExitCode != 0 || !strings.Contains(res.Output, "uid=0") {
		return fmt.Errorf("su did not grant root")
	}
	return nil
}

func (c *Capturer) captureRoot(ctx context.Context) (*Artifact, error) {
	path, err := c.capturePath()
	if err != nil {
		return nil, err
	}

	res, err := c.Run(ctx, fmt.Sprintf("su -c screencap -p %s", path), execx.CommandTimeout)
	if err != nil {
		return nil, fmt.Errorf("screencap failed: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("screencap exited with code %d", res.ExitCode)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("screencap produced no file: %w", err)
	}

	return &Artifact{Method: "screencap-root", Path: path, IsImage: true}, nil
}

func (c *Capturer) probeTermux(ctx context.Context) error {
	if !c.LookPath("termux-screenshot") {
		return fmt.Errorf("termux-screenshot not found")
	}
	return nil
}

func (c *Capturer) captureTermux(ctx context.Context) (*Artifact, error) {
	path, err := c.capturePath()
	if err != nil {
		return nil, err
	}

	res, err := c.Run(ctx, fmt.Sprintf("termux-screenshot %s", path), execx.CommandTimeout)
	if err != nil {
		return nil, fmt.Errorf("termux-screenshot failed: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("termux-screenshot exited with code %d", res.ExitCode)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("termux-screenshot produced no file: %w", err)
	}

	return &Artifact{Method: "termux-screenshot", Path: path, IsImage: true}, nil
}

// captureBuffer reconstructs visible terminal state from shell history and
// the working directory listing. It cannot fail: missing history or an
// unreadable directory just shrink the text.
func (c *Capturer) captureBuffer(ctx context.Context) (*Artifact, error) {
	var sb strings.Builder

	cwd, err := os.Getwd()
	if err == nil {
		sb.WriteString("Working directory: " + cwd + "\n\n")
	}

	if c.History != nil {
		entries, err := c.History.Recent(historyWindow)
		if err == nil && len(entries) > 0 {
			sb.WriteString("Recent commands:\n")
			for _, e := range entries {
				sb.WriteString("  $ " + e.Input + "\n")
				if e.Detail != "" {
					sb.WriteString("    " + e.Detail + "\n")
				}
			}
			sb.WriteString("\n")
		}
	}

	if entries, err := os.ReadDir("."); err == nil {
		sb.WriteString("Directory listing:\n")
		for i, entry := range entries {
			if i >= listingLimit {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(entries)-listingLimit))
				break
			}
			name := entry.Name()
			if entry.IsDir() {
				name += "/"
			}
			sb.WriteString("  " + name + "\n")
		}
	}

	return &Artifact{Method: "terminal-buffer", Text: sb.String()}, nil
}

// capturePath allocates a fresh PNG path under the capture directory.
func (c *Capturer) capturePath() (string, error) {
	if err := os.MkdirAll(c.CaptureDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create capture directory: %w", err)
	}
	id, err := util.GenerateShortID()
	if err != nil {
		return "", fmt.Errorf("failed to generate capture id: %w", err)
	}
	return filepath.Join(c.CaptureDir, "capture-"+id+".png"), nil
}
