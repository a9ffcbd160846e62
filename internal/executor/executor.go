// Package executor walks a planned task through its phases: install required
// capabilities, write files, run commands. Every step outcome is appended to
// a ledger, which together with the terminal state is the sole output of an
// execution pass. The executor mutates the environment, never the task.
package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vibesh/internal/execx"
	"vibesh/internal/inventory"
	"vibesh/internal/task"
)

// State is the phase machine position. Phases are strictly ordered and never
// re-entered; StateAborted is terminal and reachable from any phase.
type State string

const (
	StatePending      State = "pending"
	StateCapabilities State = "capabilities"
	StateFiles        State = "files"
	StateCommands     State = "commands"
	StateDone         State = "done"
	StateAborted      State = "aborted"
)

// StepKind tags a ledger entry with the phase that produced it.
type StepKind string

const (
	StepCapability StepKind = "capability"
	StepFile       StepKind = "file"
	StepCommand    StepKind = "command"
)

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StatusOK      StepStatus = "ok"
	StatusSkipped StepStatus = "skipped"
	StatusFailed  StepStatus = "failed"
)

// StepRecord is one entry in the execution ledger.
type StepRecord struct {
	Kind   StepKind   `json:"kind"`
	ID     string     `json:"id"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
}

// Result is the outcome of one execution pass: the terminal state plus the
// append-only step ledger.
type Result struct {
	State  State
	Ledger []StepRecord
}

func (r *Result) append(kind StepKind, id string, status StepStatus, detail string) {
	r.Ledger = append(r.Ledger, StepRecord{Kind: kind, ID: id, Status: status, Detail: detail})
}

// Steps returns the ledger entries of one kind, in order.
func (r *Result) Steps(kind StepKind) []StepRecord {
	var out []StepRecord
	for _, rec := range r.Ledger {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// ConfirmFunc asks the operator a yes/no question.
type ConfirmFunc func(prompt string) bool

// Installer installs a single capability.
type Installer interface {
	Install(ctx context.Context, c inventory.Capability) error
}

// CommandRunner executes one shell command and reports exit code and output.
type CommandRunner func(ctx context.Context, command string) (*execx.Result, error)

// scriptExtensions are file extensions that get the executable bit set.
var scriptExtensions = map[string]bool{
	".sh": true,
	".py": true,
	".pl": true,
	".rb": true,
}

// Executor runs tasks against an inventory and the local filesystem.
type Executor struct {
	inv        *inventory.Inventory
	installer  Installer
	runCommand CommandRunner
	out        io.Writer
}

// New creates an executor with the real installer and command runner.
func New(inv *inventory.Inventory) *Executor {
	return &Executor{
		inv:       inv,
		installer: NewPackageInstaller(),
		runCommand: func(ctx context.Context, command string) (*execx.Result, error) {
			return execx.Run(ctx, command, execx.CommandTimeout)
		},
		out: os.Stdout,
	}
}

// WithInstaller sets a custom installer (useful for testing).
func (e *Executor) WithInstaller(i Installer) *Executor {
	e.installer = i
	return e
}

// WithCommandRunner sets a custom command runner (useful for testing).
func (e *Executor) WithCommandRunner(r CommandRunner) *Executor {
	e.runCommand = r
	return e
}

// WithOutput redirects progress output.
func (e *Executor) WithOutput(w io.Writer) *Executor {
	e.out = w
	return e
}

// Execute runs the task through its phases. The task itself is borrowed for
// the duration of the pass and never retained or mutated.
func (e *Executor) Execute(ctx context.Context, t *task.Task, confirm ConfirmFunc) *Result {
	result := &Result{State: StatePending}

	if !confirm(planSummary(t)) {
		result.State = StateAborted
		return result
	}

	if !e.runCapabilities(ctx, t, confirm, result) {
		result.State = StateAborted
		return result
	}

	if !e.runFiles(t, result) {
		result.State = StateAborted
		return result
	}

	e.runCommands(ctx, t, confirm, result)

	result.State = StateDone
	return result
}

// runCapabilities installs missing capabilities. Installs already satisfied
// by the inventory are skipped, which makes re-running a plan after partial
// failure safe. A failed install is recoverable: the operator chooses between
// continuing and aborting. Returns false on abort.
func (e *Executor) runCapabilities(ctx context.Context, t *task.Task, confirm ConfirmFunc, result *Result) bool {
	result.State = StateCapabilities

	for _, c := range t.Capabilities {
		if e.inv.Has(c) {
			result.append(StepCapability, c.String(), StatusSkipped, "already installed")
			continue
		}

		fmt.Fprintf(e.out, "Installing %s...\n", c.Name)
		err := e.installer.Install(ctx, c)
		if err == nil {
			e.inv.Add(c)
			result.append(StepCapability, c.String(), StatusOK, "")
			continue
		}

		result.append(StepCapability, c.String(), StatusFailed, err.Error())
		if !confirm(fmt.Sprintf("Installing %s failed (%v). Continue anyway?", c.Name, err)) {
			return false
		}
	}

	return true
}

// runFiles writes the task's files. Files are load-bearing for the commands
// that follow, so any write failure aborts the whole execution; there is no
// continue-anyway option in this phase. Returns false on abort.
func (e *Executor) runFiles(t *task.Task, result *Result) bool {
	result.State = StateFiles

	for _, f := range t.Files {
		if err := writeFile(f); err != nil {
			result.append(StepFile, f.Path, StatusFailed, err.Error())
			fmt.Fprintf(e.out, "Failed to write %s: %v\n", f.Path, err)
			return false
		}
		result.append(StepFile, f.Path, StatusOK, "")
		fmt.Fprintf(e.out, "Wrote %s\n", f.Path)
	}

	return true
}

// runCommands offers each command for confirmation and runs the accepted
// ones. Commands are not assumed dependent on each other: a declined command
// or a non-zero exit does not stop the loop.
func (e *Executor) runCommands(ctx context.Context, t *task.Task, confirm ConfirmFunc, result *Result) {
	result.State = StateCommands

	for _, command := range t.Commands {
		if !confirm(fmt.Sprintf("Run `%s`?", command)) {
			result.append(StepCommand, command, StatusSkipped, "declined")
			continue
		}

		res, err := e.runCommand(ctx, command)
		if err != nil {
			result.append(StepCommand, command, StatusFailed, err.Error())
			continue
		}
		if res.ExitCode != 0 {
			result.append(StepCommand, command, StatusFailed, fmt.Sprintf("exit %d", res.ExitCode))
			continue
		}
		result.append(StepCommand, command, StatusOK, "")
	}
}

// writeFile creates parent directories, writes the content, and marks script
// files executable.
func writeFile(f task.FileSpec) error {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(f.Path, []byte(f.Content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if scriptExtensions[strings.ToLower(filepath.Ext(f.Path))] {
		if err := os.Chmod(f.Path, 0755); err != nil {
			return fmt.Errorf("failed to set executable bit: %w", err)
		}
	}

	return nil
}

// planSummary renders the initial confirmation prompt.
func planSummary(t *task.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Execute task %s", t.ID))
	if t.DetectedLanguage != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", t.DetectedLanguage))
	}
	sb.WriteString(fmt.Sprintf(": %d package(s), %d file(s), %d command(s)?",
		len(t.Capabilities), len(t.Files), len(t.Commands)))
	return sb.String()
}
