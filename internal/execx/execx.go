// Package execx is a thin wrapper over os/exec used everywhere the core needs
// to run an external process. Exit code and captured output are the only
// contract callers rely on.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// CommandContext is the function used to create exec.Cmd instances.
// It can be replaced in tests to mock command execution.
var CommandContext = exec.CommandContext

// Default timeouts per call site. Installs get a long finite bound; ad hoc
// shell commands and probes shorter ones.
const (
	InstallTimeout = 10 * time.Minute
	CommandTimeout = 5 * time.Minute
	ProbeTimeout   = 5 * time.Second
)

// ErrTimeout marks a command that was killed because its deadline elapsed.
var ErrTimeout = errors.New("command timed out")

// Result holds the outcome of one subprocess run.
type Result struct {
	ExitCode int
	Output   string
}

// Run executes a shell command line with a timeout and captures combined
// output. A non-zero exit is reported through Result.ExitCode, not through
// err; err is reserved for timeouts and failures to start the process.
func Run(ctx context.Context, command string, timeout time.Duration) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := CommandContext(ctx, "sh", "-c", command)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	res := &Result{Output: buf.String()}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return res, ErrTimeout
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}

	return res, nil
}

// RunInteractive executes a shell command line wired to the caller's
// terminal. Used for passthrough commands where the user owns the session.
func RunInteractive(ctx context.Context, command string) (int, error) {
	cmd := CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}

// LookPath reports whether an executable is available on PATH. It is the
// probe primitive for capture methods and editor detection.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
