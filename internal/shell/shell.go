// Package shell is the interactive loop: it reads input, routes builtins
// through the dispatch table, and passes everything else through to the
// system shell.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"vibesh/internal/backend"
	"vibesh/internal/display"
	"vibesh/internal/execx"
	"vibesh/internal/executor"
	"vibesh/internal/fallback"
	"vibesh/internal/history"
	"vibesh/internal/inventory"
	"vibesh/internal/screen"
	"vibesh/internal/task"
	"vibesh/internal/tui"
)

// stateDirName is the per-user scratch directory under $HOME.
const stateDirName = ".vibesh"

// Shell owns the session state. Interactive seams (confirmation, spinner,
// backend resolution, passthrough) are fields so tests can run the loop
// without a terminal or network.
type Shell struct {
	stateDir string
	inv      *inventory.Inventory
	env      *task.Env
	log      *history.Log
	pipeline *screen.Pipeline
	exec     *executor.Executor

	in  *bufio.Reader
	out io.Writer

	confirm        executor.ConfirmFunc
	spin           func(message string, work func() (string, error)) (string, error)
	resolveBackend func(ctx context.Context) (backend.Client, []fallback.Attempt, error)
	passthrough    func(ctx context.Context, command string) (int, error)
}

// New creates a shell wired to the real host: state under ~/.vibesh, the
// inventory seeded from the system package managers, and interactive prompts
// on the terminal.
func New(ctx context.Context) (*Shell, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}

	stateDir := filepath.Join(home, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	log := history.NewLog(stateDir)

	inv := inventory.New()
	loadInventory(ctx, inv, execx.Run)

	capturer := screen.NewCapturer(log, filepath.Join(stateDir, "captures"))

	return &Shell{
		stateDir: stateDir,
		inv:      inv,
		env:      task.NewEnv(inv),
		log:      log,
		pipeline: screen.NewPipeline(capturer),
		exec:     executor.New(inv),

		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,

		confirm:        tui.Confirm,
		spin:           tui.WithSpinner,
		resolveBackend: backend.Resolve,
		passthrough:    execx.RunInteractive,
	}, nil
}

// Run is the read-eval loop. It returns when the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, display.Banner())

	// An interrupt during a prompt should not kill the session; the user
	// gets a fresh line instead.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			fmt.Fprintln(s.out)
		}
	}()

	for {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "?"
		}
		fmt.Fprint(s.out, display.Prompt(cwd))

		line, err := s.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			return nil
		}

		if err := s.Dispatch(ctx, line); err != nil {
			display.Errorf("%v", err)
		}
	}
}

// Dispatch routes one input line: builtins through the command table,
// everything else to the system shell.
func (s *Shell) Dispatch(ctx context.Context, line string) error {
	word, arg := splitInput(line)
	if cmd := lookup(word); cmd != nil {
		return cmd.run(ctx, s, arg)
	}
	return s.runPassthrough(ctx, line)
}

func (s *Shell) runPassthrough(ctx context.Context, line string) error {
	code, err := s.passthrough(ctx, line)
	if err != nil {
		return fmt.Errorf("failed to run command: %w", err)
	}
	s.log.Append(history.KindCommand, line, fmt.Sprintf("exit %d", code))
	if code != 0 {
		display.Infof("exit %d", code)
	}
	return nil
}
