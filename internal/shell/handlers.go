package shell

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vibesh/internal/backend"
	"vibesh/internal/display"
	"vibesh/internal/executor"
	"vibesh/internal/history"
	"vibesh/internal/screen"
	"vibesh/internal/task"
)

const askSystemPrompt = "You are a helpful assistant inside a user's terminal. Be concise and practical."

// handleVibe plans a task from the description and executes it with the
// user's confirmation at each step.
func handleVibe(ctx context.Context, s *Shell, arg string) error {
	if arg == "" {
		display.Errorf("usage: vibe <description>")
		return nil
	}

	planner := task.NewPlanner(s.env)
	if client, _, err := s.resolveBackend(ctx); err == nil {
		planner.WithClient(client)
	}

	var t *task.Task
	if _, err := s.spin("Planning...", func() (string, error) {
		var planErr error
		t, planErr = planner.Plan(ctx, arg)
		return "", planErr
	}); err != nil {
		return fmt.Errorf("failed to plan task: %w", err)
	}

	if t == nil || (len(t.Files) == 0 && len(t.Commands) == 0) {
		display.Infof("Could not turn that into a task. Try naming a language, e.g. `vibe python web server`.")
		return nil
	}

	fmt.Fprintln(s.out, display.Panel("Plan "+t.ID, planBody(t)))

	result := s.exec.Execute(ctx, t, s.confirm)
	fmt.Fprintln(s.out, display.Panel("Result", resultBody(result)))

	s.log.Append(history.KindTask, arg,
		fmt.Sprintf("id=%s state=%s steps=%d", t.ID, result.State, len(result.Ledger)))
	return nil
}

// handleLook captures the screen or terminal state and describes it.
func handleLook(ctx context.Context, s *Shell, arg string) error {
	var report *screen.Report
	if _, err := s.spin("Looking...", func() (string, error) {
		var inspectErr error
		report, inspectErr = s.pipeline.Inspect(ctx, arg)
		return "", inspectErr
	}); err != nil {
		return fmt.Errorf("failed to inspect screen: %w", err)
	}

	fmt.Fprintln(s.out, display.Panel("Screen ("+report.Method+")", report.Description))
	if report.ArtifactPath != "" {
		display.Infof("capture saved to %s", report.ArtifactPath)
	}

	s.log.Append(history.KindInspect, strings.TrimSpace(arg), report.Method)
	return nil
}

// handleAsk sends a one-off question to the AI backend.
func handleAsk(ctx context.Context, s *Shell, arg string) error {
	if arg == "" {
		display.Errorf("usage: ai <question>")
		return nil
	}

	client, _, err := s.resolveBackend(ctx)
	if err != nil {
		display.Errorf("no AI backend available; set one of %s", strings.Join(backend.EnvVarHints(), ", "))
		return nil
	}

	answer, err := s.spin("Thinking...", func() (string, error) {
		return client.Complete(ctx, askSystemPrompt, arg)
	})
	if err != nil {
		return fmt.Errorf("failed to get answer: %w", err)
	}

	fmt.Fprintln(s.out, display.Panel("AI ("+client.ModelName()+")", answer))
	s.log.Append(history.KindBuiltin, "ai "+arg, client.ModelName())
	return nil
}

// handleCd changes the working directory; with no argument it goes home.
func handleCd(_ context.Context, s *Shell, arg string) error {
	target := arg
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to determine home directory: %w", err)
		}
		target = home
	}

	if err := os.Chdir(target); err != nil {
		return fmt.Errorf("failed to change directory: %w", err)
	}
	s.log.Append(history.KindBuiltin, "cd "+target, "")
	return nil
}

func handleClear(_ context.Context, s *Shell, _ string) error {
	display.Clear()
	s.log.Append(history.KindBuiltin, "clear", "")
	return nil
}

func handleHelp(_ context.Context, s *Shell, _ string) error {
	var sb strings.Builder
	for _, cmd := range commandTable {
		sb.WriteString(fmt.Sprintf("%-20s %s\n", cmd.usage, cmd.help))
		if len(cmd.names) > 1 {
			sb.WriteString(fmt.Sprintf("%-20s aliases: %s\n", "", strings.Join(cmd.names[1:], ", ")))
		}
	}
	sb.WriteString(fmt.Sprintf("%-20s %s\n", "exit", "leave the shell (also: quit, q)"))
	sb.WriteString("\nAnything else runs in the system shell.")
	fmt.Fprintln(s.out, display.Panel("Commands", sb.String()))
	return nil
}

// planBody renders the task for the plan panel.
func planBody(t *task.Task) string {
	var sb strings.Builder
	sb.WriteString(t.Description)
	if t.DetectedLanguage != "" {
		sb.WriteString(fmt.Sprintf("\nlanguage: %s", t.DetectedLanguage))
	}
	if len(t.Capabilities) > 0 {
		names := make([]string, 0, len(t.Capabilities))
		for _, c := range t.Capabilities {
			names = append(names, c.String())
		}
		sb.WriteString(fmt.Sprintf("\ninstall:  %s", strings.Join(names, ", ")))
	}
	for _, f := range t.Files {
		sb.WriteString(fmt.Sprintf("\nwrite:    %s (%d bytes)", f.Path, len(f.Content)))
	}
	for _, c := range t.Commands {
		sb.WriteString(fmt.Sprintf("\nrun:      %s", c))
	}
	return sb.String()
}

// resultBody renders the execution ledger for the result panel.
func resultBody(r *executor.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("state: %s", r.State))
	for _, rec := range r.Ledger {
		line := fmt.Sprintf("\n[%s] %s %s", rec.Status, rec.Kind, rec.ID)
		if rec.Detail != "" {
			line += " (" + rec.Detail + ")"
		}
		sb.WriteString(line)
	}
	return sb.String()
}
