package screen

import (
	"context"
	"strings"
	"testing"
	"time"

	"vibesh/internal/execx"
	"vibesh/internal/fallback"
	"vibesh/internal/history"
)

func TestCandidatesOrder(t *testing.T) {
	c := &Capturer{
		LookPath:   func(string) bool { return false },
		History:    &fakeHistory{},
		CaptureDir: t.TempDir(),
	}

	candidates := c.Candidates()
	want := []string{"screencap-root", "termux-screenshot", "terminal-buffer"}
	if len(candidates) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, name := range want {
		if candidates[i].Name != name {
			t.Errorf("candidate %d = %q, want %q", i, candidates[i].Name, name)
		}
	}
}

func TestTerminalBufferAlwaysResolves(t *testing.T) {
	c := &Capturer{
		LookPath: func(string) bool { return false },
		Run: func(ctx context.Context, command string, timeout time.Duration) (*execx.Result, error) {
			return &execx.Result{ExitCode: 1}, nil
		},
		History:    &fakeHistory{},
		CaptureDir: t.TempDir(),
	}

	selected, attempts := fallback.Resolve(context.Background(), c.Candidates())
	if selected == nil {
		t.Fatal("expected terminal-buffer to resolve")
	}
	if selected.Name != "terminal-buffer" {
		t.Errorf("expected terminal-buffer, got %q", selected.Name)
	}
	if len(attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(attempts))
	}
}

func TestProbeRoot(t *testing.T) {
	t.Run("missing su fails", func(t *testing.T) {
		c := &Capturer{LookPath: func(string) bool { return false }}
		if err := c.probeRoot(context.Background()); err == nil {
			t.Error("expected probe failure without su")
		}
	})

	t.Run("su without root fails", func(t *testing.T) {
		c := &Capturer{
			LookPath: func(name string) bool { return name == "su" },
			Run: func(ctx context.Context, command string, timeout time.Duration) (*execx.Result, error) {
				return &execx.Result{Output: "uid=1000(user)"}, nil
			},
		}
		if err := c.probeRoot(context.Background()); err == nil {
			t.Error("expected probe failure without uid=0")
		}
	})

	t.Run("root su succeeds", func(t *testing.T) {
		c := &Capturer{
			LookPath: func(name string) bool { return name == "su" },
			Run: func(ctx context.Context, command string, timeout time.Duration) (*execx.Result, error) {
				if !strings.Contains(command, "su -c id") {
					t.Errorf("unexpected probe command %q", command)
				}
				return &execx.Result{Output: "uid=0(root) gid=0(root)"}, nil
			},
		}
		if err := c.probeRoot(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCaptureBuffer(t *testing.T) {
	t.Chdir(t.TempDir())

	hist := &fakeHistory{Entries: []history.Entry{
		{Kind: history.KindCommand, Input: "make build", Detail: "exit 2"},
		{Kind: history.KindBuiltin, Input: "clear"},
	}}
	c := &Capturer{History: hist, CaptureDir: t.TempDir()}

	artifact, err := c.captureBuffer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if artifact.IsImage {
		t.Error("buffer capture must be textual")
	}
	if artifact.Method != "terminal-buffer" {
		t.Errorf("unexpected method %q", artifact.Method)
	}
	for _, want := range []string{"make build", "exit 2", "clear", "Working directory:"} {
		if !strings.Contains(artifact.Text, want) {
			t.Errorf("buffer text missing %q:\n%s", want, artifact.Text)
		}
	}
}

func TestCaptureBufferWithoutHistory(t *testing.T) {
	t.Chdir(t.TempDir())

	c := &Capturer{History: nil, CaptureDir: t.TempDir()}
	artifact, err := c.captureBuffer(context.Background())
	if err != nil {
		t.Fatalf("buffer capture must not fail without history: %v", err)
	}
	if artifact.Text == "" {
		t.Error("expected at least the directory section")
	}
}
