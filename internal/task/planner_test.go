package task

import (
	"context"
	"errors"
	"testing"

	"vibesh/internal/inventory"
)

// mockClient is a test double for the generative backend.
type mockClient struct {
	Response string
	Err      error
	Calls    int
}

func (m *mockClient) Complete(ctx context.Context, system, user string) (string, error) {
	m.Calls++
	return m.Response, m.Err
}

func (m *mockClient) CompleteVision(ctx context.Context, system, user string, png []byte) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockClient) Probe(ctx context.Context) error { return nil }
func (m *mockClient) ModelName() string               { return "mock" }

func testEnv(editorAvailable bool) *Env {
	return &Env{
		Inventory: inventory.New(),
		LookPath:  func(string) bool { return editorAvailable },
	}
}

func hasCapability(t *Task, kind inventory.Kind, name string) bool {
	for _, c := range t.Capabilities {
		if c.Kind == kind && c.Name == name {
			return true
		}
	}
	return false
}

func TestPlanPythonWebServer(t *testing.T) {
	p := NewPlanner(testEnv(true))

	task, err := p.Plan(context.Background(), "create a python web server")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.DetectedLanguage != "python" {
		t.Errorf("expected language python, got %q", task.DetectedLanguage)
	}
	if len(task.Files) != 1 {
		t.Errorf("expected exactly 1 file, got %d", len(task.Files))
	}
	if len(task.Commands) < 1 {
		t.Errorf("expected at least 1 command, got %d", len(task.Commands))
	}
	if !hasCapability(task, inventory.KindSystem, "python") {
		t.Error("expected python runtime capability")
	}
	if !hasCapability(task, inventory.KindLanguage, "flask") {
		t.Error("expected flask web capability")
	}
}

func TestPlanEmptyDescription(t *testing.T) {
	p := NewPlanner(testEnv(true))

	task, err := p.Plan(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.DetectedLanguage != "" {
		t.Errorf("expected no language, got %q", task.DetectedLanguage)
	}
	if len(task.Files) != 0 || len(task.Commands) != 0 {
		t.Error("expected no files and no commands")
	}
	if !task.Empty() {
		t.Error("expected task to be empty")
	}
	if task.ID == "" {
		t.Error("even an empty task gets an id")
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"make a python script for parsing logs", "python"},
		{"build a node app", "javascript"},
		{"a typescript module", "typescript"},
		{"write a shell script", "bash"},
		{"a golang cli tool", "go"},
		{"rust program using cargo", "rust"},
		{"a c++ matrix library", "cpp"},
		{"compile with gcc", "c"},
		{"make me a website", "html"},
		{"do something unrelated", ""},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := detectLanguage(tokenize(tt.description))
			if got != tt.want {
				t.Errorf("detectLanguage(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestDetectLanguageFirstMatchWins(t *testing.T) {
	// "python script" intersects both the python and bash keyword sets;
	// python sits earlier in the table and must win.
	got := detectLanguage(tokenize("a python script"))
	if got != "python" {
		t.Errorf("expected python to win by table order, got %q", got)
	}
}

func TestMatchTemplate(t *testing.T) {
	t.Run("requires both phrase and language", func(t *testing.T) {
		if tpl := matchTemplate("create a python web server", "python"); tpl == nil {
			t.Error("expected python web server template to match")
		}
		if tpl := matchTemplate("create a python web server", "rust"); tpl != nil {
			t.Error("template must not match a different language")
		}
		if tpl := matchTemplate("create a python gui", "python"); tpl != nil {
			t.Error("template must not match without its trigger phrase")
		}
	})

	t.Run("go cli template", func(t *testing.T) {
		tpl := matchTemplate("a golang cli tool", "go")
		if tpl == nil {
			t.Fatal("expected go cli template")
		}
		if tpl.Files[0].Path != "main.go" {
			t.Errorf("expected main.go, got %q", tpl.Files[0].Path)
		}
		if len(tpl.Commands) != 1 || tpl.Commands[0] != "go run main.go" {
			t.Errorf("expected go run command, got %v", tpl.Commands)
		}
	})

	t.Run("bash script template", func(t *testing.T) {
		tpl := matchTemplate("write a bash script", "bash")
		if tpl == nil {
			t.Fatal("expected bash script template")
		}
		if tpl.Files[0].Path != "script.sh" {
			t.Errorf("expected script.sh, got %q", tpl.Files[0].Path)
		}
	})
}

func TestInferCapabilitiesEditor(t *testing.T) {
	t.Run("appends editor install when none available", func(t *testing.T) {
		p := NewPlanner(testEnv(false))
		task, err := p.Plan(context.Background(), "write a python script")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasCapability(task, inventory.KindSystem, "nano") {
			t.Error("expected editor capability when no editor is available")
		}
	})

	t.Run("no editor install when one exists", func(t *testing.T) {
		p := NewPlanner(testEnv(true))
		task, err := p.Plan(context.Background(), "write a python script")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasCapability(task, inventory.KindSystem, "nano") {
			t.Error("did not expect editor capability")
		}
	})

	t.Run("editor known via inventory also counts", func(t *testing.T) {
		env := testEnv(false)
		env.Inventory.Add(inventory.Capability{Kind: inventory.KindSystem, Name: "vim"})

		p := NewPlanner(env)
		task, err := p.Plan(context.Background(), "write a python script")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasCapability(task, inventory.KindSystem, "nano") {
			t.Error("did not expect editor capability when inventory has vim")
		}
	})
}

func TestPlanGenerativeFallback(t *testing.T) {
	t.Run("uses backend when no template matches", func(t *testing.T) {
		client := &mockClient{Response: "```python\nprint('hi')\n```"}
		p := NewPlanner(testEnv(true)).WithClient(client)

		task, err := p.Plan(context.Background(), "a python tool that prints hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if client.Calls != 1 {
			t.Errorf("expected 1 backend call, got %d", client.Calls)
		}
		if len(task.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(task.Files))
		}
		if task.Files[0].Path != "main.py" {
			t.Errorf("expected main.py, got %q", task.Files[0].Path)
		}
		if task.Files[0].Content != "print('hi')\n" {
			t.Errorf("unexpected content %q", task.Files[0].Content)
		}
		if len(task.Commands) != 1 || task.Commands[0] != "python main.py" {
			t.Errorf("expected run command, got %v", task.Commands)
		}
	})

	t.Run("backend not called when a template matched", func(t *testing.T) {
		client := &mockClient{Response: "unused"}
		p := NewPlanner(testEnv(true)).WithClient(client)

		_, err := p.Plan(context.Background(), "create a python web server")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.Calls != 0 {
			t.Errorf("expected no backend calls, got %d", client.Calls)
		}
	})

	t.Run("backend failure degrades to an empty plan", func(t *testing.T) {
		client := &mockClient{Err: errors.New("backend down")}
		p := NewPlanner(testEnv(true)).WithClient(client)

		task, err := p.Plan(context.Background(), "an unusual request with no template or language")
		if err != nil {
			t.Fatalf("planning must not propagate backend errors, got %v", err)
		}
		if len(task.Files) != 0 {
			t.Errorf("expected no files, got %d", len(task.Files))
		}
	})

	t.Run("no backend means template-only planning", func(t *testing.T) {
		p := NewPlanner(testEnv(true))

		task, err := p.Plan(context.Background(), "a python tool that prints hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(task.Files) != 0 {
			t.Errorf("expected no files without a backend, got %d", len(task.Files))
		}
	})
}

func TestTaskImmutableInputs(t *testing.T) {
	p := NewPlanner(testEnv(true))
	description := "create a python web server"

	task, err := p.Plan(context.Background(), description)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Description != description {
		t.Errorf("description must be stored verbatim, got %q", task.Description)
	}
}
