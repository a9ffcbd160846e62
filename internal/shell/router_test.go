package shell

import (
	"testing"
)

func TestLookupAliases(t *testing.T) {
	tests := []struct {
		word string
		want string // first name of the expected entry, "" for no match
	}{
		{"vibe", "vibe"},
		{"code", "vibe"},
		{"make", "vibe"},
		{"create", "vibe"},
		{"VIBE", "vibe"},
		{"look", "look"},
		{"see", "look"},
		{"screen", "look"},
		{"ai", "ai"},
		{"ask", "ai"},
		{"cd", "cd"},
		{"clear", "clear"},
		{"help", "help"},
		{"ls", ""},
		{"git", ""},
		{"exit", ""}, // exit is handled by the loop, not the table
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			cmd := lookup(tt.word)
			if tt.want == "" {
				if cmd != nil {
					t.Fatalf("lookup(%q) matched %v, want no match", tt.word, cmd.names)
				}
				return
			}
			if cmd == nil {
				t.Fatalf("lookup(%q) = nil, want entry %q", tt.word, tt.want)
			}
			if cmd.names[0] != tt.want {
				t.Errorf("lookup(%q) matched %q, want %q", tt.word, cmd.names[0], tt.want)
			}
		})
	}
}

func TestSplitInput(t *testing.T) {
	tests := []struct {
		line     string
		wantWord string
		wantArg  string
	}{
		{"vibe python web server", "vibe", "python web server"},
		{"look", "look", ""},
		{"  cd   /tmp  ", "cd", "/tmp"},
		{"ai", "ai", ""},
	}

	for _, tt := range tests {
		word, arg := splitInput(tt.line)
		if word != tt.wantWord || arg != tt.wantArg {
			t.Errorf("splitInput(%q) = (%q, %q), want (%q, %q)",
				tt.line, word, arg, tt.wantWord, tt.wantArg)
		}
	}
}

func TestExitWords(t *testing.T) {
	for _, word := range []string{"exit", "quit", "q"} {
		if !exitWords[word] {
			t.Errorf("expected %q to be an exit word", word)
		}
	}
	if exitWords["vibe"] {
		t.Error("vibe must not be an exit word")
	}
}
