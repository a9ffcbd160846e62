package task

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"vibesh/internal/backend"
	"vibesh/internal/execx"
	"vibesh/internal/inventory"
	"vibesh/internal/util"
)

// languageEntry associates a language tag with its trigger keywords. Table
// order is the tie-break: the first language whose keyword set intersects the
// description's tokens wins. Order is a behavioral contract; do not reorder
// for keyword specificity.
type languageEntry struct {
	Language string
	Keywords []string
}

var languageTable = []languageEntry{
	{"python", []string{"python", "py", "flask", "django", "pip"}},
	{"javascript", []string{"javascript", "js", "node", "nodejs", "npm", "express"}},
	{"typescript", []string{"typescript", "ts"}},
	{"bash", []string{"bash", "shell", "script", "sh"}},
	{"go", []string{"golang", "go"}},
	{"rust", []string{"rust", "cargo"}},
	{"cpp", []string{"cpp", "c++"}},
	{"c", []string{"c", "gcc"}},
	{"html", []string{"html", "webpage", "website", "page"}},
}

// runtimeCapabilities maps a language to the package that provides its
// runtime or toolchain.
var runtimeCapabilities = map[string]inventory.Capability{
	"python":     {Kind: inventory.KindSystem, Name: "python"},
	"javascript": {Kind: inventory.KindSystem, Name: "nodejs"},
	"typescript": {Kind: inventory.KindSystem, Name: "nodejs"},
	"bash":       {Kind: inventory.KindSystem, Name: "bash"},
	"go":         {Kind: inventory.KindSystem, Name: "golang"},
	"rust":       {Kind: inventory.KindSystem, Name: "rust"},
	"c":          {Kind: inventory.KindSystem, Name: "clang"},
	"cpp":        {Kind: inventory.KindSystem, Name: "clang"},
}

// webCapabilities adds framework packages when the request mentions serving.
var webCapabilities = map[string]inventory.Capability{
	"python":     {Kind: inventory.KindLanguage, Name: "flask"},
	"javascript": {Kind: inventory.KindLanguage, Name: "express"},
}

var webKeywords = []string{"web", "server", "http", "flask", "express"}

// sourceExtensions picks the filename for generated code.
var sourceExtensions = map[string]string{
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"bash":       "sh",
	"go":         "go",
	"rust":       "rs",
	"c":          "c",
	"cpp":        "cpp",
	"html":       "html",
}

// runCommands maps a language to the command that runs a single source file.
var runCommands = map[string]string{
	"python":     "python %s",
	"javascript": "node %s",
	"bash":       "./%s",
	"go":         "go run %s",
	"html":       "", // nothing to run; the file is the artifact
}

// editors are the commands whose presence means the user already has a way to
// edit generated files.
var editors = []string{"nano", "vim", "vi", "emacs", "micro"}

const editorPackage = "nano"

// Env is the environment-dependent side input to planning: what is installed
// and how to check for executables. Tests inject synthetic values.
type Env struct {
	Inventory *inventory.Inventory
	LookPath  func(name string) bool
}

// NewEnv creates an Env backed by the real PATH.
func NewEnv(inv *inventory.Inventory) *Env {
	return &Env{Inventory: inv, LookPath: execx.LookPath}
}

// hasEditor reports whether any known text editor is available, either on
// PATH or in the capability inventory.
func (e *Env) hasEditor() bool {
	for _, editor := range editors {
		if e.LookPath != nil && e.LookPath(editor) {
			return true
		}
		if e.Inventory != nil && e.Inventory.Has(inventory.Capability{Kind: inventory.KindSystem, Name: editor}) {
			return true
		}
	}
	return false
}

// Planner converts free-text requests into tasks. The backend client is
// optional: without one, planning degrades to template matching only.
type Planner struct {
	env    *Env
	client backend.Client
}

// NewPlanner creates a planner for the given environment.
func NewPlanner(env *Env) *Planner {
	return &Planner{env: env}
}

// WithClient sets the generative backend used when no template matches.
func (p *Planner) WithClient(c backend.Client) *Planner {
	p.client = c
	return p
}

// Plan builds a task from a free-text description. An empty or unplannable
// description yields an empty task, never an error; the only error condition
// is failing to allocate a task ID.
func (p *Planner) Plan(ctx context.Context, description string) (*Task, error) {
	id, err := util.GenerateShortID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task id: %w", err)
	}

	t := &Task{
		ID:          id,
		Description: description,
		CreatedAt:   time.Now(),
	}

	tokens := tokenize(description)
	if len(tokens) == 0 {
		return t, nil
	}

	t.DetectedLanguage = detectLanguage(tokens)

	if tpl := matchTemplate(description, t.DetectedLanguage); tpl != nil {
		t.Files = append(t.Files, tpl.Files...)
		t.Commands = append(t.Commands, tpl.Commands...)
	}

	t.Capabilities = p.inferCapabilities(t.DetectedLanguage, tokens)

	if len(t.Files) == 0 && p.client != nil {
		p.generate(ctx, t)
	}

	return t, nil
}

// detectLanguage returns the first language in table order whose keyword set
// intersects the tokens, or "" when nothing matches.
func detectLanguage(tokens map[string]bool) string {
	for _, entry := range languageTable {
		for _, keyword := range entry.Keywords {
			if tokens[keyword] {
				return entry.Language
			}
		}
	}
	return ""
}

// inferCapabilities derives required packages from the language and keyword
// triggers, then appends an editor install when the environment has none.
// Duplicates are allowed; the executor treats them idempotently.
func (p *Planner) inferCapabilities(language string, tokens map[string]bool) []inventory.Capability {
	var caps []inventory.Capability

	if runtime, ok := runtimeCapabilities[language]; ok {
		caps = append(caps, runtime)
	}

	if web, ok := webCapabilities[language]; ok {
		for _, keyword := range webKeywords {
			if tokens[keyword] {
				caps = append(caps, web)
				break
			}
		}
	}

	if len(caps) > 0 && !p.env.hasEditor() {
		caps = append(caps, inventory.Capability{Kind: inventory.KindSystem, Name: editorPackage})
	}

	return caps
}

// generate asks the backend for source text and accepts it as the single file
// of the task. Backend failure leaves the task without files; the caller
// reports "could not plan" and moves on.
func (p *Planner) generate(ctx context.Context, t *Task) {
	language := t.DetectedLanguage
	if language == "" {
		language = "the most appropriate language"
	}

	system := "You are a code generator. Output only the complete source code for the request, with no explanation and no markdown fences."
	user := fmt.Sprintf("Write a complete, runnable program in %s for this request: %s", language, t.Description)

	raw, err := p.client.Complete(ctx, system, user)
	if err != nil {
		return
	}

	content := Normalize(raw)
	if strings.TrimSpace(content) == "" {
		return
	}

	ext, ok := sourceExtensions[t.DetectedLanguage]
	if !ok {
		ext = "txt"
	}
	path := "main." + ext
	t.Files = append(t.Files, FileSpec{Path: path, Content: content})

	if cmdTpl, ok := runCommands[t.DetectedLanguage]; ok && cmdTpl != "" {
		t.Commands = append(t.Commands, fmt.Sprintf(cmdTpl, path))
	}
}

// tokenize lowercases the description and splits it into a token set on
// non-alphanumeric boundaries. "c++" is preserved as a special case so the
// cpp table entry can see it.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	lower := strings.ToLower(s)

	if strings.Contains(lower, "c++") {
		tokens["c++"] = true
	}

	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}
