// Package task turns a natural-language request into a structured, reviewable
// unit of work: a language guess, required packages, files to write, and
// commands to run.
package task

import (
	"time"

	"vibesh/internal/inventory"
)

// FileSpec is one file the task wants written. Path is relative to the
// working directory at execution time, not at planning time.
type FileSpec struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Task is the structured output of planning one request. ID, Description and
// CreatedAt are fixed at creation; the remaining fields are populated exactly
// once during planning and are read-only afterwards. The executor mutates the
// environment, never the task.
type Task struct {
	ID               string                 `json:"id"`
	Description      string                 `json:"description"`
	DetectedLanguage string                 `json:"detectedLanguage,omitempty"`
	Capabilities     []inventory.Capability `json:"capabilities"`
	Files            []FileSpec             `json:"files"`
	Commands         []string               `json:"commands"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// Empty reports whether planning produced nothing to do. An empty task is a
// valid planning outcome, not an error.
func (t *Task) Empty() bool {
	return len(t.Files) == 0 && len(t.Commands) == 0 && len(t.Capabilities) == 0
}
