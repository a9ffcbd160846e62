package shell

import (
	"context"
	"strings"
)

// handlerFunc runs one builtin against the shell.
type handlerFunc func(ctx context.Context, s *Shell, arg string) error

// command is one entry in the dispatch table. Routing is a pure data
// structure: the first word of the input is looked up against the name lists
// in table order.
type command struct {
	names []string
	usage string
	help  string
	run   handlerFunc
}

var commandTable []command

// The table is filled in init rather than in the var declaration so that
// handleHelp can refer back to commandTable without an initialization cycle.
func init() {
	commandTable = []command{
		{
			names: []string{"vibe", "code", "make", "create"},
			usage: "vibe <description>",
			help:  "plan and build something from a description",
			run:   handleVibe,
		},
		{
			names: []string{"look", "see", "screen"},
			usage: "look [question]",
			help:  "capture the screen or terminal state and describe it",
			run:   handleLook,
		},
		{
			names: []string{"ai", "ask"},
			usage: "ai <question>",
			help:  "ask the AI assistant a question",
			run:   handleAsk,
		},
		{
			names: []string{"cd"},
			usage: "cd [dir]",
			help:  "change the working directory",
			run:   handleCd,
		},
		{
			names: []string{"clear"},
			usage: "clear",
			help:  "clear the screen and reprint the banner",
			run:   handleClear,
		},
		{
			names: []string{"help"},
			usage: "help",
			help:  "show this help",
			run:   handleHelp,
		},
	}
}

// exitWords end the shell loop. They are handled in Run, not in the table.
var exitWords = map[string]bool{"exit": true, "quit": true, "q": true}

// lookup finds the table entry for a command word, or nil.
func lookup(word string) *command {
	word = strings.ToLower(word)
	for i := range commandTable {
		for _, name := range commandTable[i].names {
			if name == word {
				return &commandTable[i]
			}
		}
	}
	return nil
}

// splitInput separates the command word from its argument.
func splitInput(line string) (word, arg string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	word = parts[0]
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return word, arg
}
