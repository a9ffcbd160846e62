// Package tui holds the small interactive bubbletea models the shell uses:
// a yes/no confirmation prompt and a busy spinner for long AI calls.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmPromptStyle = lipgloss.NewStyle().Bold(true)
	confirmHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// confirmModel is a one-shot y/n prompt.
type confirmModel struct {
	prompt string
	answer bool
	done   bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "esc", "q", "ctrl+c":
		m.answer = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return confirmPromptStyle.Render(m.prompt) + " " + confirmHintStyle.Render("[Y/n]") + "\n"
}

// Confirm shows the prompt and blocks until the user answers. Enter and y
// accept; n, esc, and interrupt decline. Any UI failure counts as a decline:
// never run a step the user could not approve.
func Confirm(prompt string) bool {
	p := tea.NewProgram(confirmModel{prompt: prompt})
	result, err := p.Run()
	if err != nil {
		return false
	}
	m, ok := result.(confirmModel)
	if !ok {
		return false
	}
	return m.answer
}
