package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// workDoneMsg carries the result of the background function.
type workDoneMsg struct {
	value string
	err   error
}

// spinnerModel shows a spinner until the background work finishes.
type spinnerModel struct {
	spinner spinner.Model
	message string
	work    func() (string, error)
	result  workDoneMsg
	done    bool
}

func newSpinnerModel(message string, work func() (string, error)) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF87"))
	return spinnerModel{spinner: s, message: message, work: work}
}

func (m spinnerModel) Init() tea.Cmd {
	run := func() tea.Msg {
		value, err := m.work()
		return workDoneMsg{value: value, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.result = msg
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.message + "\n"
}

// WithSpinner runs work in the background while showing a spinner and the
// message. It returns the work's result. If the UI cannot start, the work
// runs without decoration; the spinner is cosmetic.
func WithSpinner(message string, work func() (string, error)) (string, error) {
	p := tea.NewProgram(newSpinnerModel(message, work))
	result, err := p.Run()
	if err != nil {
		return work()
	}
	m, ok := result.(spinnerModel)
	if !ok {
		return "", nil
	}
	return m.result.value, m.result.err
}
