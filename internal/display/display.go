// Package display renders the shell's styled output: banner, panels, status
// lines, and the prompt.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FFF87") // Terminal green
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	accentColor    = lipgloss.Color("#5FAFFF") // Blue accent
	errorColor     = lipgloss.Color("#AF5F5F") // Muted terracotta for errors

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	taglineStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	promptArrowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor)

	promptPathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
)

const logo = `
 ██╗   ██╗██╗██████╗ ███████╗███████╗██╗  ██╗
 ██║   ██║██║██╔══██╗██╔════╝██╔════╝██║  ██║
 ██║   ██║██║██████╔╝█████╗  ███████╗███████║
 ╚██╗ ██╔╝██║██╔══██╗██╔══╝  ╚════██║██╔══██║
  ╚████╔╝ ██║██████╔╝███████╗███████║██║  ██║
   ╚═══╝  ╚═╝╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝`

// Banner returns the startup banner.
func Banner() string {
	tagline := taglineStyle.Render("vibe code, look at the screen, ask questions · type 'help'")
	return bannerStyle.Render(logo) + "\n " + tagline + "\n"
}

// Prompt returns the styled input prompt for the given working directory,
// abbreviating the home directory to ~.
func Prompt(cwd string) string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if strings.HasPrefix(cwd, home) {
			cwd = "~" + strings.TrimPrefix(cwd, home)
		}
	}
	return fmt.Sprintf("%s %s ", promptArrowStyle.Render("➜"), promptPathStyle.Render(cwd))
}

// Panel renders content inside a titled border.
func Panel(title, body string) string {
	body = strings.TrimRight(body, "\n")
	content := panelTitleStyle.Render(title) + "\n" + body
	return panelStyle.Render(content)
}

// Errorf prints a styled error line.
func Errorf(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Infof prints a styled secondary line.
func Infof(format string, args ...interface{}) {
	fmt.Println(infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Clear wipes the terminal and reprints the banner.
func Clear() {
	fmt.Print("\033[2J\033[H")
	fmt.Println(Banner())
}
