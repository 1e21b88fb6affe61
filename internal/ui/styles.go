package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles shared by the status output and the watch dashboard.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("46")).
		Bold(true)

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("241"))
)

// ColorEnabled reports whether the terminal supports color output.
// Bootstrap logs frequently end up in files, where plain text reads
// better.
func ColorEnabled() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}
