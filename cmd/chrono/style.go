package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorGreen  = lipgloss.Color("2")
	colorRed    = lipgloss.Color("1")
	colorYellow = lipgloss.Color("3")
	colorGrey   = lipgloss.Color("8")
	colorBlue   = lipgloss.Color("4")
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(colorGrey)
	idStyle     = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	addedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	modStyle    = lipgloss.NewStyle().Foreground(colorBlue)
	deleteStyle = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

// setupColor disables styling when asked to, or when NO_COLOR is set.
func setupColor(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func statusMark(status string) string {
	switch status {
	case "added":
		return addedStyle.Render("A")
	case "modified":
		return modStyle.Render("M")
	case "deleted":
		return deleteStyle.Render("D")
	default:
		return "?"
	}
}
