package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	pinnedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// ColorEnabled reports whether stdout should receive ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Header styles a section heading.
func Header(value string) string {
	return render(headerStyle, value)
}

// Pinned styles the marker shown next to pinned tasks.
func Pinned(value string) string {
	return render(pinnedStyle, value)
}

// Muted styles secondary text.
func Muted(value string) string {
	return render(mutedStyle, value)
}

func render(style lipgloss.Style, value string) string {
	if value == "" || !ColorEnabled() {
		return value
	}
	return style.Render(value)
}
