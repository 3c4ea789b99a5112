package inspect

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	panel    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)
	title    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff00ff")).Background(lipgloss.Color("#1a001a"))
	keyHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)

// flag renders a one letter override marker: upper case when the override
// covers the subtree, dim when off.
func flag(letter string, on, subtree bool) string {
	switch {
	case on && subtree:
		return magenta.Render(strings.ToUpper(letter))
	case on:
		return green.Render(letter)
	}
	return dim.Render("·")
}

func separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	return dim.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
