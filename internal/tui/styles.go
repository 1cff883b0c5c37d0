// Package tui provides a bubbletea + lipgloss console for running host
// commands such as NTFY interactively.
package tui

import "github.com/charmbracelet/lipgloss"

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = "#7D56F4"

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
)

// Styles used across the TUI. Accent-dependent styles live on Theme.
var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	responseStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)

// statusStyle colors a "Status: NNN ..." line by its status class.
func statusStyle(line string) lipgloss.Style {
	code := statusCode(line)
	switch {
	case code >= 200 && code < 300:
		return successStyle
	case code >= 400 && code < 500:
		return warnStyle
	case code >= 500:
		return errorStyle
	default:
		return responseStyle
	}
}

// statusCode extracts NNN from "Status: NNN Reason", or 0.
func statusCode(line string) int {
	const prefix = "Status: "
	if len(line) < len(prefix)+3 || line[:len(prefix)] != prefix {
		return 0
	}
	code := 0
	for _, c := range line[len(prefix) : len(prefix)+3] {
		if c < '0' || c > '9' {
			return 0
		}
		code = code*10 + int(c-'0')
	}
	return code
}
