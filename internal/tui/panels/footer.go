package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Following bool
	InFlight  int
	LastError string
}

// RenderFooter renders the footer bar.
// Left side: last error or in-flight count. Right side: keybinding hints.
func RenderFooter(props FooterProps, width int) string {
	var left string
	switch {
	case props.LastError != "":
		left = "last error: " + props.LastError
	case props.InFlight > 0:
		left = fmt.Sprintf("%d in flight", props.InFlight)
	default:
		left = "type HELP for commands"
	}

	follow := "ctrl+f:follow"
	if !props.Following {
		follow = "ctrl+f:follow (paused)"
	}
	right := "enter:send  ↑/↓:history  pgup/pgdn:scroll  " + follow + "  ctrl+l:clear  esc:quit"
	if len([]rune(right))+20 > width {
		right = "enter:send  esc:quit"
	}

	maxLeft := width - len([]rune(right)) - 2
	if maxLeft < 10 {
		maxLeft = 10
	}
	if runes := []rune(left); len(runes) > maxLeft {
		left = string(runes[:maxLeft-1]) + "…"
	}

	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
