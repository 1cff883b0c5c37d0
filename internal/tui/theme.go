package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/console"
)

// Theme holds accent-color-derived styles.
type Theme struct {
	accentStyle lipgloss.Style // header background
	promptStyle lipgloss.Style // input prompt and echoed commands
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		promptStyle: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
	}
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// PromptStyle returns the style of the input prompt.
func (t Theme) PromptStyle() lipgloss.Style {
	return t.promptStyle
}

// timestampWidth is the width of "[15:04:05]  ".
const timestampWidth = 12

// RenderEntry renders a console entry. Multi-line messages keep their
// line breaks, continuation lines indented under the first.
func (t Theme) RenderEntry(entry console.Entry, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", entry.Timestamp.Format("15:04:05")))
	maxText := width - timestampWidth
	if maxText < 20 {
		maxText = 20
	}

	lines := strings.Split(entry.Message, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		line = truncate(line, maxText)
		var styled string
		switch entry.Kind {
		case console.KindCommand:
			styled = t.promptStyle.Render("> " + line)
		case console.KindResponse:
			styled = statusStyle(line).Render(line)
		case console.KindError:
			styled = errorStyle.Render("!! " + line)
		default:
			styled = infoStyle.Render(line)
		}
		if i == 0 {
			out[i] = ts + "  " + styled
		} else {
			out[i] = strings.Repeat(" ", timestampWidth) + styled
		}
	}
	return strings.Join(out, "\n")
}

// truncate shortens s to max runes, ending with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
