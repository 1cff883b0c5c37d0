// Package components holds reusable bubbletea widgets for the console TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxLines bounds the scrollback of a LogView.
const DefaultMaxLines = 2000

// LogView is a scrollable console log that wraps bubbles/viewport.
// In follow mode (default), new lines scroll the view to the bottom.
// Scrolling up leaves follow mode; ToggleFollow turns it back on.
type LogView struct {
	vp       viewport.Model
	lines    []string // rendered (pre-styled) entries; may contain newlines
	maxLines int
	follow   bool
	width    int
	height   int
}

// NewLogView creates a LogView with the given dimensions, initially in follow mode.
func NewLogView(w, h int) LogView {
	return LogView{
		vp:       viewport.New(w, h),
		maxLines: DefaultMaxLines,
		follow:   true,
		width:    w,
		height:   h,
	}
}

// AppendLine appends a pre-rendered entry, dropping the oldest beyond maxLines.
func (v LogView) AppendLine(rendered string) LogView {
	v.lines = append(v.lines, rendered)
	if len(v.lines) > v.maxLines {
		v.lines = append([]string(nil), v.lines[len(v.lines)-v.maxLines:]...)
	}
	return v.refresh()
}

// Clear removes all lines and re-enables follow mode.
func (v LogView) Clear() LogView {
	v.lines = nil
	v.follow = true
	return v.refresh()
}

// Len returns the number of entries held.
func (v LogView) Len() int {
	return len(v.lines)
}

// ToggleFollow switches follow mode on or off.
// When turned on, scrolls immediately to the bottom.
func (v LogView) ToggleFollow() LogView {
	v.follow = !v.follow
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// SetSize resizes the log view to the given dimensions.
func (v LogView) SetSize(w, h int) LogView {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Following reports whether follow mode is currently active.
func (v LogView) Following() bool {
	return v.follow
}

// ScrollPercent reports the viewport scroll position in [0, 1].
func (v LogView) ScrollPercent() float64 {
	return v.vp.ScrollPercent()
}

// Update handles scroll keys and mouse events.
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	if v.follow && !v.vp.AtBottom() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			v.follow = false
		}
	}
	return v, cmd
}

// View renders the log view content.
func (v LogView) View() string {
	return v.vp.View()
}

func (v LogView) refresh() LogView {
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}
