package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/console"
)

func TestNewTheme(t *testing.T) {
	for _, accent := range []string{"", "#FF0000"} {
		th := NewTheme(accent)
		_ = th.AccentHeaderStyle().Render("x")
		_ = th.PromptStyle().Render("x")
	}
}

func TestRenderEntry_AllKinds(t *testing.T) {
	th := NewTheme("")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    console.Entry
		contains []string
	}{
		{"command", console.Entry{Kind: console.KindCommand, Timestamp: now, Message: "NTFY MSG=hi"}, []string{"12:00:00", "> NTFY MSG=hi"}},
		{"response", console.Entry{Kind: console.KindResponse, Timestamp: now, Message: "Status: 200 OK"}, []string{"Status: 200 OK"}},
		{"error", console.Entry{Kind: console.KindError, Timestamp: now, Message: "boom"}, []string{"!! boom"}},
		{"info", console.Entry{Kind: console.KindInfo, Timestamp: now, Message: "Sending Ntfy message: T - M"}, []string{"Sending Ntfy message: T - M"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := th.RenderEntry(tt.entry, 120)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("RenderEntry() missing %q: %q", want, got)
				}
			}
		})
	}
}

func TestRenderEntry_MultiLine(t *testing.T) {
	th := NewTheme("")
	entry := console.Entry{Kind: console.KindInfo, Timestamp: time.Now(), Message: "first\nsecond"}
	got := th.RenderEntry(entry, 120)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if !strings.HasPrefix(lines[1], strings.Repeat(" ", timestampWidth)) {
		t.Errorf("continuation line should be indented: %q", lines[1])
	}
}

func TestRenderEntry_Truncates(t *testing.T) {
	th := NewTheme("")
	entry := console.Entry{Kind: console.KindInfo, Timestamp: time.Now(), Message: strings.Repeat("x", 300)}
	got := th.RenderEntry(entry, 60)
	if !strings.Contains(got, "…") {
		t.Errorf("expected truncation ellipsis: %q", got)
	}
	if strings.Contains(got, strings.Repeat("x", 60)) {
		t.Error("line should be cut to the available width")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"Status: 200 OK", 200},
		{"Status: 404 Not Found", 404},
		{"Status: 5xx", 0},
		{"Response: ok", 0},
		{"Status: ", 0},
	}
	for _, tt := range tests {
		if got := statusCode(tt.line); got != tt.want {
			t.Errorf("statusCode(%q) = %d, want %d", tt.line, got, tt.want)
		}
		_ = statusStyle(tt.line).Render(tt.line)
	}
}

func TestIsGlobalKey(t *testing.T) {
	for _, k := range GlobalKeyBindings {
		if !IsGlobalKey(k) {
			t.Errorf("IsGlobalKey(%q) = false", k)
		}
	}
	if IsGlobalKey("q") {
		t.Error("q must reach the input line")
	}
}
