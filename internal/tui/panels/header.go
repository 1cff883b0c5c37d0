// Package panels renders the fixed bars of the console TUI.
package panels

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
// String fields for state avoid importing the parent tui package (circular dep prevention).
type HeaderProps struct {
	Server      string
	Port        int
	Topic       string
	Verbose     bool
	Sent        int
	Failed      int
	StateSymbol string // e.g. "✓", "●", "✗"
	StateLabel  string // e.g. "READY", "SENDING"
	Spinner     string // rendered spinner frame while sending; empty otherwise
	Clock       time.Time
}

// Target returns "server[:port]/topic" the way the endpoint URL shows it.
func Target(server string, port int, topic string) string {
	host := server
	if port != 0 && port != 443 {
		host = net.JoinHostPort(server, strconv.Itoa(port))
	}
	if host == "" {
		host = "—"
	}
	if topic == "" {
		topic = "—"
	}
	return host + "/" + topic
}

// RenderHeader renders the header bar. accentStyle is applied to the full width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	verbose := "off"
	if props.Verbose {
		verbose = "on"
	}

	parts := []string{
		"🔔 klipper-ntfy",
		Target(props.Server, props.Port, props.Topic),
		"verbose: " + verbose,
		fmt.Sprintf("sent: %d  failed: %d", props.Sent, props.Failed),
	}

	state := props.StateLabel
	if props.StateSymbol != "" && props.StateLabel != "" {
		state = props.StateSymbol + " " + props.StateLabel
	}
	if props.Spinner != "" {
		state = strings.TrimSpace(state + " " + props.Spinner)
	}
	if state != "" {
		parts = append(parts, state)
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	return accentStyle.Width(width).Render(strings.Join(parts, "  │  "))
}
