// Package console carries host console output to a terminal writer or to
// the interactive TUI.
package console

import "time"

// Kind identifies the type of a console entry.
type Kind int

const (
	KindInfo     Kind = iota // Informational line from a command
	KindCommand              // Command line entered by the operator
	KindResponse             // Result line (status, response body)
	KindError                // Error raised while running a command
)

// String returns a short lower-case label.
func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindCommand:
		return "command"
	case KindResponse:
		return "response"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is one line of console output.
type Entry struct {
	Kind      Kind
	Timestamp time.Time
	Message   string
}
