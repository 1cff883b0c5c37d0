// Package notify delivers one notification to an ntfy-compatible relay:
// the request is resolved into an HTTPS endpoint, posted once, and the
// outcome is reported to the host console.
package notify

import (
	"errors"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
)

// UsageText is shown whenever NTFY is invoked without a message.
const UsageText = "Ntfy notification for Klipper.\nUSAGE: NTFY MSG=\"message\" [TITLE=\"title\"]\nTITLE parameter is optional"

// ErrEmptyMessage is the usage error for a request without a message.
var ErrEmptyMessage = errors.New("notify: message is required")

// Sink is the host's line-oriented console output.
type Sink interface {
	RespondInfo(msg string)
}

// Request is one notification to send. The zero value is the empty
// sentinel and must not be dispatched.
type Request struct {
	Message string
	Title   string
}

// NewRequest builds a request. An empty message yields the empty sentinel.
// An empty titleOverride resolves to cfg.Title here, so the title is fixed
// for the lifetime of the request.
func NewRequest(message, titleOverride string, cfg config.NtfyConfig) Request {
	if message == "" {
		return Request{}
	}
	title := titleOverride
	if title == "" {
		title = cfg.Title
	}
	return Request{Message: message, Title: title}
}

// Empty reports whether r is the empty sentinel.
func (r Request) Empty() bool {
	return r.Message == ""
}
