package notify

import (
	"context"
	"errors"
	"net"
)

// ErrorKind classifies why a dispatch never completed an HTTP exchange.
// Configuration and usage problems are returned as errors instead.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota // dispatch exceeded its time budget
	KindNetwork                  // transport, TLS or protocol failure
)

// String returns the lower-case name used in logs, metrics and history.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Outcome is the result of one dispatch: either Delivered or Failed.
type Outcome interface {
	// Label is "delivered" or the failure kind.
	Label() string
	outcome()
}

// Delivered is a completed HTTP exchange with any status code.
type Delivered struct {
	StatusCode int
	Reason     string
	Body       string
}

func (Delivered) Label() string { return "delivered" }
func (Delivered) outcome()      {}

// Success reports whether the relay answered with a 2xx status.
func (d Delivered) Success() bool {
	return d.StatusCode >= 200 && d.StatusCode < 300
}

// Failed is a dispatch that never completed an HTTP exchange.
type Failed struct {
	Kind   ErrorKind
	Detail string
}

func (f Failed) Label() string { return f.Kind.String() }
func (Failed) outcome()        {}

// failedFromError converts a transport error into a Failed outcome.
func failedFromError(err error) Failed {
	if isTimeout(err) {
		return Failed{Kind: KindTimeout, Detail: err.Error()}
	}
	return Failed{Kind: KindNetwork, Detail: err.Error()}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
