// Package store persists dispatch outcomes to a JSONL history log. One
// session file is written per process; nothing in the log is ever re-sent.
package store

import "time"

// Outcome labels stored in Record.Outcome.
const (
	OutcomeDelivered = "delivered"
	OutcomeTimeout   = "timeout"
	OutcomeNetwork   = "network"
)

// Record is one dispatch attempt.
type Record struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Topic      string    `json:"topic"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// Failed reports whether the record is a transport failure or a non-2xx
// response.
func (r Record) Failed() bool {
	if r.Outcome != OutcomeDelivered {
		return true
	}
	return r.StatusCode < 200 || r.StatusCode >= 300
}

// Writer persists dispatch records to durable storage.
type Writer interface {
	Append(rec Record) error
	Close() error
}

// Reader summarises the records written in this session.
type Reader interface {
	Summary() (Summary, error)
}

// Store combines Writer and Reader into a single session-scoped handle.
type Store interface {
	Writer
	Reader
}

// Summary aggregates the current session.
type Summary struct {
	SessionID string
	StartedAt time.Time
	Total     int
	Delivered int
	Failed    int
	LastError string
}
