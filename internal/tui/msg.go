package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/console"
)

// entryMsg wraps a console Entry produced by a running command.
type entryMsg console.Entry

// entriesClosedMsg signals the entry channel closed.
type entriesClosedMsg struct{}

// commandDoneMsg reports that a command returned.
type commandDoneMsg struct {
	line string
	err  error
}

// tickMsg is sent every second for the clock.
type tickMsg time.Time
