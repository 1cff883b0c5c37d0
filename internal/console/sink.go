package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// WriterSink writes console output to w the way the printer console shows
// it: info lines prefixed with "// ", errors with "!! ".
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a WriterSink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// RespondInfo writes msg, one prefixed line per line of msg.
func (s *WriterSink) RespondInfo(msg string) {
	s.write("// ", msg)
}

// RespondError writes msg as an error line.
func (s *WriterSink) RespondError(msg string) {
	s.write("!! ", msg)
}

func (s *WriterSink) write(prefix, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(s.w, "%s%s\n", prefix, line)
	}
}

// ChannelSink sends console output as Entries on a channel for TUI
// consumption. Sends block when the channel is full.
type ChannelSink struct {
	ch  chan<- Entry
	now func() time.Time
}

// NewChannelSink returns a ChannelSink sending on ch.
func NewChannelSink(ch chan<- Entry) *ChannelSink {
	return &ChannelSink{ch: ch, now: time.Now}
}

// RespondInfo sends msg as an info entry. Status and Response lines are
// tagged as responses so the TUI can highlight them.
func (s *ChannelSink) RespondInfo(msg string) {
	kind := KindInfo
	if strings.HasPrefix(msg, "Status: ") || strings.HasPrefix(msg, "Response: ") {
		kind = KindResponse
	}
	s.Emit(kind, msg)
}

// RespondError sends msg as an error entry.
func (s *ChannelSink) RespondError(msg string) {
	s.Emit(KindError, msg)
}

// Emit sends an entry of the given kind.
func (s *ChannelSink) Emit(kind Kind, msg string) {
	s.ch <- Entry{Kind: kind, Timestamp: s.now(), Message: msg}
}
