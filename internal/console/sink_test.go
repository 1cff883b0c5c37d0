package console

import (
	"bytes"
	"testing"
	"time"
)

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	s.RespondInfo("Status: 200 OK")
	s.RespondInfo("Ntfy notification for Klipper.\nUSAGE: NTFY MSG=\"message\"")
	s.RespondError(`Unknown command:"FOO"`)

	want := "// Status: 200 OK\n" +
		"// Ntfy notification for Klipper.\n" +
		"// USAGE: NTFY MSG=\"message\"\n" +
		"!! Unknown command:\"FOO\"\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Entry, 8)
	s := NewChannelSink(ch)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.RespondInfo("Sending Ntfy message: T - M")
	s.RespondInfo("Status: 200 OK")
	s.RespondInfo("Response: ok")
	s.RespondError("boom")
	s.Emit(KindCommand, "NTFY MSG=M")
	close(ch)

	want := []Entry{
		{KindInfo, fixed, "Sending Ntfy message: T - M"},
		{KindResponse, fixed, "Status: 200 OK"},
		{KindResponse, fixed, "Response: ok"},
		{KindError, fixed, "boom"},
		{KindCommand, fixed, "NTFY MSG=M"},
	}
	var got []Entry
	for e := range ch {
		got = append(got, e)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindInfo:     "info",
		KindCommand:  "command",
		KindResponse: "response",
		KindError:    "error",
		Kind(42):     "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
