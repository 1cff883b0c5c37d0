package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/gcode"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/notify"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/store"
)

func TestExecuteSend(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		msg       string
		title     string
		wantErr   error
		wantBody  []string
		wantLines []string
	}{
		{
			name:     "quiet send writes nothing",
			msg:      "Print done",
			wantBody: []string{"Print done"},
		},
		{
			name:     "verbose send reports the response",
			verbose:  true,
			msg:      "Print done",
			title:    "Voron",
			wantBody: []string{"Print done"},
			wantLines: []string{
				"// Sending Ntfy message: Voron - Print done",
				"// Status: 200 OK",
				"// Response: ",
			},
		},
		{
			name:      "empty message prints usage",
			msg:       "",
			wantErr:   notify.ErrEmptyMessage,
			wantLines: []string{"// Ntfy notification for Klipper.", "// TITLE parameter is optional"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := newTestRelay(t, 200)
			a := openTestApp(t, relay, tt.verbose, "")
			defer a.Close(context.Background())

			var out bytes.Buffer
			err := executeSend(context.Background(), a, tt.msg, tt.title, &out)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("executeSend error = %v, want %v", err, tt.wantErr)
			}

			bodies := relay.Bodies()
			if len(bodies) != len(tt.wantBody) {
				t.Fatalf("relay got %d requests, want %d", len(bodies), len(tt.wantBody))
			}
			for i, want := range tt.wantBody {
				if bodies[i] != want {
					t.Errorf("body[%d] = %q, want %q", i, bodies[i], want)
				}
			}

			got := out.String()
			if len(tt.wantLines) == 0 && got != "" {
				t.Errorf("expected no output, got %q", got)
			}
			for _, want := range tt.wantLines {
				if !strings.Contains(got, want+"\n") {
					t.Errorf("output missing line %q\ngot:\n%s", want, got)
				}
			}
		})
	}
}

func TestExecuteLines(t *testing.T) {
	relay := newTestRelay(t, 200)
	a := openTestApp(t, relay, false, "")
	defer a.Close(context.Background())

	var out bytes.Buffer
	err := executeLines(context.Background(), a, []string{
		`NTFY MSG="first"`,
		"HELP",
		"BOGUS",
		`NTFY MSG="never sent"`,
	}, &out)

	var unknown *gcode.UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *gcode.UnknownCommandError", err)
	}
	if unknown.Name != "BOGUS" {
		t.Errorf("unknown command = %q, want BOGUS", unknown.Name)
	}

	bodies := relay.Bodies()
	if len(bodies) != 1 || bodies[0] != "first" {
		t.Errorf("relay bodies = %q, want [first]", bodies)
	}

	got := out.String()
	for _, want := range []string{"Available extended commands:", "NTFY", `!! Unknown command:"BOGUS"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestShowCheck(t *testing.T) {
	cfg := config.Defaults()
	cfg.Ntfy.Topic = "my-alerts"
	cfg.Ntfy.Token = "tk_abcdefghijkl"
	cfg.Ntfy.Link = "https://example.com"

	var out bytes.Buffer
	if err := showCheck(&cfg, &out); err != nil {
		t.Fatalf("showCheck: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Configuration OK",
		"Endpoint: POST https://ntfy.sh/my-alerts",
		"Title: Klipper Notification",
		"Click: https://example.com",
		"Authorization: Bearer tk_a****",
		"History: disabled",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, got)
		}
	}
	if strings.Contains(got, "tk_abcdefghijkl") {
		t.Errorf("output leaks the token:\n%s", got)
	}
}

func TestShowCheckInvalidConfig(t *testing.T) {
	cfg := config.Defaults()

	var out bytes.Buffer
	err := showCheck(&cfg, &out)
	var cfgErr *config.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *config.ConfigurationError", err)
	}
	if cfgErr.Field != "ntfy_module.topic" {
		t.Errorf("Field = %q, want ntfy_module.topic", cfgErr.Field)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bearer tk_abcdefghijkl", "Bearer tk_a****"},
		{"Bearer short", "Bearer ****"},
		{"bare-token-value", "bare****"},
		{"", "****"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := maskToken(tt.in); got != tt.want {
				t.Errorf("maskToken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatRecord(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rec      store.Record
		contains []string
	}{
		{
			name: "delivered",
			rec: store.Record{
				Timestamp: ts, Topic: "my-alerts", Title: "Voron", Message: "Print done",
				Outcome: store.OutcomeDelivered, StatusCode: 200, Reason: "OK", DurationMS: 42,
			},
			contains: []string{"✓", "my-alerts", "Voron", `"Print done"`, "200 OK", "(42ms)"},
		},
		{
			name: "rejected",
			rec: store.Record{
				Timestamp: ts, Topic: "my-alerts", Message: "x",
				Outcome: store.OutcomeDelivered, StatusCode: 403, Reason: "Forbidden",
			},
			contains: []string{"✗", "403 Forbidden", " - "},
		},
		{
			name: "timeout",
			rec: store.Record{
				Timestamp: ts, Topic: "my-alerts", Message: "x",
				Outcome: store.OutcomeTimeout, Detail: "context deadline exceeded", DurationMS: 5000,
			},
			contains: []string{"✗", "timeout: context deadline exceeded", "(5s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatRecord(tt.rec)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatRecord should contain %q\ngot: %s", want, got)
				}
			}
		})
	}
}

func TestShowHistory(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		var out bytes.Buffer
		if err := showHistory(filepath.Join(t.TempDir(), "none"), 10, &out); err != nil {
			t.Fatalf("showHistory: %v", err)
		}
		if !strings.Contains(out.String(), "No notifications recorded.") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("malformed lines are reported", func(t *testing.T) {
		dir := t.TempDir()
		content := `{"id":"a","topic":"printer","message":"ok","outcome":"delivered","status_code":200}` + "\nnot json\n"
		writeFile(t, filepath.Join(dir, "1000000000-1.jsonl"), content)

		var out bytes.Buffer
		if err := showHistory(dir, 0, &out); err != nil {
			t.Fatalf("showHistory: %v", err)
		}
		got := out.String()
		if !strings.Contains(got, `"ok"`) {
			t.Errorf("output missing valid record\ngot:\n%s", got)
		}
		if !strings.Contains(got, "Skipped 1 malformed history line(s).") {
			t.Errorf("output missing skipped count\ngot:\n%s", got)
		}
	})

	t.Run("limit keeps the newest", func(t *testing.T) {
		dir := t.TempDir()
		w, err := store.NewJSONL(dir)
		if err != nil {
			t.Fatalf("NewJSONL: %v", err)
		}
		for _, msg := range []string{"one", "two", "three"} {
			if err := w.Append(store.Record{Topic: "printer", Message: msg, Outcome: store.OutcomeDelivered, StatusCode: 200}); err != nil {
				t.Fatalf("Append: %v", err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		var out bytes.Buffer
		if err := showHistory(dir, 2, &out); err != nil {
			t.Fatalf("showHistory: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
		}
		if !strings.Contains(lines[0], `"two"`) || !strings.Contains(lines[1], `"three"`) {
			t.Errorf("unexpected order:\n%s", out.String())
		}
	})
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	if err := runInit(dir, &out); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	for _, name := range []string{config.FileName, ".env.example", ".gitignore"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
		if !strings.Contains(out.String(), "Created "+filepath.Join(dir, name)) {
			t.Errorf("output missing %s\ngot:\n%s", name, out.String())
		}
	}

	out.Reset()
	if err := runInit(dir, &out); err != nil {
		t.Fatalf("second runInit: %v", err)
	}
	if !strings.Contains(out.String(), "nothing to create") {
		t.Errorf("second run output = %q", out.String())
	}
}
