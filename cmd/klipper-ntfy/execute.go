package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/console"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/notify"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/store"
)

// executeSend performs one NTFY invocation with msg and title. An empty msg
// prints the usage text and returns notify.ErrEmptyMessage.
func executeSend(ctx context.Context, a *app, msg, title string, w io.Writer) error {
	req := notify.NewRequest(msg, title, a.service.Config())
	_, err := a.service.Send(ctx, req, console.NewWriterSink(w))
	return err
}

// executeLines runs each command line through the registry, stopping at the
// first failing line.
func executeLines(ctx context.Context, a *app, lines []string, w io.Writer) error {
	sink := console.NewWriterSink(w)
	for _, line := range lines {
		if err := a.registry.Run(ctx, line, sink); err != nil {
			return err
		}
	}
	return nil
}

// showCheck prints the resolved endpoint for cfg with the token masked.
func showCheck(cfg *config.Config, w io.Writer) error {
	ep, err := notify.Resolve(cfg.Ntfy, notify.NewRequest("check", "", cfg.Ntfy))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Configuration OK")
	fmt.Fprintf(w, "Endpoint: POST %s\n", ep.URL)
	for _, h := range ep.Headers {
		value := h.Value
		if h.Name == "Authorization" {
			value = maskToken(value)
		}
		fmt.Fprintf(w, "  %s: %s\n", h.Name, value)
	}
	fmt.Fprintf(w, "Verbose: %t\n", cfg.Ntfy.Verbose)
	fmt.Fprintf(w, "Log level: %s\n", cfg.Log.Level)
	if cfg.History.Enabled {
		fmt.Fprintf(w, "History: %s (keep %d sessions)\n", cfg.History.Dir, cfg.History.Retention)
	} else {
		fmt.Fprintln(w, "History: disabled")
	}
	if cfg.Metrics.PushgatewayURL != "" {
		fmt.Fprintf(w, "Metrics: %s (job %s)\n", cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)
	}
	return nil
}

// maskToken keeps the scheme and the first four token characters of an
// Authorization value.
func maskToken(value string) string {
	scheme, token, ok := strings.Cut(value, " ")
	if !ok {
		token, scheme = value, ""
	}
	masked := "****"
	if len(token) > 8 {
		masked = token[:4] + "****"
	}
	if scheme == "" {
		return masked
	}
	return scheme + " " + masked
}

// showHistory prints the most recent records under dir, oldest first.
func showHistory(dir string, limit int, w io.Writer) error {
	records, skipped, err := store.ReadRecent(dir, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No notifications recorded.")
	}
	for _, rec := range records {
		fmt.Fprintln(w, formatRecord(rec))
	}
	if skipped > 0 {
		fmt.Fprintf(w, "Skipped %d malformed history line(s).\n", skipped)
	}
	return nil
}

// formatRecord renders one history record as a single line.
func formatRecord(rec store.Record) string {
	var result string
	if rec.Outcome == store.OutcomeDelivered {
		result = fmt.Sprintf("%d %s", rec.StatusCode, rec.Reason)
	} else {
		result = rec.Outcome
		if rec.Detail != "" {
			result += ": " + rec.Detail
		}
	}

	mark := "✓"
	if rec.Failed() {
		mark = "✗"
	}

	title := rec.Title
	if title == "" {
		title = "-"
	}

	return fmt.Sprintf("%s %s  %-12s  %s  %q  %s  (%s)",
		mark,
		rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
		rec.Topic,
		title,
		rec.Message,
		result,
		(time.Duration(rec.DurationMS) * time.Millisecond).String(),
	)
}

// runInit scaffolds the project files into dir and reports what was created.
func runInit(dir string, w io.Writer) error {
	created, err := config.ScaffoldProject(dir)
	for _, path := range created {
		fmt.Fprintf(w, "Created %s\n", path)
	}
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Fprintln(w, "All files already exist, nothing to create.")
	}
	return nil
}
