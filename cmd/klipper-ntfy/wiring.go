package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/console"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/gcode"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/notify"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/observability"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/plugin"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/store"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/tui"
)

// entryBuffer is the console entry channel capacity.
const entryBuffer = 256

// app holds the components wired for one CLI invocation.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	history  *store.JSONL // nil when history is disabled
	registry *gcode.Registry
	service  *notify.Service
}

// appOptions overrides parts of the wiring.
type appOptions struct {
	forceVerbose bool
	logger       *zap.Logger
	dispatcher   *notify.Dispatcher
}

// loadConfig loads ntfy.toml from path, or searches for it when path is empty.
func loadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}

// openApp loads the configuration and wires the application around it.
func openApp(cfgPath string, opts appOptions) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	return wireApp(cfg, opts)
}

// wireApp builds the logger, metrics, history store and command registry,
// then loads the NTFY command into the registry.
func wireApp(cfg *config.Config, opts appOptions) (*app, error) {
	if opts.forceVerbose {
		cfg.Ntfy.Verbose = true
	}

	logger := opts.logger
	if logger == nil {
		l, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Path)
		if err != nil {
			return nil, err
		}
		logger = l
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  observability.NewMetrics(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job),
		registry: gcode.NewRegistry(),
	}

	pluginOpts := plugin.Options{
		Logger:     logger,
		Metrics:    a.metrics,
		Dispatcher: opts.dispatcher,
	}
	if cfg.History.Enabled {
		h, err := store.NewJSONL(cfg.History.Dir)
		if err != nil {
			return nil, err
		}
		a.history = h
		pluginOpts.History = h
	}

	svc, err := plugin.Load(cfg.Ntfy, a.registry, pluginOpts)
	if err != nil {
		if a.history != nil {
			_ = a.history.Close()
		}
		return nil, err
	}
	a.service = svc
	return a, nil
}

// closeTimeout bounds the shutdown work done by closeApp.
const closeTimeout = 10 * time.Second

// Close pushes metrics, closes the history session and prunes old sessions.
// A failed push is logged, not returned.
func (a *app) Close(ctx context.Context) error {
	var errs []error

	if a.history != nil {
		if err := a.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close history: %w", err))
		}
		if err := store.EnforceRetention(a.cfg.History.Dir, a.cfg.History.Retention); err != nil {
			errs = append(errs, err)
		}
	}

	if err := a.metrics.Push(ctx); err != nil {
		a.logger.Warn("push metrics", zap.Error(err))
	}

	return errors.Join(errs...)
}

// closeApp closes a on its own deadline, so a command cancelled by SIGINT
// still pushes metrics. The close error is logged and returned.
func closeApp(a *app) error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := a.Close(ctx)
	if err != nil {
		a.logger.Error("shutdown", zap.Error(err))
	}
	_ = a.logger.Sync()
	return err
}

// historyReader returns the history store as a store.Reader, or nil.
func (a *app) historyReader() store.Reader {
	if a.history == nil {
		return nil
	}
	return a.history
}

// runConsoleTUI runs the interactive console until the user quits or ctx is
// cancelled.
func runConsoleTUI(ctx context.Context, a *app) error {
	entries := make(chan console.Entry, entryBuffer)
	ntfy := a.service.Config()

	model := tui.New(a.registry, entries, tui.Options{
		Server:      ntfy.Server,
		Port:        ntfy.Port,
		Topic:       ntfy.Topic,
		Verbose:     ntfy.Verbose,
		AccentColor: a.cfg.Console.AccentColor,
		History:     a.historyReader(),
		Context:     ctx,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	return finishTUI(program)
}

// finishTUI runs the program and treats cancellation as a normal exit.
func finishTUI(program *tea.Program) error {
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// runREPL reads command lines from in until EOF, "quit" or cancellation.
// Command errors are written to out and do not stop the loop.
func runREPL(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	sink := console.NewWriterSink(out)
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}
		if err := a.registry.Run(ctx, line, sink); err != nil {
			a.logger.Debug("console command failed", zap.String("line", line), zap.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read console input: %w", err)
	}
	return nil
}
