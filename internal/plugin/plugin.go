// Package plugin wires the notification service into a host command
// registry as the NTFY command.
package plugin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/gcode"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/notify"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/observability"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/store"
)

// CommandName is the registered host command.
const CommandName = "NTFY"

// CommandHelp is the one-line description shown by HELP.
const CommandHelp = "Sending message to Ntfy.sh server"

// Options carries the optional collaborators of the service.
type Options struct {
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	History    store.Writer
	Dispatcher *notify.Dispatcher
}

// Load validates cfg, builds the notification service and registers NTFY
// on reg. A configuration error aborts before anything is registered.
func Load(cfg config.NtfyConfig, reg *gcode.Registry, opts Options) (*notify.Service, error) {
	svcOpts := []notify.Option{
		notify.WithLogger(opts.Logger),
		notify.WithMetrics(opts.Metrics),
		notify.WithDispatcher(opts.Dispatcher),
	}
	if opts.History != nil {
		svcOpts = append(svcOpts, notify.WithHistory(opts.History))
	}

	svc, err := notify.NewService(cfg, svcOpts...)
	if err != nil {
		return nil, err
	}

	if err := reg.Register(CommandName, &command{svc: svc}, CommandHelp); err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Info("ntfy module loaded",
			zap.String("server", cfg.Server),
			zap.Int("port", cfg.Port),
			zap.String("topic", cfg.Topic),
			zap.Bool("verbose", cfg.Verbose),
		)
	}
	return svc, nil
}

// command adapts notify.Service to gcode.Handler.
type command struct {
	svc *notify.Service
}

// Handle reads MSG and TITLE and sends the notification. A missing MSG
// has already printed the usage text and is not an error.
func (c *command) Handle(ctx context.Context, params gcode.Params, sink gcode.Sink) error {
	req := notify.NewRequest(params.Get("MSG", ""), params.Get("TITLE", ""), c.svc.Config())
	_, err := c.svc.Send(ctx, req, sink)
	if errors.Is(err, notify.ErrEmptyMessage) {
		return nil
	}
	return err
}
