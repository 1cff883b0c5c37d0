package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/observability"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/store"
)

// Service runs the full pipeline for one request: check, resolve,
// dispatch, report. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	cfg        config.NtfyConfig
	dispatcher *Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	history    store.Writer
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records every dispatch into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHistory appends every dispatch outcome to w.
func WithHistory(w store.Writer) Option {
	return func(s *Service) { s.history = w }
}

// WithDispatcher replaces the default Dispatcher. The Service keeps its
// own copy, so d is never modified.
func WithDispatcher(d *Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			cp := *d
			s.dispatcher = &cp
		}
	}
}

// NewService validates cfg and returns a ready Service. A bad configuration
// is reported here, before any command is registered.
func NewService(cfg config.NtfyConfig, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		cfg:        cfg,
		dispatcher: NewDispatcher(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatcher.Logger == nil {
		s.dispatcher.Logger = s.logger
	}
	return s, nil
}

// Config returns the immutable configuration the Service was built with.
func (s *Service) Config() config.NtfyConfig {
	return s.cfg
}

// Send delivers req and reports the outcome to sink.
//
// The empty request writes UsageText and returns ErrEmptyMessage without
// touching the network. A configuration problem returns its error. Otherwise
// the returned error is nil and the Outcome tells what happened; non-2xx
// responses are Delivered, not errors.
func (s *Service) Send(ctx context.Context, req Request, sink Sink) (Outcome, error) {
	if req.Empty() {
		if sink != nil {
			sink.RespondInfo(UsageText)
		}
		s.metrics.RecordUsageError()
		s.logger.Debug("ntfy invoked without a message")
		return nil, ErrEmptyMessage
	}

	if s.cfg.Verbose && sink != nil {
		sink.RespondInfo(fmt.Sprintf("Sending Ntfy message: %s - %s", req.Title, req.Message))
	}

	ep, err := Resolve(s.cfg, req)
	if err != nil {
		s.logger.Error("resolve endpoint", zap.Error(err))
		return nil, err
	}

	ctx = observability.WithRequestID(ctx, uuid.NewString())
	log := observability.WithContextLogger(s.logger, ctx)

	start := s.now()
	outcome := s.dispatcher.Dispatch(ctx, ep, req.Message)
	elapsed := s.now().Sub(start)

	rec := store.Record{
		Timestamp:  start,
		Topic:      s.cfg.Topic,
		Title:      req.Title,
		Message:    req.Message,
		Outcome:    outcome.Label(),
		DurationMS: elapsed.Milliseconds(),
	}
	if id, ok := observability.RequestIDFromContext(ctx); ok {
		rec.ID = id
	}

	switch o := outcome.(type) {
	case Delivered:
		rec.StatusCode = o.StatusCode
		rec.Reason = o.Reason
		fields := []zap.Field{
			zap.String("topic", s.cfg.Topic),
			zap.Int("status", o.StatusCode),
			zap.Duration("duration", elapsed),
		}
		if o.Success() {
			log.Info("notification delivered", fields...)
		} else {
			log.Warn("relay rejected notification", append(fields, zap.String("body", o.Body))...)
		}
		s.metrics.RecordDispatch(outcome.Label(), o.StatusCode, elapsed)
	case Failed:
		rec.Detail = o.Detail
		log.Warn("notification dispatch failed",
			zap.String("topic", s.cfg.Topic),
			zap.String("kind", o.Kind.String()),
			zap.String("detail", o.Detail),
			zap.Duration("duration", elapsed),
		)
		s.metrics.RecordDispatch(outcome.Label(), 0, elapsed)
	}

	if s.history != nil {
		if err := s.history.Append(rec); err != nil {
			log.Warn("append history", zap.Error(err))
		}
	}

	Report(outcome, s.cfg.Verbose, sink)
	return outcome, nil
}
