package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus collectors for notification dispatch.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	DispatchTotal       *prometheus.CounterVec
	DispatchDurationSec prometheus.Histogram
	HTTPStatusTotal     *prometheus.CounterVec
	UsageErrorsTotal    prometheus.Counter

	registry *prometheus.Registry
	pusher   *push.Pusher
}

// NewMetrics creates a Metrics instance on a private registry. When
// pushgatewayURL and jobName are both set, Push sends the registry there.
func NewMetrics(pushgatewayURL, jobName string) *Metrics {
	m := &Metrics{
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "klipper_ntfy_dispatch_total",
			Help: "Notification dispatches by outcome (delivered, timeout, network)",
		}, []string{"outcome"}),
		DispatchDurationSec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "klipper_ntfy_dispatch_duration_seconds",
			Help:    "Duration of notification dispatches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		HTTPStatusTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "klipper_ntfy_http_status_total",
			Help: "Completed HTTP exchanges by response status code",
		}, []string{"code"}),
		UsageErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "klipper_ntfy_usage_errors_total",
			Help: "NTFY invocations without a message",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.DispatchTotal,
		m.DispatchDurationSec,
		m.HTTPStatusTotal,
		m.UsageErrorsTotal,
	)

	if pushgatewayURL != "" && jobName != "" {
		m.pusher = push.New(pushgatewayURL, jobName).
			Gatherer(m.registry)
	}

	return m
}

// RecordDispatch records one dispatch. statusCode is 0 when no HTTP
// exchange completed.
func (m *Metrics) RecordDispatch(outcome string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(outcome).Inc()
	m.DispatchDurationSec.Observe(duration.Seconds())
	if statusCode > 0 {
		m.HTTPStatusTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	}
}

// RecordUsageError records an NTFY invocation that had no message.
func (m *Metrics) RecordUsageError() {
	if m == nil {
		return
	}
	m.UsageErrorsTotal.Inc()
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// Push sends all metrics to the Pushgateway. It is a no-op when no
// Pushgateway is configured.
func (m *Metrics) Push(ctx context.Context) error {
	if m == nil || m.pusher == nil {
		return nil
	}

	if err := m.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to Pushgateway: %w", err)
	}
	return nil
}
