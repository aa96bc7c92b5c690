// Package telemetry turns dashboard events into log lines and Prometheus counters.
package telemetry

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/goliatone/go-growth-dashboard/pkg/logger"
)

const namespace = "dashboard"

// Recorder implements dashboard.Telemetry.
type Recorder struct {
	log      logger.Logger
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	requests *prometheus.CounterVec
}

var _ dashboard.Telemetry = (*Recorder)(nil)

// Option customizes a Recorder.
type Option func(*Recorder)

// WithLogger sets the event logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRegistry uses an existing registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// New builds a Recorder and registers its collectors.
func New(opts ...Option) *Recorder {
	r := &Recorder{log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}
	auto := promauto.With(r.registry)
	r.events = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Dashboard render events by name.",
	}, []string{"event"})
	r.requests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served by the dashboard.",
	}, []string{"code", "method"})
	return r
}

// Record implements dashboard.Telemetry.
func (r *Recorder) Record(ctx context.Context, event string, payload map[string]any) {
	r.events.WithLabelValues(event).Inc()

	fields := make([]logger.Field, 0, len(payload)+1)
	fields = append(fields, logger.String("event", event))
	for k, v := range payload {
		fields = append(fields, logger.Any(k, v))
	}
	if isFailure(event, payload) {
		r.log.Warn(ctx, "dashboard event", fields...)
		return
	}
	r.log.Debug(ctx, "dashboard event", fields...)
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Instrument counts requests served by next.
func (r *Recorder) Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(r.requests, next)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func isFailure(event string, payload map[string]any) bool {
	if strings.HasSuffix(event, "_error") || strings.HasSuffix(event, ".rejected") {
		return true
	}
	failed, _ := payload["failed"].(bool)
	return failed
}
