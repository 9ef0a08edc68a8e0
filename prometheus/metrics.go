package prometheus

import (
	"errors"
	"fmt"

	"github.com/abczzz13/weblog"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics is a Prometheus-backed implementation of weblog.Metrics.
type PrometheusMetrics struct {
	recordsWritten *prom.CounterVec
	panicsCaught   *prom.CounterVec
}

// WithMetrics returns a weblog option that installs Prometheus-backed
// metrics using prom.DefaultRegisterer.
func WithMetrics() weblog.Option {
	return weblog.WithMetricsFactory(func() (weblog.Metrics, error) {
		return New()
	})
}

// WithRegisterer returns a weblog option that installs Prometheus-backed
// metrics using the provided registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used.
func WithRegisterer(registerer prom.Registerer) weblog.Option {
	return weblog.WithMetricsFactory(func() (weblog.Metrics, error) {
		return NewWithRegisterer(registerer)
	})
}

// New creates PrometheusMetrics and registers its collectors on
// prom.DefaultRegisterer.
func New() (*PrometheusMetrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer creates PrometheusMetrics and registers its collectors on
// the given registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used. If the metrics are
// already registered, existing compatible collectors are reused.
func NewWithRegisterer(registerer prom.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	recordsWrittenCollector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: "weblog_records_written_total",
			Help: "Total number of log records written, labeled by level (DEBUG, INFO, WARN, ERROR).",
		},
		[]string{"level"},
	)
	panicsCaughtCollector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: "weblog_panics_caught_total",
			Help: "Panics caught by weblog guards, labeled by outcome (repanicked, suppressed).",
		},
		[]string{"outcome"},
	)

	recordsWritten, err := registerCounterVec(registerer, recordsWrittenCollector, "weblog_records_written_total")
	if err != nil {
		return nil, err
	}

	panicsCaught, err := registerCounterVec(registerer, panicsCaughtCollector, "weblog_panics_caught_total")
	if err != nil {
		return nil, err
	}

	return &PrometheusMetrics{
		recordsWritten: recordsWritten,
		panicsCaught:   panicsCaught,
	}, nil
}

func registerCounterVec(registerer prom.Registerer, collector *prom.CounterVec, metricName string) (*prom.CounterVec, error) {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prom.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prom.CounterVec)
			if ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %q already registered with incompatible collector type %T", metricName, alreadyRegistered.ExistingCollector)
		}

		return nil, fmt.Errorf("register metric %q: %w", metricName, err)
	}

	return collector, nil
}

// RecordWrite increments weblog_records_written_total for the provided level.
func (m *PrometheusMetrics) RecordWrite(level string) {
	m.recordsWritten.WithLabelValues(level).Inc()
}

// RecordPanic increments weblog_panics_caught_total for the provided outcome.
func (m *PrometheusMetrics) RecordPanic(outcome string) {
	m.panicsCaught.WithLabelValues(outcome).Inc()
}
