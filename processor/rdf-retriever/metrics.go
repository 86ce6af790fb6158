package rdfretriever

import (
	"errors"
	"time"

	"github.com/c360studio/semrdf/retriever"
	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels beyond the fetch statuses.
const (
	outcomeInvalid = "invalid"
	outcomePublish = "publish_error"
)

// fetchMetrics holds Prometheus metrics for retrievals.
type fetchMetrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

// newFetchMetrics creates and registers retrieval metrics. A nil registry
// yields nil, and all methods are no-ops on a nil receiver.
func newFetchMetrics(registry *metric.MetricsRegistry) *fetchMetrics {
	if registry == nil {
		return nil
	}

	m := &fetchMetrics{
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "semrdf_fetch_total",
				Help: "Total number of resource retrievals by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "semrdf_fetch_duration_seconds",
				Help:    "Duration of resource retrievals",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
		),
	}

	// Registration fails only on duplicates, e.g. when a second instance shares the registry.
	_ = registry.RegisterCounterVec("semrdf", "fetch_total", m.fetchTotal)
	_ = registry.RegisterHistogram("semrdf", "fetch_duration_seconds", m.fetchDuration)

	return m
}

func (m *fetchMetrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(elapsed.Seconds())
}

// outcomeLabel maps a handler result or error onto a metric label.
func outcomeLabel(result *Result, err error) string {
	if err == nil && result != nil {
		return string(result.Status)
	}
	if errors.Is(err, ErrInvalidEvent) {
		return outcomeInvalid
	}
	return string(retriever.Kind(err))
}
