// Package observability provides Prometheus metrics for pusher runs.
// A run is short-lived, so metrics are pushed to a Pushgateway instead of scraped.
package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run and attempt status labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusEmpty   = "empty"
)

// Metrics holds all Prometheus metrics for one run.
type Metrics struct {
	registry *prometheus.Registry

	// Source metrics
	SourceAttempts      *prometheus.CounterVec
	SourceFetchDuration *prometheus.HistogramVec

	// Pipeline metrics
	RowsFetched  prometheus.Gauge
	RowsAdmitted prometheus.Gauge
	IdeasPushed  prometheus.Gauge
	RunDuration  prometheus.Histogram
	RunsTotal    *prometheus.CounterVec

	// Health metrics
	LastSuccess prometheus.Gauge
}

// NewMetrics creates a Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "ideas_pusher"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SourceAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "attempts_total",
			Help:      "Ticker source attempts by outcome",
		}, []string{"source", "status"}),
		SourceFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching and normalizing one source",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),

		RowsFetched: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "rows_fetched",
			Help:      "Normalized rows from the selected source",
		}),
		RowsAdmitted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "rows_admitted",
			Help:      "Rows passing the liquidity filter",
		}),
		IdeasPushed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "ideas_pushed",
			Help:      "Ideas delivered in the last run",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Wall time of a run",
			Buckets:   []float64{1, 5, 10, 30, 60, 120},
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "total",
			Help:      "Runs by outcome",
		}, []string{"status"}),

		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful push",
		}),
	}
}

// Registry returns the registry holding these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSourceAttempt records one fallback attempt.
func (m *Metrics) RecordSourceAttempt(source, status string, elapsed time.Duration) {
	m.SourceAttempts.WithLabelValues(source, status).Inc()
	m.SourceFetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordRun records the outcome of a run.
func (m *Metrics) RecordRun(status string, elapsed time.Duration, finishedAt time.Time) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
	if status == StatusSuccess {
		m.LastSuccess.Set(float64(finishedAt.Unix()))
	}
}

// Push sends all metrics to a Pushgateway under job. An empty URL is a no-op.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string, client *http.Client) error {
	if gatewayURL == "" {
		return nil
	}
	p := push.New(gatewayURL, job).Gatherer(m.registry)
	if client != nil {
		p = p.Client(client)
	}
	return p.PushContext(ctx)
}
