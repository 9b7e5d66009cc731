// Package http provides the HTTP trigger surface for the fuel price scraper.
package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the scraper.
type Metrics struct {
	// Page fetch metrics
	FetchTotal    *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	// Ingestion metrics
	ProviderOutcomesTotal *prometheus.CounterVec
	RowsWrittenTotal      prometheus.Counter

	// Alert metrics
	AlertsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelwatch_fetch_total",
				Help: "Total number of aggregator page fetches by status",
			},
			[]string{"status"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fuelwatch_fetch_duration_seconds",
				Help:    "Aggregator page fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ProviderOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelwatch_provider_outcomes_total",
				Help: "Total number of per-provider ingestion outcomes",
			},
			[]string{"provider", "outcome"},
		),
		RowsWrittenTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fuelwatch_rows_written_total",
				Help: "Total number of price rows written to the database",
			},
		),
		AlertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelwatch_alerts_total",
				Help: "Total number of alert dispatch attempts by status",
			},
			[]string{"status"},
		),
	}
}

// RecordFetch records a page fetch attempt.
func (m *Metrics) RecordFetch(status string, duration float64) {
	m.FetchTotal.WithLabelValues(status).Inc()
	m.FetchDuration.Observe(duration)
}

// RecordProviderOutcome records the outcome of one provider in a run.
func (m *Metrics) RecordProviderOutcome(provider, outcome string) {
	m.ProviderOutcomesTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordRowsWritten records the rows written by an ingestion run.
func (m *Metrics) RecordRowsWritten(count float64) {
	m.RowsWrittenTotal.Add(count)
}

// RecordAlert records an alert dispatch attempt.
func (m *Metrics) RecordAlert(status string) {
	m.AlertsTotal.WithLabelValues(status).Inc()
}
