// Package metrics exposes the Prometheus instruments the HTTP server
// publishes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Simulations counts simulation runs by modality and outcome.
	Simulations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_simulations_total",
			Help: "Total number of financing simulations by modality and status.",
		},
		[]string{"modality", "status"},
	)

	// SimulationDuration observes how long one simulation takes end to end.
	SimulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_simulation_duration_seconds",
			Help:    "Duration of one financing simulation.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Exports counts document exports by format and outcome.
	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_exports_total",
			Help: "Total number of document exports by format and status.",
		},
		[]string{"format", "status"},
	)
)
