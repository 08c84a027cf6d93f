// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EnrichmentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Total number of enrichment requests issued to the AI service",
		},
		[]string{"operation"},
	)

	EnrichmentFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_failures_total",
			Help: "Total number of failed enrichment requests by failure kind",
		},
		[]string{"operation", "kind"},
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "enrichment_duration_seconds",
			Help: "Duration of enrichment requests in seconds",
		},
		[]string{"operation"},
	)

	MonitoredListings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monitored_listings",
			Help: "Number of listings currently in the monitoring store",
		},
	)
)
