// Package metrics exposes Prometheus instrumentation for pipeline stages and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage item outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeMissing = "missing"
	OutcomeFailed  = "failed"
)

var (
	StageItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfinder_stage_items_total",
			Help: "Total number of candidates processed per pipeline stage, by outcome",
		},
		[]string{"stage", "outcome"},
	)

	StageItemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "giftfinder_stage_item_duration_seconds",
			Help:    "Duration of a single candidate's external call per stage",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45, 90},
		},
		[]string{"stage"},
	)

	StageInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "giftfinder_stage_in_flight",
			Help: "Number of in-flight external calls per stage",
		},
		[]string{"stage"},
	)

	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfinder_batches_total",
			Help: "Total number of recommendation batches, by terminal status",
		},
		[]string{"status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfinder_http_requests_total",
			Help: "Total number of API requests, by route and status code",
		},
		[]string{"route", "code"},
	)
)

// TrackInFlight increments the in-flight gauge for stage and returns a func that records
// the item's duration and outcome and decrements the gauge.
func TrackInFlight(stage string) func(outcome string) {
	start := time.Now()
	StageInFlight.WithLabelValues(stage).Inc()
	return func(outcome string) {
		StageInFlight.WithLabelValues(stage).Dec()
		StageItemDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
		StageItemsTotal.WithLabelValues(stage, outcome).Inc()
	}
}

// RecordBatch counts a finished batch.
func RecordBatch(status string) {
	BatchesTotal.WithLabelValues(status).Inc()
}

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
