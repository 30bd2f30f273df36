package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TierOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faq_tier_outcomes_total",
			Help: "Tier transitions by tier name and outcome (hit/miss)",
		},
		[]string{"tier", "outcome"},
	)

	QuestionsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faq_questions_resolved_total",
			Help: "Resolved questions by the tier that answered them",
		},
		[]string{"tier"},
	)

	DiscoveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_discovery_duration_seconds",
			Help:    "Duration of a single center discovery",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	DiscoveryInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_discovery_in_flight",
			Help: "Discovery calls currently in flight",
		},
	)

	BatchCenters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_centers_total",
			Help: "Centers processed in batch runs by terminal status",
		},
		[]string{"status"},
	)
)

// Serve exposes /metrics on its own listener so the API port stays clean.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
