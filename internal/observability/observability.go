// Package observability implements A2: Prometheus metrics and the
// /metrics and /healthz endpoints, adapted from the teacher's
// internal/api/observability.go metric set (bounded-cardinality
// histograms/gauges/counters) to this simulation's tick and event
// concerns instead of stream-rendering ones.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TickDuration measures wall-clock time spent advancing every
	// live game in one scheduler tick.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexarena_tick_duration_seconds",
		Help:    "Time spent advancing all games in one scheduler tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	// LiveGames is the current count of non-finished games.
	LiveGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hexarena_live_games",
		Help: "Current number of live (non-finished) games",
	})

	// LiveEntities is the current total entity count across all games.
	LiveEntities = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hexarena_live_entities",
		Help: "Current total entity count across all games",
	})

	// LiveSubscribers is the current total subscriber count across all
	// games.
	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hexarena_live_subscribers",
		Help: "Current total subscriber count across all games",
	})

	// EventsEmitted counts broadcast events by type. The type label set
	// is bounded to the nine event shapes spec.md §6 names.
	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexarena_events_emitted_total",
		Help: "Events broadcast to subscribers, by type",
	}, []string{"type"})

	// CommandRejections counts command-dispatch failures by error kind.
	CommandRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexarena_command_rejections_total",
		Help: "Rejected game/command requests, by error kind",
	}, []string{"reason"})

	// RequestLatency measures HTTP handler latency by method and route
	// pattern (never the raw URL, to keep cardinality bounded).
	RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hexarena_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler returns the /metrics and /healthz mux, meant to be mounted
// on a localhost-only listener per the teacher's debug-server
// convention.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}
