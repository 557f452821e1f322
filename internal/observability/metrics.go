package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationFanouts counts stored-and-published notifications by context
	// (like, repost, download, follow, message).
	NotificationFanouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelaura_notification_fanouts_total",
		Help: "Total number of notifications fanned out, by context",
	}, []string{"context"})

	// MediaRelayOutcomes counts image relay attempts by outcome
	// ("relayed", "degraded").
	MediaRelayOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelaura_media_relay_outcomes_total",
		Help: "Total number of image relay attempts, by outcome",
	}, []string{"outcome"})

	// MediaRelayLatency records upstream image host round-trip latency.
	MediaRelayLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pixelaura_media_relay_latency_seconds",
		Help:    "Image host upload latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// PropagationJobs counts profile propagation jobs by result
	// ("done", "retry").
	PropagationJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelaura_propagation_jobs_total",
		Help: "Total number of profile propagation jobs processed, by result",
	}, []string{"result"})

	// PropagationPending is the gauge of pending propagation jobs observed on
	// the last worker sweep.
	PropagationPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pixelaura_propagation_pending_jobs",
		Help: "Pending profile propagation jobs at the last worker sweep",
	})

	// WebSocketConnections is the gauge of active notification stream connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pixelaura_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelaura_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})
)

// ObserveRelay records a single relay attempt outcome and its latency.
func ObserveRelay(outcome string, start time.Time) {
	MediaRelayOutcomes.WithLabelValues(outcome).Inc()
	MediaRelayLatency.Observe(time.Since(start).Seconds())
}
