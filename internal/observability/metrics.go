package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveSessions    prometheus.Gauge
	SessionEvents     *prometheus.CounterVec
	WSMessages        *prometheus.CounterVec
	ComposeRequests   *prometheus.CounterVec
	ComposeDuration   prometheus.Histogram
	ChunksPerMessage  prometheus.Histogram
	DraftStoreErrors  *prometheus.CounterVec
	DraftStoreQueries *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active composer preview sessions.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Preview session events by type.",
		}, []string{"event"}),
		WSMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		ComposeRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compose_requests_total",
			Help:      "Compose/transform requests by surface and outcome.",
		}, []string{"surface", "outcome"}),
		ComposeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compose_duration_ms",
			Help:      "End-to-end transform plus split latency in milliseconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 25, 50, 100},
		}),
		ChunksPerMessage: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunks_per_message",
			Help:      "Number of segments produced per composed message.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 20},
		}),
		DraftStoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_store_errors_total",
			Help:      "Draft store failures by operation.",
		}, []string{"op"}),
		DraftStoreQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_store_queries_total",
			Help:      "Draft store operations by type.",
		}, []string{"op"}),
	}
}

func (m *Metrics) ObserveCompose(surface, outcome string, d time.Duration, chunks int) {
	m.ComposeRequests.WithLabelValues(surface, outcome).Inc()
	m.ComposeDuration.Observe(float64(d.Microseconds()) / 1000.0)
	if chunks > 0 {
		m.ChunksPerMessage.Observe(float64(chunks))
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
