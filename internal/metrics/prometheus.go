package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the engine and HTTP metrics.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	queries       *prometheus.CounterVec
	queryLatency  *prometheus.HistogramVec
	eventsScanned prometheus.Counter
	storeErrors   prometheus.Counter

	httpRequests *prometheus.CounterVec
}

// NewManager creates a metrics manager on its own registry, so several
// managers can coexist in one process.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hoopstats",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.queries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "queries_total",
		Help:      "Queries run, by function and outcome status",
	}, []string{"function", "status"})

	m.queryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "query_duration_seconds",
		Help:      "Query latency in seconds, validation through ranking",
		Buckets:   m.histogramBuckets,
	}, []string{"function"})

	m.eventsScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "events_scanned_total",
		Help:      "Box-score events read from the store or folded into aggregates",
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "store_errors_total",
		Help:      "Record store reads that failed",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
}

// RecordQuery counts one query and observes its latency.
func (m *Manager) RecordQuery(function, status string, d time.Duration) {
	m.queries.WithLabelValues(function, status).Inc()
	m.queryLatency.WithLabelValues(function).Observe(d.Seconds())
}

// RecordEventsScanned adds n to the scanned-events counter.
func (m *Manager) RecordEventsScanned(n int) {
	if n > 0 {
		m.eventsScanned.Add(float64(n))
	}
}

// RecordStoreError counts one failed store read.
func (m *Manager) RecordStoreError() {
	m.storeErrors.Inc()
}

// RecordHTTPRequest counts one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
