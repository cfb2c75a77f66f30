// Package metrics defines the Prometheus collectors for the search
// engine and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector the engine reports through,
// registered against its own registry rather than the global default
// so that multiple Metrics instances (as in tests, or a process that
// builds more than one engine) never collide over collector names.
type Metrics struct {
	registry             *prometheus.Registry
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	IndexBuildDuration   prometheus.Histogram
	IndexDocCount        prometheus.Gauge
	IndexBuildsTotal     *prometheus.CounterVec
	QueriesTotal         *prometheus.CounterVec
	QueryLatency         *prometheus.HistogramVec
	QueryResultCount     prometheus.Histogram
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search100_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search100_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "search100_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		IndexBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search100_index_build_duration_seconds",
				Help:    "Time taken to walk the corpus and build the index.",
				Buckets: prometheus.DefBuckets,
			},
		),
		IndexDocCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "search100_index_documents",
				Help: "Number of documents in the current index.",
			},
		),
		IndexBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search100_index_builds_total",
				Help: "Total index builds, by outcome (built, empty, error); a load from the on-disk cache counts as built.",
			},
			[]string{"outcome"},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search100_queries_total",
				Help: "Total search queries, by strategy.",
			},
			[]string{"strategy"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search100_query_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"strategy"},
		),
		QueryResultCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search100_query_results",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.IndexBuildDuration,
		m.IndexDocCount,
		m.IndexBuildsTotal,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultCount,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this Metrics
// instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
