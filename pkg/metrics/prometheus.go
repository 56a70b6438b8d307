// Package metrics provides Prometheus metrics for the natiga lookup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcome label values recorded by RecordSearch.
const (
	OutcomeFound      = "found"
	OutcomeEmpty      = "empty"
	OutcomeValidation = "validation"
	OutcomeStoreError = "store_error"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Search pipeline metrics
	searches          *prometheus.CounterVec
	searchDuration    prometheus.Histogram
	matchFallbacks    prometheus.Counter
	searchesSupersede prometheus.Counter
	rankDegraded      prometheus.Counter

	// Record store metrics
	storeQueryLatency prometheus.Histogram
	storeErrors       *prometheus.CounterVec
	recordCount       prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Runtime metrics
	goroutineCount prometheus.Gauge
	memoryUsage    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "natiga",
		subsystem: "lookup",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.searches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "searches_total",
			Help:      "Total number of searches by outcome (found, empty, validation, store_error)",
		},
		[]string{"outcome"},
	)

	m.searchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_duration_milliseconds",
		Help:      "End-to-end search pipeline duration in milliseconds",
		Buckets:   m.buckets,
	})

	m.matchFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_fallbacks_total",
		Help:      "Total number of searches that fell back to the wildcard-joined pattern",
	})

	m.searchesSupersede = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "searches_superseded_total",
		Help:      "Total number of pipeline completions dropped because a newer term was submitted",
	})

	m.rankDegraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_degraded_total",
		Help:      "Total number of rank computations that degraded to an absent rank on store faults",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Record store query latency in milliseconds",
		Buckets:   m.buckets,
	})

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of record store errors by operation",
		},
		[]string{"op"},
	)

	m.recordCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_records",
		Help:      "Number of result rows visible in the record store",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.buckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Allocated heap bytes",
	})
}

// RecordSearch increments the search counter for the given outcome.
func RecordSearch(outcome string) {
	globalManager.searches.WithLabelValues(outcome).Inc()
}

// RecordSearchDuration records an end-to-end pipeline duration in milliseconds.
func RecordSearchDuration(latencyMs float64) {
	globalManager.searchDuration.Observe(latencyMs)
}

// RecordMatchFallback increments the wildcard-join fallback counter.
func RecordMatchFallback() {
	globalManager.matchFallbacks.Inc()
}

// RecordSearchSuperseded increments the superseded completion counter.
func RecordSearchSuperseded() {
	globalManager.searchesSupersede.Inc()
}

// RecordRankDegraded increments the degraded rank counter.
func RecordRankDegraded() {
	globalManager.rankDegraded.Inc()
}

// RecordStoreQueryLatency records a record store query latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreError increments the store error counter for an operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// UpdateRecordCount sets the visible record count gauge.
func UpdateRecordCount(count int) {
	globalManager.recordCount.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateGoroutineCount sets the goroutine count gauge.
func UpdateGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// UpdateMemoryUsage sets the heap usage gauge.
func UpdateMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
