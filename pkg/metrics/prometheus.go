// Package metrics provides Prometheus metrics for the word tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the tracker.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Backend client
	backendRequests       *prometheus.CounterVec
	backendAttemptLatency *prometheus.HistogramVec
	backendRetries        *prometheus.CounterVec
	backendFailures       *prometheus.CounterVec
	backendShared         prometheus.Counter

	// Router
	navigations       *prometheus.CounterVec
	navigationLatency *prometheus.HistogramVec
	staleDiscarded    *prometheus.CounterVec

	// Search
	searchRequests prometheus.Counter
	searchSkipped  prometheus.Counter

	// Front server
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// Crawl tool
	crawlChecks *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wordtracker",
		subsystem:        "web",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.backendRequests = auto.NewCounterVec(
		m.counterOpts("backend_requests_total", "Backend calls by endpoint and final outcome"),
		[]string{"endpoint", "outcome"},
	)
	m.backendAttemptLatency = auto.NewHistogramVec(
		m.histogramOpts("backend_attempt_latency_milliseconds", "Latency of a single backend attempt"),
		[]string{"endpoint"},
	)
	m.backendRetries = auto.NewCounterVec(
		m.counterOpts("backend_retries_total", "Backend attempts beyond the first"),
		[]string{"endpoint"},
	)
	m.backendFailures = auto.NewCounterVec(
		m.counterOpts("backend_failures_total", "Backend calls that failed after all attempts, by error kind"),
		[]string{"endpoint", "kind"},
	)
	m.backendShared = auto.NewCounter(
		m.counterOpts("backend_shared_total", "Backend calls answered by an identical in-flight call"),
	)

	m.navigations = auto.NewCounterVec(
		m.counterOpts("navigations_total", "Router navigations by route and outcome"),
		[]string{"route", "outcome"},
	)
	m.navigationLatency = auto.NewHistogramVec(
		m.histogramOpts("navigation_latency_milliseconds", "Time from placeholder to rendered view"),
		[]string{"route"},
	)
	m.staleDiscarded = auto.NewCounterVec(
		m.counterOpts("stale_responses_discarded_total", "Responses dropped because a newer request superseded them"),
		[]string{"component"},
	)

	m.searchRequests = auto.NewCounter(
		m.counterOpts("search_requests_total", "Search requests sent to the backend"),
	)
	m.searchSkipped = auto.NewCounter(
		m.counterOpts("search_skipped_total", "Search inputs below the minimum query length"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Front server requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "Front server request duration"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Front server errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Front server errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.crawlChecks = auto.NewCounterVec(
		m.counterOpts("crawl_checks_total", "Crawl consistency checks by check name and result"),
		[]string{"check", "result"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// Backend client metrics.

// RecordBackendAttempt records the latency of one attempt against an endpoint.
func RecordBackendAttempt(endpoint string, latencyMs float64) {
	globalManager.backendAttemptLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordBackendRetry counts an attempt beyond the first.
func RecordBackendRetry(endpoint string) {
	globalManager.backendRetries.WithLabelValues(endpoint).Inc()
}

// RecordBackendResult counts a finished backend call. kind is empty on success.
func RecordBackendResult(endpoint, kind string) {
	if kind == "" {
		globalManager.backendRequests.WithLabelValues(endpoint, "ok").Inc()
		return
	}
	globalManager.backendRequests.WithLabelValues(endpoint, "error").Inc()
	globalManager.backendFailures.WithLabelValues(endpoint, kind).Inc()
}

// RecordBackendShared counts a call served by an identical in-flight call.
func RecordBackendShared() {
	globalManager.backendShared.Inc()
}

// Router metrics.

// RecordNavigation counts a navigation that reached a terminal outcome.
func RecordNavigation(route, outcome string, latencyMs float64) {
	globalManager.navigations.WithLabelValues(route, outcome).Inc()
	globalManager.navigationLatency.WithLabelValues(route).Observe(latencyMs)
}

// RecordStaleDiscarded counts a response dropped by the stale guard.
func RecordStaleDiscarded(component string) {
	globalManager.staleDiscarded.WithLabelValues(component).Inc()
}

// Search metrics.

// RecordSearchRequest counts a search sent to the backend.
func RecordSearchRequest() {
	globalManager.searchRequests.Inc()
}

// RecordSearchSkipped counts an input too short to search.
func RecordSearchSkipped() {
	globalManager.searchSkipped.Inc()
}

// Front server metrics.

// RecordHTTPRequest records a front server request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records a front server error response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// Crawl metrics.

// RecordCrawlCheck records the result of one crawl consistency check.
func RecordCrawlCheck(check string, passed bool) {
	result := "pass"
	if !passed {
		result = "fail"
	}
	globalManager.crawlChecks.WithLabelValues(check, result).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the global manager is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
