// Package metrics provides Prometheus metrics for the kdrama dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	loadBuckets     []float64
	groupBuckets    []float64
	enabled         bool
	refreshInterval time.Duration
	customLabels    map[string]string
	metricPrefix    string
	registry        prometheus.Registerer

	// Dataset Metrics - what the dashboard is serving
	datasetRecords       prometheus.Gauge
	datasetQuarantined   *prometheus.CounterVec
	datasetLoads         *prometheus.CounterVec
	datasetLoadDuration  prometheus.Histogram
	datasetLastLoadUnix  prometheus.Gauge
	datasetYearMin       prometheus.Gauge
	datasetYearMax       prometheus.Gauge

	// Query Metrics - search and ranking pipeline
	searchQueries     *prometheus.CounterVec
	searchLatency     prometheus.Histogram
	rankingQueries    *prometheus.CounterVec
	rankingLatency    prometheus.Histogram
	rankingGroupCount prometheus.Histogram
	exports           *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "kdrama",
		subsystem:       "dashboard",
		latencyBuckets:  []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		loadBuckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		groupBuckets:    []float64{1, 5, 10, 25, 50, 100, 250, 500},
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		customLabels:    make(map[string]string),
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.datasetRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_records"),
		Help:        "Number of drama records in the active dataset snapshot",
		ConstLabels: constLabels,
	})

	m.datasetQuarantined = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_quarantined_rows_total"),
		Help:        "Rows excluded at load time, by malformed field",
		ConstLabels: constLabels,
	}, []string{"field"})

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_loads_total"),
		Help:        "Dataset load attempts by outcome",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_load_duration_milliseconds"),
		Help:        "Time to read and validate the dataset file",
		Buckets:     m.loadBuckets,
		ConstLabels: constLabels,
	})

	m.datasetLastLoadUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_last_load_timestamp_seconds"),
		Help:        "Unix time of the last successful dataset load",
		ConstLabels: constLabels,
	})

	m.datasetYearMin = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_year_min"),
		Help:        "Earliest release year in the active dataset",
		ConstLabels: constLabels,
	})

	m.datasetYearMax = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_year_max"),
		Help:        "Latest release year in the active dataset",
		ConstLabels: constLabels,
	})

	m.searchQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("search_queries_total"),
		Help:        "Title searches by result status",
		ConstLabels: constLabels,
	}, []string{"status"})

	m.searchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("search_latency_milliseconds"),
		Help:        "Title search latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	})

	m.rankingQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ranking_queries_total"),
		Help:        "Ranking pipeline runs by role, metric and outcome",
		ConstLabels: constLabels,
	}, []string{"role", "metric", "outcome"})

	m.rankingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ranking_latency_milliseconds"),
		Help:        "Ranking pipeline latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	})

	m.rankingGroupCount = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ranking_contributors"),
		Help:        "Distinct contributors grouped per ranking run",
		Buckets:     m.groupBuckets,
		ConstLabels: constLabels,
	})

	m.exports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("exports_total"),
		Help:        "Downloads by view and format",
		ConstLabels: constLabels,
	}, []string{"view", "format"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_component_total"),
		Help:        "Errors by component and type",
		ConstLabels: constLabels,
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by endpoint, method and type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("error_latency_milliseconds"),
		Help:        "Latency of operations that ended in an error",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// Dataset Metrics.

// RecordDatasetLoad records one load attempt. Successful loads also update
// the record gauge, year bounds and last-load timestamp.
func (m *Manager) RecordDatasetLoad(ok bool, records, yearMin, yearMax int, durationMs float64) {
	if !m.enabled {
		return
	}
	m.datasetLoadDuration.Observe(durationMs)
	if !ok {
		m.datasetLoads.WithLabelValues("error").Inc()
		return
	}
	m.datasetLoads.WithLabelValues("success").Inc()
	m.datasetRecords.Set(float64(records))
	m.datasetYearMin.Set(float64(yearMin))
	m.datasetYearMax.Set(float64(yearMax))
	m.datasetLastLoadUnix.Set(float64(time.Now().Unix()))
}

// RecordDatasetQuarantined adds count rows quarantined for field.
func (m *Manager) RecordDatasetQuarantined(field string, count int) {
	if !m.enabled || count <= 0 {
		return
	}
	m.datasetQuarantined.WithLabelValues(field).Add(float64(count))
}

// Query Metrics.

// RecordSearch records one title search.
func (m *Manager) RecordSearch(status string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.searchQueries.WithLabelValues(status).Inc()
	m.searchLatency.Observe(latencyMs)
}

// RecordRanking records one ranking pipeline run.
func (m *Manager) RecordRanking(role, metric, outcome string, contributors int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.rankingQueries.WithLabelValues(role, metric, outcome).Inc()
	m.rankingLatency.Observe(latencyMs)
	if outcome == "ok" {
		m.rankingGroupCount.Observe(float64(contributors))
	}
}

// RecordExport records one download.
func (m *Manager) RecordExport(view, format string) {
	if !m.enabled {
		return
	}
	m.exports.WithLabelValues(view, format).Inc()
}

// HTTP and error metrics.

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError records an error across the component, type and endpoint views.
func (m *Manager) RecordError(component, endpoint, method, errorType, severity string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	if endpoint != "" {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
	m.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystem sets the memory and goroutine gauges and observes the average
// GC pause.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level shortcuts to the global manager.

// RecordDatasetLoad records a load on the global manager.
func RecordDatasetLoad(ok bool, records, yearMin, yearMax int, durationMs float64) {
	globalManager.RecordDatasetLoad(ok, records, yearMin, yearMax, durationMs)
}

// RecordDatasetQuarantined records quarantined rows on the global manager.
func RecordDatasetQuarantined(field string, count int) {
	globalManager.RecordDatasetQuarantined(field, count)
}

// RecordSearch records a search on the global manager.
func RecordSearch(status string, latencyMs float64) {
	globalManager.RecordSearch(status, latencyMs)
}

// RecordRanking records a ranking run on the global manager.
func RecordRanking(role, metric, outcome string, contributors int, latencyMs float64) {
	globalManager.RecordRanking(role, metric, outcome, contributors, latencyMs)
}

// RecordExport records a download on the global manager.
func RecordExport(view, format string) {
	globalManager.RecordExport(view, format)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError records an error on the global manager.
func RecordError(component, endpoint, method, errorType, severity string, latencyMs float64) {
	globalManager.RecordError(component, endpoint, method, errorType, severity, latencyMs)
}

// UpdateSystem updates system gauges on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.UpdateSystem(memBytes, goroutines, avgGCPauseMs)
}

// RefreshInterval returns how often the global manager expects gauges to be
// refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
