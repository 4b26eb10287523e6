// Package metrics provides Prometheus metrics for the wecruit service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace       = "wecruit"
	subsystem              = "board"
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the wecruit service.
type Manager struct {
	namespace       string
	enabled         bool
	refreshInterval time.Duration
	registry        prometheus.Registerer
	gatherer        *prometheus.Registry

	// Board and aggregation
	boardRecomputeLatency *prometheus.HistogramVec
	boardVisibleRows      *prometheus.HistogramVec
	aggregateLatency      prometheus.Histogram
	aggregateSubmissions  prometheus.Histogram
	aggregatesComputed    prometheus.Counter

	// Submission editing
	submissionsSaved   prometheus.Counter
	submissionsDeleted prometheus.Counter
	strengthsRejected  prometheus.Counter
	bookmarksChanged   *prometheus.CounterVec

	// Fan-out
	fanoutTasks    prometheus.Counter
	fanoutLatency  prometheus.Histogram
	fanoutFailures prometheus.Counter

	// Storage and cache
	storeLatency  *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
	storeRecords  *prometheus.GaugeVec
	cacheLookups  *prometheus.CounterVec
	totalRecruits prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// global is the manager the package-level recorders write to.
var global atomic.Pointer[Manager] //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry, which GetRegistry then returns. Call it before serving metrics.
func Configure(opts ...Option) *Manager {
	// Custom registry to avoid default Go metrics.
	reg := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(reg))...)
	m.gatherer = reg
	global.Store(m)
	return m
}

func current() *Manager { return global.Load() }

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       defaultNamespace,
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often callers should refresh gauges.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	countBuckets := []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}

	m.boardRecomputeLatency = auto.NewHistogramVec(
		m.histogramOpts("recompute_latency_milliseconds", "Filter, search and sort latency in milliseconds", prometheus.DefBuckets),
		[]string{"view"},
	)
	m.boardVisibleRows = auto.NewHistogramVec(
		m.histogramOpts("visible_rows", "Rows left visible after filtering and search", countBuckets),
		[]string{"view"},
	)
	m.aggregateLatency = auto.NewHistogram(
		m.histogramOpts("aggregate_latency_milliseconds", "Submission aggregation latency in milliseconds", prometheus.DefBuckets),
	)
	m.aggregateSubmissions = auto.NewHistogram(
		m.histogramOpts("aggregate_submissions", "Submissions reduced per aggregate summary", countBuckets),
	)
	m.aggregatesComputed = auto.NewCounter(
		m.counterOpts("aggregates_computed_total", "Total number of aggregate summaries computed"),
	)

	m.submissionsSaved = auto.NewCounter(
		m.counterOpts("submissions_saved_total", "Total number of submissions saved"),
	)
	m.submissionsDeleted = auto.NewCounter(
		m.counterOpts("submissions_deleted_total", "Total number of submissions deleted"),
	)
	m.strengthsRejected = auto.NewCounter(
		m.counterOpts("strengths_rejected_total", "Strength selections ignored because the cap was reached"),
	)
	m.bookmarksChanged = auto.NewCounterVec(
		m.counterOpts("bookmarks_changed_total", "Bookmark additions and removals"),
		[]string{"action"},
	)

	m.fanoutTasks = auto.NewCounter(
		m.counterOpts("fanout_tasks_total", "Total number of fan-out tasks run"),
	)
	m.fanoutLatency = auto.NewHistogram(
		m.histogramOpts("fanout_latency_milliseconds", "Wall time of a whole fan-out join in milliseconds", prometheus.DefBuckets),
	)
	m.fanoutFailures = auto.NewCounter(
		m.counterOpts("fanout_failures_total", "Fan-out joins that failed"),
	)

	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Storage operation latency in milliseconds", prometheus.DefBuckets),
		[]string{"backend", "operation"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Storage operation errors"),
		[]string{"backend", "operation"},
	)
	m.storeRecords = auto.NewGaugeVec(
		m.gaugeOpts("store_records", "Stored records by kind"),
		[]string{"backend", "kind"},
	)
	m.cacheLookups = auto.NewCounterVec(
		m.counterOpts("cache_lookups_total", "Recruit cache lookups by result"),
		[]string{"result"},
	)
	m.totalRecruits = auto.NewGauge(
		m.gaugeOpts("total_recruits", "Total number of recruits on the board"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", prometheus.DefBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordBoardRecompute records one filter/search/sort pass for view.
func RecordBoardRecompute(view string, latencyMs float64, visible int) {
	m := current()
	if !m.enabled {
		return
	}
	m.boardRecomputeLatency.WithLabelValues(view).Observe(latencyMs)
	m.boardVisibleRows.WithLabelValues(view).Observe(float64(visible))
}

// RecordAggregateLatency records aggregation latency in milliseconds.
func RecordAggregateLatency(latencyMs float64) {
	m := current()
	if !m.enabled {
		return
	}
	m.aggregateLatency.Observe(latencyMs)
}

// RecordAggregateComputed counts one summary over n submissions.
func RecordAggregateComputed(n int) {
	m := current()
	if !m.enabled {
		return
	}
	m.aggregatesComputed.Inc()
	m.aggregateSubmissions.Observe(float64(n))
}

// RecordSubmissionSaved increments the saved submissions counter.
func RecordSubmissionSaved() {
	m := current()
	if !m.enabled {
		return
	}
	m.submissionsSaved.Inc()
}

// RecordSubmissionDeleted increments the deleted submissions counter.
func RecordSubmissionDeleted() {
	m := current()
	if !m.enabled {
		return
	}
	m.submissionsDeleted.Inc()
}

// RecordStrengthRejected counts a strength ignored at the cap.
func RecordStrengthRejected() {
	m := current()
	if !m.enabled {
		return
	}
	m.strengthsRejected.Inc()
}

// RecordBookmarkChange counts a bookmark "add" or "remove".
func RecordBookmarkChange(action string) {
	m := current()
	if !m.enabled {
		return
	}
	m.bookmarksChanged.WithLabelValues(action).Inc()
}

// RecordFanout records a completed fan-out join of tasks.
func RecordFanout(tasks int, latencyMs float64, failed bool) {
	m := current()
	if !m.enabled {
		return
	}
	m.fanoutTasks.Add(float64(tasks))
	m.fanoutLatency.Observe(latencyMs)
	if failed {
		m.fanoutFailures.Inc()
	}
}

// RecordStoreOperation records storage operation latency.
func RecordStoreOperation(backend, operation string, latencyMs float64) {
	m := current()
	if !m.enabled {
		return
	}
	m.storeLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordStoreError increments the storage error counter.
func RecordStoreError(backend, operation string) {
	m := current()
	if !m.enabled {
		return
	}
	m.storeErrors.WithLabelValues(backend, operation).Inc()
}

// UpdateStoreRecords sets the number of stored records of kind.
func UpdateStoreRecords(backend, kind string, count int) {
	m := current()
	if !m.enabled {
		return
	}
	m.storeRecords.WithLabelValues(backend, kind).Set(float64(count))
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	m := current()
	if !m.enabled {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	m := current()
	if !m.enabled {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// RecordCacheError increments the cache error counter.
func RecordCacheError() {
	m := current()
	if !m.enabled {
		return
	}
	m.cacheLookups.WithLabelValues("error").Inc()
}

// UpdateTotalRecruits sets the total recruits count.
func UpdateTotalRecruits(count int) {
	m := current()
	if !m.enabled {
		return
	}
	m.totalRecruits.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	m := current()
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	m := current()
	if !m.enabled {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	m := current()
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	m := current()
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	m := current()
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	m := current()
	if !m.enabled {
		return
	}
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	m := current()
	if !m.enabled {
		return
	}
	m.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry of the global manager.
func GetRegistry() *prometheus.Registry {
	return current().gatherer
}
