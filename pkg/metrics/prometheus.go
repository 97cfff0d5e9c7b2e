// Package metrics provides Prometheus metrics for the ARENA contest engine.
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

// Manager manages all Prometheus metrics for the contest engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics - Submission pipeline
	submissionsProcessed prometheus.Counter
	submissionsRejected  *prometheus.CounterVec
	wrongAnswers         prometheus.Counter
	solvesRecorded       prometheus.Counter
	reviewsRecorded      prometheus.Counter
	submissionLatency    prometheus.Histogram

	// Contest / Task State Metrics
	contestState prometheus.Gauge
	openTasks    prometheus.Gauge
	teamsRanked  prometheus.Gauge

	// Score View Metrics
	scoreRebuilds        prometheus.Counter
	scoreRebuildDuration prometheus.Histogram

	// Event Bus Metrics
	busPublished     prometheus.Counter
	busPublishErrors prometheus.Counter
	busSize          prometheus.Gauge
	busCapacity      prometheus.Gauge
	busUtilization   prometheus.Gauge

	// Fan-out Metrics - live delivery per audience scope
	subscribers     *prometheus.GaugeVec
	eventsDelivered *prometheus.CounterVec
	eventsDropped   *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "contest",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - Submission pipeline
	m.submissionsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_processed_total",
		Help:      "Total number of answer submissions that passed the gate and were evaluated",
	})

	m.submissionsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "submissions_rejected_total",
			Help:      "Total number of submissions rejected before evaluation, by error kind",
		},
		[]string{"kind"},
	)

	m.wrongAnswers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "wrong_answers_total",
		Help:      "Total number of evaluated submissions with an incorrect answer",
	})

	m.solvesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solves_recorded_total",
		Help:      "Total number of solves recorded (first correct answer per team and task)",
	})

	m.reviewsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reviews_recorded_total",
		Help:      "Total number of post-solve task reviews recorded",
	})

	m.submissionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submission_latency_milliseconds",
		Help:      "Histogram of gate-to-commit submission latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Contest / Task State Metrics
	m.contestState = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state",
		Help:      "Current contest state (0=not started, 1=running, 2=paused, 3=finished)",
	})

	m.openTasks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "open_tasks",
		Help:      "Current number of opened tasks",
	})

	m.teamsRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_ranked",
		Help:      "Number of teams currently present on the leaderboard",
	})

	// Score View Metrics
	m.scoreRebuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_rebuilds_total",
		Help:      "Total number of score view rebuilds from solve history",
	})

	m.scoreRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_rebuild_duration_milliseconds",
		Help:      "Score view rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Event Bus Metrics
	m.busPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_published_total",
		Help:      "Total number of events published on the bus",
	})

	m.busPublishErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_publish_errors_total",
		Help:      "Total number of failed bus publishes (closed or full)",
	})

	m.busSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_size",
		Help:      "Current number of events waiting on the bus",
	})

	m.busCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_capacity",
		Help:      "Maximum bus capacity",
	})

	m.busUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_utilization_ratio",
		Help:      "Bus utilization ratio (current size / capacity)",
	})

	// Fan-out Metrics
	m.subscribers = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "live_subscribers",
			Help:      "Current number of connected live subscribers by audience scope",
		},
		[]string{"scope"},
	)

	m.eventsDelivered = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_delivered_total",
			Help:      "Total number of event projections delivered to subscribers by scope",
		},
		[]string{"scope"},
	)

	m.eventsDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_dropped_total",
			Help:      "Total number of event projections dropped due to subscriber backpressure",
		},
		[]string{"scope"},
	)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordSubmissionProcessed increments the evaluated submissions counter.
func RecordSubmissionProcessed() {
	globalManager.submissionsProcessed.Inc()
}

// RecordSubmissionRejected increments the rejected submissions counter for an error kind.
func RecordSubmissionRejected(kind string) {
	globalManager.submissionsRejected.WithLabelValues(kind).Inc()
}

// RecordWrongAnswer increments the wrong answers counter.
func RecordWrongAnswer() {
	globalManager.wrongAnswers.Inc()
}

// RecordSolve increments the solves counter.
func RecordSolve() {
	globalManager.solvesRecorded.Inc()
}

// RecordReview increments the reviews counter.
func RecordReview() {
	globalManager.reviewsRecorded.Inc()
}

// RecordSubmissionLatency records gate-to-commit submission latency in milliseconds.
func RecordSubmissionLatency(latencyMs float64) {
	globalManager.submissionLatency.Observe(latencyMs)
}

// UpdateContestState sets the numeric contest state gauge.
func UpdateContestState(state int) {
	globalManager.contestState.Set(float64(state))
}

// UpdateOpenTasks sets the opened tasks gauge.
func UpdateOpenTasks(count int) {
	globalManager.openTasks.Set(float64(count))
}

// UpdateTeamsRanked sets the leaderboard team count gauge.
func UpdateTeamsRanked(count int) {
	globalManager.teamsRanked.Set(float64(count))
}

// RecordScoreRebuild records a score view rebuild and its duration.
func RecordScoreRebuild(durationMs float64) {
	globalManager.scoreRebuilds.Inc()
	globalManager.scoreRebuildDuration.Observe(durationMs)
}

// Event Bus Metrics Functions.

// RecordBusPublish increments the bus publish counter.
func RecordBusPublish() {
	globalManager.busPublished.Inc()
}

// RecordBusPublishError increments the bus publish error counter.
func RecordBusPublishError() {
	globalManager.busPublishErrors.Inc()
}

// UpdateBusSize sets the current bus size.
func UpdateBusSize(size int) {
	globalManager.busSize.Set(float64(size))
}

// UpdateBusCapacity sets the maximum bus capacity.
func UpdateBusCapacity(capacity int) {
	globalManager.busCapacity.Set(float64(capacity))
}

// UpdateBusUtilization sets the bus utilization ratio.
func UpdateBusUtilization(utilization float64) {
	globalManager.busUtilization.Set(utilization)
}

// Fan-out Metrics Functions.

// UpdateSubscribers sets the connected subscriber count for a scope.
func UpdateSubscribers(scope string, count int) {
	globalManager.subscribers.WithLabelValues(scope).Set(float64(count))
}

// RecordEventDelivered increments the delivered projections counter for a scope.
func RecordEventDelivered(scope string) {
	globalManager.eventsDelivered.WithLabelValues(scope).Inc()
}

// RecordEventDropped increments the dropped projections counter for a scope.
func RecordEventDropped(scope string) {
	globalManager.eventsDropped.WithLabelValues(scope).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
