// Package metrics provides Prometheus metrics for the duet pairing service.
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

// Run outcomes used as the "status" label of runs_total.
const (
	RunReady        = "ready"
	RunInsufficient = "insufficient_participants"
	RunFailed       = "failed"
)

// Default histogram layouts. Runs take well under a millisecond at classroom
// scale; scores of the default table fall between 0 and roughly 160.
var (
	defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250} //nolint:gochecknoglobals // fixed bucket layout
	defaultScoreBuckets   = []float64{10, 20, 40, 60, 80, 100, 120, 140, 160}                //nolint:gochecknoglobals // fixed bucket layout
)

// Manager manages all Prometheus metrics for the pairing service.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	scoreBuckets    []float64
	enabled         bool
	refreshInterval time.Duration
	constLabels     map[string]string
	metricPrefix    string
	registry        prometheus.Registerer

	// Pairing runs
	runs            *prometheus.CounterVec
	runLatency      prometheus.Histogram
	recordsReceived prometheus.Counter
	recordsSkipped  *prometheus.CounterVec
	lastEligible    prometheus.Gauge
	lastPairs       prometheus.Gauge
	pairScore       prometheus.Histogram
	trios           prometheus.Counter
	scorerFaults    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "duet",
		subsystem:       "pairing",
		latencyBuckets:  defaultLatencyBuckets,
		scoreBuckets:    defaultScoreBuckets,
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

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval returns how often polled gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(
		m.counterOpts("runs_total", "Total number of pairing runs by outcome"),
		[]string{"status"},
	)
	m.runLatency = auto.NewHistogram(
		m.histogramOpts("run_latency_milliseconds", "Pairing run latency in milliseconds", m.latencyBuckets),
	)
	m.recordsReceived = auto.NewCounter(
		m.counterOpts("records_received_total", "Total number of raw submissions received"),
	)
	m.recordsSkipped = auto.NewCounterVec(
		m.counterOpts("records_skipped_total", "Total number of submissions left out of a run by reason"),
		[]string{"reason"},
	)
	m.lastEligible = auto.NewGauge(
		m.gaugeOpts("last_run_eligible", "Eligible participants in the most recent run"),
	)
	m.lastPairs = auto.NewGauge(
		m.gaugeOpts("last_run_pairs", "Pairs produced by the most recent run"),
	)
	m.pairScore = auto.NewHistogram(
		m.histogramOpts("pair_score", "Compatibility score of selected pairs", m.scoreBuckets),
	)
	m.trios = auto.NewCounter(
		m.counterOpts("trios_total", "Total number of runs that attached a leftover participant to a pair"),
	)
	m.scorerFaults = auto.NewCounter(
		m.counterOpts("scorer_faults_total", "Total number of runs aborted by a misconfigured scoring table"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRateLimited = auto.NewCounterVec(
		m.counterOpts("http_rate_limited_total", "Total number of HTTP requests rejected by the rate limiter"),
		[]string{"endpoint"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
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

// RecordRun records the outcome and latency of one pairing run.
func (m *Manager) RecordRun(status string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.runLatency.Observe(latencyMs)
}

// RecordIntake records how many submissions a run received and how many were eligible.
func (m *Manager) RecordIntake(received, eligible int) {
	if !m.enabled {
		return
	}
	m.recordsReceived.Add(float64(received))
	m.lastEligible.Set(float64(eligible))
}

// RecordSkipped adds n skipped submissions for reason.
func (m *Manager) RecordSkipped(reason string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.recordsSkipped.WithLabelValues(reason).Add(float64(n))
}

// RecordPairs records the scores of the pairs selected by a run.
func (m *Manager) RecordPairs(scores []float64, trio bool) {
	if !m.enabled {
		return
	}
	m.lastPairs.Set(float64(len(scores)))
	for _, s := range scores {
		m.pairScore.Observe(s)
	}
	if trio {
		m.trios.Inc()
	}
}

// RecordScorerFault counts a run aborted by the scoring table.
func (m *Manager) RecordScorerFault() {
	if !m.enabled {
		return
	}
	m.scorerFaults.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a request rejected by the limiter.
func (m *Manager) RecordRateLimited(endpoint string) {
	if !m.enabled {
		return
	}
	m.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem sets the process gauges.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Package-level helpers recording on the global manager.

// RecordRun records a pairing run on the global manager.
func RecordRun(status string, latencyMs float64) { globalManager.RecordRun(status, latencyMs) }

// RecordIntake records run intake on the global manager.
func RecordIntake(received, eligible int) { globalManager.RecordIntake(received, eligible) }

// RecordSkipped records skipped submissions on the global manager.
func RecordSkipped(reason string, n int) { globalManager.RecordSkipped(reason, n) }

// RecordPairs records selected pairs on the global manager.
func RecordPairs(scores []float64, trio bool) { globalManager.RecordPairs(scores, trio) }

// RecordScorerFault records a scoring table fault on the global manager.
func RecordScorerFault() { globalManager.RecordScorerFault() }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited records a rate limited request on the global manager.
func RecordRateLimited(endpoint string) { globalManager.RecordRateLimited(endpoint) }

// RecordErrorByEndpoint records an endpoint error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystem sets the process gauges on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memBytes, goroutines, gcPauseMs)
}

// RefreshInterval returns the refresh interval of the global manager.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
