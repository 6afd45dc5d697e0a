// Package metrics provides Prometheus metrics for the Stride analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Stride service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Pipeline Metrics - phase executions and their outcomes
	phaseRuns     *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec

	// Ingestion Metrics
	activitiesIngested prometheus.Counter
	fitFilesConverted  prometheus.Counter
	parseFallbacks     *prometheus.CounterVec

	// Analysis Metrics
	syntheticRunsGenerated prometheus.Counter
	formScore              prometheus.Gauge
	predictionScore        prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "stride",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
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

	m.phaseRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "phase_runs_total",
			Help:      "Total number of pipeline phase executions by phase and status",
		},
		[]string{"phase", "status"},
	)

	m.phaseDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "phase_duration_seconds",
			Help:      "Pipeline phase execution duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"phase"},
	)

	m.activitiesIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activities_ingested_total",
		Help:      "Total number of activity rows ingested from Activities.csv",
	})

	m.fitFilesConverted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fit_files_converted_total",
		Help:      "Total number of FIT files converted to CSV",
	})

	m.parseFallbacks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "parse_fallbacks_total",
			Help:      "Total number of malformed fields replaced with defaults, by field kind",
		},
		[]string{"field"},
	)

	m.syntheticRunsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "synthetic_runs_generated_total",
		Help:      "Total number of synthetic progression runs generated",
	})

	m.formScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "form_score",
		Help:      "Most recent overall form score (0-100)",
	})

	m.predictionScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_score",
		Help:      "Distribution of predicted form scores",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
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
}

// GetRegistry returns the registry backing the global manager, for serving
// via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordPhaseRun records a pipeline phase execution with its final status
// (success, skipped, error).
func RecordPhaseRun(phase, status string) {
	if globalManager.enabled {
		globalManager.phaseRuns.WithLabelValues(phase, status).Inc()
	}
}

// RecordPhaseDuration records how long a pipeline phase took.
func RecordPhaseDuration(phase string, seconds float64) {
	if globalManager.enabled {
		globalManager.phaseDuration.WithLabelValues(phase).Observe(seconds)
	}
}

// RecordActivitiesIngested adds to the ingested activity counter.
func RecordActivitiesIngested(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.activitiesIngested.Add(float64(n))
	}
}

// RecordFITFileConverted increments the FIT conversion counter.
func RecordFITFileConverted() {
	if globalManager.enabled {
		globalManager.fitFilesConverted.Inc()
	}
}

// RecordParseFallback increments the malformed-field counter for a field kind.
func RecordParseFallback(field string) {
	if globalManager.enabled {
		globalManager.parseFallbacks.WithLabelValues(field).Inc()
	}
}

// RecordSyntheticRuns adds to the synthetic run counter.
func RecordSyntheticRuns(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.syntheticRunsGenerated.Add(float64(n))
	}
}

// UpdateFormScore sets the most recent overall form score gauge.
func UpdateFormScore(score float64) {
	if globalManager.enabled {
		globalManager.formScore.Set(score)
	}
}

// RecordPredictionScore observes a predicted form score.
func RecordPredictionScore(score float64) {
	if globalManager.enabled {
		globalManager.predictionScore.Observe(score)
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}
