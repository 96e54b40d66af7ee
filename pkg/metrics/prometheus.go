// Package metrics provides Prometheus metrics for the mockstats service.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring pipeline
	cohortsProcessed  *prometheus.CounterVec
	studentsGraded    prometheus.Counter
	processingLatency prometheus.Histogram
	commits           *prometheus.CounterVec

	// Network rollups
	rollups        prometheus.Counter
	rollupLatency  prometheus.Histogram
	networkSchools prometheus.Gauge

	// Store
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mockstats",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.cohortsProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohorts_processed_total",
		Help:      "Cohorts run through the scoring pipeline, by grading mode",
	}, []string{"mode"})

	m.studentsGraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "students_graded_total",
		Help:      "Students graded and ranked",
	})

	m.processingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohort_processing_milliseconds",
		Help:      "Time to process one cohort in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.commits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "series_commits_total",
		Help:      "Series commits, labelled first or recommit",
	}, []string{"kind"})

	m.rollups = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "network_rollups_total",
		Help:      "Network rollups computed",
	})

	m.rollupLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "network_rollup_milliseconds",
		Help:      "Network rollup latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.networkSchools = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "network_schools",
		Help:      "Schools in the last network rollup",
	})

	m.storeOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_operations_total",
		Help:      "Store operations by operation and outcome",
	}, []string{"op", "outcome"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Store operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})
}

// RecordCohortProcessed records one processed cohort.
func (m *Manager) RecordCohortProcessed(mode string, students int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.cohortsProcessed.WithLabelValues(mode).Inc()
	m.studentsGraded.Add(float64(students))
	m.processingLatency.Observe(latencyMs)
}

// RecordCommit records a series commit.
func (m *Manager) RecordCommit(recommit bool) {
	if !m.enabled {
		return
	}
	kind := "first"
	if recommit {
		kind = "recommit"
	}
	m.commits.WithLabelValues(kind).Inc()
}

// RecordRollup records a network rollup.
func (m *Manager) RecordRollup(schools int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.rollups.Inc()
	m.rollupLatency.Observe(latencyMs)
	m.networkSchools.Set(float64(schools))
}

// RecordStoreOperation records one store call.
func (m *Manager) RecordStoreOperation(op string, err error, latencyMs float64) {
	if !m.enabled {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeOperations.WithLabelValues(op, outcome).Inc()
	m.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordHTTPRequest records one served HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError records an error by component and type.
func (m *Manager) RecordError(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Default returns the global manager.
func Default() *Manager { return globalManager }

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RegisterRuntimeCollectors adds Go runtime and process collectors to the
// global registry. Repeated calls are no-ops.
func RegisterRuntimeCollectors() error {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := customRegistry.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

// RecordCohortProcessed records one processed cohort on the global manager.
func RecordCohortProcessed(mode string, students int, latencyMs float64) {
	globalManager.RecordCohortProcessed(mode, students, latencyMs)
}

// RecordCommit records a series commit on the global manager.
func RecordCommit(recommit bool) { globalManager.RecordCommit(recommit) }

// RecordRollup records a network rollup on the global manager.
func RecordRollup(schools int, latencyMs float64) { globalManager.RecordRollup(schools, latencyMs) }

// RecordStoreOperation records a store call on the global manager.
func RecordStoreOperation(op string, err error, latencyMs float64) {
	globalManager.RecordStoreOperation(op, err, latencyMs)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError records an error on the global manager.
func RecordError(component, errorType string) { globalManager.RecordError(component, errorType) }
