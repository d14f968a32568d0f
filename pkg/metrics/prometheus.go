// Package metrics provides Prometheus metrics for the diagnostics engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Report pipeline.
	reportsGenerated  prometheus.Counter
	reportDuration    prometheus.Histogram
	snapshotsRejected prometheus.Counter
	flaggedKPIs       prometheus.Counter
	incompleteAxes    prometheus.Counter

	// Knowledge base.
	profileFallbacks  prometheus.Counter
	knowledgeReloads  *prometheus.CounterVec
	knowledgeProfiles prometheus.Gauge

	// Analysis outputs.
	riskAlerts *prometheus.CounterVec
	insights   *prometheus.CounterVec

	// Report cache.
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Batch scoring.
	batchSize prometheus.Histogram

	// HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "pulse",
		subsystem:        "engine",
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

	m.reportsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_generated_total",
		Help:      "Total number of diagnostic reports generated",
	})

	m.reportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_duration_milliseconds",
		Help:      "Histogram of end-to-end report generation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_rejected_total",
		Help:      "Total number of snapshots rejected before scoring",
	})

	m.flaggedKPIs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flagged_kpis_total",
		Help:      "Total number of KPI responses excluded by validation",
	})

	m.incompleteAxes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "incomplete_axes_total",
		Help:      "Total number of axes reported incomplete for lack of responses",
	})

	m.profileFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_fallbacks_total",
		Help:      "Lookups answered by the general profile for lack of an exact cluster match",
	})

	m.knowledgeReloads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "knowledge_reloads_total",
			Help:      "Knowledge-base load attempts by result",
		},
		[]string{"result"},
	)

	m.knowledgeProfiles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "knowledge_profiles",
		Help:      "Number of cluster profiles in the active knowledge base",
	})

	m.riskAlerts = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "risk_alerts_total",
			Help:      "Risk alerts produced, by severity",
		},
		[]string{"severity"},
	)

	m.insights = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "correlation_insights_total",
			Help:      "Correlation insights produced, by formula",
		},
		[]string{"formula"},
	)

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_cache_hits_total",
		Help:      "Report cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_cache_misses_total",
		Help:      "Report cache misses",
	})

	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_size",
		Help:      "Number of snapshots per batch request",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
	})

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
}

// RecordReportGenerated increments the report counter.
func RecordReportGenerated() {
	if globalManager != nil && globalManager.enabled {
		globalManager.reportsGenerated.Inc()
	}
}

// RecordReportDuration records end-to-end report latency.
func RecordReportDuration(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.reportDuration.Observe(latencyMs)
	}
}

// RecordSnapshotRejected counts a snapshot rejected before scoring.
func RecordSnapshotRejected() {
	if globalManager != nil && globalManager.enabled {
		globalManager.snapshotsRejected.Inc()
	}
}

// RecordFlaggedKPIs counts responses excluded by validation.
func RecordFlaggedKPIs(n int) {
	if globalManager != nil && globalManager.enabled && n > 0 {
		globalManager.flaggedKPIs.Add(float64(n))
	}
}

// RecordIncompleteAxes counts axes without contributing KPIs.
func RecordIncompleteAxes(n int) {
	if globalManager != nil && globalManager.enabled && n > 0 {
		globalManager.incompleteAxes.Add(float64(n))
	}
}

// RecordProfileFallback counts a general-profile fallback lookup.
func RecordProfileFallback() {
	if globalManager != nil && globalManager.enabled {
		globalManager.profileFallbacks.Inc()
	}
}

// RecordKnowledgeReload counts a load attempt; result is "success" or "failure".
func RecordKnowledgeReload(result string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.knowledgeReloads.WithLabelValues(result).Inc()
	}
}

// UpdateKnowledgeProfiles sets the active profile count.
func UpdateKnowledgeProfiles(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.knowledgeProfiles.Set(float64(count))
	}
}

// RecordRiskAlert counts one produced alert.
func RecordRiskAlert(severity string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.riskAlerts.WithLabelValues(severity).Inc()
	}
}

// RecordInsight counts one produced insight.
func RecordInsight(formula string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.insights.WithLabelValues(formula).Inc()
	}
}

// RecordCacheHit counts a report cache hit.
func RecordCacheHit() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss counts a report cache miss.
func RecordCacheMiss() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

// RecordBatchSize records the size of a batch request.
func RecordBatchSize(n int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.batchSize.Observe(float64(n))
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// GetRegistry returns the custom registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
