// Package metrics provides the centralized Prometheus metrics registry for the scanner and backtest services.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScanTicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "scan_ticks_total",
		Help:      "Total number of scan ticks executed",
	})
	FilterEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "filter_evaluations_total",
		Help:      "Total number of filter evaluations against snapshots",
	})
	FilterMatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "filter_matches_total",
		Help:      "Total number of filters that matched a snapshot",
	})
	EvaluationDiagnosticsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "evaluation_diagnostics_total",
		Help:      "Total number of non-fatal evaluation diagnostics by code",
	}, []string{"code"})
	NotificationsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications recorded",
	})
	AlertDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "alert_deliveries_total",
		Help:      "Total number of alert delivery attempts by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	ActiveFilters = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "betfilter",
		Name:      "active_filters",
		Help:      "Number of currently active filters",
	})
	LiveFixtures = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "betfilter",
		Name:      "live_fixtures",
		Help:      "Number of fixtures currently in play",
	})
)

// Histogram metrics
var (
	ScanTickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betfilter",
		Name:      "scan_tick_duration_seconds",
		Help:      "Duration of scan ticks in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FilterEvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betfilter",
		Name:      "filter_evaluation_duration_seconds",
		Help:      "Duration of single filter evaluations in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(ScanTicksTotal)
		registry.MustRegister(FilterEvaluationsTotal)
		registry.MustRegister(FilterMatchesTotal)
		registry.MustRegister(EvaluationDiagnosticsTotal)
		registry.MustRegister(NotificationsSentTotal)
		registry.MustRegister(AlertDeliveriesTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveFilters)
		registry.MustRegister(LiveFixtures)

		// Register histogram metrics
		registry.MustRegister(ScanTickDuration)
		registry.MustRegister(FilterEvaluationDuration)

		// Register backtest metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BacktestCacheEventsTotal)
		registry.MustRegister(BacktestOutcomesPerRun)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordScanTick records a completed scan tick.
func RecordScanTick(durationSeconds float64) {
	ScanTicksTotal.Inc()
	ScanTickDuration.Observe(durationSeconds)
}

// RecordFilterEvaluation records a single filter evaluation.
func RecordFilterEvaluation(durationSeconds float64) {
	FilterEvaluationsTotal.Inc()
	FilterEvaluationDuration.Observe(durationSeconds)
}

// RecordFilterMatch records a filter matching a snapshot.
func RecordFilterMatch() {
	FilterMatchesTotal.Inc()
}

// RecordEvaluationDiagnostic records a non-fatal evaluation diagnostic.
func RecordEvaluationDiagnostic(code string) {
	EvaluationDiagnosticsTotal.WithLabelValues(code).Inc()
}

// RecordNotificationSent records a stored notification.
func RecordNotificationSent() {
	NotificationsSentTotal.Inc()
}

// RecordAlertDelivery records an alert delivery attempt.
func RecordAlertDelivery(delivered bool) {
	status := "delivered"
	if !delivered {
		status = "failed"
	}
	AlertDeliveriesTotal.WithLabelValues(status).Inc()
}

// UpdateActiveFilters updates the active filters gauge.
func UpdateActiveFilters(count float64) {
	ActiveFilters.Set(count)
}

// UpdateLiveFixtures updates the live fixtures gauge.
func UpdateLiveFixtures(count float64) {
	LiveFixtures.Set(count)
}
