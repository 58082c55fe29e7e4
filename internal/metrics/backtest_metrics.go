// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})

	BacktestCacheEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betfilter",
		Name:      "backtest_cache_events_total",
		Help:      "Total number of backtest result cache hits and misses",
	}, []string{"event"})
)

// Backtest histograms
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betfilter",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})

	BacktestOutcomesPerRun = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betfilter",
		Name:      "backtest_outcomes_per_run",
		Help:      "Number of bet outcomes produced per backtest run",
		Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000},
	})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure", "cached"
func RecordBacktestRun(status string, durationSeconds float64, outcomes int) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
	BacktestDuration.Observe(durationSeconds)
	BacktestOutcomesPerRun.Observe(float64(outcomes))
}

// RecordBacktestCacheEvent records a backtest cache hit or miss.
func RecordBacktestCacheEvent(hit bool) {
	event := "miss"
	if hit {
		event = "hit"
	}
	BacktestCacheEventsTotal.WithLabelValues(event).Inc()
}
