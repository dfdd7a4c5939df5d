// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by mode and status",
	}, []string{"mode", "status"})
)

// Backtest histograms
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// Backtest gauge vectors
var (
	BacktestBrierScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_brier_score",
		Help:      "Brier score of the latest backtest per league",
	}, []string{"league"})
	BacktestROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_roi",
		Help:      "Return on investment of the latest backtest per league",
	}, []string{"league"})
)

// RecordBacktestRun records a backtest run event.
// mode should be one of: "odds", "top_pick"
// status should be one of: "success", "failure"
func RecordBacktestRun(mode, status string) {
	BacktestRunsTotal.WithLabelValues(mode, status).Inc()
}

// RecordBacktestDuration records backtest duration.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}

// RecordBacktestResult publishes the headline numbers of a league backtest.
func RecordBacktestResult(league string, brier, roi float64) {
	BacktestBrierScore.WithLabelValues(league).Set(brier)
	BacktestROI.WithLabelValues(league).Set(roi)
}
