// Package metrics provides centralized Prometheus metrics registry for Egg Stats.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "egg_stats"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BetsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_recorded_total",
		Help:      "Total number of paper bets written to the bet log",
	})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled by result",
	}, []string{"result"})
	MatchesSyncedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_synced_total",
		Help:      "Total number of match results written by the result sync",
	})
	MatchesIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_ingested_total",
		Help:      "Total number of historical matches upserted by league",
	}, []string{"league"})
	OddsSnapshotsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_snapshots_total",
		Help:      "Total number of closing-odds snapshots stored",
	})
)

// Gauge metrics
var (
	UnsettledBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "unsettled_bets",
		Help:      "Number of bets awaiting a final score",
	})
	NetUnits = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "net_units",
		Help:      "Net profit in units across all settled bets",
	})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "model_training_duration_seconds",
		Help:      "Duration of rating model training in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"league"})
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of a full opportunity scan in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BetsRecordedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(MatchesSyncedTotal)
		registry.MustRegister(MatchesIngestedTotal)
		registry.MustRegister(OddsSnapshotsTotal)

		registry.MustRegister(UnsettledBets)
		registry.MustRegister(NetUnits)

		registry.MustRegister(TrainingDuration)
		registry.MustRegister(ScanDuration)

		// Register market metrics
		registry.MustRegister(OpportunitiesTotal)
		registry.MustRegister(OpportunityEdge)
		registry.MustRegister(OddsAPIRequestsTotal)
		registry.MustRegister(OddsAPIQuotaRemaining)
		registry.MustRegister(OddsCacheLookupsTotal)

		// Register backtest metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BacktestBrierScore)
		registry.MustRegister(BacktestROI)
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

// RecordBetRecorded records a bet log insert.
func RecordBetRecorded(count int) {
	BetsRecordedTotal.Add(float64(count))
}

// RecordBetSettled records a bet settlement event.
func RecordBetSettled(result string) {
	BetsSettledTotal.WithLabelValues(result).Inc()
}

// RecordMatchesSynced records finished matches written by the result sync.
func RecordMatchesSynced(count int) {
	MatchesSyncedTotal.Add(float64(count))
}

// RecordMatchesIngested records historical matches upserted for a league.
func RecordMatchesIngested(league string, count int) {
	MatchesIngestedTotal.WithLabelValues(league).Add(float64(count))
}

// RecordOddsSnapshots records stored odds snapshots.
func RecordOddsSnapshots(count int) {
	OddsSnapshotsTotal.Add(float64(count))
}

// UpdateUnsettledBets updates the unsettled bets gauge.
func UpdateUnsettledBets(count int) {
	UnsettledBets.Set(float64(count))
}

// UpdateNetUnits updates the net units gauge.
func UpdateNetUnits(units float64) {
	NetUnits.Set(units)
}

// RecordTrainingDuration records how long a league model took to train.
func RecordTrainingDuration(league string, durationSeconds float64) {
	TrainingDuration.WithLabelValues(league).Observe(durationSeconds)
}

// RecordScanDuration records the duration of an opportunity scan.
func RecordScanDuration(durationSeconds float64) {
	ScanDuration.Observe(durationSeconds)
}
