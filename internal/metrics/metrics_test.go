package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordBetRecorded(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(BetsRecordedTotal)

	RecordBetRecorded(3)

	assert.Equal(t, before+3, testutil.ToFloat64(BetsRecordedTotal))
}

func TestRecordBetSettled(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(BetsSettledTotal.WithLabelValues("WIN"))

	RecordBetSettled("WIN")

	assert.Equal(t, before+1, testutil.ToFloat64(BetsSettledTotal.WithLabelValues("WIN")))
}

func TestGauges(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name  string
		units float64
	}{
		{name: "positive", units: 12.5},
		{name: "zero", units: 0},
		{name: "negative", units: -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			UpdateNetUnits(tt.units)
			assert.Equal(t, tt.units, testutil.ToFloat64(NetUnits))
		})
	}

	UpdateUnsettledBets(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(UnsettledBets))
}

func TestMarketMetrics(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(OpportunitiesTotal.WithLabelValues("PL", "HIGH"))

	RecordOpportunity("PL", "HIGH", "HOME", 0.06)
	RecordOddsAPIRequest("soccer_epl", "success")
	UpdateOddsAPIQuota(480)
	RecordCacheHit()
	RecordCacheMiss()

	assert.Equal(t, before+1, testutil.ToFloat64(OpportunitiesTotal.WithLabelValues("PL", "HIGH")))
	assert.Equal(t, float64(480), testutil.ToFloat64(OddsAPIQuotaRemaining))
}

func TestBacktestMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBacktestRun("odds", "success")
		RecordBacktestDuration(12)
		RecordTrainingDuration("SA", 0.3)
	})

	RecordBacktestResult("SA", 0.61, -0.03)
	assert.Equal(t, 0.61, testutil.ToFloat64(BacktestBrierScore.WithLabelValues("SA")))
	assert.Equal(t, -0.03, testutil.ToFloat64(BacktestROI.WithLabelValues("SA")))
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordOddsSnapshots(1)

	handler := Handler()
	assert.Implements(t, (*http.Handler)(nil), handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "egg_stats_odds_snapshots_total"))
}

func BenchmarkRecordOpportunity(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordOpportunity("PL", "MEDIUM", "DRAW", 0.04)
	}
}
