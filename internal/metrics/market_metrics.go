// Package metrics defines market and odds-feed metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Market counter vectors
var (
	OpportunitiesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "opportunities_total",
		Help:      "Total number of value opportunities found by league and confidence",
	}, []string{"league", "confidence"})
	OddsAPIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_api_requests_total",
		Help:      "Total number of odds feed requests by sport key and status",
	}, []string{"sport_key", "status"})
	OddsCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_cache_lookups_total",
		Help:      "Odds cache lookups by outcome",
	}, []string{"outcome"})
)

// Market histogram vectors
var (
	OpportunityEdge = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "opportunity_edge",
		Help:      "Edge of accepted opportunities by pick",
		Buckets:   []float64{0.02, 0.03, 0.04, 0.06, 0.08, 0.1, 0.15, 0.2, 0.3},
	}, []string{"pick"})
)

// Market gauges
var (
	OddsAPIQuotaRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "odds_api_quota_remaining",
		Help:      "Remaining requests reported by the odds feed",
	})
)

// RecordOpportunity records an accepted opportunity.
func RecordOpportunity(league, confidence, pick string, edge float64) {
	OpportunitiesTotal.WithLabelValues(league, confidence).Inc()
	OpportunityEdge.WithLabelValues(pick).Observe(edge)
}

// RecordOddsAPIRequest records an odds feed request.
// status should be one of: "success", "error", "rate_limited", "mock"
func RecordOddsAPIRequest(sportKey, status string) {
	OddsAPIRequestsTotal.WithLabelValues(sportKey, status).Inc()
}

// UpdateOddsAPIQuota updates the remaining quota gauge.
func UpdateOddsAPIQuota(remaining float64) {
	OddsAPIQuotaRemaining.Set(remaining)
}

// RecordCacheHit records an odds cache hit.
func RecordCacheHit() {
	OddsCacheLookupsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records an odds cache miss.
func RecordCacheMiss() {
	OddsCacheLookupsTotal.WithLabelValues("miss").Inc()
}
