// Package logger provides opportunity scan logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// OpportunityLogger provides dedicated logging for the value scan.
type OpportunityLogger struct {
	*logrus.Entry
}

// NewOpportunityLogger creates a new opportunity logger.
func NewOpportunityLogger(baseLogger *logrus.Logger) *OpportunityLogger {
	return &OpportunityLogger{
		Entry: baseLogger.WithField("component", "opportunity"),
	}
}

// LogOpportunity logs an accepted pick.
func (ol *OpportunityLogger) LogOpportunity(league, match, pick string, odd, edge, ev, score float64, confidence string) {
	ol.WithFields(logrus.Fields{
		"league":     league,
		"match":      match,
		"pick":       pick,
		"odd":        odd,
		"edge":       edge,
		"ev":         ev,
		"score":      score,
		"confidence": confidence,
	}).Info("Opportunity found")
}

// LogNoQuote logs an odds event that could not be priced.
func (ol *OpportunityLogger) LogNoQuote(league, match, reason string) {
	ol.WithFields(logrus.Fields{
		"league": league,
		"match":  match,
		"reason": reason,
	}).Debug("Event skipped")
}

// LogScanSummary logs the outcome of a full scan.
func (ol *OpportunityLogger) LogScanSummary(leagues, events, opportunities, recorded int, durationMs float64) {
	ol.WithFields(logrus.Fields{
		"leagues":       leagues,
		"events":        events,
		"opportunities": opportunities,
		"recorded":      recorded,
		"duration_ms":   durationMs,
	}).Info("Opportunity scan completed")
}
