// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetRecorded logs a paper bet written to the bet log.
func (al *AuditLogger) LogBetRecorded(betID, externalMatchID, pick string, stake, odd float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":            betID,
		"external_match_id": externalMatchID,
		"pick":              pick,
		"stake":             stake,
		"odd":               odd,
		"timestamp":         timestamp.Unix(),
	}).Info("Bet recorded")
}

// LogBetSettled logs a bet settlement.
func (al *AuditLogger) LogBetSettled(betID, externalMatchID, result string, profit float64) {
	al.WithFields(logrus.Fields{
		"bet_id":            betID,
		"external_match_id": externalMatchID,
		"result":            result,
		"profit":            profit,
	}).Info("Bet settled")
}

// LogConfigChange logs a runtime configuration change.
func (al *AuditLogger) LogConfigChange(section, parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"section":        section,
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Configuration changed")
}
