// Package logger provides model-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ModelLogger provides dedicated logging for rating model training.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: baseLogger.WithField("component", "model"),
	}
}

// LogTraining logs a completed training run.
func (ml *ModelLogger) LogTraining(league string, matches, teams int, homeAdvantage, leagueAvgGoals, durationMs float64) {
	ml.WithFields(logrus.Fields{
		"league":           league,
		"matches":          matches,
		"teams":            teams,
		"home_advantage":   homeAdvantage,
		"league_avg_goals": leagueAvgGoals,
		"duration_ms":      durationMs,
	}).Info("Rating model trained")
}

// LogUnknownTeam logs a fixture that references a team the model has never seen.
func (ml *ModelLogger) LogUnknownTeam(league, homeTeam, awayTeam string) {
	ml.WithFields(logrus.Fields{
		"league":    league,
		"home_team": homeTeam,
		"away_team": awayTeam,
	}).Debug("Team not present in rating model")
}
