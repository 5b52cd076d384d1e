// Package logger provides audit logging for prediction lifecycle events.
package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/models"
)

// PredictionLogger provides a dedicated audit trail for prediction
// lifecycle events.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction audit logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction_audit"),
	}
}

// LogPrediction logs an emitted prediction row.
func (pl *PredictionLogger) LogPrediction(row *models.PredictionRow) {
	pl.WithFields(logrus.Fields{
		"game_id":    row.GameID,
		"league":     row.League,
		"home":       row.HomeTeamKey,
		"away":       row.AwayTeamKey,
		"pick_side":  row.PickSide,
		"win_prob":   row.WinProb,
		"edge":       row.Edge,
		"confidence": row.Confidence,
		"tier":       row.Tier,
	}).Info("Prediction emitted")
}

// LogOutcome logs a resolved prediction.
func (pl *PredictionLogger) LogOutcome(row *models.PredictionRow, winnerTeamKey string, won bool) {
	pl.WithFields(logrus.Fields{
		"game_id":  row.GameID,
		"league":   row.League,
		"pick":     row.PickedTeamKey(),
		"winner":   winnerTeamKey,
		"win_prob": row.WinProb,
		"won":      won,
	}).Info("Prediction outcome resolved")
}

// LogRatingsRefresh logs a completed rating rebuild and swap.
func (pl *PredictionLogger) LogRatingsRefresh(league models.League, teams, applied, skipped int) {
	pl.WithFields(logrus.Fields{
		"league":  league,
		"teams":   teams,
		"applied": applied,
		"skipped": skipped,
	}).Info("Rating store rebuilt and installed")
}
