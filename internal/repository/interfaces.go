// Package repository provides data access layers over PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/slate-edge/internal/models"
)

// GameResultRepository persists normalized game results.
type GameResultRepository interface {
	Upsert(ctx context.Context, result *models.GameResult) error
	UpsertBatch(ctx context.Context, results []*models.GameResult) error
	GetCompletedInWindow(ctx context.Context, league models.League, from, to time.Time) ([]*models.GameResult, error)
}

// PredictionRepository persists prediction rows and tracks resolution.
// A game carries at most one stored prediction; re-prediction before
// tipoff replaces the row.
type PredictionRepository interface {
	Save(ctx context.Context, row *models.PredictionRow) error
	GetByGameID(ctx context.Context, league models.League, gameID string) (*models.PredictionRow, error)
	GetUnresolved(ctx context.Context, league models.League) ([]*models.PredictionRow, error)
	MarkResolved(ctx context.Context, league models.League, gameID, winnerKey string) (bool, error)
}

// CalibrationRepository persists per-league calibration bins so the
// tracker survives restarts.
type CalibrationRepository interface {
	SaveBins(ctx context.Context, league models.League, bins []models.CalibrationBin) error
	LoadBins(ctx context.Context, league models.League) ([]models.CalibrationBin, error)
}
