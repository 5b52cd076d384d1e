package repository

import (
	"github.com/yourusername/slate-edge/internal/database"
)

// Repositories aggregates all repository implementations
type Repositories struct {
	GameResults  GameResultRepository
	Predictions  PredictionRepository
	Calibrations CalibrationRepository
}

// NewRepositories creates all repositories backed by the same database
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		GameResults:  NewPostgresGameResultRepository(db),
		Predictions:  NewPostgresPredictionRepository(db),
		Calibrations: NewPostgresCalibrationRepository(db),
	}
}
