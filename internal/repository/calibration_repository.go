package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/slate-edge/internal/database"
	"github.com/yourusername/slate-edge/internal/models"
)

// PostgresCalibrationRepository implements CalibrationRepository for PostgreSQL
type PostgresCalibrationRepository struct {
	db *database.DB
}

// NewPostgresCalibrationRepository creates a new calibration repository
func NewPostgresCalibrationRepository(db *database.DB) CalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

// SaveBins writes the full bin table for a league in one transaction
func (r *PostgresCalibrationRepository) SaveBins(ctx context.Context, league models.League, bins []models.CalibrationBin) error {
	query := `
		INSERT INTO calibration_bins (league, bin_index, lo, hi, n, correct, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (league, bin_index) DO UPDATE SET
			lo = EXCLUDED.lo,
			hi = EXCLUDED.hi,
			n = EXCLUDED.n,
			correct = EXCLUDED.correct,
			updated_at = NOW()
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for i, bin := range bins {
			_, err := tx.Exec(ctx, query, league, i, bin.Lo, bin.Hi, bin.N, bin.Correct)
			if err != nil {
				return fmt.Errorf("failed to save calibration bin %d: %w", i, err)
			}
		}
		return nil
	})
}

// LoadBins retrieves the bin table for a league ordered by bin index.
// An empty slice means no calibration history has been persisted yet.
func (r *PostgresCalibrationRepository) LoadBins(ctx context.Context, league models.League) ([]models.CalibrationBin, error) {
	query := `
		SELECT lo, hi, n, correct
		FROM calibration_bins
		WHERE league = $1
		ORDER BY bin_index
	`

	rows, err := r.db.GetPool().Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration bins: %w", err)
	}
	defer rows.Close()

	var bins []models.CalibrationBin
	for rows.Next() {
		var bin models.CalibrationBin
		if err := rows.Scan(&bin.Lo, &bin.Hi, &bin.N, &bin.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan calibration bin: %w", err)
		}
		bins = append(bins, bin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calibration bins: %w", err)
	}

	return bins, nil
}
