package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/slate-edge/internal/database"
	"github.com/yourusername/slate-edge/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Save inserts a prediction row, replacing any unresolved prediction for
// the same game. Resolved predictions are immutable.
func (r *PostgresPredictionRepository) Save(ctx context.Context, row *models.PredictionRow) error {
	query := `
		INSERT INTO predictions (id, game_id, league, game_date, home_team_key, away_team_key,
		                         pick_side, win_prob, raw_home_prob, edge, confidence, tier, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (league, game_id) DO UPDATE SET
			id = EXCLUDED.id,
			pick_side = EXCLUDED.pick_side,
			win_prob = EXCLUDED.win_prob,
			raw_home_prob = EXCLUDED.raw_home_prob,
			edge = EXCLUDED.edge,
			confidence = EXCLUDED.confidence,
			tier = EXCLUDED.tier,
			predicted_at = EXCLUDED.predicted_at
		WHERE NOT predictions.resolved
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		row.ID, row.GameID, row.League, row.Date, row.HomeTeamKey, row.AwayTeamKey,
		row.PickSide, row.WinProb, row.RawHomeProb, row.Edge, row.Confidence, row.Tier,
		row.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// GetByGameID retrieves the stored prediction for a game
func (r *PostgresPredictionRepository) GetByGameID(ctx context.Context, league models.League, gameID string) (*models.PredictionRow, error) {
	query := `
		SELECT id, game_id, league, game_date, home_team_key, away_team_key,
		       pick_side, win_prob, raw_home_prob, edge, confidence, tier, predicted_at
		FROM predictions
		WHERE league = $1 AND game_id = $2
	`

	row := &models.PredictionRow{}
	err := r.db.GetPool().QueryRow(ctx, query, league, gameID).Scan(
		&row.ID, &row.GameID, &row.League, &row.Date, &row.HomeTeamKey, &row.AwayTeamKey,
		&row.PickSide, &row.WinProb, &row.RawHomeProb, &row.Edge, &row.Confidence, &row.Tier,
		&row.PredictedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(errScanPrediction, err)
	}

	return row, nil
}

// GetUnresolved retrieves all predictions awaiting an outcome
func (r *PostgresPredictionRepository) GetUnresolved(ctx context.Context, league models.League) ([]*models.PredictionRow, error) {
	query := `
		SELECT id, game_id, league, game_date, home_team_key, away_team_key,
		       pick_side, win_prob, raw_home_prob, edge, confidence, tier, predicted_at
		FROM predictions
		WHERE league = $1 AND NOT resolved
		ORDER BY game_date, game_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.PredictionRow
	for rows.Next() {
		row := &models.PredictionRow{}
		err := rows.Scan(
			&row.ID, &row.GameID, &row.League, &row.Date, &row.HomeTeamKey, &row.AwayTeamKey,
			&row.PickSide, &row.WinProb, &row.RawHomeProb, &row.Edge, &row.Confidence, &row.Tier,
			&row.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}

	return predictions, nil
}

// MarkResolved records the winner for a prediction. Returns false when the
// prediction was already resolved, which makes resolution idempotent per
// game.
func (r *PostgresPredictionRepository) MarkResolved(ctx context.Context, league models.League, gameID, winnerKey string) (bool, error) {
	query := `
		UPDATE predictions
		SET resolved = TRUE, resolved_at = NOW(), winner_key = $3
		WHERE league = $1 AND game_id = $2 AND NOT resolved
	`

	tag, err := r.db.GetPool().Exec(ctx, query, league, gameID, winnerKey)
	if err != nil {
		return false, fmt.Errorf("failed to resolve prediction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
