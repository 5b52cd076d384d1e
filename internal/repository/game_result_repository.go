package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/slate-edge/internal/database"
	"github.com/yourusername/slate-edge/internal/models"
)

const upsertGameResultSQL = `
	INSERT INTO game_results (game_id, league, game_date, home_team_key, away_team_key,
	                          home_score, away_score, completed, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	ON CONFLICT (league, game_id) DO UPDATE SET
		game_date = EXCLUDED.game_date,
		home_team_key = EXCLUDED.home_team_key,
		away_team_key = EXCLUDED.away_team_key,
		home_score = EXCLUDED.home_score,
		away_score = EXCLUDED.away_score,
		completed = EXCLUDED.completed,
		updated_at = NOW()
`

// PostgresGameResultRepository implements GameResultRepository for PostgreSQL
type PostgresGameResultRepository struct {
	db *database.DB
}

// NewPostgresGameResultRepository creates a new game result repository
func NewPostgresGameResultRepository(db *database.DB) GameResultRepository {
	return &PostgresGameResultRepository{db: db}
}

// Upsert inserts or updates a game result keyed by (league, game_id)
func (r *PostgresGameResultRepository) Upsert(ctx context.Context, result *models.GameResult) error {
	_, err := r.db.GetPool().Exec(ctx, upsertGameResultSQL,
		result.GameID, result.League, result.Date, result.HomeTeamKey, result.AwayTeamKey,
		result.HomeScore, result.AwayScore, result.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game result: %w", err)
	}
	return nil
}

// UpsertBatch inserts or updates a batch of results in one transaction
func (r *PostgresGameResultRepository) UpsertBatch(ctx context.Context, results []*models.GameResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, result := range results {
			_, err := tx.Exec(ctx, upsertGameResultSQL,
				result.GameID, result.League, result.Date, result.HomeTeamKey, result.AwayTeamKey,
				result.HomeScore, result.AwayScore, result.Completed,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert game result %s: %w", result.GameID, err)
			}
		}
		return nil
	})
}

// GetCompletedInWindow retrieves completed games in [from, to] ordered by
// date then game ID, the order the rating replay expects
func (r *PostgresGameResultRepository) GetCompletedInWindow(ctx context.Context, league models.League, from, to time.Time) ([]*models.GameResult, error) {
	query := `
		SELECT game_id, league, game_date, home_team_key, away_team_key,
		       home_score, away_score, completed
		FROM game_results
		WHERE league = $1 AND completed AND game_date >= $2 AND game_date <= $3
		ORDER BY game_date, game_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		result := &models.GameResult{}
		err := rows.Scan(
			&result.GameID, &result.League, &result.Date, &result.HomeTeamKey,
			&result.AwayTeamKey, &result.HomeScore, &result.AwayScore, &result.Completed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %w", err)
	}

	return results, nil
}
