package database

import (
	"context"
	"fmt"
)

// schemaStatements are applied in order at startup. Statements are
// idempotent so restarts are safe without a separate migration runner.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS game_results (
		game_id        TEXT NOT NULL,
		league         TEXT NOT NULL,
		game_date      TIMESTAMPTZ NOT NULL,
		home_team_key  TEXT NOT NULL,
		away_team_key  TEXT NOT NULL,
		home_score     INTEGER,
		away_score     INTEGER,
		completed      BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (league, game_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_game_results_league_date
		ON game_results (league, game_date)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id             UUID PRIMARY KEY,
		game_id        TEXT NOT NULL,
		league         TEXT NOT NULL,
		game_date      TIMESTAMPTZ NOT NULL,
		home_team_key  TEXT NOT NULL,
		away_team_key  TEXT NOT NULL,
		pick_side      TEXT NOT NULL,
		win_prob       DOUBLE PRECISION NOT NULL,
		raw_home_prob  DOUBLE PRECISION NOT NULL,
		edge           DOUBLE PRECISION NOT NULL,
		confidence     DOUBLE PRECISION NOT NULL,
		tier           TEXT NOT NULL,
		predicted_at   TIMESTAMPTZ NOT NULL,
		resolved       BOOLEAN NOT NULL DEFAULT FALSE,
		resolved_at    TIMESTAMPTZ,
		winner_key     TEXT,
		UNIQUE (league, game_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_unresolved
		ON predictions (league, resolved) WHERE NOT resolved`,
	`CREATE TABLE IF NOT EXISTS calibration_bins (
		league    TEXT NOT NULL,
		bin_index INTEGER NOT NULL,
		lo        DOUBLE PRECISION NOT NULL,
		hi        DOUBLE PRECISION NOT NULL,
		n         INTEGER NOT NULL DEFAULT 0,
		correct   INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (league, bin_index)
	)`,
}

// InitSchema creates the tables the service needs if they do not exist.
func InitSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
