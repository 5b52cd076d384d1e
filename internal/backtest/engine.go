// Package backtest replays historical games through the prediction
// pipeline to measure how it would have performed.
package backtest

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/engine/calibration"
	"github.com/yourusername/slate-edge/internal/engine/predict"
	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

// Engine runs walk-forward evaluations. Each game is predicted with only
// the ratings available before it was played, then applied to the store.
type Engine struct {
	config   Config
	updater  *rating.Updater
	pipeline *predict.Pipeline
	logger   *logrus.Logger
}

// NewEngine creates a walk-forward evaluation engine
func NewEngine(cfg Config, logger *logrus.Logger) (*Engine, error) {
	if !cfg.League.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownLeague, cfg.League)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		config:   cfg,
		updater:  rating.NewUpdater(cfg.RatingParams, logger),
		pipeline: predict.NewPipeline(cfg.RatingParams, cfg.BlendParams),
		logger:   logger,
	}, nil
}

// Run evaluates the pipeline over the given games. Games are replayed in
// chronological order; unusable results are skipped the same way a live
// refresh skips them.
func (e *Engine) Run(results []*models.GameResult) (Metrics, error) {
	games := make([]*models.GameResult, 0, len(results))
	for _, g := range results {
		if g.Usable() && g.League == e.config.League {
			games = append(games, g)
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Date.Equal(games[j].Date) {
			return games[i].GameID < games[j].GameID
		}
		return games[i].Date.Before(games[j].Date)
	})

	if len(games) <= e.config.WarmupGames {
		return Metrics{}, fmt.Errorf("not enough games: have %d, need more than %d warmup", len(games), e.config.WarmupGames)
	}

	store := rating.NewStore(e.config.League)
	tracker := calibration.NewTracker()
	state := newRunState()

	for i, game := range games {
		if i >= e.config.WarmupGames {
			e.scoreGame(store, tracker, state, game)
		}
		e.updater.Replay(store, games[i:i+1])
	}

	metrics := calculateMetrics(state, tracker.Summary(e.config.League))
	e.logger.WithFields(logrus.Fields{
		"league":    e.config.League,
		"predicted": metrics.Predicted,
		"accuracy":  metrics.Accuracy,
	}).Info("Walk-forward evaluation complete")

	return metrics, nil
}

// scoreGame predicts one game against the pre-game store and tallies the
// outcome. Draws are excluded from scoring like they are from live
// resolution.
func (e *Engine) scoreGame(store *rating.Store, tracker *calibration.Tracker, state *runState, game *models.GameResult) {
	winner := game.WinnerKey()
	if winner == "" {
		return
	}

	fixture := &models.Fixture{
		GameID:      game.GameID,
		League:      game.League,
		Date:        game.Date,
		HomeTeamKey: game.HomeTeamKey,
		AwayTeamKey: game.AwayTeamKey,
	}
	row := e.pipeline.Predict(store, fixture, nil)
	if row.PickSide == "" {
		return
	}

	won := row.PickedTeamKey() == winner
	tracker.Record(game.League, row.WinProb, won)
	state.record(row, won)
}
