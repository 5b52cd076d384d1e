// Package engine consolidates the rating, prediction, upset and
// calibration pipeline behind one facade.
package engine

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/engine/calibration"
	"github.com/yourusername/slate-edge/internal/engine/predict"
	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/engine/upset"
	"github.com/yourusername/slate-edge/internal/models"
)

// Config carries per-league overrides. Leagues without an entry run on
// defaults.
type Config struct {
	RatingParams map[models.League]rating.Params
	BlendParams  map[models.League]predict.BlendParams
}

// Engine owns one pipeline per league and the installed rating stores.
// Stores are immutable once installed: a refresh builds a fresh store from
// scratch and swaps it in. Concurrent rebuilds are deterministic functions
// of the same input, so last-write-wins installs are safe.
type Engine struct {
	logger    *logrus.Logger
	updaters  map[models.League]*rating.Updater
	pipelines map[models.League]*predict.Pipeline
	detector  *upset.Detector
	tracker   *calibration.Tracker

	mu     sync.RWMutex
	stores map[models.League]*rating.Store
}

// New creates an engine for all supported leagues.
func New(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}

	e := &Engine{
		logger:    logger,
		updaters:  make(map[models.League]*rating.Updater),
		pipelines: make(map[models.League]*predict.Pipeline),
		detector:  upset.NewDetector(logger),
		tracker:   calibration.NewTracker(),
		stores:    make(map[models.League]*rating.Store),
	}

	for _, league := range models.Leagues() {
		ratingParams := rating.DefaultParams(league)
		if p, ok := cfg.RatingParams[league]; ok {
			ratingParams = p
		}
		blendParams := predict.DefaultBlendParams()
		if b, ok := cfg.BlendParams[league]; ok {
			blendParams = b
		}
		e.updaters[league] = rating.NewUpdater(ratingParams, logger)
		e.pipelines[league] = predict.NewPipeline(ratingParams, blendParams)
	}

	return e
}

// Tracker exposes the calibration tracker for persistence seeding.
func (e *Engine) Tracker() *calibration.Tracker {
	return e.tracker
}

// BuildRatings replays a league's completed games into a fresh store. The
// result is not installed; callers decide when to swap it in.
func (e *Engine) BuildRatings(league models.League, results []*models.GameResult) (*rating.Store, rating.ReplayStats, error) {
	updater, ok := e.updaters[league]
	if !ok {
		return nil, rating.ReplayStats{}, fmt.Errorf("build ratings: %w: %s", models.ErrUnknownLeague, league)
	}
	store := rating.NewStore(league)
	stats := updater.Replay(store, results)
	return store, stats, nil
}

// Install atomically swaps a freshly built store in as the league's
// current snapshot.
func (e *Engine) Install(store *rating.Store) {
	e.mu.Lock()
	e.stores[store.League()] = store
	e.mu.Unlock()
}

// RatingsReady reports whether every league has an installed store.
func (e *Engine) RatingsReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, league := range models.Leagues() {
		if _, ok := e.stores[league]; !ok {
			return false
		}
	}
	return true
}

// Store returns the installed snapshot for a league.
func (e *Engine) Store(league models.League) (*rating.Store, error) {
	e.mu.RLock()
	store, ok := e.stores[league]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrStoreNotBuilt, league)
	}
	return store, nil
}

// PredictFixture scores one fixture against a rating store snapshot. The
// quote is optional; a nil or unusable quote degrades to the model-only
// probability.
func (e *Engine) PredictFixture(fixture *models.Fixture, store *rating.Store, quote *models.MarketQuote) (*models.PredictionRow, error) {
	pipeline, ok := e.pipelines[fixture.League]
	if !ok {
		return nil, fmt.Errorf("predict fixture %s: %w: %s", fixture.GameID, models.ErrUnknownLeague, fixture.League)
	}
	return pipeline.Predict(store, fixture, quote), nil
}

// DetectUpsets scans a scored slate for live underdogs.
func (e *Engine) DetectUpsets(rows []*models.PredictionRow, store *rating.Store, params upset.Params) []models.UpsetCandidate {
	return e.detector.Detect(rows, store, params)
}

// RecordOutcome resolves one prediction row against the actual winner and
// feeds the calibration tracker. Abstained rows are ignored. Idempotency
// is the caller's concern: resolve each game ID at most once.
func (e *Engine) RecordOutcome(row *models.PredictionRow, actualWinnerTeamKey string) {
	picked := row.PickedTeamKey()
	if picked == "" || actualWinnerTeamKey == "" {
		return
	}
	won := picked == actualWinnerTeamKey
	e.tracker.Record(row.League, row.WinProb, won)

	e.logger.WithFields(logrus.Fields{
		"league":   row.League,
		"game_id":  row.GameID,
		"pick":     picked,
		"win_prob": row.WinProb,
		"won":      won,
	}).Debug("Prediction outcome recorded")
}

// CalibrationSummary reports rolling accuracy and calibration error.
func (e *Engine) CalibrationSummary(league models.League) models.CalibrationSummary {
	return e.tracker.Summary(league)
}
