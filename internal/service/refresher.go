// Package service orchestrates the engine, providers and repositories.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/engine"
	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/logger"
	"github.com/yourusername/slate-edge/internal/metrics"
	"github.com/yourusername/slate-edge/internal/models"
	"github.com/yourusername/slate-edge/internal/provider"
	"github.com/yourusername/slate-edge/internal/repository"
	"github.com/yourusername/slate-edge/internal/tracing"
)

// RefresherService rebuilds league rating stores from completed results.
// Each refresh replays the full lookback window from scratch and installs
// the resulting store atomically; concurrent readers keep the previous
// store until the swap.
type RefresherService struct {
	engine       *engine.Engine
	schedule     provider.ScheduleProvider
	results      repository.GameResultRepository
	ratingParams map[models.League]rating.Params
	audit        *logger.PredictionLogger
	logger       *logrus.Logger
}

// NewRefresherService creates a new rating refresher
func NewRefresherService(
	eng *engine.Engine,
	schedule provider.ScheduleProvider,
	results repository.GameResultRepository,
	ratingParams map[models.League]rating.Params,
	audit *logger.PredictionLogger,
	log *logrus.Logger,
) *RefresherService {
	if log == nil {
		log = logrus.New()
	}
	return &RefresherService{
		engine:       eng,
		schedule:     schedule,
		results:      results,
		ratingParams: ratingParams,
		audit:        audit,
		logger:       log,
	}
}

// RefreshRatings pulls the lookback window for a league, persists the
// results and installs a freshly built rating store.
func (s *RefresherService) RefreshRatings(ctx context.Context, league models.League) error {
	return tracing.Trace(ctx, "ratings_refresh", func(ctx context.Context) error {
		tracing.AddAnnotation(ctx, "league", league.String())
		return s.refreshRatings(ctx, league)
	})
}

func (s *RefresherService) refreshRatings(ctx context.Context, league models.League) error {
	params, ok := s.ratingParams[league]
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownLeague, league)
	}

	start := time.Now()
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -params.LookbackDays)

	fetched, err := s.schedule.Results(ctx, league, from, to)
	if err != nil {
		metrics.RecordProviderError(s.schedule.Name())
		return fmt.Errorf("failed to fetch results for %s: %w", league, err)
	}

	if err := s.results.UpsertBatch(ctx, fetched); err != nil {
		return fmt.Errorf("failed to persist results for %s: %w", league, err)
	}

	// Rebuild from the repository, not the fetch: earlier syncs may hold
	// finals the provider no longer returns for this window.
	window, err := s.results.GetCompletedInWindow(ctx, league, from, to)
	if err != nil {
		return fmt.Errorf("failed to load results for %s: %w", league, err)
	}

	store, stats, err := s.engine.BuildRatings(league, window)
	if err != nil {
		return fmt.Errorf("failed to build ratings for %s: %w", league, err)
	}
	s.engine.Install(store)

	metrics.RecordRebuild(league.String(), stats.Applied, stats.Skipped, store.Len(), time.Since(start).Seconds())
	if s.audit != nil {
		s.audit.LogRatingsRefresh(league, store.Len(), stats.Applied, stats.Skipped)
	}

	s.logger.WithFields(logrus.Fields{
		"league":  league,
		"teams":   store.Len(),
		"applied": stats.Applied,
		"skipped": stats.Skipped,
	}).Info("Ratings refreshed")

	return nil
}

// RefreshAll refreshes every configured league, continuing past per-league
// failures.
func (s *RefresherService) RefreshAll(ctx context.Context) error {
	var firstErr error
	for league := range s.ratingParams {
		if err := s.RefreshRatings(ctx, league); err != nil {
			s.logger.WithError(err).WithField("league", league).Error("Ratings refresh failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
