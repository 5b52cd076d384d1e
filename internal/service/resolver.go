package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/engine"
	"github.com/yourusername/slate-edge/internal/logger"
	"github.com/yourusername/slate-edge/internal/metrics"
	"github.com/yourusername/slate-edge/internal/models"
	"github.com/yourusername/slate-edge/internal/provider"
	"github.com/yourusername/slate-edge/internal/repository"
	"github.com/yourusername/slate-edge/internal/tracing"
)

// ResolverService matches finals against stored predictions and feeds the
// outcomes into calibration. Each game resolves at most once; the resolved
// flag in the predictions table is the idempotency gate.
type ResolverService struct {
	engine       *engine.Engine
	schedule     provider.ScheduleProvider
	predictions  repository.PredictionRepository
	calibrations repository.CalibrationRepository
	audit        *logger.PredictionLogger
	logger       *logrus.Logger
}

// NewResolverService creates a new outcome resolver
func NewResolverService(
	eng *engine.Engine,
	schedule provider.ScheduleProvider,
	predictions repository.PredictionRepository,
	calibrations repository.CalibrationRepository,
	audit *logger.PredictionLogger,
	log *logrus.Logger,
) *ResolverService {
	if log == nil {
		log = logrus.New()
	}
	return &ResolverService{
		engine:       eng,
		schedule:     schedule,
		predictions:  predictions,
		calibrations: calibrations,
		audit:        audit,
		logger:       log,
	}
}

// RestoreCalibration seeds the engine's calibration tracker from persisted
// bins. Called once at startup, before any outcome resolves.
func (s *ResolverService) RestoreCalibration(ctx context.Context) error {
	for _, league := range models.Leagues() {
		bins, err := s.calibrations.LoadBins(ctx, league)
		if err != nil {
			return fmt.Errorf("failed to load calibration bins for %s: %w", league, err)
		}
		if len(bins) == 0 {
			continue
		}
		s.engine.Tracker().Load(league, bins)
		summary := s.engine.CalibrationSummary(league)
		metrics.UpdateCalibrationGauges(league.String(), summary.Accuracy, summary.ECE)
	}
	return nil
}

// ResolveOutcomes sweeps unresolved predictions for a league against the
// provider's finals.
func (s *ResolverService) ResolveOutcomes(ctx context.Context, league models.League) error {
	return tracing.Trace(ctx, "outcome_sweep", func(ctx context.Context) error {
		tracing.AddAnnotation(ctx, "league", league.String())
		return s.resolveOutcomes(ctx, league)
	})
}

func (s *ResolverService) resolveOutcomes(ctx context.Context, league models.League) error {
	unresolved, err := s.predictions.GetUnresolved(ctx, league)
	if err != nil {
		return fmt.Errorf("failed to load unresolved predictions: %w", err)
	}
	if len(unresolved) == 0 {
		return nil
	}

	from := unresolved[0].Date
	for _, row := range unresolved {
		if row.Date.Before(from) {
			from = row.Date
		}
	}

	finals, err := s.schedule.Results(ctx, league, from.AddDate(0, 0, -1), time.Now().UTC())
	if err != nil {
		metrics.RecordProviderError(s.schedule.Name())
		return fmt.Errorf("failed to fetch finals for %s: %w", league, err)
	}

	byGameID := make(map[string]*models.GameResult, len(finals))
	for _, result := range finals {
		if result.Usable() {
			byGameID[result.GameID] = result
		}
	}

	resolved := 0
	for _, row := range unresolved {
		result, found := byGameID[row.GameID]
		if !found {
			continue
		}
		if err := s.resolveRow(ctx, row, result); err != nil {
			s.logger.WithError(err).WithField("game_id", row.GameID).Warn("Failed to resolve prediction")
			continue
		}
		resolved++
	}

	if resolved > 0 {
		if err := s.persistCalibration(ctx, league); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"league":   league,
			"resolved": resolved,
		}).Info("Outcomes resolved")
	}

	return nil
}

// ResolveAll sweeps every league, continuing past per-league failures.
func (s *ResolverService) ResolveAll(ctx context.Context) error {
	var firstErr error
	for _, league := range models.Leagues() {
		if err := s.ResolveOutcomes(ctx, league); err != nil {
			s.logger.WithError(err).WithField("league", league).Error("Outcome sweep failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// HandleStreamFinal resolves a single final pushed on the live stream.
// Satisfies provider.FinalHandler.
func (s *ResolverService) HandleStreamFinal(result *models.GameResult) error {
	if !result.Usable() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	row, err := s.predictions.GetByGameID(ctx, result.League, result.GameID)
	if err == models.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.resolveRow(ctx, row, result); err != nil {
		return err
	}
	return s.persistCalibration(ctx, result.League)
}

// resolveRow marks the prediction resolved and records the outcome. The
// database update happens first so a game never counts twice even when
// the sweep and the stream race.
func (s *ResolverService) resolveRow(ctx context.Context, row *models.PredictionRow, result *models.GameResult) error {
	winner := result.WinnerKey()

	updated, err := s.predictions.MarkResolved(ctx, row.League, row.GameID, winner)
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}

	s.engine.RecordOutcome(row, winner)
	metrics.RecordOutcome(string(row.League))
	if s.audit != nil {
		s.audit.LogOutcome(row, winner, winner != "" && row.PickedTeamKey() == winner)
	}
	return nil
}

func (s *ResolverService) persistCalibration(ctx context.Context, league models.League) error {
	summary := s.engine.CalibrationSummary(league)
	metrics.UpdateCalibrationGauges(league.String(), summary.Accuracy, summary.ECE)

	bins := s.engine.Tracker().Bins(league)
	if err := s.calibrations.SaveBins(ctx, league, bins); err != nil {
		return fmt.Errorf("failed to persist calibration bins: %w", err)
	}
	return nil
}
