package service

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/engine"
	"github.com/yourusername/slate-edge/internal/engine/upset"
	"github.com/yourusername/slate-edge/internal/logger"
	"github.com/yourusername/slate-edge/internal/metrics"
	"github.com/yourusername/slate-edge/internal/models"
	"github.com/yourusername/slate-edge/internal/provider"
	"github.com/yourusername/slate-edge/internal/repository"
)

// SlateService builds the daily prediction slate for a league. Built
// slates are cached by (league, date) with a short TTL so dashboard reads
// do not hammer the providers.
type SlateService struct {
	engine      *engine.Engine
	schedule    provider.ScheduleProvider
	odds        provider.OddsProvider
	predictions repository.PredictionRepository
	cache       *cache.Cache
	audit       *logger.PredictionLogger
	logger      *logrus.Logger
}

// NewSlateService creates a new slate service. The odds provider may be
// nil; predictions then run without market blending.
func NewSlateService(
	eng *engine.Engine,
	schedule provider.ScheduleProvider,
	odds provider.OddsProvider,
	predictions repository.PredictionRepository,
	cacheTTL time.Duration,
	audit *logger.PredictionLogger,
	log *logrus.Logger,
) *SlateService {
	if log == nil {
		log = logrus.New()
	}
	return &SlateService{
		engine:      eng,
		schedule:    schedule,
		odds:        odds,
		predictions: predictions,
		cache:       cache.New(cacheTTL, cacheTTL*2),
		audit:       audit,
		logger:      log,
	}
}

func slateCacheKey(league models.League, date time.Time) string {
	return fmt.Sprintf("%s:%s", league, date.Format("2006-01-02"))
}

// BuildSlate predicts every fixture on a league's slate for a date.
// Served from cache within the TTL; a rating refresh does not invalidate
// rows already built.
func (s *SlateService) BuildSlate(ctx context.Context, league models.League, date time.Time) ([]*models.PredictionRow, error) {
	key := slateCacheKey(league, date)
	if cached, found := s.cache.Get(key); found {
		if rows, ok := cached.([]*models.PredictionRow); ok {
			return rows, nil
		}
	}

	store, err := s.engine.Store(league)
	if err != nil {
		return nil, err
	}

	fixtures, err := s.schedule.Fixtures(ctx, league, date)
	if err != nil {
		metrics.RecordProviderError(s.schedule.Name())
		return nil, fmt.Errorf("failed to fetch fixtures for %s: %w", league, err)
	}

	quotes := s.fetchQuotes(ctx, league, date)

	rows := make([]*models.PredictionRow, 0, len(fixtures))
	for _, fixture := range fixtures {
		row, err := s.engine.PredictFixture(fixture, store, quotes[fixture.GameID])
		if err != nil {
			s.logger.WithError(err).WithField("game_id", fixture.GameID).Warn("Prediction failed")
			continue
		}

		if s.predictions != nil {
			if err := s.predictions.Save(ctx, row); err != nil {
				s.logger.WithError(err).WithField("game_id", row.GameID).Warn("Failed to persist prediction")
			}
		}

		metrics.RecordPrediction(league.String(), string(row.Tier))
		if s.audit != nil {
			s.audit.LogPrediction(row)
		}
		rows = append(rows, row)
	}

	s.cache.Set(key, rows, cache.DefaultExpiration)
	metrics.SlateCacheSize.Set(float64(s.cache.ItemCount()))

	s.logger.WithFields(logrus.Fields{
		"league": league,
		"date":   date.Format("2006-01-02"),
		"games":  len(rows),
	}).Info("Slate built")

	return rows, nil
}

// Upsets builds the slate and surfaces upset candidates from it.
func (s *SlateService) Upsets(ctx context.Context, league models.League, date time.Time, params upset.Params) ([]models.UpsetCandidate, error) {
	rows, err := s.BuildSlate(ctx, league, date)
	if err != nil {
		return nil, err
	}
	store, err := s.engine.Store(league)
	if err != nil {
		return nil, err
	}

	candidates := s.engine.DetectUpsets(rows, store, params)
	metrics.RecordUpsets(league.String(), string(params.Mode), len(candidates))
	return candidates, nil
}

// fetchQuotes returns the market quotes for the slate, or nil when odds
// are unavailable. Odds failures degrade the blend, they never block the
// slate.
func (s *SlateService) fetchQuotes(ctx context.Context, league models.League, date time.Time) map[string]*models.MarketQuote {
	if s.odds == nil {
		return nil
	}
	quotes, err := s.odds.Quotes(ctx, league, date)
	if err != nil {
		metrics.RecordProviderError(s.odds.Name())
		s.logger.WithError(err).WithField("league", league).Warn("Odds fetch failed, predicting without market")
		return nil
	}
	return quotes
}
