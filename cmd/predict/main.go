// Package main provides a one-shot prediction CLI. It pulls the lookback
// window straight from the providers, builds ratings in memory and prints
// the slate, with no database required.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/config"
	"github.com/yourusername/slate-edge/internal/engine"
	"github.com/yourusername/slate-edge/internal/engine/upset"
	"github.com/yourusername/slate-edge/internal/logger"
	"github.com/yourusername/slate-edge/internal/models"
	"github.com/yourusername/slate-edge/internal/provider"
)

type slateOutput struct {
	League      models.League           `json:"league"`
	Date        string                  `json:"date"`
	Predictions []*models.PredictionRow `json:"predictions"`
	Upsets      []models.UpsetCandidate `json:"upsets,omitempty"`
}

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		leagueName = flag.String("league", "nba", "League to predict: nba, nhl, ncaam")
		dateStr    = flag.String("date", "", "Slate date (YYYY-MM-DD), defaults to today")
		upsetMode  = flag.String("upset-mode", "watch", "Upset mode: watch, strict")
		withUpsets = flag.Bool("upsets", false, "Include upset candidates")
	)
	flag.Parse()

	appLog := newLogger()
	ctx := context.Background()

	league, err := models.ParseLeague(*leagueName)
	if err != nil {
		appLog.WithError(err).Fatal("Unknown league")
	}

	date := time.Now().UTC()
	if *dateStr != "" {
		date, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			appLog.WithError(err).Fatal("Invalid date")
		}
	}

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load config")
	}

	providers := provider.NewProviders(cfg, appLog)
	ratingParams, blendParams := cfg.EngineConfig()
	eng := engine.New(engine.Config{
		RatingParams: ratingParams,
		BlendParams:  blendParams,
	}, appLog)

	// Build ratings straight from the provider
	params := ratingParams[league]
	from := date.AddDate(0, 0, -params.LookbackDays)
	results, err := providers.Schedule.Results(ctx, league, from, date)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to fetch results")
	}

	store, stats, err := eng.BuildRatings(league, results)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build ratings")
	}
	eng.Install(store)
	appLog.WithFields(logrus.Fields{
		"teams":   store.Len(),
		"applied": stats.Applied,
		"skipped": stats.Skipped,
	}).Info("Ratings built")

	fixtures, err := providers.Schedule.Fixtures(ctx, league, date)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to fetch fixtures")
	}

	var quotes map[string]*models.MarketQuote
	if providers.Odds != nil {
		quotes, err = providers.Odds.Quotes(ctx, league, date)
		if err != nil {
			appLog.WithError(err).Warn("Odds fetch failed, predicting without market")
			quotes = nil
		}
	}

	out := slateOutput{League: league, Date: date.Format("2006-01-02")}
	for _, fixture := range fixtures {
		row, err := eng.PredictFixture(fixture, store, quotes[fixture.GameID])
		if err != nil {
			appLog.WithError(err).WithField("game_id", fixture.GameID).Warn("Prediction failed")
			continue
		}
		out.Predictions = append(out.Predictions, row)
	}

	if *withUpsets {
		upsetParams := upset.DefaultParams()
		upsetParams.Mode = upset.Mode(*upsetMode)
		out.Upsets = eng.DetectUpsets(out.Predictions, store, upsetParams)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		appLog.WithError(err).Fatal("Failed to encode output")
	}
}

func newLogger() *logrus.Logger {
	log := logger.New("info", "development")
	log.SetOutput(os.Stderr)
	return log
}
