// Package main provides the entry point for the slate-edge prediction
// daemon.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/config"
	"github.com/yourusername/slate-edge/internal/database"
	"github.com/yourusername/slate-edge/internal/engine"
	"github.com/yourusername/slate-edge/internal/health"
	"github.com/yourusername/slate-edge/internal/logger"
	"github.com/yourusername/slate-edge/internal/metrics"
	"github.com/yourusername/slate-edge/internal/models"
	"github.com/yourusername/slate-edge/internal/provider"
	"github.com/yourusername/slate-edge/internal/repository"
	"github.com/yourusername/slate-edge/internal/scheduler"
	"github.com/yourusername/slate-edge/internal/service"
	"github.com/yourusername/slate-edge/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("SLATE_EDGE_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Slate Edge prediction service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize schema")
	}
	appLog.Info("Database connection established")

	if err := tracing.Initialize(tracing.Config{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Tracing.Enabled,
		DaemonAddr:  cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		appLog.WithError(err).Warn("Failed to initialize tracing")
	}

	repos := repository.NewRepositories(db)
	providers := provider.NewProviders(cfg, appLog)
	audit := logger.NewPredictionLogger(appLog)

	// Engine
	ratingParams, blendParams := cfg.EngineConfig()
	eng := engine.New(engine.Config{
		RatingParams: ratingParams,
		BlendParams:  blendParams,
	}, appLog)

	// Services
	refresher := service.NewRefresherService(eng, providers.Schedule, repos.GameResults, ratingParams, audit, appLog)
	slate := service.NewSlateService(eng, providers.Schedule, providers.Odds, repos.Predictions, cfg.SlateCacheTTL(), audit, appLog)
	resolver := service.NewResolverService(eng, providers.Schedule, repos.Predictions, repos.Calibrations, audit, appLog)

	if err := resolver.RestoreCalibration(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to restore calibration history")
	}

	// Health server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		DB:          db,
		Ratings:     eng,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Metrics server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := ":" + strconv.Itoa(cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// First refresh before scheduling, so the service comes up ready
	if err := refresher.RefreshAll(ctx); err != nil {
		appLog.WithError(err).Warn("Initial ratings refresh finished with errors")
	}
	if err := resolver.ResolveAll(ctx); err != nil {
		appLog.WithError(err).Warn("Initial outcome sweep finished with errors")
	}

	// Warm today's slates
	today := time.Now().UTC()
	for _, league := range models.Leagues() {
		if _, err := slate.BuildSlate(ctx, league, today); err != nil {
			appLog.WithError(err).WithField("league", league).Warn("Failed to warm slate")
		}
	}

	// Scheduler
	sched := scheduler.NewScheduler(refresher, slate, resolver, appLog)
	if err := sched.ScheduleRatingsRefresh(cfg.RatingsInterval()); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule ratings refresh")
	}
	if err := sched.ScheduleSlateWarm(cfg.SlateCacheTTL()); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule slate warm")
	}
	resolveInterval := time.Duration(cfg.Refresh.ResolveIntervalMinutes) * time.Minute
	if err := sched.ScheduleOutcomeResolution(resolveInterval); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule outcome resolution")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Live-final stream
	if providers.Stream != nil {
		providers.Stream.AddHandler(resolver.HandleStreamFinal)
		go providers.Stream.RunWithReconnect(ctx, models.Leagues())
		appLog.Info("Live-final stream enabled")
	}

	healthServer.SetReady(true)
	appLog.WithField("next_run", sched.GetNextRun()).Info("Slate Edge is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if providers.Stream != nil {
		providers.Stream.Close()
	}

	appLog.Info("Slate Edge shut down successfully")
}
