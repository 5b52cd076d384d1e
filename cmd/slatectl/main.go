// Package main provides the slatectl inspection CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/slate-edge/internal/backtest"
	"github.com/yourusername/slate-edge/internal/config"
	"github.com/yourusername/slate-edge/internal/database"
	"github.com/yourusername/slate-edge/internal/engine"
	"github.com/yourusername/slate-edge/internal/engine/calibration"
	"github.com/yourusername/slate-edge/internal/engine/upset"
	"github.com/yourusername/slate-edge/internal/models"
	"github.com/yourusername/slate-edge/internal/provider"
	"github.com/yourusername/slate-edge/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	leagueName string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&leagueName, "league", "l", "", "Restrict output to one league")

	backtestCmd.Flags().IntVar(&backtestDays, "days", 120, "Evaluation window in days")
	backtestCmd.Flags().IntVar(&backtestWarmup, "warmup", 50, "Games replayed before scoring starts")
	upsetsCmd.Flags().StringVar(&upsetMode, "mode", "watch", "Detection mode: watch, strict")

	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(upsetsCmd)
	rootCmd.AddCommand(calibrationCmd)
	rootCmd.AddCommand(predictionsCmd)
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "slatectl",
	Short: "Inspect slate-edge ratings, predictions and calibration",
	Long:  `slatectl reads the slate-edge database and reports current team ratings, stored predictions and calibration quality.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("slatectl %s (%s)\n", Version, GitCommit)
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Show current team ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, league := range selectedLeagues() {
			if err := displayRatings(ctx, league); err != nil {
				return err
			}
		}
		return nil
	},
}

var upsetMode string

var upsetsCmd = &cobra.Command{
	Use:   "upsets",
	Short: "Show upset candidates on today's slate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		for _, league := range selectedLeagues() {
			if err := displayUpsets(ctx, league); err != nil {
				return err
			}
		}
		return nil
	},
}

var calibrationCmd = &cobra.Command{
	Use:   "calibration",
	Short: "Show calibration quality per league",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		fmt.Printf("%-8s %8s %10s %8s\n", "LEAGUE", "N", "ACCURACY", "ECE")
		for _, league := range selectedLeagues() {
			if err := displayCalibration(ctx, league); err != nil {
				return err
			}
		}
		return nil
	},
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "List unresolved predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		for _, league := range selectedLeagues() {
			if err := displayPredictions(ctx, league); err != nil {
				return err
			}
		}
		return nil
	},
}

var (
	backtestDays   int
	backtestWarmup int
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Walk-forward evaluation on stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		for _, league := range selectedLeagues() {
			if err := runBacktest(ctx, league); err != nil {
				return err
			}
		}
		return nil
	},
}

func runBacktest(ctx context.Context, league models.League) error {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -backtestDays)

	results, err := repos.GameResults.GetCompletedInWindow(ctx, league, from, to)
	if err != nil {
		return err
	}

	btCfg := backtest.DefaultConfig(league)
	btCfg.WarmupGames = backtestWarmup
	btCfg.RatingParams = cfg.RatingParams(league)
	btCfg.BlendParams = cfg.BlendParams(league)

	eng, err := backtest.NewEngine(btCfg, appLog)
	if err != nil {
		return err
	}
	metrics, err := eng.Run(results)
	if err != nil {
		return fmt.Errorf("%s backtest failed: %w", league, err)
	}

	fmt.Printf("\n%s walk-forward (%d days)\n%s\n", league, backtestDays, metrics.ToJSON())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies() error {
	appLog = logrus.New()
	appLog.SetLevel(logrus.WarnLevel)

	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos = repository.NewRepositories(db)
	return nil
}

func selectedLeagues() []models.League {
	if leagueName == "" {
		return models.Leagues()
	}
	league, err := models.ParseLeague(leagueName)
	if err != nil {
		log.Fatalf("Unknown league: %s", leagueName)
	}
	return []models.League{league}
}

func displayRatings(ctx context.Context, league models.League) error {
	ratingParams, blendParams := cfg.EngineConfig()
	eng := engine.New(engine.Config{
		RatingParams: ratingParams,
		BlendParams:  blendParams,
	}, appLog)

	params := ratingParams[league]
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -params.LookbackDays)

	results, err := repos.GameResults.GetCompletedInWindow(ctx, league, from, to)
	if err != nil {
		return err
	}

	store, stats, err := eng.BuildRatings(league, results)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s ratings (%d games applied, %d skipped)\n", league, stats.Applied, stats.Skipped)
	fmt.Printf("%-4s %-8s %8s\n", "#", "TEAM", "RATING")
	for i, tr := range store.Snapshot() {
		fmt.Printf("%-4d %-8s %8.1f\n", i+1, tr.TeamKey, tr.Rating)
	}
	return nil
}

func displayUpsets(ctx context.Context, league models.League) error {
	ratingParams, blendParams := cfg.EngineConfig()
	eng := engine.New(engine.Config{
		RatingParams: ratingParams,
		BlendParams:  blendParams,
	}, appLog)

	params := ratingParams[league]
	date := time.Now().UTC()
	from := date.AddDate(0, 0, -params.LookbackDays)

	results, err := repos.GameResults.GetCompletedInWindow(ctx, league, from, date)
	if err != nil {
		return err
	}
	store, _, err := eng.BuildRatings(league, results)
	if err != nil {
		return err
	}

	providers := provider.NewProviders(cfg, appLog)
	fixtures, err := providers.Schedule.Fixtures(ctx, league, date)
	if err != nil {
		return err
	}

	rows := make([]*models.PredictionRow, 0, len(fixtures))
	for _, fixture := range fixtures {
		row, err := eng.PredictFixture(fixture, store, nil)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}

	upsetParams := upset.DefaultParams()
	upsetParams.Mode = upset.Mode(upsetMode)
	candidates := eng.DetectUpsets(rows, store, upsetParams)
	if len(candidates) == 0 {
		fmt.Printf("\n%s: no upset candidates\n", league)
		return nil
	}

	fmt.Printf("\n%s upset candidates (%s)\n", league, upsetMode)
	fmt.Printf("%-12s %-8s %-8s %8s %8s %8s\n", "GAME", "DOG", "FAV", "DOGPROB", "GAP", "SCORE")
	for _, c := range candidates {
		fmt.Printf("%-12s %-8s %-8s %8.3f %8.1f %8.3f\n",
			c.GameID, c.UnderdogTeamKey, c.FavoriteTeamKey,
			c.UnderdogWinProb, c.Signals.RatingGap, c.Score)
	}
	return nil
}

func displayCalibration(ctx context.Context, league models.League) error {
	bins, err := repos.Calibrations.LoadBins(ctx, league)
	if err != nil {
		return err
	}

	tracker := calibration.NewTracker()
	if len(bins) > 0 {
		tracker.Load(league, bins)
	}
	summary := tracker.Summary(league)

	accuracy, ece := "-", "-"
	if summary.Accuracy != nil {
		accuracy = fmt.Sprintf("%.3f", *summary.Accuracy)
	}
	if summary.ECE != nil {
		ece = fmt.Sprintf("%.4f", *summary.ECE)
	}
	fmt.Printf("%-8s %8d %10s %8s\n", league, summary.N, accuracy, ece)
	return nil
}

func displayPredictions(ctx context.Context, league models.League) error {
	rows, err := repos.Predictions.GetUnresolved(ctx, league)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	fmt.Printf("\n%s unresolved predictions\n", league)
	fmt.Printf("%-12s %-10s %-6s %-8s %8s %8s %-6s\n",
		"GAME", "DATE", "PICK", "TEAM", "WINPROB", "CONF", "TIER")
	for _, row := range rows {
		pick := string(row.PickSide)
		if pick == "" {
			pick = "-"
		}
		fmt.Printf("%-12s %-10s %-6s %-8s %8.3f %8.3f %-6s\n",
			row.GameID, row.Date.Format("2006-01-02"), pick, row.PickedTeamKey(),
			row.WinProb, row.Confidence, row.Tier)
	}
	return nil
}
