package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/slate-edge/internal/models"
)

const testConfigYAML = `
app:
  name: slate-edge
  environment: development
  log_level: debug
database:
  host: localhost
  port: 5432
  name: slate_edge
  user: slate
  password: ${TEST_DB_PASSWORD}
  ssl_mode: disable
  max_connections: 10
  max_idle_connections: 2
providers:
  scoreboard:
    base_url: https://scores.example.com/api
    timeout_seconds: 20
    max_retries: 3
    rate_limit: 5
  odds:
    enabled: false
leagues:
  nba:
    k_factor: 22
    home_advantage: 58
  ncaam:
    lookback_days: 30
refresh:
  ratings_interval_hours: 6
  slate_cache_ttl_minutes: 8
  resolve_interval_minutes: 15
metrics:
  enabled: true
  port: 9090
  path: /metrics
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o600); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

func TestLoadConfigSuccess(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")

	cfg, err := Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}
	if cfg.App.Name != "slate-edge" {
		t.Errorf("unexpected app name %q", cfg.App.Name)
	}
	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("env placeholder was not expanded, got %q", cfg.Database.Password)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected development default, got %q", cfg.App.Environment)
	}
	if cfg.Refresh.RatingsIntervalHours != 6 {
		t.Errorf("expected 6h ratings interval default, got %d", cfg.Refresh.RatingsIntervalHours)
	}
}

func TestRatingParamsOverlay(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "x")
	cfg, err := Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	nba := cfg.RatingParams(models.LeagueNBA)
	if nba.KFactor != 22 || nba.HomeAdvantage != 58 {
		t.Errorf("nba overrides not applied: %+v", nba)
	}
	// Unset fields keep the tuned defaults.
	if nba.LookbackDays != 120 {
		t.Errorf("nba lookback should default to 120, got %d", nba.LookbackDays)
	}

	nhl := cfg.RatingParams(models.LeagueNHL)
	if nhl.KFactor != 18 || nhl.HomeAdvantage != 55 {
		t.Errorf("nhl should keep defaults: %+v", nhl)
	}
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "x")
	cfg, err := Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation failure for bad environment")
	}
}

func TestValidateRejectsUnknownLeague(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "x")
	cfg, err := Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Leagues["xfl"] = LeagueConfig{}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation failure for unknown league")
	}
}

func TestSecretsOverlay(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "x")
	cfg, err := Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "from-secrets",
		ScoreboardAPIKey: "sb-key",
	})
	if cfg.Database.Password != "from-secrets" {
		t.Errorf("database password not overlaid")
	}
	if cfg.Providers.Scoreboard.APIKey != "sb-key" {
		t.Errorf("scoreboard api key not overlaid")
	}
	if cfg.Providers.Odds.APIKey != "" {
		t.Errorf("empty secrets must not overwrite existing values")
	}
}
