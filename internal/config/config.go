// Package config provides configuration management for the Slate Edge
// prediction service.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/slate-edge/internal/engine/predict"
	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig               `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig          `mapstructure:"database" validate:"required"`
	Providers ProvidersConfig         `mapstructure:"providers" validate:"required"`
	Leagues   map[string]LeagueConfig `mapstructure:"leagues"`
	Refresh   RefreshConfig           `mapstructure:"refresh" validate:"required"`
	Metrics   MetricsConfig           `mapstructure:"metrics" validate:"required"`
	Health    HealthConfig            `mapstructure:"health"`
	Tracing   TracingConfig           `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProvidersConfig groups the external data source configurations
type ProvidersConfig struct {
	Scoreboard ScoreboardConfig `mapstructure:"scoreboard" validate:"required"`
	Odds       OddsConfig       `mapstructure:"odds"`
	Stream     StreamConfig     `mapstructure:"stream"`
}

// ScoreboardConfig represents the schedule/results provider configuration
type ScoreboardConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// OddsConfig represents the optional odds provider configuration
type OddsConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// StreamConfig represents the live-score stream configuration
type StreamConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LeagueConfig carries per-league model tunables. Zero values fall back to
// the tuned defaults.
type LeagueConfig struct {
	KFactor       float64 `mapstructure:"k_factor" validate:"omitempty,gt=0"`
	HomeAdvantage float64 `mapstructure:"home_advantage" validate:"gte=0"`
	AllowDraws    bool    `mapstructure:"allow_draws"`
	LookbackDays  int     `mapstructure:"lookback_days" validate:"omitempty,gt=0"`
	PriorStrength float64 `mapstructure:"prior_strength" validate:"gte=0"`
	ModelStrength float64 `mapstructure:"model_strength" validate:"omitempty,gt=0"`
	MarketWeight  float64 `mapstructure:"market_weight" validate:"gte=0,lte=1"`
	ClampLo       float64 `mapstructure:"clamp_lo" validate:"gte=0,lte=1"`
	ClampHi       float64 `mapstructure:"clamp_hi" validate:"gte=0,lte=1"`
}

// RefreshConfig controls the rebuild and resolution schedules
type RefreshConfig struct {
	RatingsIntervalHours   int `mapstructure:"ratings_interval_hours" validate:"required,gt=0"`
	SlateCacheTTLMinutes   int `mapstructure:"slate_cache_ttl_minutes" validate:"required,gt=0"`
	ResolveIntervalMinutes int `mapstructure:"resolve_interval_minutes" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health server configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// TracingConfig represents the X-Ray tracing configuration
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DaemonAddr string `mapstructure:"daemon_addr"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlateCacheTTL returns the slate cache TTL as a duration
func (c *Config) SlateCacheTTL() time.Duration {
	return time.Duration(c.Refresh.SlateCacheTTLMinutes) * time.Minute
}

// RatingsInterval returns the rating rebuild interval as a duration
func (c *Config) RatingsInterval() time.Duration {
	return time.Duration(c.Refresh.RatingsIntervalHours) * time.Hour
}

// RatingParams materializes the Elo parameters for a league, overlaying
// any configured overrides on the tuned defaults.
func (c *Config) RatingParams(league models.League) rating.Params {
	params := rating.DefaultParams(league)
	lc, ok := c.Leagues[league.String()]
	if !ok {
		return params
	}
	if lc.KFactor > 0 {
		params.KFactor = lc.KFactor
	}
	if lc.HomeAdvantage > 0 {
		params.HomeAdvantage = lc.HomeAdvantage
	}
	if lc.LookbackDays > 0 {
		params.LookbackDays = lc.LookbackDays
	}
	params.AllowDraws = lc.AllowDraws
	return params
}

// BlendParams materializes the probability blend parameters for a league.
func (c *Config) BlendParams(league models.League) predict.BlendParams {
	params := predict.DefaultBlendParams()
	lc, ok := c.Leagues[league.String()]
	if !ok {
		return params
	}
	if lc.PriorStrength > 0 {
		params.PriorStrength = lc.PriorStrength
	}
	if lc.ModelStrength > 0 {
		params.ModelStrength = lc.ModelStrength
	}
	if lc.MarketWeight > 0 {
		params.MarketWeight = lc.MarketWeight
	}
	if lc.ClampLo > 0 {
		params.ClampLo = lc.ClampLo
	}
	if lc.ClampHi > 0 {
		params.ClampHi = lc.ClampHi
	}
	return params
}

// EngineConfig builds the per-league engine configuration.
func (c *Config) EngineConfig() (map[models.League]rating.Params, map[models.League]predict.BlendParams) {
	ratingParams := make(map[models.League]rating.Params)
	blendParams := make(map[models.League]predict.BlendParams)
	for _, league := range models.Leagues() {
		ratingParams[league] = c.RatingParams(league)
		blendParams[league] = c.BlendParams(league)
	}
	return ratingParams, blendParams
}
