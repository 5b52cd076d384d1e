package provider

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/config"
)

// Providers bundles the configured external data sources. Odds and Stream
// are nil when disabled in configuration.
type Providers struct {
	Schedule ScheduleProvider
	Odds     OddsProvider
	Stream   *StreamClient
}

// NewProviders wires the configured providers with their shared HTTP
// client settings.
func NewProviders(cfg *config.Config, logger *logrus.Logger) *Providers {
	p := &Providers{}

	sb := cfg.Providers.Scoreboard
	sbClientCfg := DefaultHTTPClientConfig()
	if sb.TimeoutSeconds > 0 {
		sbClientCfg.Timeout = time.Duration(sb.TimeoutSeconds) * time.Second
	}
	if sb.MaxRetries > 0 {
		sbClientCfg.MaxRetries = sb.MaxRetries
	}
	if sb.RateLimit > 0 {
		sbClientCfg.RateLimit = sb.RateLimit
	}
	p.Schedule = NewScoreboardClient(
		NewRateLimitedHTTPClient(sbClientCfg, logger),
		sb.BaseURL, sb.APIKey, logger,
	)

	if cfg.Providers.Odds.Enabled {
		odds := cfg.Providers.Odds
		oddsClientCfg := DefaultHTTPClientConfig()
		if odds.TimeoutSeconds > 0 {
			oddsClientCfg.Timeout = time.Duration(odds.TimeoutSeconds) * time.Second
		}
		if odds.RateLimit > 0 {
			oddsClientCfg.RateLimit = odds.RateLimit
		}
		p.Odds = NewOddsClient(
			NewRateLimitedHTTPClient(oddsClientCfg, logger),
			odds.BaseURL, odds.APIKey, logger,
		)
	}

	if cfg.Providers.Stream.Enabled {
		p.Stream = NewStreamClient(cfg.Providers.Stream.URL, sb.APIKey, logger)
	}

	return p
}
