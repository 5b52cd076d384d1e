package backtest

import (
	"github.com/yourusername/slate-edge/internal/engine/predict"
	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

// Config controls a walk-forward evaluation run.
type Config struct {
	League models.League
	// WarmupGames are replayed into the store before scoring starts, so
	// early predictions do not run against an all-baseline store.
	WarmupGames int
	RatingParams rating.Params
	BlendParams  predict.BlendParams
}

// DefaultConfig returns an evaluation config on the league's tuned
// parameters.
func DefaultConfig(league models.League) Config {
	return Config{
		League:       league,
		WarmupGames:  50,
		RatingParams: rating.DefaultParams(league),
		BlendParams:  predict.DefaultBlendParams(),
	}
}
