// Package predict turns rating gaps into calibrated, tiered win
// probabilities.
package predict

import (
	"github.com/yourusername/slate-edge/internal/engine/rating"
)

// Predictor computes raw win probabilities from a rating store snapshot.
// It never mutates ratings.
type Predictor struct {
	params rating.Params
}

// NewPredictor creates a predictor for a league's parameters.
func NewPredictor(params rating.Params) *Predictor {
	return &Predictor{params: params}
}

// RawHomeProb returns the unblended logistic home-win expectation. The
// home-advantage offset is zeroed on a neutral site.
func (p *Predictor) RawHomeProb(store *rating.Store, homeTeamKey, awayTeamKey string, neutralSite bool) float64 {
	homeAdv := p.params.HomeAdvantage
	if neutralSite {
		homeAdv = 0
	}
	return rating.Expectation(store.Get(homeTeamKey), store.Get(awayTeamKey), homeAdv)
}
