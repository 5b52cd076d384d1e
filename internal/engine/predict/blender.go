package predict

import (
	"math"

	"github.com/yourusername/slate-edge/internal/models"
)

// BlendParams controls how a raw model probability is tempered before it
// reaches a caller. The order is fixed: shrink toward the prior, blend
// with the market if a usable quote exists, then clamp. Changing that
// order changes output.
type BlendParams struct {
	PriorProb     float64
	PriorStrength float64
	ModelStrength float64
	MarketWeight  float64
	ClampLo       float64
	ClampHi       float64
}

// DefaultBlendParams returns the production blend settings. The clamp band
// is a product guarantee: the model never claims near-certainty.
func DefaultBlendParams() BlendParams {
	return BlendParams{
		PriorProb:     0.5,
		PriorStrength: 4,
		ModelStrength: 10,
		MarketWeight:  0.30,
		ClampLo:       0.18,
		ClampHi:       0.82,
	}
}

// Shrink pulls a model probability toward a prior using pseudo-counts.
// Zero prior strength returns the model probability unchanged.
func Shrink(pModel, pPrior, priorStrength, modelStrength float64) float64 {
	total := priorStrength + modelStrength
	if total <= 0 {
		return pModel
	}
	return (pPrior*priorStrength + pModel*modelStrength) / total
}

// ImpliedProb converts an American moneyline to an implied probability.
// A zero or non-finite line has no defined probability.
func ImpliedProb(moneyline int) (float64, bool) {
	if moneyline == 0 {
		return 0, false
	}
	ml := float64(moneyline)
	if math.IsNaN(ml) || math.IsInf(ml, 0) {
		return 0, false
	}
	if ml < 0 {
		return -ml / (-ml + 100), true
	}
	return 100 / (ml + 100), true
}

// BlendWithMarket mixes the model and market probabilities linearly.
func BlendWithMarket(pModel, pMarket, marketWeight float64) float64 {
	return pModel*(1-marketWeight) + pMarket*marketWeight
}

// Clamp bounds a probability to [lo, hi].
func Clamp(p, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, p))
}

// BlendHomeProb runs the full adjustment chain on a raw home-win
// probability. An unusable quote degrades to the model-only path, never an
// error.
func BlendHomeProb(raw float64, quote *models.MarketQuote, bp BlendParams) float64 {
	p := Shrink(raw, bp.PriorProb, bp.PriorStrength, bp.ModelStrength)
	if pMarket, ok := marketHomeProb(quote); ok {
		p = BlendWithMarket(p, pMarket, bp.MarketWeight)
	}
	return Clamp(p, bp.ClampLo, bp.ClampHi)
}

// marketHomeProb derives the home side's market probability from a quote.
// Requires both sides priced; otherwise the quote is treated as absent.
func marketHomeProb(quote *models.MarketQuote) (float64, bool) {
	if !quote.Usable() {
		return 0, false
	}
	home, ok := ImpliedProb(quote.HomeMoneyline)
	if !ok {
		return 0, false
	}
	if _, ok := ImpliedProb(quote.AwayMoneyline); !ok {
		return 0, false
	}
	return home, true
}
