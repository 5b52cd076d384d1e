package predict

import (
	"math"

	"github.com/yourusername/slate-edge/internal/models"
)

// Confidence weighting: distance from a coin flip dominates, raw edge
// magnitude contributes the rest, capped so small edges cannot dominate.
const (
	probWeight = 0.55
	edgeWeight = 0.45
	edgeCap    = 0.5
	edgeScale  = 0.2
)

// Tier thresholds, ordered, first match wins. One table for every league;
// see DESIGN.md for the consolidation decision.
const (
	tierEliteMin  = 0.80
	tierStrongMin = 0.60
	tierLeanMin   = 0.45
)

// Classify maps a picked-side probability and edge to a numeric confidence
// in [0, 1] and a display tier.
func Classify(winProb, edge float64) (float64, models.Tier) {
	distance := math.Abs(winProb-0.5) / 0.5
	cappedEdge := math.Min(edgeCap, math.Abs(edge)) / edgeScale
	confidence := Clamp(probWeight*distance+edgeWeight*cappedEdge, 0, 1)

	switch {
	case confidence >= tierEliteMin:
		return confidence, models.TierElite
	case confidence >= tierStrongMin:
		return confidence, models.TierStrong
	case confidence >= tierLeanMin:
		return confidence, models.TierLean
	default:
		return confidence, models.TierPass
	}
}
