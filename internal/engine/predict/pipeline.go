package predict

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

// Pipeline composes the predictor, blender and classifier into the
// per-fixture path: raw probability, shrinkage, optional market blend,
// clamp, pick, tier.
type Pipeline struct {
	predictor *Predictor
	blend     BlendParams
}

// NewPipeline creates the prediction pipeline for one league.
func NewPipeline(ratingParams rating.Params, blend BlendParams) *Pipeline {
	return &Pipeline{
		predictor: NewPredictor(ratingParams),
		blend:     blend,
	}
}

// Predictor exposes the raw-probability predictor for callers that need
// unbiased pair probabilities, such as upset detection.
func (pl *Pipeline) Predictor() *Predictor {
	return pl.predictor
}

// Predict produces a fresh PredictionRow for a fixture. The row's WinProb
// is always the picked side's probability. Rows are never mutated after
// creation; predicting the same fixture again returns a new row with the
// same game ID.
func (pl *Pipeline) Predict(store *rating.Store, fixture *models.Fixture, quote *models.MarketQuote) *models.PredictionRow {
	raw := pl.predictor.RawHomeProb(store, fixture.HomeTeamKey, fixture.AwayTeamKey, fixture.NeutralSite)
	homeProb := BlendHomeProb(raw, quote, pl.blend)

	pick := models.SideHome
	winProb := homeProb
	if homeProb < 0.5 {
		pick = models.SideAway
		winProb = 1 - homeProb
	}

	edge := winProb - 0.5
	confidence, tier := Classify(winProb, edge)

	return &models.PredictionRow{
		ID:          uuid.New(),
		GameID:      fixture.GameID,
		League:      fixture.League,
		Date:        fixture.Date,
		HomeTeamKey: fixture.HomeTeamKey,
		AwayTeamKey: fixture.AwayTeamKey,
		PickSide:    pick,
		WinProb:     winProb,
		RawHomeProb: raw,
		Edge:        edge,
		Confidence:  confidence,
		Tier:        tier,
		PredictedAt: time.Now().UTC(),
	}
}
