package backtest

import (
	"encoding/json"
	"math"

	"github.com/yourusername/slate-edge/internal/models"
)

// TierStats tallies outcomes for one confidence tier.
type TierStats struct {
	Predicted int     `json:"predicted"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// Metrics summarizes a walk-forward evaluation run.
type Metrics struct {
	Predicted int                        `json:"predicted"`
	Correct   int                        `json:"correct"`
	Accuracy  float64                    `json:"accuracy"`
	Brier     float64                    `json:"brier"`
	LogLoss   float64                    `json:"log_loss"`
	ECE       *float64                   `json:"ece,omitempty"`
	ByTier    map[models.Tier]*TierStats `json:"by_tier"`
}

// runState accumulates per-game scoring during a run.
type runState struct {
	predicted int
	correct   int
	brierSum  float64
	logSum    float64
	byTier    map[models.Tier]*TierStats
}

func newRunState() *runState {
	return &runState{byTier: make(map[models.Tier]*TierStats)}
}

const logLossEpsilon = 1e-12

func (s *runState) record(row *models.PredictionRow, won bool) {
	s.predicted++
	outcome := 0.0
	if won {
		s.correct++
		outcome = 1.0
	}

	diff := row.WinProb - outcome
	s.brierSum += diff * diff

	p := row.WinProb
	if !won {
		p = 1 - p
	}
	if p < logLossEpsilon {
		p = logLossEpsilon
	}
	s.logSum += -math.Log(p)

	tier, ok := s.byTier[row.Tier]
	if !ok {
		tier = &TierStats{}
		s.byTier[row.Tier] = tier
	}
	tier.Predicted++
	if won {
		tier.Correct++
	}
}

func calculateMetrics(state *runState, summary models.CalibrationSummary) Metrics {
	m := Metrics{
		Predicted: state.predicted,
		Correct:   state.correct,
		ECE:       summary.ECE,
		ByTier:    state.byTier,
	}
	if state.predicted == 0 {
		return m
	}

	n := float64(state.predicted)
	m.Accuracy = float64(state.correct) / n
	m.Brier = state.brierSum / n
	m.LogLoss = state.logSum / n

	for _, tier := range m.ByTier {
		if tier.Predicted > 0 {
			tier.Accuracy = float64(tier.Correct) / float64(tier.Predicted)
		}
	}
	return m
}

// ToJSON renders the metrics for CLI output.
func (m Metrics) ToJSON() string {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
