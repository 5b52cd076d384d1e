// Package calibration tracks how well resolved probabilistic predictions
// matched outcomes.
package calibration

import (
	"math"
	"sync"

	"github.com/yourusername/slate-edge/internal/models"
)

// NumBins is the number of fixed-width probability buckets over [0, 1].
const NumBins = 10

// Tracker accumulates resolved predictions per league. Appends are safe
// from concurrent request handlers; callers are responsible for recording
// each game at most once (key on game ID upstream).
type Tracker struct {
	mu      sync.Mutex
	leagues map[models.League]*leagueBins
}

type leagueBins struct {
	bins    [NumBins]models.CalibrationBin
	n       int
	correct int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{leagues: make(map[models.League]*leagueBins)}
}

func newLeagueBins() *leagueBins {
	lb := &leagueBins{}
	width := 1.0 / NumBins
	for i := 0; i < NumBins; i++ {
		lb.bins[i].Lo = float64(i) * width
		lb.bins[i].Hi = float64(i+1) * width
	}
	return lb
}

// binIndex buckets a probability into one of the fixed bins. 1.0 lands in
// the top bin.
func binIndex(p float64) int {
	idx := int(p * NumBins)
	if idx >= NumBins {
		idx = NumBins - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Record appends one resolved prediction: the probability the engine
// stated for the picked side, and whether that side won.
func (t *Tracker) Record(league models.League, predictedProb float64, won bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	lb := t.leagues[league]
	if lb == nil {
		lb = newLeagueBins()
		t.leagues[league] = lb
	}

	idx := binIndex(predictedProb)
	lb.bins[idx].N++
	lb.n++
	if won {
		lb.bins[idx].Correct++
		lb.correct++
	}
}

// Load seeds a league's counters from persisted bins, replacing whatever
// is currently tracked for that league.
func (t *Tracker) Load(league models.League, bins []models.CalibrationBin) {
	t.mu.Lock()
	defer t.mu.Unlock()

	lb := newLeagueBins()
	for _, b := range bins {
		idx := binIndex(b.Midpoint())
		lb.bins[idx].N += b.N
		lb.bins[idx].Correct += b.Correct
		lb.n += b.N
		lb.correct += b.Correct
	}
	t.leagues[league] = lb
}

// Bins returns a copy of the league's bins for persistence or display.
func (t *Tracker) Bins(league models.League) []models.CalibrationBin {
	t.mu.Lock()
	defer t.mu.Unlock()

	lb := t.leagues[league]
	if lb == nil {
		lb = newLeagueBins()
	}
	out := make([]models.CalibrationBin, NumBins)
	copy(out, lb.bins[:])
	return out
}

// Summary reports hit rate and expected calibration error for a league.
// With no resolved predictions both metrics are nil, never NaN.
func (t *Tracker) Summary(league models.League) models.CalibrationSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := models.CalibrationSummary{League: league}
	lb := t.leagues[league]
	if lb == nil || lb.n == 0 {
		return summary
	}

	summary.N = lb.n
	accuracy := float64(lb.correct) / float64(lb.n)
	summary.Accuracy = &accuracy

	var ece float64
	for i := range lb.bins {
		bin := &lb.bins[i]
		if bin.N == 0 {
			continue
		}
		empirical := float64(bin.Correct) / float64(bin.N)
		weight := float64(bin.N) / float64(lb.n)
		ece += weight * math.Abs(empirical-bin.Midpoint())
	}
	summary.ECE = &ece

	return summary
}
