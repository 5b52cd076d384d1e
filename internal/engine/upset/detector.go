// Package upset scans a scored slate for matchups where the statistical
// underdog holds notable win equity.
package upset

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

// Mode selects which fixtures qualify as candidates.
type Mode string

const (
	// ModeWatch includes any fixture where the underdog clears the win
	// threshold, regardless of which side the engine picked.
	ModeWatch Mode = "watch"

	// ModeStrict includes only fixtures where the engine's own pick is the
	// underdog side.
	ModeStrict Mode = "strict"
)

// SortKey selects output ordering. Ordering is a presentation concern and
// never feeds back into scoring.
type SortKey string

const (
	SortByScore   SortKey = "score"
	SortByWinProb SortKey = "prob"
	SortByGap     SortKey = "gap"
)

// Composite score weights and the gap normalization divisor.
const (
	winEquityWeight = 0.7
	ratingGapWeight = 0.3
	gapNormalizer   = 400.0
)

// Params controls one detection pass.
type Params struct {
	Mode    Mode
	MinWin  float64
	Limit   int
	SortKey SortKey
}

// DefaultParams returns the watch-mode defaults used by the slate views.
func DefaultParams() Params {
	return Params{Mode: ModeWatch, MinWin: 0.25, Limit: 10, SortKey: SortByScore}
}

// Detector surfaces upset candidates from prediction rows plus the rating
// store that produced them.
type Detector struct {
	logger *logrus.Logger
}

// NewDetector creates a detector.
func NewDetector(logger *logrus.Logger) *Detector {
	if logger == nil {
		logger = logrus.New()
	}
	return &Detector{logger: logger}
}

// Detect scans the slate and returns sorted, truncated candidates. The
// underdog is determined from the row's unbiased pre-clamp home
// probability, not the picked-side probability.
func (d *Detector) Detect(rows []*models.PredictionRow, store *rating.Store, params Params) []models.UpsetCandidate {
	if params.MinWin <= 0 {
		params.MinWin = DefaultParams().MinWin
	}
	if params.SortKey == "" {
		params.SortKey = SortByScore
	}

	candidates := make([]models.UpsetCandidate, 0, len(rows))
	for _, row := range rows {
		if c, ok := d.evaluate(row, store, params); ok {
			candidates = append(candidates, c)
		}
	}

	sortCandidates(candidates, params.SortKey)

	if params.Limit > 0 && len(candidates) > params.Limit {
		candidates = candidates[:params.Limit]
	}

	d.logger.WithFields(logrus.Fields{
		"mode":       params.Mode,
		"min_win":    params.MinWin,
		"slate":      len(rows),
		"candidates": len(candidates),
	}).Debug("Upset detection completed")

	return candidates
}

func (d *Detector) evaluate(row *models.PredictionRow, store *rating.Store, params Params) (models.UpsetCandidate, bool) {
	underdogSide := models.SideAway
	underdogProb := 1 - row.RawHomeProb
	if row.RawHomeProb < 0.5 {
		underdogSide = models.SideHome
		underdogProb = row.RawHomeProb
	}

	if underdogProb < params.MinWin {
		return models.UpsetCandidate{}, false
	}
	if params.Mode == ModeStrict && row.PickSide != underdogSide {
		return models.UpsetCandidate{}, false
	}

	favoriteSide := underdogSide.Opposite()
	favoriteKey, underdogKey := row.HomeTeamKey, row.AwayTeamKey
	if favoriteSide == models.SideAway {
		favoriteKey, underdogKey = row.AwayTeamKey, row.HomeTeamKey
	}

	gap := math.Abs(store.Get(row.HomeTeamKey) - store.Get(row.AwayTeamKey))
	normalizedGap := math.Min(1, gap/gapNormalizer)

	return models.UpsetCandidate{
		GameID:          row.GameID,
		League:          row.League,
		FavoriteTeamKey: favoriteKey,
		UnderdogTeamKey: underdogKey,
		UnderdogWinProb: underdogProb,
		Score:           underdogProb*winEquityWeight + normalizedGap*ratingGapWeight,
		Signals: models.UpsetSignals{
			RatingGap:    gap,
			FavoriteSide: favoriteSide,
		},
	}, true
}

func sortCandidates(candidates []models.UpsetCandidate, key SortKey) {
	less := func(i, j int) bool { return candidates[i].Score > candidates[j].Score }
	switch key {
	case SortByWinProb:
		less = func(i, j int) bool { return candidates[i].UnderdogWinProb > candidates[j].UnderdogWinProb }
	case SortByGap:
		// Closest game first.
		less = func(i, j int) bool { return candidates[i].Signals.RatingGap < candidates[j].Signals.RatingGap }
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if less(i, j) {
			return true
		}
		if less(j, i) {
			return false
		}
		return candidates[i].GameID < candidates[j].GameID
	})
}
