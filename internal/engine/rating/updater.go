package rating

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/models"
)

// Expectation returns the logistic win expectation for the home side given
// both ratings and the transient home-advantage offset.
func Expectation(homeElo, awayElo, homeAdvantage float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (awayElo-(homeElo+homeAdvantage))/400.0))
}

// ReplayStats summarizes one replay pass.
type ReplayStats struct {
	Applied int
	Skipped int
}

// Updater replays completed games through the Elo update rule. Replay
// order is strictly ascending by date; the same games replayed out of
// order produce different ratings, so the updater sorts its input itself
// rather than trusting the caller.
type Updater struct {
	params Params
	logger *logrus.Logger
}

// NewUpdater creates an updater for a league's parameters.
func NewUpdater(params Params, logger *logrus.Logger) *Updater {
	if logger == nil {
		logger = logrus.New()
	}
	return &Updater{params: params, logger: logger}
}

// Params returns the updater's league parameters.
func (u *Updater) Params() Params {
	return u.params
}

// Replay applies every usable game to the store, oldest first. Games
// missing scores or not completed are skipped silently. Ties on date break
// by game ID so a replay of the same slice is bit-for-bit reproducible.
func (u *Updater) Replay(store *Store, games []*models.GameResult) ReplayStats {
	ordered := make([]*models.GameResult, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].GameID < ordered[j].GameID
	})

	var stats ReplayStats
	for _, g := range ordered {
		if !u.apply(store, g) {
			stats.Skipped++
			continue
		}
		stats.Applied++
	}

	u.logger.WithFields(logrus.Fields{
		"league":  u.params.League,
		"applied": stats.Applied,
		"skipped": stats.Skipped,
		"teams":   store.Len(),
	}).Debug("Rating replay completed")

	return stats
}

// apply runs one game through the update rule. Returns false if the game
// was skipped.
func (u *Updater) apply(store *Store, g *models.GameResult) bool {
	if !g.Usable() || g.HomeTeamKey == "" || g.AwayTeamKey == "" {
		return false
	}

	var actualHome float64
	switch {
	case g.HomeWon():
		actualHome = 1
	case g.Drawn():
		if !u.params.AllowDraws {
			return false
		}
		actualHome = 0.5
	default:
		actualHome = 0
	}

	homeElo := store.Get(g.HomeTeamKey)
	awayElo := store.Get(g.AwayTeamKey)
	expectedHome := Expectation(homeElo, awayElo, u.params.HomeAdvantage)

	delta := u.params.KFactor * (actualHome - expectedHome)
	store.Set(g.HomeTeamKey, homeElo+delta, g.Date)
	store.Set(g.AwayTeamKey, awayElo-delta, g.Date)
	return true
}
