// Package rating maintains per-team Elo ratings from completed games.
package rating

import "github.com/yourusername/slate-edge/internal/models"

// Params holds the per-league tunables for the Elo update rule.
type Params struct {
	League models.League

	// KFactor scales how far a single result moves both ratings.
	KFactor float64

	// HomeAdvantage is added to the home rating only while computing the
	// expectation. It is never baked into the stored rating.
	HomeAdvantage float64

	// AllowDraws enables the 0.5 outcome path for leagues that can end
	// level. Off for every league currently supported; an equal-score
	// final with draws disabled is skipped as malformed.
	AllowDraws bool

	// LookbackDays bounds the window of historical results replayed on a
	// rebuild.
	LookbackDays int
}

// DefaultParams returns the tuned parameters for a league. Unknown leagues
// get conservative NBA-like values.
func DefaultParams(league models.League) Params {
	switch league {
	case models.LeagueNBA:
		return Params{League: league, KFactor: 20, HomeAdvantage: 60, LookbackDays: 120}
	case models.LeagueNHL:
		return Params{League: league, KFactor: 18, HomeAdvantage: 55, LookbackDays: 90}
	case models.LeagueNCAAM:
		return Params{League: league, KFactor: 20, HomeAdvantage: 65, LookbackDays: 45}
	default:
		return Params{League: league, KFactor: 20, HomeAdvantage: 60, LookbackDays: 120}
	}
}
