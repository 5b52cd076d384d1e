package models

import (
	"time"

	"github.com/google/uuid"
)

// Side identifies which side of a fixture a probability refers to.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opposite returns the other side of the fixture.
func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Tier is a discrete confidence bucket for display purposes.
type Tier string

const (
	TierElite  Tier = "ELITE"
	TierStrong Tier = "STRONG"
	TierLean   Tier = "LEAN"
	TierPass   Tier = "PASS"
)

// PredictionRow is the engine's output for one fixture. WinProb is always
// the probability of the picked side; Edge is WinProb - 0.5. PickSide is
// empty only when the engine abstains outright. Rows are never mutated
// after creation; re-prediction produces a fresh row with the same GameID.
type PredictionRow struct {
	ID          uuid.UUID `db:"id" json:"id"`
	GameID      string    `db:"game_id" json:"game_id" validate:"required"`
	League      League    `db:"league" json:"league" validate:"required"`
	Date        time.Time `db:"date" json:"date" validate:"required"`
	HomeTeamKey string    `db:"home_team_key" json:"home_team_key" validate:"required"`
	AwayTeamKey string    `db:"away_team_key" json:"away_team_key" validate:"required"`
	PickSide    Side      `db:"pick_side" json:"pick_side,omitempty"`
	WinProb     float64   `db:"win_prob" json:"win_prob" validate:"gte=0,lte=1"`
	RawHomeProb float64   `db:"raw_home_prob" json:"raw_home_prob" validate:"gte=0,lte=1"`
	Edge        float64   `db:"edge" json:"edge"`
	Confidence  float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Tier        Tier      `db:"tier" json:"tier"`
	PredictedAt time.Time `db:"predicted_at" json:"predicted_at"`
}

// PickedTeamKey returns the team key of the picked side, or "" if the
// engine abstained.
func (p *PredictionRow) PickedTeamKey() string {
	switch p.PickSide {
	case SideHome:
		return p.HomeTeamKey
	case SideAway:
		return p.AwayTeamKey
	}
	return ""
}

// Recommended reports whether the row should be presented with a side.
// PASS is a presentation contract: a pick may have been computed, but the
// row is shown as "no recommended side".
func (p *PredictionRow) Recommended() bool {
	return p.PickSide != "" && p.Tier != TierPass
}
