package models

import "time"

// GameResult represents a game as reported by a schedule provider. Scores
// are pointers because providers emit scheduled games without scores.
type GameResult struct {
	GameID      string    `db:"game_id" json:"game_id" validate:"required"`
	League      League    `db:"league" json:"league" validate:"required"`
	Date        time.Time `db:"date" json:"date" validate:"required"`
	HomeTeamKey string    `db:"home_team_key" json:"home_team_key" validate:"required"`
	AwayTeamKey string    `db:"away_team_key" json:"away_team_key" validate:"required"`
	HomeScore   *int      `db:"home_score" json:"home_score"`
	AwayScore   *int      `db:"away_score" json:"away_score"`
	Completed   bool      `db:"completed" json:"completed"`
}

// Usable reports whether the result can feed a rating update: the game is
// final and both scores are present.
func (g *GameResult) Usable() bool {
	return g.Completed && g.HomeScore != nil && g.AwayScore != nil
}

// HomeWon reports whether the home side won. Only meaningful when Usable.
func (g *GameResult) HomeWon() bool {
	return g.Usable() && *g.HomeScore > *g.AwayScore
}

// Drawn reports whether the game ended level. Only meaningful when Usable.
func (g *GameResult) Drawn() bool {
	return g.Usable() && *g.HomeScore == *g.AwayScore
}

// WinnerKey returns the team key of the winning side, or "" for a draw.
func (g *GameResult) WinnerKey() string {
	if !g.Usable() || g.Drawn() {
		return ""
	}
	if g.HomeWon() {
		return g.HomeTeamKey
	}
	return g.AwayTeamKey
}

// Fixture represents an unplayed or in-progress game to be predicted.
type Fixture struct {
	GameID      string    `db:"game_id" json:"game_id" validate:"required"`
	League      League    `db:"league" json:"league" validate:"required"`
	Date        time.Time `db:"date" json:"date" validate:"required"`
	HomeTeamKey string    `db:"home_team_key" json:"home_team_key" validate:"required"`
	AwayTeamKey string    `db:"away_team_key" json:"away_team_key" validate:"required"`
	NeutralSite bool      `db:"neutral_site" json:"neutral_site"`
}
