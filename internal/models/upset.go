package models

// UpsetSignals carries the raw inputs behind an upset candidate's score.
type UpsetSignals struct {
	RatingGap    float64 `json:"rating_gap"`
	FavoriteSide Side    `json:"favorite_side"`
}

// UpsetCandidate is one flagged matchup where the statistical underdog has
// notable win equity.
type UpsetCandidate struct {
	GameID          string       `json:"game_id"`
	League          League       `json:"league"`
	FavoriteTeamKey string       `json:"favorite_team_key"`
	UnderdogTeamKey string       `json:"underdog_team_key"`
	UnderdogWinProb float64      `json:"underdog_win_prob"`
	Score           float64      `json:"score"`
	Signals         UpsetSignals `json:"signals"`
}
