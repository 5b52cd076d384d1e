package models

import "time"

// BaseRating is the rating assigned to a team the first time it is
// referenced in any league.
const BaseRating = 1500.0

// TeamRating holds the current skill estimate for one team in one league.
type TeamRating struct {
	League      League    `db:"league" json:"league" validate:"required"`
	TeamKey     string    `db:"team_key" json:"team_key" validate:"required"`
	Rating      float64   `db:"rating" json:"rating"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

// Delta returns the difference between this rating and the league base.
func (tr *TeamRating) Delta() float64 {
	return tr.Rating - BaseRating
}
