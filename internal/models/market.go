package models

// MarketQuote carries American moneyline odds for one fixture. A zero
// moneyline is not a valid price; consumers treat such quotes as absent.
type MarketQuote struct {
	GameID        string `db:"game_id" json:"game_id"`
	HomeMoneyline int    `db:"home_moneyline" json:"home_moneyline"`
	AwayMoneyline int    `db:"away_moneyline" json:"away_moneyline"`
}

// Usable reports whether both sides carry a parseable price.
func (q *MarketQuote) Usable() bool {
	return q != nil && q.HomeMoneyline != 0 && q.AwayMoneyline != 0
}
