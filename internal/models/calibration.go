package models

// CalibrationBin is one fixed-width probability bucket of resolved
// predictions. Counters are append-only.
type CalibrationBin struct {
	Lo      float64 `db:"lo" json:"lo"`
	Hi      float64 `db:"hi" json:"hi"`
	N       int     `db:"n" json:"n"`
	Correct int     `db:"correct" json:"correct"`
}

// Midpoint returns the center of the bin's probability range.
func (b *CalibrationBin) Midpoint() float64 {
	return (b.Lo + b.Hi) / 2
}

// CalibrationSummary reports rolling accuracy and calibration error for a
// league. Accuracy and ECE are nil until at least one prediction resolves.
type CalibrationSummary struct {
	League   League   `json:"league"`
	N        int      `json:"n"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	ECE      *float64 `json:"ece,omitempty"`
}
