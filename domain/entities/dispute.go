package entities

import "time"

// Dispute records a bettor's vote against a market's resolution. Disputes do
// not reverse payouts; they flag the market for manual follow-up.
type Dispute struct {
	ID        int64     `db:"id"`
	MarketID  int64     `db:"market_id"`
	ProfileID int64     `db:"profile_id"`
	Vote      Position  `db:"vote"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}
