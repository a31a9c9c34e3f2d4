package entities

import "time"

// Bet represents a single stake by a profile on one side of a market
type Bet struct {
	ID            int64     `db:"id"`
	MarketID      int64     `db:"market_id"`
	ProfileID     int64     `db:"profile_id"`
	Position      Position  `db:"position"`
	Amount        int64     `db:"amount"`
	TransactionID *int64    `db:"transaction_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// IsWinner checks if this bet is on the winning side
func (b *Bet) IsWinner(outcome Position) bool {
	return b.Position == outcome
}

// Payout calculates the pari-mutuel payout for a winning bet.
// The winner's share of the total pool is proportional to their share of
// the winning pool, rounded down. Fractional remainders are not paid out.
func (b *Bet) Payout(winningPoolTotal, totalPool int64) int64 {
	if winningPoolTotal <= 0 {
		return 0
	}
	return b.Amount * totalPool / winningPoolTotal
}
