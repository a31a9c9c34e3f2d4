package entities

import "time"

// ChallengeStatus represents the lifecycle state of a head-to-head challenge
type ChallengeStatus string

const (
	ChallengeStatusPending  ChallengeStatus = "pending"
	ChallengeStatusAccepted ChallengeStatus = "accepted"
	ChallengeStatusDeclined ChallengeStatus = "declined"
	ChallengeStatusResolved ChallengeStatus = "resolved"
)

// Challenge represents a head-to-head side wager on a market between two
// profiles. The challenger picks a side, the challenged party implicitly
// takes the opposite one. Stakes are held in escrow until resolution.
type Challenge struct {
	ID           int64           `db:"id"`
	MarketID     int64           `db:"market_id"`
	ChallengerID int64           `db:"challenger_id"`
	ChallengedID int64           `db:"challenged_id"`
	Position     Position        `db:"position"`
	Amount       int64           `db:"amount"`
	Status       ChallengeStatus `db:"status"`
	WinnerID     *int64          `db:"winner_id"`
	RespondedAt  *time.Time      `db:"responded_at"`
	ResolvedAt   *time.Time      `db:"resolved_at"`
	CreatedAt    time.Time       `db:"created_at"`
}

// ChallengedPosition returns the side the challenged party holds
func (c *Challenge) ChallengedPosition() Position {
	return c.Position.Opposite()
}

// IsPending checks if the challenge is awaiting a response
func (c *Challenge) IsPending() bool {
	return c.Status == ChallengeStatusPending
}

// IsAccepted checks if both stakes are held in escrow
func (c *Challenge) IsAccepted() bool {
	return c.Status == ChallengeStatusAccepted
}

// Pot returns the total escrowed amount once accepted
func (c *Challenge) Pot() int64 {
	return c.Amount * 2
}

// WinnerForOutcome returns the profile holding the winning side
func (c *Challenge) WinnerForOutcome(outcome Position) int64 {
	if c.Position == outcome {
		return c.ChallengerID
	}
	return c.ChallengedID
}

// Accept marks the challenge accepted
func (c *Challenge) Accept(now time.Time) {
	c.Status = ChallengeStatusAccepted
	c.RespondedAt = &now
}

// Decline marks the challenge declined
func (c *Challenge) Decline(now time.Time) {
	c.Status = ChallengeStatusDeclined
	c.RespondedAt = &now
}

// Resolve marks the challenge resolved with a winner
func (c *Challenge) Resolve(winnerID int64, now time.Time) {
	c.Status = ChallengeStatusResolved
	c.WinnerID = &winnerID
	c.ResolvedAt = &now
}
