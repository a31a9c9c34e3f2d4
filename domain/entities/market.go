package entities

import (
	"time"
)

// MarketMode represents who has resolution authority over a market
type MarketMode string

const (
	MarketModeOfficial   MarketMode = "official"
	MarketModeUnofficial MarketMode = "unofficial"
)

// MarketVisibility represents whether a market is publicly listed
type MarketVisibility string

const (
	MarketVisibilityPublic  MarketVisibility = "public"
	MarketVisibilityPrivate MarketVisibility = "private"
)

// MarketStatus represents the lifecycle state of a market
type MarketStatus string

const (
	MarketStatusActive      MarketStatus = "active"
	MarketStatusResolvedYes MarketStatus = "resolved_yes"
	MarketStatusResolvedNo  MarketStatus = "resolved_no"
	MarketStatusCancelled   MarketStatus = "cancelled"
)

// Market represents one yes/no prediction with pooled stakes
type Market struct {
	ID          int64            `db:"id"`
	Title       string           `db:"title"`
	Description string           `db:"description"`
	CreatorID   int64            `db:"creator_id"`
	Mode        MarketMode       `db:"mode"`
	Visibility  MarketVisibility `db:"visibility"`
	Status      MarketStatus     `db:"status"`
	Deadline    time.Time        `db:"deadline"`
	TotalYes    int64            `db:"total_yes"`
	TotalNo     int64            `db:"total_no"`
	Disputed    bool             `db:"disputed"`
	ResolvedAt  *time.Time       `db:"resolved_at"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

// MarketDetail combines a market with its bets
type MarketDetail struct {
	Market *Market
	Bets   []*Bet
}

// SettlementResult summarizes a market resolution
type SettlementResult struct {
	Market    *Market
	Outcome   Position
	Winners   int
	TotalPaid int64
	// Payouts maps profile ID to the amount credited
	Payouts map[int64]int64
}

// TotalPool returns the combined stake on both sides
func (m *Market) TotalPool() int64 {
	return m.TotalYes + m.TotalNo
}

// PoolFor returns the aggregate stake on one side
func (m *Market) PoolFor(position Position) int64 {
	if position == PositionYes {
		return m.TotalYes
	}
	return m.TotalNo
}

// IsActive checks if the market is in the active state
func (m *Market) IsActive() bool {
	return m.Status == MarketStatusActive
}

// IsResolved checks if the market has been resolved to an outcome
func (m *Market) IsResolved() bool {
	return m.Status == MarketStatusResolvedYes || m.Status == MarketStatusResolvedNo
}

// IsTerminal checks if the market is in any terminal state
func (m *Market) IsTerminal() bool {
	return m.IsResolved() || m.Status == MarketStatusCancelled
}

// IsExpired checks if the betting deadline has passed.
// An expired market still reports status active until explicitly resolved.
func (m *Market) IsExpired(now time.Time) bool {
	return !now.Before(m.Deadline)
}

// CanAcceptBets checks if the market can still accept bets
func (m *Market) CanAcceptBets(now time.Time) bool {
	return m.IsActive() && !m.IsExpired(now)
}

// Outcome returns the resolved outcome, or false if the market is not resolved
func (m *Market) Outcome() (Position, bool) {
	switch m.Status {
	case MarketStatusResolvedYes:
		return PositionYes, true
	case MarketStatusResolvedNo:
		return PositionNo, true
	default:
		return "", false
	}
}

// CanBeResolvedBy checks resolution authority: official markets require an
// admin, unofficial markets only their creator.
func (m *Market) CanBeResolvedBy(p *Profile) bool {
	if m.Mode == MarketModeOfficial {
		return p.IsAdmin
	}
	return p.ID == m.CreatorID
}

// CanBeCancelledBy checks cancellation authority (creator or admin)
func (m *Market) CanBeCancelledBy(p *Profile) bool {
	return p.IsAdmin || p.ID == m.CreatorID
}

// Resolve transitions the market to the resolved state for an outcome
func (m *Market) Resolve(outcome Position, now time.Time) {
	if !m.IsActive() {
		return
	}
	if outcome == PositionYes {
		m.Status = MarketStatusResolvedYes
	} else {
		m.Status = MarketStatusResolvedNo
	}
	m.ResolvedAt = &now
}

// Cancel transitions the market to the cancelled state
func (m *Market) Cancel(now time.Time) {
	if !m.IsActive() {
		return
	}
	m.Status = MarketStatusCancelled
	m.ResolvedAt = &now
}

// InDisputeWindow checks if disputes are still accepted at the given time
func (m *Market) InDisputeWindow(now time.Time, window time.Duration) bool {
	if !m.IsResolved() || m.ResolvedAt == nil {
		return false
	}
	return now.Sub(*m.ResolvedAt) <= window
}
