package entities

import (
	"time"
)

// Profile represents a user's economic identity
type Profile struct {
	ID               int64      `db:"id"`
	Handle           string     `db:"handle"`
	Coins            int64      `db:"coins"`
	Reputation       int64      `db:"reputation"`
	Country          string     `db:"country"`
	IsAdmin          bool       `db:"is_admin"`
	APIToken         string     `db:"api_token"`
	LastDailyBonusAt *time.Time `db:"last_daily_bonus_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// CanAfford checks if the profile has sufficient coins for an amount
func (p *Profile) CanAfford(amount int64) bool {
	return p.Coins >= amount
}

// CanClaimDailyBonus checks whether the daily bonus cooldown has elapsed
func (p *Profile) CanClaimDailyBonus(now time.Time) bool {
	if p.LastDailyBonusAt == nil {
		return true
	}
	return now.Sub(*p.LastDailyBonusAt) >= 24*time.Hour
}
