package interfaces

import (
	"context"
	"time"

	"plottwist/domain/entities"
	"plottwist/events"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// GetByID retrieves a profile by its ID
	GetByID(ctx context.Context, id int64) (*entities.Profile, error)

	// GetByHandle retrieves a profile by its unique handle
	GetByHandle(ctx context.Context, handle string) (*entities.Profile, error)

	// GetByAPIToken retrieves a profile by its API token
	GetByAPIToken(ctx context.Context, token string) (*entities.Profile, error)

	// Create creates a new profile with a zero balance
	Create(ctx context.Context, profile *entities.Profile) error

	// AdjustBalance atomically applies a signed delta to a profile's balance
	// and returns the new balance. Fails without modifying anything when the
	// delta would take the balance below zero.
	AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error)

	// AdjustReputation applies a signed delta to a profile's reputation
	AdjustReputation(ctx context.Context, id int64, delta int64) error

	// SetLastDailyBonus records the timestamp of the latest daily bonus claim
	SetLastDailyBonus(ctx context.Context, id int64, claimedAt time.Time) error

	// GetTopByCoins returns the richest profiles ordered by balance
	GetTopByCoins(ctx context.Context, limit int) ([]*entities.Profile, error)
}

// MarketRepository defines the interface for market data access
type MarketRepository interface {
	// Create creates a new market
	Create(ctx context.Context, market *entities.Market) error

	// GetByID retrieves a market by its ID
	GetByID(ctx context.Context, id int64) (*entities.Market, error)

	// GetDetailByID retrieves a market together with all its bets
	GetDetailByID(ctx context.Context, id int64) (*entities.MarketDetail, error)

	// Update persists status, pool totals and resolution fields
	Update(ctx context.Context, market *entities.Market) error

	// AddToPool atomically increments one side's pool total
	AddToPool(ctx context.Context, id int64, position entities.Position, amount int64) error

	// SetDisputed flags a resolved market as disputed
	SetDisputed(ctx context.Context, id int64) error

	// List returns markets filtered by status, newest first. A nil status
	// returns all publicly visible markets.
	List(ctx context.Context, status *entities.MarketStatus, limit int) ([]*entities.Market, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet by its ID
	GetByID(ctx context.Context, id int64) (*entities.Bet, error)

	// GetByMarket returns all bets on a market
	GetByMarket(ctx context.Context, marketID int64) ([]*entities.Bet, error)

	// GetByProfile returns recent bets for a profile
	GetByProfile(ctx context.Context, profileID int64, limit int) ([]*entities.Bet, error)

	// SumByMarketAndProfile returns a profile's cumulative stake on a market
	SumByMarketAndProfile(ctx context.Context, marketID, profileID int64) (int64, error)
}

// ChallengeRepository defines the interface for challenge data access
type ChallengeRepository interface {
	// Create creates a new challenge
	Create(ctx context.Context, challenge *entities.Challenge) error

	// GetByID retrieves a challenge by its ID
	GetByID(ctx context.Context, id int64) (*entities.Challenge, error)

	// Update persists status, winner and response fields
	Update(ctx context.Context, challenge *entities.Challenge) error

	// GetByMarket returns all challenges attached to a market
	GetByMarket(ctx context.Context, marketID int64) ([]*entities.Challenge, error)

	// GetByProfile returns challenges a profile sent or received
	GetByProfile(ctx context.Context, profileID int64, limit int) ([]*entities.Challenge, error)
}

// TransactionRepository defines the interface for ledger data access
type TransactionRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, tx *entities.Transaction) error

	// GetByProfile returns ledger entries for a profile, newest first
	GetByProfile(ctx context.Context, profileID int64, limit int) ([]*entities.Transaction, error)

	// GetLastByProfileAndType returns the most recent entry of a type for a
	// profile, or nil when none exists
	GetLastByProfileAndType(ctx context.Context, profileID int64, txType entities.TransactionType) (*entities.Transaction, error)

	// SumByProfile returns the sum of all ledger amounts for a profile
	SumByProfile(ctx context.Context, profileID int64) (int64, error)
}

// DisputeRepository defines the interface for dispute data access
type DisputeRepository interface {
	// Create records a dispute. Fails when the profile already disputed the
	// market.
	Create(ctx context.Context, dispute *entities.Dispute) error

	// GetByMarket returns all disputes for a market
	GetByMarket(ctx context.Context, marketID int64) ([]*entities.Dispute, error)
}

// ClanRepository defines the interface for clan data access
type ClanRepository interface {
	// Create creates a new clan
	Create(ctx context.Context, clan *entities.Clan) error

	// GetByID retrieves a clan by its ID
	GetByID(ctx context.Context, id int64) (*entities.Clan, error)

	// GetByProfile returns the clan a profile belongs to, or nil
	GetByProfile(ctx context.Context, profileID int64) (*entities.Clan, error)

	// AddMember adds a profile to a clan
	AddMember(ctx context.Context, clanID, profileID int64) error

	// AddXP atomically increments a clan's experience total
	AddXP(ctx context.Context, clanID int64, xp int64) error

	// List returns all clans ordered by XP
	List(ctx context.Context, limit int) ([]*entities.Clan, error)
}

// LeaderboardCache defines the interface for cached leaderboard pages
type LeaderboardCache interface {
	// Get retrieves a cached page, returning ok=false on a miss
	Get(ctx context.Context, limit int) ([]*entities.Profile, bool, error)

	// Set stores a page with a bounded TTL
	Set(ctx context.Context, limit int, profiles []*entities.Profile) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction and flushes
// them on commit or discards them on rollback
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events
	Flush(ctx context.Context) error

	// Discard drops all buffered events
	Discard()
}

// UnitOfWork provides transactional boundaries around repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	ProfileRepository() ProfileRepository
	MarketRepository() MarketRepository
	BetRepository() BetRepository
	ChallengeRepository() ChallengeRepository
	TransactionRepository() TransactionRepository
	DisputeRepository() DisputeRepository
	ClanRepository() ClanRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
