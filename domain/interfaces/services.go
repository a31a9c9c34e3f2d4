package interfaces

import (
	"context"
	"time"

	"plottwist/domain/entities"
)

// ProfileService defines the interface for profile operations
type ProfileService interface {
	// Register creates a new profile with the signup bonus credited
	Register(ctx context.Context, handle, country string) (*entities.Profile, error)

	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id int64) (*entities.Profile, error)
}

// MarketService defines the interface for market lifecycle operations
type MarketService interface {
	// CreateMarket creates a new active market
	CreateMarket(ctx context.Context, creatorID int64, title, description string, mode entities.MarketMode, visibility entities.MarketVisibility, deadline time.Time) (*entities.Market, error)

	// GetMarketDetail retrieves a market with its bets
	GetMarketDetail(ctx context.Context, marketID int64) (*entities.MarketDetail, error)

	// ListMarkets returns markets filtered by status
	ListMarkets(ctx context.Context, status *entities.MarketStatus, limit int) ([]*entities.Market, error)

	// CancelMarket voids a market, refunding every bet and pending or
	// accepted challenge
	CancelMarket(ctx context.Context, marketID, cancellerID int64) (*entities.Market, error)
}

// BettingService defines the interface for placing pool bets
type BettingService interface {
	// PlaceBet stakes coins on one side of an active market
	PlaceBet(ctx context.Context, marketID, profileID int64, position entities.Position, amount int64) (*entities.Bet, error)
}

// SettlementService defines the interface for resolving markets
type SettlementService interface {
	// Resolve settles a market to an outcome and pays out winning bets and
	// accepted challenges
	Resolve(ctx context.Context, marketID, resolverID int64, outcome entities.Position) (*entities.SettlementResult, error)
}

// ChallengeService defines the interface for head-to-head challenges
type ChallengeService interface {
	// CreateChallenge proposes a challenge, escrowing the challenger's stake
	CreateChallenge(ctx context.Context, marketID, challengerID, challengedID int64, position entities.Position, amount int64) (*entities.Challenge, error)

	// AcceptChallenge escrows the challenged party's stake
	AcceptChallenge(ctx context.Context, challengeID, responderID int64) (*entities.Challenge, error)

	// DeclineChallenge refunds the challenger's stake
	DeclineChallenge(ctx context.Context, challengeID, responderID int64) (*entities.Challenge, error)

	// ListChallenges returns challenges involving a profile
	ListChallenges(ctx context.Context, profileID int64, limit int) ([]*entities.Challenge, error)
}

// DisputeService defines the interface for disputing resolutions
type DisputeService interface {
	// OpenDispute records a bettor's vote against a resolution inside the
	// dispute window
	OpenDispute(ctx context.Context, marketID, profileID int64, vote entities.Position, reason string) (*entities.Dispute, error)
}

// BonusService defines the interface for recurring coin grants
type BonusService interface {
	// ClaimDaily credits the daily bonus once per cooldown period
	ClaimDaily(ctx context.Context, profileID int64) (*entities.Transaction, error)
}

// LeaderboardService defines the interface for ranking queries
type LeaderboardService interface {
	// GetLeaderboard returns the top profiles by coin balance
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.Profile, error)
}

// ClanService defines the interface for clan operations
type ClanService interface {
	// CreateClan creates a clan with the creator as first member
	CreateClan(ctx context.Context, creatorID int64, name, tag string) (*entities.Clan, error)

	// JoinClan adds a profile to an existing clan
	JoinClan(ctx context.Context, clanID, profileID int64) error

	// ListClans returns clans ordered by XP
	ListClans(ctx context.Context, limit int) ([]*entities.Clan, error)
}
