package events

import "plottwist/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange        EventType = "balance_change"
	EventTypeProfileCreated       EventType = "profile_created"
	EventTypeBetPlaced            EventType = "bet_placed"
	EventTypeMarketStateChange    EventType = "market_state_change"
	EventTypeChallengeStateChange EventType = "challenge_state_change"
	EventTypeDisputeOpened        EventType = "dispute_opened"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	ProfileID       int64
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// ProfileCreatedEvent represents a new profile registration
type ProfileCreatedEvent struct {
	ProfileID      int64
	Handle         string
	InitialBalance int64
}

func (e ProfileCreatedEvent) Type() EventType {
	return EventTypeProfileCreated
}

// BetPlacedEvent represents a bet that was placed on a market
type BetPlacedEvent struct {
	BetID     int64
	MarketID  int64
	ProfileID int64
	Position  entities.Position
	Amount    int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// MarketStateChangeEvent represents a market lifecycle transition
type MarketStateChangeEvent struct {
	MarketID int64
	OldState string
	NewState string
}

func (e MarketStateChangeEvent) Type() EventType {
	return EventTypeMarketStateChange
}

// ChallengeStateChangeEvent represents a challenge lifecycle transition
type ChallengeStateChangeEvent struct {
	ChallengeID int64
	MarketID    int64
	OldState    string
	NewState    string
}

func (e ChallengeStateChangeEvent) Type() EventType {
	return EventTypeChallengeStateChange
}

// DisputeOpenedEvent represents a dispute filed against a resolved market
type DisputeOpenedEvent struct {
	DisputeID int64
	MarketID  int64
	ProfileID int64
}

func (e DisputeOpenedEvent) Type() EventType {
	return EventTypeDisputeOpened
}
