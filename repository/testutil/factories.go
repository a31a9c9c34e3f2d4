package testutil

import (
	"fmt"
	"time"

	"plottwist/domain/entities"

	"github.com/google/uuid"
)

// CreateTestProfile builds a profile entity with default values. The handle
// stays unique across calls within a test database.
func CreateTestProfile(handle string) *entities.Profile {
	return &entities.Profile{
		Handle:   handle,
		Coins:    0,
		Country:  "NZ",
		APIToken: uuid.New().String(),
	}
}

// CreateTestMarket builds an active market entity owned by the creator
func CreateTestMarket(creatorID int64, title string) *entities.Market {
	return &entities.Market{
		Title:      title,
		CreatorID:  creatorID,
		Mode:       entities.MarketModeUnofficial,
		Visibility: entities.MarketVisibilityPublic,
		Status:     entities.MarketStatusActive,
		Deadline:   time.Now().Add(24 * time.Hour).UTC(),
	}
}

// CreateTestBet builds a bet entity on the yes side
func CreateTestBet(marketID, profileID, amount int64) *entities.Bet {
	return &entities.Bet{
		MarketID:  marketID,
		ProfileID: profileID,
		Position:  entities.PositionYes,
		Amount:    amount,
	}
}

// CreateTestChallenge builds a pending challenge entity
func CreateTestChallenge(marketID, challengerID, challengedID, amount int64) *entities.Challenge {
	return &entities.Challenge{
		MarketID:     marketID,
		ChallengerID: challengerID,
		ChallengedID: challengedID,
		Position:     entities.PositionYes,
		Amount:       amount,
		Status:       entities.ChallengeStatusPending,
	}
}

// CreateTestTransaction builds a consistent ledger entry crediting the
// profile from zero
func CreateTestTransaction(profileID, amount int64, txType entities.TransactionType) *entities.Transaction {
	return &entities.Transaction{
		ProfileID:     profileID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: 0,
		BalanceAfter:  amount,
	}
}

// CreateTestClan builds a clan entity with a unique-ish tag derived from
// the name
func CreateTestClan(creatorID int64, name string) *entities.Clan {
	return &entities.Clan{
		Name:      name,
		Tag:       fmt.Sprintf("%.5s", name),
		CreatorID: creatorID,
	}
}
