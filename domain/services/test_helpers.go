package services

import (
	"testing"
	"time"

	"plottwist/domain/entities"
	"plottwist/domain/testhelpers"
)

// Test constants for consistent test data
const (
	TestMarketID        = int64(1)
	TestCreatorID       = int64(100)
	TestBettorID        = int64(200)
	TestChallengerID    = int64(300)
	TestChallengedID    = int64(400)
	TestAdminID         = int64(900)
	TestClanID          = int64(7)
	TestInitialBalance  = int64(10000)
	TestSignupBonus     = int64(1000)
	TestDailyBonus      = int64(100)
	TestCreatorBetLimit = int64(200)
	TestDisputeWindow   = 24 * time.Hour
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	ProfileRepo     *testhelpers.MockProfileRepository
	MarketRepo      *testhelpers.MockMarketRepository
	BetRepo         *testhelpers.MockBetRepository
	ChallengeRepo   *testhelpers.MockChallengeRepository
	TransactionRepo *testhelpers.MockTransactionRepository
	DisputeRepo     *testhelpers.MockDisputeRepository
	ClanRepo        *testhelpers.MockClanRepository
	EventPublisher  *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		ProfileRepo:     &testhelpers.MockProfileRepository{},
		MarketRepo:      &testhelpers.MockMarketRepository{},
		BetRepo:         &testhelpers.MockBetRepository{},
		ChallengeRepo:   &testhelpers.MockChallengeRepository{},
		TransactionRepo: &testhelpers.MockTransactionRepository{},
		DisputeRepo:     &testhelpers.MockDisputeRepository{},
		ClanRepo:        &testhelpers.MockClanRepository{},
		EventPublisher:  &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.ProfileRepo.AssertExpectations(t)
	m.MarketRepo.AssertExpectations(t)
	m.BetRepo.AssertExpectations(t)
	m.ChallengeRepo.AssertExpectations(t)
	m.TransactionRepo.AssertExpectations(t)
	m.DisputeRepo.AssertExpectations(t)
	m.ClanRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// testProfile builds a profile with the standard starting balance
func testProfile(id int64) *entities.Profile {
	return &entities.Profile{
		ID:       id,
		Handle:   "profile",
		Coins:    TestInitialBalance,
		APIToken: "token",
	}
}

// testAdmin builds an admin profile
func testAdmin(id int64) *entities.Profile {
	p := testProfile(id)
	p.Handle = "admin"
	p.IsAdmin = true
	return p
}

// testActiveMarket builds an unofficial active market with an open deadline
func testActiveMarket() *entities.Market {
	return &entities.Market{
		ID:         TestMarketID,
		Title:      "Will it rain tomorrow",
		CreatorID:  TestCreatorID,
		Mode:       entities.MarketModeUnofficial,
		Visibility: entities.MarketVisibilityPublic,
		Status:     entities.MarketStatusActive,
		Deadline:   time.Now().Add(24 * time.Hour),
	}
}

// testResolvedMarket builds a market resolved to the given outcome
func testResolvedMarket(outcome entities.Position, resolvedAt time.Time) *entities.Market {
	m := testActiveMarket()
	m.Resolve(outcome, resolvedAt)
	return m
}

// testPendingChallenge builds a pending challenge between the standard
// challenger and challenged profiles
func testPendingChallenge(amount int64) *entities.Challenge {
	return &entities.Challenge{
		ID:           1,
		MarketID:     TestMarketID,
		ChallengerID: TestChallengerID,
		ChallengedID: TestChallengedID,
		Position:     entities.PositionYes,
		Amount:       amount,
		Status:       entities.ChallengeStatusPending,
	}
}
