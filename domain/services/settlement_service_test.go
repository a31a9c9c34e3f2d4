package services

import (
	"context"
	"testing"
	"time"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSettlementServiceForTest(mocks *TestMocks) *settlementService {
	return NewSettlementService(
		mocks.ProfileRepo,
		mocks.MarketRepo,
		mocks.BetRepo,
		mocks.ChallengeRepo,
		mocks.TransactionRepo,
		mocks.ClanRepo,
		mocks.EventPublisher,
	).(*settlementService)
}

func TestSettlementService_Resolve_ProportionalPayouts(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newSettlementServiceForTest(mocks)

	market := testActiveMarket()
	market.TotalYes = 300
	market.TotalNo = 300

	winnerA := int64(201)
	winnerB := int64(202)
	loserC := int64(203)
	bets := []*entities.Bet{
		{ID: 1, MarketID: TestMarketID, ProfileID: winnerA, Position: entities.PositionYes, Amount: 100},
		{ID: 2, MarketID: TestMarketID, ProfileID: winnerB, Position: entities.PositionYes, Amount: 200},
		{ID: 3, MarketID: TestMarketID, ProfileID: loserC, Position: entities.PositionNo, Amount: 300},
	}

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
	mocks.ProfileRepo.On("GetByID", ctx, TestCreatorID).Return(testProfile(TestCreatorID), nil)
	mocks.BetRepo.On("GetByMarket", ctx, TestMarketID).Return(bets, nil)

	// 100/300 and 200/300 of the 600 coin pool
	mocks.ProfileRepo.On("AdjustBalance", ctx, winnerA, int64(200)).Return(int64(10200), nil)
	mocks.ProfileRepo.On("AdjustBalance", ctx, winnerB, int64(400)).Return(int64(10400), nil)
	mocks.TransactionRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
		return tx.Type == entities.TransactionTypeBetWon
	})).Return(nil).Times(2)

	mocks.ProfileRepo.On("AdjustReputation", ctx, winnerA, int64(10)).Return(nil)
	mocks.ProfileRepo.On("AdjustReputation", ctx, winnerB, int64(10)).Return(nil)
	mocks.ProfileRepo.On("AdjustReputation", ctx, loserC, int64(-5)).Return(nil)
	mocks.ClanRepo.On("GetByProfile", ctx, winnerA).Return(nil, nil)
	mocks.ClanRepo.On("GetByProfile", ctx, winnerB).Return(nil, nil)

	mocks.ChallengeRepo.On("GetByMarket", ctx, TestMarketID).Return([]*entities.Challenge{}, nil)
	mocks.MarketRepo.On("Update", ctx, mock.MatchedBy(func(m *entities.Market) bool {
		return m.Status == entities.MarketStatusResolvedYes && m.ResolvedAt != nil
	})).Return(nil)
	mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.Resolve(ctx, TestMarketID, TestCreatorID, entities.PositionYes)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Winners)
	assert.Equal(t, int64(600), result.TotalPaid)
	assert.Equal(t, int64(200), result.Payouts[winnerA])
	assert.Equal(t, int64(400), result.Payouts[winnerB])
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_FloorDivisionDust(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newSettlementServiceForTest(mocks)

	market := testActiveMarket()
	market.TotalYes = 99
	market.TotalNo = 100

	winnerA := int64(201)
	winnerB := int64(202)
	loserC := int64(203)
	bets := []*entities.Bet{
		{ID: 1, MarketID: TestMarketID, ProfileID: winnerA, Position: entities.PositionYes, Amount: 33},
		{ID: 2, MarketID: TestMarketID, ProfileID: winnerB, Position: entities.PositionYes, Amount: 66},
		{ID: 3, MarketID: TestMarketID, ProfileID: loserC, Position: entities.PositionNo, Amount: 100},
	}

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
	mocks.ProfileRepo.On("GetByID", ctx, TestCreatorID).Return(testProfile(TestCreatorID), nil)
	mocks.BetRepo.On("GetByMarket", ctx, TestMarketID).Return(bets, nil)

	// 33*199/99 = 66 and 66*199/99 = 132, leaving 1 coin of dust unpaid
	mocks.ProfileRepo.On("AdjustBalance", ctx, winnerA, int64(66)).Return(int64(10066), nil)
	mocks.ProfileRepo.On("AdjustBalance", ctx, winnerB, int64(132)).Return(int64(10132), nil)
	mocks.TransactionRepo.On("Record", ctx, mock.Anything).Return(nil).Times(2)
	mocks.ProfileRepo.On("AdjustReputation", ctx, winnerA, int64(10)).Return(nil)
	mocks.ProfileRepo.On("AdjustReputation", ctx, winnerB, int64(10)).Return(nil)
	mocks.ProfileRepo.On("AdjustReputation", ctx, loserC, int64(-5)).Return(nil)
	mocks.ClanRepo.On("GetByProfile", ctx, mock.Anything).Return(nil, nil)
	mocks.ChallengeRepo.On("GetByMarket", ctx, TestMarketID).Return([]*entities.Challenge{}, nil)
	mocks.MarketRepo.On("Update", ctx, mock.Anything).Return(nil)
	mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.Resolve(ctx, TestMarketID, TestCreatorID, entities.PositionYes)

	require.NoError(t, err)
	assert.Equal(t, int64(198), result.TotalPaid)
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_EmptyWinningSidePaysNothing(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newSettlementServiceForTest(mocks)

	market := testActiveMarket()
	market.TotalYes = 0
	market.TotalNo = 400

	bettorA := int64(201)
	bettorB := int64(202)
	bets := []*entities.Bet{
		{ID: 1, MarketID: TestMarketID, ProfileID: bettorA, Position: entities.PositionNo, Amount: 100},
		{ID: 2, MarketID: TestMarketID, ProfileID: bettorB, Position: entities.PositionNo, Amount: 300},
	}

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
	mocks.ProfileRepo.On("GetByID", ctx, TestCreatorID).Return(testProfile(TestCreatorID), nil)
	mocks.BetRepo.On("GetByMarket", ctx, TestMarketID).Return(bets, nil)

	// Everyone picked the losing side; stakes stay in the unallocated pool
	mocks.ProfileRepo.On("AdjustReputation", ctx, bettorA, int64(-5)).Return(nil)
	mocks.ProfileRepo.On("AdjustReputation", ctx, bettorB, int64(-5)).Return(nil)

	mocks.ChallengeRepo.On("GetByMarket", ctx, TestMarketID).Return([]*entities.Challenge{}, nil)
	mocks.MarketRepo.On("Update", ctx, mock.MatchedBy(func(m *entities.Market) bool {
		return m.Status == entities.MarketStatusResolvedYes
	})).Return(nil)
	mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.Resolve(ctx, TestMarketID, TestCreatorID, entities.PositionYes)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Winners)
	assert.Equal(t, int64(0), result.TotalPaid)
	assert.Empty(t, result.Payouts)
	mocks.ProfileRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	mocks.TransactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_SettlesChallenges(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newSettlementServiceForTest(mocks)

	market := testActiveMarket()

	accepted := testPendingChallenge(500)
	accepted.ID = 1
	accepted.Accept(time.Now())
	pending := testPendingChallenge(200)
	pending.ID = 2

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
	mocks.ProfileRepo.On("GetByID", ctx, TestCreatorID).Return(testProfile(TestCreatorID), nil)
	mocks.BetRepo.On("GetByMarket", ctx, TestMarketID).Return([]*entities.Bet{}, nil)
	mocks.ChallengeRepo.On("GetByMarket", ctx, TestMarketID).
		Return([]*entities.Challenge{accepted, pending}, nil)

	// Challenger held yes, outcome is yes, so they collect the full pot
	mocks.ProfileRepo.On("AdjustBalance", ctx, TestChallengerID, int64(1000)).Return(int64(11000), nil)
	mocks.TransactionRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
		return tx.Type == entities.TransactionTypeChallengeWon && tx.Amount == 1000
	})).Return(nil)
	mocks.ChallengeRepo.On("Update", ctx, mock.MatchedBy(func(c *entities.Challenge) bool {
		return c.ID == 1 && c.Status == entities.ChallengeStatusResolved && *c.WinnerID == TestChallengerID
	})).Return(nil)

	// Unanswered challenge is declined with the escrow returned
	mocks.ProfileRepo.On("AdjustBalance", ctx, TestChallengerID, int64(200)).Return(int64(11200), nil)
	mocks.TransactionRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
		return tx.Type == entities.TransactionTypeChallengeRefund && tx.Amount == 200
	})).Return(nil)
	mocks.ChallengeRepo.On("Update", ctx, mock.MatchedBy(func(c *entities.Challenge) bool {
		return c.ID == 2 && c.Status == entities.ChallengeStatusDeclined
	})).Return(nil)

	mocks.MarketRepo.On("Update", ctx, mock.Anything).Return(nil)
	mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)

	_, err := service.Resolve(ctx, TestMarketID, TestCreatorID, entities.PositionYes)

	require.NoError(t, err)
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_AlreadyResolved(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newSettlementServiceForTest(mocks)

	market := testResolvedMarket(entities.PositionYes, time.Now())
	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)

	_, err := service.Resolve(ctx, TestMarketID, TestCreatorID, entities.PositionYes)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyResolved)
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_Authority(t *testing.T) {
	ctx := context.Background()

	t.Run("stranger cannot resolve unofficial market", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newSettlementServiceForTest(mocks)

		mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(testActiveMarket(), nil)
		mocks.ProfileRepo.On("GetByID", ctx, TestBettorID).Return(testProfile(TestBettorID), nil)

		_, err := service.Resolve(ctx, TestMarketID, TestBettorID, entities.PositionYes)

		assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
		mocks.AssertAllExpectations(t)
	})

	t.Run("creator cannot resolve official market", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newSettlementServiceForTest(mocks)

		market := testActiveMarket()
		market.Mode = entities.MarketModeOfficial

		mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
		mocks.ProfileRepo.On("GetByID", ctx, TestCreatorID).Return(testProfile(TestCreatorID), nil)

		_, err := service.Resolve(ctx, TestMarketID, TestCreatorID, entities.PositionYes)

		assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
		mocks.AssertAllExpectations(t)
	})

	t.Run("admin resolves official market", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newSettlementServiceForTest(mocks)

		market := testActiveMarket()
		market.Mode = entities.MarketModeOfficial

		mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
		mocks.ProfileRepo.On("GetByID", ctx, TestAdminID).Return(testAdmin(TestAdminID), nil)
		mocks.BetRepo.On("GetByMarket", ctx, TestMarketID).Return([]*entities.Bet{}, nil)
		mocks.ChallengeRepo.On("GetByMarket", ctx, TestMarketID).Return([]*entities.Challenge{}, nil)
		mocks.MarketRepo.On("Update", ctx, mock.Anything).Return(nil)
		mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)

		_, err := service.Resolve(ctx, TestMarketID, TestAdminID, entities.PositionNo)

		require.NoError(t, err)
		mocks.AssertAllExpectations(t)
	})
}
