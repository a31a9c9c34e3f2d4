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

func newBettingServiceForTest(mocks *TestMocks) *bettingService {
	return NewBettingService(
		mocks.ProfileRepo,
		mocks.MarketRepo,
		mocks.BetRepo,
		mocks.TransactionRepo,
		mocks.ClanRepo,
		mocks.EventPublisher,
		TestCreatorBetLimit,
	).(*bettingService)
}

func TestBettingService_PlaceBet(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newBettingServiceForTest(mocks)

	market := testActiveMarket()
	bettor := testProfile(TestBettorID)

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
	mocks.ProfileRepo.On("GetByID", ctx, TestBettorID).Return(bettor, nil)
	mocks.BetRepo.On("Create", ctx, mock.MatchedBy(func(b *entities.Bet) bool {
		return b.MarketID == TestMarketID &&
			b.ProfileID == TestBettorID &&
			b.Position == entities.PositionYes &&
			b.Amount == 500
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Bet).ID = 11
	})
	mocks.ProfileRepo.On("AdjustBalance", ctx, TestBettorID, int64(-500)).Return(int64(9500), nil)
	mocks.TransactionRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
		return tx.Type == entities.TransactionTypeBetPlaced && *tx.RelatedID == 11
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Transaction).ID = 77
	})
	mocks.MarketRepo.On("AddToPool", ctx, TestMarketID, entities.PositionYes, int64(500)).Return(nil)
	mocks.ClanRepo.On("GetByProfile", ctx, TestBettorID).Return(nil, nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.BetPlacedEvent")).Return(nil)

	bet, err := service.PlaceBet(ctx, TestMarketID, TestBettorID, entities.PositionYes, 500)

	require.NoError(t, err)
	assert.Equal(t, int64(11), bet.ID)
	require.NotNil(t, bet.TransactionID)
	assert.Equal(t, int64(77), *bet.TransactionID)
	mocks.AssertAllExpectations(t)
}

func TestBettingService_PlaceBet_GrantsClanXP(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newBettingServiceForTest(mocks)

	clan := &entities.Clan{ID: TestClanID, Name: "The Regulars", Tag: "REG"}

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(testActiveMarket(), nil)
	mocks.ProfileRepo.On("GetByID", ctx, TestBettorID).Return(testProfile(TestBettorID), nil)
	mocks.BetRepo.On("Create", ctx, mock.Anything).Return(nil)
	mocks.ProfileRepo.On("AdjustBalance", ctx, TestBettorID, int64(-250)).Return(int64(9750), nil)
	mocks.TransactionRepo.On("Record", ctx, mock.Anything).Return(nil)
	mocks.MarketRepo.On("AddToPool", ctx, TestMarketID, entities.PositionNo, int64(250)).Return(nil)
	mocks.ClanRepo.On("GetByProfile", ctx, TestBettorID).Return(clan, nil)
	mocks.ClanRepo.On("AddXP", ctx, TestClanID, int64(25)).Return(nil) // 250 / 10
	mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)

	_, err := service.PlaceBet(ctx, TestMarketID, TestBettorID, entities.PositionNo, 250)

	require.NoError(t, err)
	mocks.AssertAllExpectations(t)
}

func TestBettingService_PlaceBet_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newBettingServiceForTest(mocks)

	poor := testProfile(TestBettorID)
	poor.Coins = 10

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(testActiveMarket(), nil)
	mocks.ProfileRepo.On("GetByID", ctx, TestBettorID).Return(poor, nil)

	bet, err := service.PlaceBet(ctx, TestMarketID, TestBettorID, entities.PositionYes, 500)

	assert.Nil(t, bet)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	mocks.BetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mocks.AssertAllExpectations(t)
}

func TestBettingService_PlaceBet_ExpiredMarket(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newBettingServiceForTest(mocks)

	market := testActiveMarket()
	market.Deadline = time.Now().Add(-time.Minute)

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)

	_, err := service.PlaceBet(ctx, TestMarketID, TestBettorID, entities.PositionYes, 100)

	assert.ErrorIs(t, err, apperrors.ErrMarketExpired)
	mocks.AssertAllExpectations(t)
}

func TestBettingService_PlaceBet_ResolvedMarket(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newBettingServiceForTest(mocks)

	market := testResolvedMarket(entities.PositionYes, time.Now())

	mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)

	_, err := service.PlaceBet(ctx, TestMarketID, TestBettorID, entities.PositionYes, 100)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyResolved)
	mocks.AssertAllExpectations(t)
}

func TestBettingService_CreatorBetLimit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		alreadyStaked int64
		amount        int64
		wantLimited   bool
	}{
		{name: "first bet within cap", alreadyStaked: 0, amount: 200, wantLimited: false},
		{name: "exactly at cap", alreadyStaked: 150, amount: 50, wantLimited: false},
		{name: "one over cap", alreadyStaked: 150, amount: 51, wantLimited: true},
		{name: "single bet over cap", alreadyStaked: 0, amount: 201, wantLimited: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			service := newBettingServiceForTest(mocks)

			market := testActiveMarket()
			creator := testProfile(TestCreatorID)

			mocks.MarketRepo.On("GetByID", ctx, TestMarketID).Return(market, nil)
			mocks.ProfileRepo.On("GetByID", ctx, TestCreatorID).Return(creator, nil)
			mocks.BetRepo.On("SumByMarketAndProfile", ctx, TestMarketID, TestCreatorID).
				Return(tt.alreadyStaked, nil)

			if !tt.wantLimited {
				mocks.BetRepo.On("Create", ctx, mock.Anything).Return(nil)
				mocks.ProfileRepo.On("AdjustBalance", ctx, TestCreatorID, -tt.amount).
					Return(TestInitialBalance-tt.amount, nil)
				mocks.TransactionRepo.On("Record", ctx, mock.Anything).Return(nil)
				mocks.MarketRepo.On("AddToPool", ctx, TestMarketID, entities.PositionYes, tt.amount).Return(nil)
				mocks.ClanRepo.On("GetByProfile", ctx, TestCreatorID).Return(nil, nil)
				mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)
			}

			_, err := service.PlaceBet(ctx, TestMarketID, TestCreatorID, entities.PositionYes, tt.amount)

			if tt.wantLimited {
				var limitErr *apperrors.CreatorBetLimitError
				require.ErrorAs(t, err, &limitErr)
				assert.Equal(t, TestCreatorBetLimit, limitErr.Max)
				assert.Equal(t, tt.alreadyStaked, limitErr.Current)
			} else {
				require.NoError(t, err)
			}
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestBettingService_PlaceBet_Validation(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newBettingServiceForTest(mocks)

	_, err := service.PlaceBet(ctx, TestMarketID, TestBettorID, entities.Position("maybe"), 100)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.PlaceBet(ctx, TestMarketID, TestBettorID, entities.PositionYes, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	mocks.MarketRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
