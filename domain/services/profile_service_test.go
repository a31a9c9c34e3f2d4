package services

import (
	"context"
	"testing"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProfileServiceForTest(mocks *TestMocks) *profileService {
	return NewProfileService(mocks.ProfileRepo, mocks.TransactionRepo, mocks.EventPublisher, TestSignupBonus).(*profileService)
}

func TestProfileService_Register(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newProfileServiceForTest(mocks)

	mocks.ProfileRepo.On("GetByHandle", ctx, "night_owl").Return(nil, nil)
	mocks.ProfileRepo.On("Create", ctx, mock.MatchedBy(func(p *entities.Profile) bool {
		return p.Handle == "night_owl" && p.Country == "NZ" && p.APIToken != ""
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Profile).ID = 1
	})
	mocks.ProfileRepo.On("AdjustBalance", ctx, int64(1), TestSignupBonus).Return(TestSignupBonus, nil)
	mocks.TransactionRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
		return tx.Type == entities.TransactionTypeSignupBonus &&
			tx.BalanceBefore == 0 &&
			tx.BalanceAfter == TestSignupBonus
	})).Return(nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.ProfileCreatedEvent")).Return(nil)

	profile, err := service.Register(ctx, " night_owl ", "NZ")

	require.NoError(t, err)
	assert.Equal(t, "night_owl", profile.Handle)
	assert.Equal(t, TestSignupBonus, profile.Coins)
	assert.NotEmpty(t, profile.APIToken)

	var created *events.ProfileCreatedEvent
	for _, e := range mocks.EventPublisher.Published {
		if ev, ok := e.(events.ProfileCreatedEvent); ok {
			created = &ev
		}
	}
	require.NotNil(t, created)
	assert.Equal(t, TestSignupBonus, created.InitialBalance)

	mocks.AssertAllExpectations(t)
}

func TestProfileService_Register_HandleTaken(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newProfileServiceForTest(mocks)

	mocks.ProfileRepo.On("GetByHandle", ctx, "night_owl").Return(testProfile(1), nil)

	_, err := service.Register(ctx, "night_owl", "")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mocks.ProfileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mocks.AssertAllExpectations(t)
}

func TestProfileService_Register_HandleLength(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newProfileServiceForTest(mocks)

	_, err := service.Register(ctx, "ab", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.Register(ctx, "this_handle_is_much_too_long_to_register", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	mocks.ProfileRepo.AssertNotCalled(t, "GetByHandle", mock.Anything, mock.Anything)
}

func TestProfileService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := newProfileServiceForTest(mocks)

	mocks.ProfileRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

	_, err := service.GetByID(ctx, 404)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mocks.AssertAllExpectations(t)
}
