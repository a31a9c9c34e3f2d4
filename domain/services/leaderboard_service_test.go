package services

import (
	"context"
	"errors"
	"testing"

	"plottwist/domain/entities"
	"plottwist/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_CacheHit(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	cache := &testhelpers.MockLeaderboardCache{}
	service := NewLeaderboardService(mocks.ProfileRepo, cache)

	cached := []*entities.Profile{testProfile(1), testProfile(2)}
	cache.On("Get", ctx, 10).Return(cached, true, nil)

	profiles, err := service.GetLeaderboard(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, cached, profiles)
	mocks.ProfileRepo.AssertNotCalled(t, "GetTopByCoins", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestLeaderboardService_CacheMissFillsCache(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	cache := &testhelpers.MockLeaderboardCache{}
	service := NewLeaderboardService(mocks.ProfileRepo, cache)

	fromDB := []*entities.Profile{testProfile(1)}
	cache.On("Get", ctx, 10).Return(nil, false, nil)
	mocks.ProfileRepo.On("GetTopByCoins", ctx, 10).Return(fromDB, nil)
	cache.On("Set", ctx, 10, fromDB).Return(nil)

	profiles, err := service.GetLeaderboard(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, fromDB, profiles)
	cache.AssertExpectations(t)
	mocks.AssertAllExpectations(t)
}

func TestLeaderboardService_CacheFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	cache := &testhelpers.MockLeaderboardCache{}
	service := NewLeaderboardService(mocks.ProfileRepo, cache)

	fromDB := []*entities.Profile{testProfile(1)}
	cache.On("Get", ctx, 10).Return(nil, false, errors.New("redis down"))
	mocks.ProfileRepo.On("GetTopByCoins", ctx, 10).Return(fromDB, nil)
	cache.On("Set", ctx, 10, fromDB).Return(errors.New("redis down"))

	profiles, err := service.GetLeaderboard(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, fromDB, profiles)
	cache.AssertExpectations(t)
}

func TestLeaderboardService_NoCacheConfigured(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLeaderboardService(mocks.ProfileRepo, nil)

	mocks.ProfileRepo.On("GetTopByCoins", ctx, 10).Return([]*entities.Profile{}, nil)

	_, err := service.GetLeaderboard(ctx, 10)

	require.NoError(t, err)
	mocks.AssertAllExpectations(t)
}

func TestLeaderboardService_LimitClamping(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLeaderboardService(mocks.ProfileRepo, nil)

	// Zero and oversized limits both fall back to the default page size
	mocks.ProfileRepo.On("GetTopByCoins", ctx, defaultLeaderboardLimit).Return([]*entities.Profile{}, nil).Times(2)

	_, err := service.GetLeaderboard(ctx, 0)
	require.NoError(t, err)

	_, err = service.GetLeaderboard(ctx, 5000)
	require.NoError(t, err)

	mocks.AssertAllExpectations(t)
}
