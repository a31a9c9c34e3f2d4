package repository

import (
	"context"
	"testing"
	"time"

	"plottwist/domain/apperrors"
	"plottwist/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewProfileRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		profile := testutil.CreateTestProfile("fresh_face")

		err := repo.Create(ctx, profile)
		require.NoError(t, err)

		assert.NotZero(t, profile.ID)
		assert.Equal(t, int64(0), profile.Coins)
		assert.False(t, profile.CreatedAt.IsZero())
	})

	t.Run("duplicate handle", func(t *testing.T) {
		first := testutil.CreateTestProfile("taken_handle")
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestProfile("taken_handle")
		err := repo.Create(ctx, second)
		assert.Error(t, err)
	})
}

func TestProfileRepository_Lookups(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewProfileRepository(testDB.DB)
	ctx := context.Background()

	profile := testutil.CreateTestProfile("lookup_target")
	require.NoError(t, repo.Create(ctx, profile))

	t.Run("by id", func(t *testing.T) {
		found, err := repo.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "lookup_target", found.Handle)
	})

	t.Run("by handle", func(t *testing.T) {
		found, err := repo.GetByHandle(ctx, "lookup_target")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, profile.ID, found.ID)
	})

	t.Run("by api token", func(t *testing.T) {
		found, err := repo.GetByAPIToken(ctx, profile.APIToken)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, profile.ID, found.ID)
	})

	t.Run("missing profile returns nil", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = repo.GetByHandle(ctx, "nobody_here")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestProfileRepository_AdjustBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewProfileRepository(testDB.DB)
	ctx := context.Background()

	profile := testutil.CreateTestProfile("balance_holder")
	require.NoError(t, repo.Create(ctx, profile))

	t.Run("credit", func(t *testing.T) {
		newBalance, err := repo.AdjustBalance(ctx, profile.ID, 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), newBalance)
	})

	t.Run("debit", func(t *testing.T) {
		newBalance, err := repo.AdjustBalance(ctx, profile.ID, -400)
		require.NoError(t, err)
		assert.Equal(t, int64(600), newBalance)
	})

	t.Run("debit to exactly zero", func(t *testing.T) {
		newBalance, err := repo.AdjustBalance(ctx, profile.ID, -600)
		require.NoError(t, err)
		assert.Equal(t, int64(0), newBalance)
	})

	t.Run("overdraft is rejected and balance untouched", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, profile.ID, -1)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

		found, err := repo.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), found.Coins)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, 999999, 100)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestProfileRepository_AdjustReputation(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewProfileRepository(testDB.DB)
	ctx := context.Background()

	profile := testutil.CreateTestProfile("rep_holder")
	require.NoError(t, repo.Create(ctx, profile))

	require.NoError(t, repo.AdjustReputation(ctx, profile.ID, 10))
	require.NoError(t, repo.AdjustReputation(ctx, profile.ID, -5))

	found, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.Reputation)

	// Reputation may go negative, unlike coins
	require.NoError(t, repo.AdjustReputation(ctx, profile.ID, -100))
	found, err = repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-95), found.Reputation)

	assert.ErrorIs(t, repo.AdjustReputation(ctx, 999999, 1), apperrors.ErrNotFound)
}

func TestProfileRepository_SetLastDailyBonus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewProfileRepository(testDB.DB)
	ctx := context.Background()

	profile := testutil.CreateTestProfile("bonus_claimer")
	require.NoError(t, repo.Create(ctx, profile))
	assert.Nil(t, profile.LastDailyBonusAt)

	claimedAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.SetLastDailyBonus(ctx, profile.ID, claimedAt))

	found, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastDailyBonusAt)
	assert.WithinDuration(t, claimedAt, *found.LastDailyBonusAt, time.Second)
}

func TestProfileRepository_GetTopByCoins(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewProfileRepository(testDB.DB)
	ctx := context.Background()

	rich := testutil.CreateTestProfile("rich")
	middle := testutil.CreateTestProfile("middle")
	poor := testutil.CreateTestProfile("poor")
	require.NoError(t, repo.Create(ctx, rich))
	require.NoError(t, repo.Create(ctx, middle))
	require.NoError(t, repo.Create(ctx, poor))

	_, err := repo.AdjustBalance(ctx, rich.ID, 5000)
	require.NoError(t, err)
	_, err = repo.AdjustBalance(ctx, middle.ID, 2000)
	require.NoError(t, err)
	_, err = repo.AdjustBalance(ctx, poor.ID, 100)
	require.NoError(t, err)

	top, err := repo.GetTopByCoins(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "rich", top[0].Handle)
	assert.Equal(t, "middle", top[1].Handle)
}
