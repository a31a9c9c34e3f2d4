package repository

import (
	"context"
	"testing"

	"plottwist/domain/interfaces"
	"plottwist/events"
	"plottwist/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures the transactional publisher lifecycle
type recordingPublisher struct {
	buffered  []events.Event
	flushed   []events.Event
	discarded bool
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.buffered = append(p.buffered, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) error {
	p.flushed = append(p.flushed, p.buffered...)
	p.buffered = nil
	return nil
}

func (p *recordingPublisher) Discard() {
	p.discarded = true
	p.buffered = nil
}

var _ interfaces.TransactionalEventPublisher = (*recordingPublisher)(nil)

func TestUnitOfWork_CommitPersistsAndFlushes(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	publisher := &recordingPublisher{}
	ctx := context.Background()

	uow := factory.CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))

	profile := testutil.CreateTestProfile("committed_profile")
	require.NoError(t, uow.ProfileRepository().Create(ctx, profile))
	require.NoError(t, uow.EventBus().Publish(events.ProfileCreatedEvent{ProfileID: profile.ID}))

	require.NoError(t, uow.Commit())

	// Visible outside the transaction after commit
	outside := NewProfileRepository(testDB.DB)
	found, err := outside.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Len(t, publisher.flushed, 1)
	assert.False(t, publisher.discarded)
}

func TestUnitOfWork_RollbackDiscardsEverything(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	publisher := &recordingPublisher{}
	ctx := context.Background()

	uow := factory.CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))

	profile := testutil.CreateTestProfile("rolled_back_profile")
	require.NoError(t, uow.ProfileRepository().Create(ctx, profile))
	require.NoError(t, uow.EventBus().Publish(events.ProfileCreatedEvent{ProfileID: profile.ID}))

	require.NoError(t, uow.Rollback())

	outside := NewProfileRepository(testDB.DB)
	found, err := outside.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.Empty(t, publisher.flushed)
	assert.True(t, publisher.discarded)
}

func TestUnitOfWork_RollbackAfterCommitIsSafe(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())

	// The deferred-rollback pattern always calls Rollback after Commit
	assert.NoError(t, uow.Rollback())
}
