package repository

import (
	"context"
	"fmt"

	"plottwist/database"
	"plottwist/domain/interfaces"
	"plottwist/events"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface. Repositories handed out
// by a unit of work all share the same transaction, and events published
// through EventBus are buffered until commit.
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	profileRepo            interfaces.ProfileRepository
	marketRepo             interfaces.MarketRepository
	betRepo                interfaces.BetRepository
	challengeRepo          interfaces.ChallengeRepository
	transactionRepo        interfaces.TransactionRepository
	disputeRepo            interfaces.DisputeRepository
	clanRepo               interfaces.ClanRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// Create creates a new UnitOfWork without event buffering
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// CreateWithPublisher creates a new UnitOfWork with a transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.profileRepo = newProfileRepositoryWithTx(tx)
	u.marketRepo = newMarketRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.challengeRepo = newChallengeRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.disputeRepo = newDisputeRepositoryWithTx(tx)
	u.clanRepo = newClanRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	ctx := u.ctx
	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// ProfileRepository returns the profile repository for this unit of work
func (u *unitOfWork) ProfileRepository() interfaces.ProfileRepository {
	return u.profileRepo
}

// MarketRepository returns the market repository for this unit of work
func (u *unitOfWork) MarketRepository() interfaces.MarketRepository {
	return u.marketRepo
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() interfaces.BetRepository {
	return u.betRepo
}

// ChallengeRepository returns the challenge repository for this unit of work
func (u *unitOfWork) ChallengeRepository() interfaces.ChallengeRepository {
	return u.challengeRepo
}

// TransactionRepository returns the transaction repository for this unit of work
func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	return u.transactionRepo
}

// DisputeRepository returns the dispute repository for this unit of work
func (u *unitOfWork) DisputeRepository() interfaces.DisputeRepository {
	return u.disputeRepo
}

// ClanRepository returns the clan repository for this unit of work
func (u *unitOfWork) ClanRepository() interfaces.ClanRepository {
	return u.clanRepo
}

// EventBus returns the event publisher for this unit of work. Events are
// buffered until commit when a transactional publisher is attached.
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher != nil {
		return u.transactionalPublisher
	}
	return noopPublisher{}
}

type noopPublisher struct{}

func (noopPublisher) Publish(event events.Event) error { return nil }
