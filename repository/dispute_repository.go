package repository

import (
	"context"
	"errors"
	"fmt"

	"plottwist/database"
	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/jackc/pgx/v5/pgconn"
)

// DisputeRepository implements the DisputeRepository interface
type DisputeRepository struct {
	q Queryable
}

// NewDisputeRepository creates a new dispute repository backed by the pool
func NewDisputeRepository(db *database.DB) *DisputeRepository {
	return &DisputeRepository{q: db.Pool}
}

func newDisputeRepositoryWithTx(tx Queryable) interfaces.DisputeRepository {
	return &DisputeRepository{q: tx}
}

// Create records a dispute. The unique constraint on (market_id, profile_id)
// rejects a second vote from the same profile.
func (r *DisputeRepository) Create(ctx context.Context, dispute *entities.Dispute) error {
	query := `
		INSERT INTO disputes (market_id, profile_id, vote, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query, dispute.MarketID, dispute.ProfileID, dispute.Vote, dispute.Reason).
		Scan(&dispute.ID, &dispute.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrAlreadyResponded
		}
		return fmt.Errorf("failed to create dispute: %w", err)
	}
	return nil
}

// GetByMarket returns all disputes for a market
func (r *DisputeRepository) GetByMarket(ctx context.Context, marketID int64) ([]*entities.Dispute, error) {
	query := `
		SELECT id, market_id, profile_id, vote, reason, created_at
		FROM disputes
		WHERE market_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.q.Query(ctx, query, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query disputes: %w", err)
	}
	defer rows.Close()

	var disputes []*entities.Dispute
	for rows.Next() {
		var d entities.Dispute
		if err := rows.Scan(&d.ID, &d.MarketID, &d.ProfileID, &d.Vote, &d.Reason, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dispute: %w", err)
		}
		disputes = append(disputes, &d)
	}
	return disputes, rows.Err()
}
