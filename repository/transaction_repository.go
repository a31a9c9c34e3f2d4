package repository

import (
	"context"
	"fmt"

	"plottwist/database"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository backed by the pool
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx Queryable) interfaces.TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `id, profile_id, type, amount, balance_before, balance_after, related_id, related_type, created_at`

func scanTransaction(row pgx.Row) (*entities.Transaction, error) {
	var t entities.Transaction
	err := row.Scan(
		&t.ID,
		&t.ProfileID,
		&t.Type,
		&t.Amount,
		&t.BalanceBefore,
		&t.BalanceAfter,
		&t.RelatedID,
		&t.RelatedType,
		&t.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Record creates a new ledger entry
func (r *TransactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	query := `
		INSERT INTO transactions (profile_id, type, amount, balance_before, balance_after, related_id, related_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		tx.ProfileID,
		tx.Type,
		tx.Amount,
		tx.BalanceBefore,
		tx.BalanceAfter,
		tx.RelatedID,
		tx.RelatedType,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// GetByProfile returns ledger entries for a profile, newest first
func (r *TransactionRepository) GetByProfile(ctx context.Context, profileID int64, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.q.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// GetLastByProfileAndType returns the most recent entry of a type for a
// profile, or nil when none exists
func (r *TransactionRepository) GetLastByProfileAndType(ctx context.Context, profileID int64, txType entities.TransactionType) (*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE profile_id = $1 AND type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	tx, err := scanTransaction(r.q.QueryRow(ctx, query, profileID, txType))
	if err != nil {
		return nil, fmt.Errorf("failed to get last %s transaction for profile %d: %w", txType, profileID, err)
	}
	return tx, nil
}

// SumByProfile returns the sum of all ledger amounts for a profile
func (r *TransactionRepository) SumByProfile(ctx context.Context, profileID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE profile_id = $1`
	var sum int64
	if err := r.q.QueryRow(ctx, query, profileID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for profile %d: %w", profileID, err)
	}
	return sum, nil
}
