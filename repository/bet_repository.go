package repository

import (
	"context"
	"fmt"

	"plottwist/database"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository backed by the pool
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

func newBetRepositoryWithTx(tx Queryable) interfaces.BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `id, market_id, profile_id, position, amount, transaction_id, created_at`

func scanBet(row pgx.Row) (*entities.Bet, error) {
	var b entities.Bet
	err := row.Scan(&b.ID, &b.MarketID, &b.ProfileID, &b.Position, &b.Amount, &b.TransactionID, &b.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create creates a new bet record
func (r *BetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (market_id, profile_id, position, amount, transaction_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query, bet.MarketID, bet.ProfileID, bet.Position, bet.Amount, bet.TransactionID).
		Scan(&bet.ID, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// GetByID retrieves a bet by its ID
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`
	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}
	return bet, nil
}

// GetByMarket returns all bets on a market
func (r *BetRepository) GetByMarket(ctx context.Context, marketID int64) ([]*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE market_id = $1 ORDER BY created_at ASC, id ASC`
	return r.queryBets(ctx, query, marketID)
}

// GetByProfile returns recent bets for a profile
func (r *BetRepository) GetByProfile(ctx context.Context, profileID int64, limit int) ([]*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE profile_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	return r.queryBets(ctx, query, profileID, limit)
}

// SumByMarketAndProfile returns a profile's cumulative stake on a market
func (r *BetRepository) SumByMarketAndProfile(ctx context.Context, marketID, profileID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM bets WHERE market_id = $1 AND profile_id = $2`
	var sum int64
	if err := r.q.QueryRow(ctx, query, marketID, profileID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum stakes for profile %d on market %d: %w", profileID, marketID, err)
	}
	return sum, nil
}

func (r *BetRepository) queryBets(ctx context.Context, query string, args ...any) ([]*entities.Bet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*entities.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}
