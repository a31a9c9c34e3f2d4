package repository

import (
	"context"
	"fmt"

	"plottwist/database"
	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// MarketRepository implements the MarketRepository interface
type MarketRepository struct {
	q Queryable
}

// NewMarketRepository creates a new market repository backed by the pool
func NewMarketRepository(db *database.DB) *MarketRepository {
	return &MarketRepository{q: db.Pool}
}

func newMarketRepositoryWithTx(tx Queryable) interfaces.MarketRepository {
	return &MarketRepository{q: tx}
}

const marketColumns = `id, title, description, creator_id, mode, visibility, status, deadline, total_yes, total_no, disputed, resolved_at, created_at, updated_at`

func scanMarket(row pgx.Row) (*entities.Market, error) {
	var m entities.Market
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.CreatorID,
		&m.Mode,
		&m.Visibility,
		&m.Status,
		&m.Deadline,
		&m.TotalYes,
		&m.TotalNo,
		&m.Disputed,
		&m.ResolvedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create creates a new market
func (r *MarketRepository) Create(ctx context.Context, market *entities.Market) error {
	query := `
		INSERT INTO markets (title, description, creator_id, mode, visibility, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, total_yes, total_no, disputed, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		market.Title,
		market.Description,
		market.CreatorID,
		market.Mode,
		market.Visibility,
		market.Status,
		market.Deadline,
	).Scan(
		&market.ID,
		&market.TotalYes,
		&market.TotalNo,
		&market.Disputed,
		&market.CreatedAt,
		&market.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create market: %w", err)
	}
	return nil
}

// GetByID retrieves a market by its ID
func (r *MarketRepository) GetByID(ctx context.Context, id int64) (*entities.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE id = $1`
	market, err := scanMarket(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get market %d: %w", id, err)
	}
	return market, nil
}

// GetDetailByID retrieves a market together with all its bets
func (r *MarketRepository) GetDetailByID(ctx context.Context, id int64) (*entities.MarketDetail, error) {
	market, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if market == nil {
		return nil, nil
	}

	betsQuery := `
		SELECT id, market_id, profile_id, position, amount, transaction_id, created_at
		FROM bets
		WHERE market_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.q.Query(ctx, betsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for market %d: %w", id, err)
	}
	defer rows.Close()

	var bets []*entities.Bet
	for rows.Next() {
		var b entities.Bet
		if err := rows.Scan(&b.ID, &b.MarketID, &b.ProfileID, &b.Position, &b.Amount, &b.TransactionID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &entities.MarketDetail{Market: market, Bets: bets}, nil
}

// Update persists status, pool totals and resolution fields
func (r *MarketRepository) Update(ctx context.Context, market *entities.Market) error {
	query := `
		UPDATE markets
		SET title = $2, description = $3, status = $4, deadline = $5,
		    disputed = $6, resolved_at = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		market.ID,
		market.Title,
		market.Description,
		market.Status,
		market.Deadline,
		market.Disputed,
		market.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update market %d: %w", market.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddToPool atomically increments one side's pool total
func (r *MarketRepository) AddToPool(ctx context.Context, id int64, position entities.Position, amount int64) error {
	column := "total_no"
	if position == entities.PositionYes {
		column = "total_yes"
	}
	query := fmt.Sprintf(`UPDATE markets SET %s = %s + $2, updated_at = NOW() WHERE id = $1`, column, column)
	tag, err := r.q.Exec(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to add to pool for market %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetDisputed flags a resolved market as disputed
func (r *MarketRepository) SetDisputed(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE markets SET disputed = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to flag market %d as disputed: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List returns markets filtered by status, newest first. A nil status
// returns all publicly visible markets.
func (r *MarketRepository) List(ctx context.Context, status *entities.MarketStatus, limit int) ([]*entities.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE visibility = 'public'`
	args := []any{}
	if status != nil {
		query += ` AND status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	defer rows.Close()

	var markets []*entities.Market
	for rows.Next() {
		market, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market: %w", err)
		}
		markets = append(markets, market)
	}
	return markets, rows.Err()
}
