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

// ChallengeRepository implements the ChallengeRepository interface
type ChallengeRepository struct {
	q Queryable
}

// NewChallengeRepository creates a new challenge repository backed by the pool
func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{q: db.Pool}
}

func newChallengeRepositoryWithTx(tx Queryable) interfaces.ChallengeRepository {
	return &ChallengeRepository{q: tx}
}

const challengeColumns = `id, market_id, challenger_id, challenged_id, position, amount, status, winner_id, responded_at, resolved_at, created_at`

func scanChallenge(row pgx.Row) (*entities.Challenge, error) {
	var c entities.Challenge
	err := row.Scan(
		&c.ID,
		&c.MarketID,
		&c.ChallengerID,
		&c.ChallengedID,
		&c.Position,
		&c.Amount,
		&c.Status,
		&c.WinnerID,
		&c.RespondedAt,
		&c.ResolvedAt,
		&c.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a new challenge
func (r *ChallengeRepository) Create(ctx context.Context, challenge *entities.Challenge) error {
	query := `
		INSERT INTO challenges (market_id, challenger_id, challenged_id, position, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		challenge.MarketID,
		challenge.ChallengerID,
		challenge.ChallengedID,
		challenge.Position,
		challenge.Amount,
		challenge.Status,
	).Scan(&challenge.ID, &challenge.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// GetByID retrieves a challenge by its ID
func (r *ChallengeRepository) GetByID(ctx context.Context, id int64) (*entities.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	challenge, err := scanChallenge(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge %d: %w", id, err)
	}
	return challenge, nil
}

// Update persists status, winner and response fields
func (r *ChallengeRepository) Update(ctx context.Context, challenge *entities.Challenge) error {
	query := `
		UPDATE challenges
		SET status = $2, winner_id = $3, responded_at = $4, resolved_at = $5
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		challenge.ID,
		challenge.Status,
		challenge.WinnerID,
		challenge.RespondedAt,
		challenge.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge %d: %w", challenge.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetByMarket returns all challenges attached to a market
func (r *ChallengeRepository) GetByMarket(ctx context.Context, marketID int64) ([]*entities.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE market_id = $1 ORDER BY created_at ASC, id ASC`
	return r.queryChallenges(ctx, query, marketID)
}

// GetByProfile returns challenges a profile sent or received
func (r *ChallengeRepository) GetByProfile(ctx context.Context, profileID int64, limit int) ([]*entities.Challenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM challenges
		WHERE challenger_id = $1 OR challenged_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.queryChallenges(ctx, query, profileID, limit)
}

func (r *ChallengeRepository) queryChallenges(ctx context.Context, query string, args ...any) ([]*entities.Challenge, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*entities.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, challenge)
	}
	return challenges, rows.Err()
}
