package repository

import (
	"context"
	"fmt"
	"time"

	"plottwist/database"
	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// ProfileRepository implements the ProfileRepository interface
type ProfileRepository struct {
	q Queryable
}

// NewProfileRepository creates a new profile repository backed by the pool
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{q: db.Pool}
}

func newProfileRepositoryWithTx(tx Queryable) interfaces.ProfileRepository {
	return &ProfileRepository{q: tx}
}

const profileColumns = `id, handle, coins, reputation, country, is_admin, api_token, last_daily_bonus_at, created_at, updated_at`

func scanProfile(row pgx.Row) (*entities.Profile, error) {
	var p entities.Profile
	err := row.Scan(
		&p.ID,
		&p.Handle,
		&p.Coins,
		&p.Reputation,
		&p.Country,
		&p.IsAdmin,
		&p.APIToken,
		&p.LastDailyBonusAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile by its ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*entities.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	profile, err := scanProfile(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %d: %w", id, err)
	}
	return profile, nil
}

// GetByHandle retrieves a profile by its unique handle
func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*entities.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE handle = $1`
	profile, err := scanProfile(r.q.QueryRow(ctx, query, handle))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by handle %q: %w", handle, err)
	}
	return profile, nil
}

// GetByAPIToken retrieves a profile by its API token
func (r *ProfileRepository) GetByAPIToken(ctx context.Context, token string) (*entities.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE api_token = $1`
	profile, err := scanProfile(r.q.QueryRow(ctx, query, token))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by token: %w", err)
	}
	return profile, nil
}

// Create creates a new profile with a zero balance
func (r *ProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	query := `
		INSERT INTO profiles (handle, country, is_admin, api_token)
		VALUES ($1, $2, $3, $4)
		RETURNING id, coins, reputation, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query, profile.Handle, profile.Country, profile.IsAdmin, profile.APIToken).Scan(
		&profile.ID,
		&profile.Coins,
		&profile.Reputation,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile %q: %w", profile.Handle, err)
	}
	return nil
}

// AdjustBalance atomically applies a signed delta to a profile's balance.
// The guard in the WHERE clause makes overdrafts impossible even under
// concurrent debits: the row only updates when the result stays positive.
func (r *ProfileRepository) AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	query := `
		UPDATE profiles
		SET coins = coins + $2, updated_at = NOW()
		WHERE id = $1 AND coins + $2 >= 0
		RETURNING coins
	`
	var newBalance int64
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Distinguish a missing profile from an overdraft
		exists, checkErr := r.exists(ctx, id)
		if checkErr != nil {
			return 0, checkErr
		}
		if !exists {
			return 0, apperrors.ErrNotFound
		}
		return 0, apperrors.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance for profile %d: %w", id, err)
	}
	return newBalance, nil
}

func (r *ProfileRepository) exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check profile %d: %w", id, err)
	}
	return exists, nil
}

// AdjustReputation applies a signed delta to a profile's reputation
func (r *ProfileRepository) AdjustReputation(ctx context.Context, id int64, delta int64) error {
	query := `UPDATE profiles SET reputation = reputation + $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust reputation for profile %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetLastDailyBonus records the timestamp of the latest daily bonus claim
func (r *ProfileRepository) SetLastDailyBonus(ctx context.Context, id int64, claimedAt time.Time) error {
	query := `UPDATE profiles SET last_daily_bonus_at = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, claimedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to set daily bonus claim for profile %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetTopByCoins returns the richest profiles ordered by balance
func (r *ProfileRepository) GetTopByCoins(ctx context.Context, limit int) ([]*entities.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY coins DESC, id ASC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*entities.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
