package repository

import (
	"context"
	"errors"
	"fmt"

	"plottwist/database"
	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ClanRepository implements the ClanRepository interface
type ClanRepository struct {
	q Queryable
}

// NewClanRepository creates a new clan repository backed by the pool
func NewClanRepository(db *database.DB) *ClanRepository {
	return &ClanRepository{q: db.Pool}
}

func newClanRepositoryWithTx(tx Queryable) interfaces.ClanRepository {
	return &ClanRepository{q: tx}
}

const clanColumns = `id, name, tag, creator_id, xp, created_at`

func scanClan(row pgx.Row) (*entities.Clan, error) {
	var c entities.Clan
	err := row.Scan(&c.ID, &c.Name, &c.Tag, &c.CreatorID, &c.XP, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a new clan
func (r *ClanRepository) Create(ctx context.Context, clan *entities.Clan) error {
	query := `
		INSERT INTO clans (name, tag, creator_id)
		VALUES ($1, $2, $3)
		RETURNING id, xp, created_at
	`
	err := r.q.QueryRow(ctx, query, clan.Name, clan.Tag, clan.CreatorID).
		Scan(&clan.ID, &clan.XP, &clan.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewValidationError("clan name or tag already taken")
		}
		return fmt.Errorf("failed to create clan: %w", err)
	}
	return nil
}

// GetByID retrieves a clan by its ID
func (r *ClanRepository) GetByID(ctx context.Context, id int64) (*entities.Clan, error) {
	query := `SELECT ` + clanColumns + ` FROM clans WHERE id = $1`
	clan, err := scanClan(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get clan %d: %w", id, err)
	}
	return clan, nil
}

// GetByProfile returns the clan a profile belongs to, or nil
func (r *ClanRepository) GetByProfile(ctx context.Context, profileID int64) (*entities.Clan, error) {
	query := `
		SELECT c.id, c.name, c.tag, c.creator_id, c.xp, c.created_at
		FROM clans c
		JOIN clan_members cm ON cm.clan_id = c.id
		WHERE cm.profile_id = $1
	`
	clan, err := scanClan(r.q.QueryRow(ctx, query, profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to get clan for profile %d: %w", profileID, err)
	}
	return clan, nil
}

// AddMember adds a profile to a clan
func (r *ClanRepository) AddMember(ctx context.Context, clanID, profileID int64) error {
	query := `INSERT INTO clan_members (clan_id, profile_id) VALUES ($1, $2)`
	if _, err := r.q.Exec(ctx, query, clanID, profileID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewValidationError("profile already belongs to a clan")
		}
		return fmt.Errorf("failed to add profile %d to clan %d: %w", profileID, clanID, err)
	}
	return nil
}

// AddXP atomically increments a clan's experience total
func (r *ClanRepository) AddXP(ctx context.Context, clanID int64, xp int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE clans SET xp = xp + $2 WHERE id = $1`, clanID, xp)
	if err != nil {
		return fmt.Errorf("failed to add XP to clan %d: %w", clanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List returns all clans ordered by XP
func (r *ClanRepository) List(ctx context.Context, limit int) ([]*entities.Clan, error) {
	query := `SELECT ` + clanColumns + ` FROM clans ORDER BY xp DESC, id ASC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list clans: %w", err)
	}
	defer rows.Close()

	var clans []*entities.Clan
	for rows.Next() {
		clan, err := scanClan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clan: %w", err)
		}
		clans = append(clans, clan)
	}
	return clans, rows.Err()
}
