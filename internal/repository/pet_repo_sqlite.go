package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petmatch/internal/domain"
)

// SqlitePetRepository implementa PetRepository sobre SQLite (uso local y CLI).
type SqlitePetRepository struct {
	conn *sql.DB
	now  func() time.Time
}

func NewSqlitePetRepository(conn *sql.DB) *SqlitePetRepository {
	return &SqlitePetRepository{
		conn: conn,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *SqlitePetRepository) GetProfile(ctx context.Context, id string) (domain.PetProfile, error) {
	const query = `
		SELECT id, species, size, age_years, sex, energy_level, temperament, breed
		FROM pets
		WHERE id = ?
	`
	profile, err := scanPetProfile(r.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PetProfile{}, ErrNotFound
	}
	return profile, err
}

func (r *SqlitePetRepository) ListCandidatePool(ctx context.Context, category, excludeID string, poolCap int) ([]domain.PetProfile, error) {
	const query = `
		SELECT id, species, size, age_years, sex, energy_level, temperament, breed
		FROM pets
		WHERE species = ?
		  AND id <> ?
		  AND status = 'available'
		  AND approved = 1
		  AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	rows, err := r.conn.QueryContext(ctx, query, category, excludeID, r.now().Unix(), poolCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPetProfiles(rows)
}
