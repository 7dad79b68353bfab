package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petmatch/internal/domain"
)

var ErrNotFound = errors.New("pet not found")

// PetRepository es el proveedor de datos del ranker: solo lectura.
type PetRepository interface {
	// GetProfile devuelve ErrNotFound si el id no existe.
	GetProfile(ctx context.Context, id string) (domain.PetProfile, error)
	// ListCandidatePool devuelve hasta poolCap mascotas elegibles de la misma
	// categoria, sin excludeID, de la mas reciente a la mas antigua.
	ListCandidatePool(ctx context.Context, category, excludeID string, poolCap int) ([]domain.PetProfile, error)
}

type PgPetRepository struct {
	pool *pgxpool.Pool
}

func NewPgPetRepository(pool *pgxpool.Pool) *PgPetRepository {
	return &PgPetRepository{pool: pool}
}

func (r *PgPetRepository) GetProfile(ctx context.Context, id string) (domain.PetProfile, error) {
	const query = `
		SELECT id, species, size, age_years, sex, energy_level, temperament, breed
		FROM pets
		WHERE id = $1
	`
	profile, err := scanPetProfile(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PetProfile{}, ErrNotFound
	}
	return profile, err
}

func (r *PgPetRepository) ListCandidatePool(ctx context.Context, category, excludeID string, poolCap int) ([]domain.PetProfile, error) {
	const query = `
		SELECT id, species, size, age_years, sex, energy_level, temperament, breed
		FROM pets
		WHERE species = $1
		  AND id <> $2
		  AND status = 'available'
		  AND approved
		  AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC, id
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, category, excludeID, poolCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPetProfiles(rows)
}

// petRows cubre pgx.Rows y *sql.Rows para compartir el escaneo.
type petRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPetProfiles(rows petRows) ([]domain.PetProfile, error) {
	var profiles []domain.PetProfile
	for rows.Next() {
		profile, err := scanPetProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func scanPetProfile(row rowScanner) (domain.PetProfile, error) {
	var (
		in                         domain.PetProfileInput
		energy, temperament, breed sql.NullString
	)
	if err := row.Scan(
		&in.ID,
		&in.Category,
		&in.Size,
		&in.Age,
		&in.Sex,
		&energy,
		&temperament,
		&breed,
	); err != nil {
		return domain.PetProfile{}, err
	}
	in.EnergyLevel = nullableString(energy)
	in.Temperament = nullableString(temperament)
	in.Breed = nullableString(breed)

	profile, err := domain.NewPetProfile(in)
	if err != nil {
		return domain.PetProfile{}, fmt.Errorf("scan pet: %w", err)
	}
	return profile, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
