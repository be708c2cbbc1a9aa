package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// MechanicProfileRepository stores mechanic skill sets.
type MechanicProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.MechanicProfile, error)
	Upsert(ctx context.Context, profile *domain.MechanicProfile) error
	// ListBySkill returns profiles covering the service type, oldest first.
	ListBySkill(ctx context.Context, serviceType string) ([]domain.MechanicProfile, error)
}

type mechanicProfileRepository struct {
	pool *pgxpool.Pool
}

// NewMechanicProfileRepository instantiates repository.
func NewMechanicProfileRepository(pool *pgxpool.Pool) MechanicProfileRepository {
	return &mechanicProfileRepository{pool: pool}
}

func (r *mechanicProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.MechanicProfile, error) {
	const query = `
        SELECT user_id, skills, created_at, updated_at
        FROM mechanic_profiles WHERE user_id=$1`

	var profile domain.MechanicProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Skills,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *mechanicProfileRepository) Upsert(ctx context.Context, profile *domain.MechanicProfile) error {
	const query = `
        INSERT INTO mechanic_profiles (user_id, skills)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET skills=EXCLUDED.skills, updated_at=NOW()
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query, profile.UserID, profile.Skills).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *mechanicProfileRepository) ListBySkill(ctx context.Context, serviceType string) ([]domain.MechanicProfile, error) {
	const query = `
        SELECT user_id, skills, created_at, updated_at
        FROM mechanic_profiles WHERE $1 = ANY(skills) ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, serviceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MechanicProfile
	for rows.Next() {
		var profile domain.MechanicProfile
		if err := rows.Scan(
			&profile.UserID,
			&profile.Skills,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}
