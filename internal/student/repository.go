package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Upsert(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Upsert(ctx context.Context, p *Profile) error {
	const query = `
		INSERT INTO public.student_profiles (user_id, grade_level, preferred_subjects, preferred_languages)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			grade_level = EXCLUDED.grade_level,
			preferred_subjects = EXCLUDED.preferred_subjects,
			preferred_languages = EXCLUDED.preferred_languages,
			updated_at = now()
		RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		p.UserID,
		p.GradeLevel,
		p.PreferredSubjects,
		p.PreferredLanguages,
	).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert student profile failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	const query = `
		SELECT user_id, grade_level, preferred_subjects, preferred_languages, created_at, updated_at
		FROM public.student_profiles
		WHERE user_id = $1
	`

	var p Profile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.GradeLevel,
		&p.PreferredSubjects,
		&p.PreferredLanguages,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get student profile failed: %w", err)
	}
	return &p, nil
}
