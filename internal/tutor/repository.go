package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Upsert(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Profile, int, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]*Profile, int, error)
	SetOnline(ctx context.Context, userID string, online bool) error

	// Decide flips a pending application to approved or rejected.
	// The pending precondition is part of the UPDATE; a decided
	// application is never re-decided.
	Decide(ctx context.Context, userID string, status VerificationStatus) error

	CountByStatus(ctx context.Context) (map[VerificationStatus]int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// ratingSubquery aggregates booking_reviews per tutor.
const ratingSubquery = `
	COALESCE((SELECT avg(rating) FROM public.booking_reviews br WHERE br.tutor_id = tp.user_id), 0),
	COALESCE((SELECT count(*) FROM public.booking_reviews br WHERE br.tutor_id = tp.user_id), 0)`

func (r *pgxRepository) Upsert(ctx context.Context, p *Profile) error {
	const query = `
		INSERT INTO public.tutor_profiles
			(user_id, bio, subjects, grades, languages, hourly_rate_cents, verification_status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			subjects = EXCLUDED.subjects,
			grades = EXCLUDED.grades,
			languages = EXCLUDED.languages,
			hourly_rate_cents = EXCLUDED.hourly_rate_cents,
			updated_at = now()
		RETURNING verification_status, is_online, created_at, updated_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		p.UserID,
		p.Bio,
		p.Subjects,
		p.Grades,
		p.Languages,
		p.HourlyRateCents,
	).Scan(&p.VerificationStatus, &p.IsOnline, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert tutor profile failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT tp.user_id, p.full_name, tp.bio, tp.subjects, tp.grades, tp.languages,
			tp.hourly_rate_cents, tp.verification_status, tp.is_online,
			tp.created_at, tp.updated_at,` + ratingSubquery + `
		FROM public.tutor_profiles tp
		JOIN public.profiles p ON p.id = tp.user_id
		WHERE tp.user_id = $1
	`

	var tp Profile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&tp.UserID, &tp.FullName, &tp.Bio, &tp.Subjects, &tp.Grades, &tp.Languages,
		&tp.HourlyRateCents, &tp.VerificationStatus, &tp.IsOnline,
		&tp.CreatedAt, &tp.UpdatedAt, &tp.RatingAverage, &tp.RatingCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get tutor profile failed: %w", err)
	}
	return &tp, nil
}

func (r *pgxRepository) Search(ctx context.Context, filter SearchFilter) ([]*Profile, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"tp.user_id", "p.full_name", "tp.bio", "tp.subjects", "tp.grades", "tp.languages",
		"tp.hourly_rate_cents", "tp.verification_status", "tp.is_online",
		"tp.created_at", "tp.updated_at",
		"COALESCE((SELECT avg(rating) FROM public.booking_reviews br WHERE br.tutor_id = tp.user_id), 0)",
		"COALESCE((SELECT count(*) FROM public.booking_reviews br WHERE br.tutor_id = tp.user_id), 0)",
		"count(*) OVER() as total_count",
	).
		From("public.tutor_profiles tp").
		Join("public.profiles p ON p.id = tp.user_id").
		Where(squirrel.Eq{"tp.verification_status": VerificationApproved}).
		Where(squirrel.Eq{"p.is_active": true})

	if filter.Subject != "" {
		query = query.Where(squirrel.Expr("? = ANY(tp.subjects)", filter.Subject))
	}
	if filter.Language != "" {
		query = query.Where(squirrel.Expr("? = ANY(tp.languages)", filter.Language))
	}
	if filter.Grade != "" {
		query = query.Where(squirrel.Expr("? = ANY(tp.grades)", filter.Grade))
	}
	if filter.OnlineOnly {
		query = query.Where(squirrel.Eq{"tp.is_online": true})
	}

	query = query.OrderBy("tp.is_online DESC, p.full_name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search tutors query failed: %w", err)
	}

	return r.queryProfiles(ctx, sql, args)
}

func (r *pgxRepository) ListApplications(ctx context.Context, filter ApplicationFilter) ([]*Profile, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"tp.user_id", "p.full_name", "tp.bio", "tp.subjects", "tp.grades", "tp.languages",
		"tp.hourly_rate_cents", "tp.verification_status", "tp.is_online",
		"tp.created_at", "tp.updated_at",
		"0::float8", "0",
		"count(*) OVER() as total_count",
	).
		From("public.tutor_profiles tp").
		Join("public.profiles p ON p.id = tp.user_id")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"tp.verification_status": filter.Status})
	}

	query = query.OrderBy("tp.created_at ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list applications query failed: %w", err)
	}

	return r.queryProfiles(ctx, sql, args)
}

func (r *pgxRepository) queryProfiles(ctx context.Context, sql string, args []any) ([]*Profile, int, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tutor profiles failed: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	var total int

	for rows.Next() {
		var tp Profile
		if err := rows.Scan(
			&tp.UserID, &tp.FullName, &tp.Bio, &tp.Subjects, &tp.Grades, &tp.Languages,
			&tp.HourlyRateCents, &tp.VerificationStatus, &tp.IsOnline,
			&tp.CreatedAt, &tp.UpdatedAt, &tp.RatingAverage, &tp.RatingCount, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan tutor profile failed: %w", err)
		}
		profiles = append(profiles, &tp)
	}

	return profiles, total, nil
}

func (r *pgxRepository) SetOnline(ctx context.Context, userID string, online bool) error {
	const query = `
		UPDATE public.tutor_profiles
		SET is_online = $1, updated_at = now()
		WHERE user_id = $2
	`
	ct, err := r.pool.Exec(ctx, query, online, userID)
	if err != nil {
		return fmt.Errorf("set online failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Decide(ctx context.Context, userID string, status VerificationStatus) error {
	const query = `
		UPDATE public.tutor_profiles
		SET verification_status = $1, updated_at = now()
		WHERE user_id = $2 AND verification_status = 'pending'
	`
	ct, err := r.pool.Exec(ctx, query, status, userID)
	if err != nil {
		return fmt.Errorf("decide application failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either no such application or it was already decided.
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return err
		}
		return ErrAlreadyDecided
	}
	return nil
}

func (r *pgxRepository) CountByStatus(ctx context.Context) (map[VerificationStatus]int, error) {
	rows, err := r.pool.Query(ctx, "SELECT verification_status, count(*) FROM public.tutor_profiles GROUP BY verification_status")
	if err != nil {
		return nil, fmt.Errorf("count applications failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[VerificationStatus]int)
	for rows.Next() {
		var status VerificationStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan application count failed: %w", err)
		}
		counts[status] = n
	}
	return counts, nil
}
