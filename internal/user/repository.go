package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing profile data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	UpdateProfile(ctx context.Context, id string, fullName *string) error
	SetAvatar(ctx context.Context, id string, fileID string) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	CountByRole(ctx context.Context) (map[Role]int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const profileColumns = "id, email, password_hash, full_name, role, avatar_file_id, created_at, updated_at, last_login_at, is_active"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.AvatarFileID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
		&u.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan profile failed: %w", err)
	}
	return &u, nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := "SELECT " + profileColumns + " FROM public.profiles WHERE email = $1"
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := "SELECT " + profileColumns + " FROM public.profiles WHERE id = $1"
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.profiles (email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Role,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create profile failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	ct, err := r.pool.Exec(ctx, "UPDATE public.profiles SET last_login_at = $1 WHERE id = $2", t, id)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateProfile(ctx context.Context, id string, fullName *string) error {
	const query = `
		UPDATE public.profiles
		SET full_name = $1, updated_at = now()
		WHERE id = $2
	`
	ct, err := r.pool.Exec(ctx, query, fullName, id)
	if err != nil {
		return fmt.Errorf("update profile failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetAvatar(ctx context.Context, id string, fileID string) error {
	const query = `
		UPDATE public.profiles
		SET avatar_file_id = $1, updated_at = now()
		WHERE id = $2
	`
	ct, err := r.pool.Exec(ctx, query, fileID, id)
	if err != nil {
		return fmt.Errorf("set avatar failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
		UPDATE public.profiles
		SET is_active = $1, updated_at = now()
		WHERE id = $2
	`
	ct, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set active failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "email", "password_hash", "full_name", "role", "avatar_file_id",
		"created_at", "updated_at", "last_login_at", "is_active",
		"count(*) OVER() as total_count",
	).From("public.profiles")

	if filter.Email != "" {
		query = query.Where(squirrel.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.FullName != "" {
		query = query.Where(squirrel.ILike{"full_name": "%" + filter.FullName + "%"})
	}
	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	orderBy := "created_at"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

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
		return nil, 0, fmt.Errorf("build list profiles query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int

	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.FullName,
			&u.Role,
			&u.AvatarFileID,
			&u.CreatedAt,
			&u.UpdatedAt,
			&u.LastLoginAt,
			&u.IsActive,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan profile failed: %w", err)
		}
		users = append(users, &u)
	}

	return users, total, nil
}

func (r *pgxRepository) CountByRole(ctx context.Context) (map[Role]int, error) {
	rows, err := r.pool.Query(ctx, "SELECT role, count(*) FROM public.profiles GROUP BY role")
	if err != nil {
		return nil, fmt.Errorf("count profiles by role failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[Role]int)
	for rows.Next() {
		var role Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count failed: %w", err)
		}
		counts[role] = n
	}
	return counts, nil
}
