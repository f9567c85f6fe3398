package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, id string) (*File, error)
	Delete(ctx context.Context, id string) error
}

type pgxFileRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxFileRepository{pool: pool}
}

func (r *pgxFileRepository) Create(ctx context.Context, f *File) error {
	query := `
		INSERT INTO public.files (id, user_id, kind, filename, storage_path, thumbnail_path, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		f.ID, f.UserID, f.Kind, f.Filename, f.StoragePath, f.ThumbnailPath, f.ContentType, f.Size,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert file failed: %w", err)
	}
	return nil
}

func (r *pgxFileRepository) GetByID(ctx context.Context, id string) (*File, error) {
	query := `
		SELECT id, user_id, kind, filename, storage_path, thumbnail_path, content_type, size, created_at
		FROM public.files
		WHERE id = $1`

	var f File
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.UserID, &f.Kind, &f.Filename, &f.StoragePath, &f.ThumbnailPath,
		&f.ContentType, &f.Size, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query file failed: %w", err)
	}
	return &f, nil
}

func (r *pgxFileRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM public.files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete file failed: %w", err)
	}
	return nil
}
