package report

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for reports.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, filter Filter) ([]*Report, int, error)

	// Close resolves or dismisses an open report. Zero matched rows
	// means the report was not found or is already closed.
	Close(ctx context.Context, id string, status ReportStatus, resolution string) (*Report, error)

	CountOpen(ctx context.Context) (int, error)
}

type pgxReportRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxReportRepository{pool: pool}
}

const reportColumns = `
	r.id, r.created_by_id, cb.full_name, r.against_user_id, au.full_name,
	r.booking_id, r.reporter_role, r.reason, r.comments, r.file_id,
	r.status, r.resolution, r.resolved_at, r.created_at`

func scanReport(row pgx.Row) (*Report, error) {
	var r Report
	err := row.Scan(
		&r.ID, &r.CreatedByID, &r.CreatedByName, &r.AgainstUserID, &r.AgainstName,
		&r.BookingID, &r.ReporterRole, &r.Reason, &r.Comments, &r.FileID,
		&r.Status, &r.Resolution, &r.ResolvedAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *pgxReportRepository) Create(ctx context.Context, r *Report) error {
	query := `
		INSERT INTO public.reports (created_by_id, against_user_id, booking_id, reporter_role, reason, comments, file_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`

	err := repo.pool.QueryRow(ctx, query,
		r.CreatedByID, r.AgainstUserID, r.BookingID, r.ReporterRole, r.Reason, r.Comments, r.FileID,
	).Scan(&r.ID, &r.Status, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report failed: %w", err)
	}
	return nil
}

func (repo *pgxReportRepository) GetByID(ctx context.Context, id string) (*Report, error) {
	query := `
		SELECT` + reportColumns + `
		FROM public.reports r
		JOIN public.profiles cb ON cb.id = r.created_by_id
		JOIN public.profiles au ON au.id = r.against_user_id
		WHERE r.id = $1`

	r, err := scanReport(repo.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query report failed: %w", err)
	}
	return r, nil
}

func (repo *pgxReportRepository) List(ctx context.Context, filter Filter) ([]*Report, int, error) {
	builder := sq.Select(
		"r.id", "r.created_by_id", "cb.full_name", "r.against_user_id", "au.full_name",
		"r.booking_id", "r.reporter_role", "r.reason", "r.comments", "r.file_id",
		"r.status", "r.resolution", "r.resolved_at", "r.created_at",
		"count(*) OVER() AS total_count",
	).
		From("public.reports r").
		Join("public.profiles cb ON cb.id = r.created_by_id").
		Join("public.profiles au ON au.id = r.against_user_id").
		OrderBy("r.created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"r.status": filter.Status})
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		builder = builder.
			Limit(uint64(filter.PageSize)).
			Offset(uint64((filter.Page - 1) * filter.PageSize))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reports query failed: %w", err)
	}

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query reports failed: %w", err)
	}
	defer rows.Close()

	var (
		reports []*Report
		total   int
	)
	for rows.Next() {
		var r Report
		err := rows.Scan(
			&r.ID, &r.CreatedByID, &r.CreatedByName, &r.AgainstUserID, &r.AgainstName,
			&r.BookingID, &r.ReporterRole, &r.Reason, &r.Comments, &r.FileID,
			&r.Status, &r.Resolution, &r.ResolvedAt, &r.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan report failed: %w", err)
		}
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reports failed: %w", err)
	}
	return reports, total, nil
}

func (repo *pgxReportRepository) Close(ctx context.Context, id string, status ReportStatus, resolution string) (*Report, error) {
	query := `
		WITH updated AS (
			UPDATE public.reports
			SET status = $2, resolution = $3, resolved_at = now()
			WHERE id = $1 AND status = 'open'
			RETURNING *
		)
		SELECT` + reportColumns + `
		FROM updated r
		JOIN public.profiles cb ON cb.id = r.created_by_id
		JOIN public.profiles au ON au.id = r.against_user_id`

	r, err := scanReport(repo.pool.QueryRow(ctx, query, id, status, resolution))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish missing from already closed.
			if _, getErr := repo.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrAlreadyClosed
		}
		return nil, fmt.Errorf("close report failed: %w", err)
	}
	return r, nil
}

func (repo *pgxReportRepository) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := repo.pool.QueryRow(ctx, `SELECT count(*) FROM public.reports WHERE status = 'open'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count open reports failed: %w", err)
	}
	return count, nil
}
