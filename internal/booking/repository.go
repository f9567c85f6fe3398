package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// errNoMatch is returned by conditional updates that matched zero
// rows. The service re-reads the row to decide which user-facing
// error applies; the update itself changed nothing.
var errNoMatch = errors.New("booking: no row matched precondition")

// Repository defines data access methods for bookings. Every
// transition method is a single conditional UPDATE whose WHERE clause
// carries the booking id, the caller column, and the expected status;
// zero matched rows means the precondition no longer holds and the
// call is a no-op.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	Accept(ctx context.Context, id, tutorID string) (*Booking, error)
	Reject(ctx context.Context, id, tutorID string) (*Booking, error)
	Cancel(ctx context.Context, id, studentID string) (*Booking, error)
	Start(ctx context.Context, id, tutorID string, at time.Time) (*Booking, error)
	RequestEarlyEnd(ctx context.Context, id, studentID string, at time.Time) (*Booking, error)
	ApproveEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error)
	RejectEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error)
	Complete(ctx context.Context, id, tutorID string, at time.Time) (*Booking, error)

	ForceStatus(ctx context.Context, id string, from, to Status, at time.Time) (*Booking, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type pgxBookingRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxBookingRepository{pool: pool}
}

const bookingColumns = `
	b.id, b.student_id, s.full_name, b.tutor_id, t.full_name,
	b.subject, b.grade_level, b.language,
	b.status, b.duration_minutes, b.start_time, b.end_time,
	b.early_end_requested, b.early_end_requested_at, b.early_end_approved,
	b.total_amount_cents, b.platform_fee_cents, b.tutor_earnings_cents,
	b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.StudentID, &b.StudentName, &b.TutorID, &b.TutorName,
		&b.Subject, &b.GradeLevel, &b.Language,
		&b.Status, &b.DurationMinutes, &b.StartTime, &b.EndTime,
		&b.EarlyEndRequested, &b.EarlyEndRequestedAt, &b.EarlyEndApproved,
		&b.TotalAmountCents, &b.PlatformFeeCents, &b.TutorEarningsCents,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxBookingRepository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO public.bookings (
			student_id, tutor_id, subject, grade_level, language,
			duration_minutes, total_amount_cents, platform_fee_cents, tutor_earnings_cents
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		b.StudentID, b.TutorID, b.Subject, b.GradeLevel, b.Language,
		b.DurationMinutes, b.TotalAmountCents, b.PlatformFeeCents, b.TutorEarningsCents,
	).Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (r *pgxBookingRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM public.bookings b
		JOIN public.profiles s ON s.id = b.student_id
		JOIN public.profiles t ON t.id = b.tutor_id
		WHERE b.id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxBookingRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	builder := sq.Select(
		"b.id", "b.student_id", "s.full_name", "b.tutor_id", "t.full_name",
		"b.subject", "b.grade_level", "b.language",
		"b.status", "b.duration_minutes", "b.start_time", "b.end_time",
		"b.early_end_requested", "b.early_end_requested_at", "b.early_end_approved",
		"b.total_amount_cents", "b.platform_fee_cents", "b.tutor_earnings_cents",
		"b.created_at", "b.updated_at",
		"count(*) OVER() AS total_count",
	).
		From("public.bookings b").
		Join("public.profiles s ON s.id = b.student_id").
		Join("public.profiles t ON t.id = b.tutor_id").
		PlaceholderFormat(sq.Dollar)

	if filter.StudentID != "" {
		builder = builder.Where(sq.Eq{"b.student_id": filter.StudentID})
	}
	if filter.TutorID != "" {
		builder = builder.Where(sq.Eq{"b.tutor_id": filter.TutorID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"b.status": filter.Status})
	}

	sortBy := "b.created_at"
	switch filter.SortBy {
	case "updated_at":
		sortBy = "b.updated_at"
	case "status":
		sortBy = "b.status"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	builder = builder.OrderBy(sortBy + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		builder = builder.
			Limit(uint64(filter.PageSize)).
			Offset(uint64((filter.Page - 1) * filter.PageSize))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query bookings failed: %w", err)
	}
	defer rows.Close()

	var (
		bookings []*Booking
		total    int
	)
	for rows.Next() {
		var b Booking
		err := rows.Scan(
			&b.ID, &b.StudentID, &b.StudentName, &b.TutorID, &b.TutorName,
			&b.Subject, &b.GradeLevel, &b.Language,
			&b.Status, &b.DurationMinutes, &b.StartTime, &b.EndTime,
			&b.EarlyEndRequested, &b.EarlyEndRequestedAt, &b.EarlyEndApproved,
			&b.TotalAmountCents, &b.PlatformFeeCents, &b.TutorEarningsCents,
			&b.CreatedAt, &b.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, total, nil
}

// transition runs a conditional UPDATE and returns the updated row, or
// errNoMatch when the WHERE clause matched nothing.
func (r *pgxBookingRepository) transition(ctx context.Context, set string, where string, args ...any) (*Booking, error) {
	query := `
		WITH updated AS (
			UPDATE public.bookings
			SET ` + set + `, updated_at = now()
			WHERE ` + where + `
			RETURNING *
		)
		SELECT` + bookingColumns + `
		FROM updated b
		JOIN public.profiles s ON s.id = b.student_id
		JOIN public.profiles t ON t.id = b.tutor_id`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNoMatch
		}
		return nil, fmt.Errorf("update booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxBookingRepository) Accept(ctx context.Context, id, tutorID string) (*Booking, error) {
	return r.transition(ctx,
		`status = 'accepted'`,
		`id = $1 AND tutor_id = $2 AND status = 'pending'`,
		id, tutorID)
}

func (r *pgxBookingRepository) Reject(ctx context.Context, id, tutorID string) (*Booking, error) {
	return r.transition(ctx,
		`status = 'rejected'`,
		`id = $1 AND tutor_id = $2 AND status = 'pending'`,
		id, tutorID)
}

func (r *pgxBookingRepository) Cancel(ctx context.Context, id, studentID string) (*Booking, error) {
	return r.transition(ctx,
		`status = 'cancelled'`,
		`id = $1 AND student_id = $2 AND status IN ('pending', 'accepted')`,
		id, studentID)
}

func (r *pgxBookingRepository) Start(ctx context.Context, id, tutorID string, at time.Time) (*Booking, error) {
	return r.transition(ctx,
		`status = 'in_progress', start_time = $3`,
		`id = $1 AND tutor_id = $2 AND status = 'accepted'`,
		id, tutorID, at)
}

// RequestEarlyEnd flags a pending early end. It only matches while the
// session is live, no request is already pending, and the timer has
// not expired yet (an expired timer makes the request pointless).
func (r *pgxBookingRepository) RequestEarlyEnd(ctx context.Context, id, studentID string, at time.Time) (*Booking, error) {
	return r.transition(ctx,
		`early_end_requested = true, early_end_requested_at = $3, early_end_approved = false`,
		`id = $1 AND student_id = $2 AND status = 'in_progress'
			AND early_end_requested = false
			AND start_time + duration_minutes * interval '1 minute' > $3`,
		id, studentID, at)
}

func (r *pgxBookingRepository) ApproveEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error) {
	return r.transition(ctx,
		`early_end_approved = true`,
		`id = $1 AND tutor_id = $2 AND status = 'in_progress' AND early_end_requested = true`,
		id, tutorID)
}

// RejectEarlyEnd resets the whole early-end negotiation. The WHERE
// clause does not require early_end_approved = false: a tutor may
// revoke an approval they already gave, as long as the class has not
// been ended. Repeating the call on an already-reset row still
// matches, so rejection is idempotent.
func (r *pgxBookingRepository) RejectEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error) {
	return r.transition(ctx,
		`early_end_requested = false, early_end_requested_at = NULL, early_end_approved = false`,
		`id = $1 AND tutor_id = $2 AND status = 'in_progress'`,
		id, tutorID)
}

// Complete ends the class. The timer is re-derived in SQL from the
// stored start_time and duration at the moment of the update; the
// alternative gate is an approved early end request. The negotiation
// flags are cleared in the same update so a completed row never
// carries a leftover request.
func (r *pgxBookingRepository) Complete(ctx context.Context, id, tutorID string, at time.Time) (*Booking, error) {
	return r.transition(ctx,
		`status = 'completed', end_time = $3,
			early_end_requested = false, early_end_requested_at = NULL, early_end_approved = false`,
		`id = $1 AND tutor_id = $2 AND status = 'in_progress'
			AND (start_time + duration_minutes * interval '1 minute' <= $3
				OR (early_end_requested = true AND early_end_approved = true))`,
		id, tutorID, at)
}

// ForceStatus moves the row from one status to another. Admin-only escape
// hatch for support interventions; still scoped by the expected current
// status so a concurrent transition makes it a no-op. Forcing into
// in_progress or completed writes the timestamp the status implies,
// so a forced row satisfies the same start_time/end_time rules as one
// that went through the normal lifecycle.
func (r *pgxBookingRepository) ForceStatus(ctx context.Context, id string, from, to Status, at time.Time) (*Booking, error) {
	set := `status = $2`
	args := []any{id, to, from}
	switch to {
	case StatusInProgress:
		set = `status = $2, start_time = COALESCE(start_time, $4)`
		args = append(args, at)
	case StatusCompleted:
		set = `status = $2, end_time = COALESCE(end_time, $4),
			early_end_requested = false, early_end_requested_at = NULL, early_end_approved = false`
		args = append(args, at)
	}
	return r.transition(ctx, set, `id = $1 AND status = $3`, args...)
}

func (r *pgxBookingRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM public.bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count bookings failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var (
			status Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking count failed: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking counts failed: %w", err)
	}
	return counts, nil
}
