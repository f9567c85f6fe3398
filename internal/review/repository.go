package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access for both review directions. Each
// table carries a unique constraint on booking_id, which is what
// enforces one review per booking per direction.
type Repository interface {
	CreateReview(ctx context.Context, r *Review) error
	ListByTutor(ctx context.Context, tutorID string, page, pageSize int) ([]*Review, int, error)

	CreateStudentRating(ctx context.Context, r *StudentRating) error
	ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]*StudentRating, int, error)
}

type pgxReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxReviewRepository{pool: pool}
}

func (r *pgxReviewRepository) CreateReview(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO public.booking_reviews (booking_id, student_id, tutor_id, rating, comment, behavior_tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		rev.BookingID, rev.StudentID, rev.TutorID, rev.Rating, rev.Comment, rev.BehaviorTags,
	).Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("insert review failed: %w", err)
	}
	return nil
}

func (r *pgxReviewRepository) ListByTutor(ctx context.Context, tutorID string, page, pageSize int) ([]*Review, int, error) {
	query := `
		SELECT r.id, r.booking_id, r.student_id, p.full_name, r.tutor_id,
			r.rating, r.comment, r.behavior_tags, r.created_at,
			count(*) OVER() AS total_count
		FROM public.booking_reviews r
		JOIN public.profiles p ON p.id = r.student_id
		WHERE r.tutor_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, tutorID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query reviews failed: %w", err)
	}
	defer rows.Close()

	var (
		reviews []*Review
		total   int
	)
	for rows.Next() {
		var rev Review
		err := rows.Scan(&rev.ID, &rev.BookingID, &rev.StudentID, &rev.StudentName, &rev.TutorID,
			&rev.Rating, &rev.Comment, &rev.BehaviorTags, &rev.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review failed: %w", err)
		}
		reviews = append(reviews, &rev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reviews failed: %w", err)
	}
	return reviews, total, nil
}

func (r *pgxReviewRepository) CreateStudentRating(ctx context.Context, rating *StudentRating) error {
	query := `
		INSERT INTO public.student_ratings (booking_id, tutor_id, student_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		rating.BookingID, rating.TutorID, rating.StudentID, rating.Rating, rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("insert student rating failed: %w", err)
	}
	return nil
}

func (r *pgxReviewRepository) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]*StudentRating, int, error) {
	query := `
		SELECT id, booking_id, tutor_id, student_id, rating, comment, created_at,
			count(*) OVER() AS total_count
		FROM public.student_ratings
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, studentID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query student ratings failed: %w", err)
	}
	defer rows.Close()

	var (
		ratings []*StudentRating
		total   int
	)
	for rows.Next() {
		var sr StudentRating
		err := rows.Scan(&sr.ID, &sr.BookingID, &sr.TutorID, &sr.StudentID, &sr.Rating, &sr.Comment, &sr.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan student rating failed: %w", err)
		}
		ratings = append(ratings, &sr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate student ratings failed: %w", err)
	}
	return ratings, total, nil
}
