package review

import (
	"context"

	"github.com/quicktutor/quicktutor-backend/internal/booking"
)

// BookingReader is the slice of the booking store needed to check
// that a booking is completed and the caller took part in it.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
}

// SubmitReviewRequest carries a student's review of a tutor.
type SubmitReviewRequest struct {
	BookingID    string
	Rating       int
	Comment      string
	BehaviorTags []string
}

// SubmitStudentRatingRequest carries a tutor's rating of a student.
type SubmitStudentRatingRequest struct {
	BookingID string
	Rating    int
	Comment   string
}

type Service interface {
	SubmitReview(ctx context.Context, studentID string, req SubmitReviewRequest) (*Review, error)
	ListByTutor(ctx context.Context, tutorID string, page, pageSize int) ([]*Review, int, error)

	SubmitStudentRating(ctx context.Context, tutorID string, req SubmitStudentRatingRequest) (*StudentRating, error)
	ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]*StudentRating, int, error)
}

type service struct {
	repo     Repository
	bookings BookingReader
}

func NewService(repo Repository, bookings BookingReader) Service {
	return &service{repo: repo, bookings: bookings}
}

// reviewable loads the booking and verifies it is completed and the
// caller sat on the expected side of it.
func (s *service) reviewable(ctx context.Context, bookingID, callerID string, tutorSide bool) (*booking.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	participant := b.StudentID
	if tutorSide {
		participant = b.TutorID
	}
	if participant != callerID {
		return nil, ErrPermissionDenied
	}
	if b.Status != booking.StatusCompleted {
		return nil, ErrBookingNotComplete
	}
	return b, nil
}

func (s *service) SubmitReview(ctx context.Context, studentID string, req SubmitReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.reviewable(ctx, req.BookingID, studentID, false)
	if err != nil {
		return nil, err
	}

	rev := &Review{
		BookingID:    req.BookingID,
		StudentID:    studentID,
		TutorID:      b.TutorID,
		Rating:       req.Rating,
		Comment:      req.Comment,
		BehaviorTags: req.BehaviorTags,
	}
	if err := s.repo.CreateReview(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *service) ListByTutor(ctx context.Context, tutorID string, page, pageSize int) ([]*Review, int, error) {
	return s.repo.ListByTutor(ctx, tutorID, page, pageSize)
}

func (s *service) SubmitStudentRating(ctx context.Context, tutorID string, req SubmitStudentRatingRequest) (*StudentRating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.reviewable(ctx, req.BookingID, tutorID, true)
	if err != nil {
		return nil, err
	}

	sr := &StudentRating{
		BookingID: req.BookingID,
		TutorID:   tutorID,
		StudentID: b.StudentID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.CreateStudentRating(ctx, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *service) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]*StudentRating, int, error) {
	return s.repo.ListByStudent(ctx, studentID, page, pageSize)
}
