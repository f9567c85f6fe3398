package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicktutor/quicktutor-backend/internal/booking"
)

type fakeRepo struct {
	reviews []*Review
	ratings []*StudentRating
}

func (r *fakeRepo) CreateReview(_ context.Context, rev *Review) error {
	for _, existing := range r.reviews {
		if existing.BookingID == rev.BookingID {
			return ErrAlreadyReviewed
		}
	}
	rev.ID = fmt.Sprintf("review-%d", len(r.reviews)+1)
	r.reviews = append(r.reviews, rev)
	return nil
}

func (r *fakeRepo) ListByTutor(_ context.Context, tutorID string, _, _ int) ([]*Review, int, error) {
	var out []*Review
	for _, rev := range r.reviews {
		if rev.TutorID == tutorID {
			out = append(out, rev)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) CreateStudentRating(_ context.Context, sr *StudentRating) error {
	for _, existing := range r.ratings {
		if existing.BookingID == sr.BookingID {
			return ErrAlreadyReviewed
		}
	}
	sr.ID = fmt.Sprintf("rating-%d", len(r.ratings)+1)
	r.ratings = append(r.ratings, sr)
	return nil
}

func (r *fakeRepo) ListByStudent(_ context.Context, studentID string, _, _ int) ([]*StudentRating, int, error) {
	var out []*StudentRating
	for _, sr := range r.ratings {
		if sr.StudentID == studentID {
			out = append(out, sr)
		}
	}
	return out, len(out), nil
}

type fakeBookings struct {
	booking *booking.Booking
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, booking.ErrNotFound
	}
	return f.booking, nil
}

func newTestService(status booking.Status) Service {
	return NewService(&fakeRepo{}, &fakeBookings{booking: &booking.Booking{
		ID:        "booking-1",
		StudentID: "student-1",
		TutorID:   "tutor-1",
		Status:    status,
	}})
}

func TestSubmitReview(t *testing.T) {
	svc := newTestService(booking.StatusCompleted)
	ctx := context.Background()

	r, err := svc.SubmitReview(ctx, "student-1", SubmitReviewRequest{
		BookingID:    "booking-1",
		Rating:       5,
		Comment:      "very patient",
		BehaviorTags: []string{"punctual", "friendly"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tutor-1", r.TutorID)
	assert.Equal(t, 5, r.Rating)

	// One review per booking.
	_, err = svc.SubmitReview(ctx, "student-1", SubmitReviewRequest{BookingID: "booking-1", Rating: 4})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestSubmitReviewGuards(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(booking.StatusCompleted)
	_, err := svc.SubmitReview(ctx, "student-1", SubmitReviewRequest{BookingID: "booking-1", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.SubmitReview(ctx, "student-2", SubmitReviewRequest{BookingID: "booking-1", Rating: 5})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	svc = newTestService(booking.StatusInProgress)
	_, err = svc.SubmitReview(ctx, "student-1", SubmitReviewRequest{BookingID: "booking-1", Rating: 5})
	assert.ErrorIs(t, err, ErrBookingNotComplete)
}

func TestSubmitStudentRating(t *testing.T) {
	svc := newTestService(booking.StatusCompleted)
	ctx := context.Background()

	sr, err := svc.SubmitStudentRating(ctx, "tutor-1", SubmitStudentRatingRequest{
		BookingID: "booking-1",
		Rating:    4,
		Comment:   "attentive student",
	})
	require.NoError(t, err)
	assert.Equal(t, "student-1", sr.StudentID)

	// Only the booking's tutor may rate the student.
	_, err = svc.SubmitStudentRating(ctx, "tutor-2", SubmitStudentRatingRequest{BookingID: "booking-1", Rating: 4})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
