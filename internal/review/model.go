package review

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var (
	ErrPermissionDenied   = apperror.New(http.StatusForbidden, "permission denied")
	ErrBookingNotComplete = apperror.New(http.StatusConflict, "booking must be completed before it can be reviewed")
	ErrAlreadyReviewed    = apperror.New(http.StatusConflict, "this booking has already been reviewed")
	ErrInvalidRating      = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
)

// Review is a student's rating of a tutor for one completed booking.
type Review struct {
	ID           string
	BookingID    string
	StudentID    string
	StudentName  *string
	TutorID      string
	Rating       int
	Comment      string
	BehaviorTags []string
	CreatedAt    time.Time
}

// StudentRating is the tutor's counterpart: a rating of the student
// for the same booking, visible to admins and future tutors.
type StudentRating struct {
	ID        string
	BookingID string
	TutorID   string
	StudentID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
