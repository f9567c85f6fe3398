package tutor

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "tutor profile not found")
	ErrNotApproved      = apperror.New(http.StatusForbidden, "tutor is not approved")
	ErrAlreadyDecided   = apperror.New(http.StatusConflict, "application already decided")
	ErrInvalidRate      = apperror.New(http.StatusBadRequest, "hourly rate must be positive")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// VerificationStatus is the state of a tutor's application.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Profile represents a tutor_profiles row joined with the owner's profile.
type Profile struct {
	UserID             string
	FullName           *string
	Bio                string
	Subjects           []string
	Grades             []string
	Languages          []string
	HourlyRateCents    int64
	VerificationStatus VerificationStatus
	IsOnline           bool
	RatingAverage      float64
	RatingCount        int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SearchFilter narrows the student-facing tutor catalogue.
// Only approved tutors on active accounts are ever returned.
type SearchFilter struct {
	Subject    string
	Language   string
	Grade      string
	OnlineOnly bool

	Page     int
	PageSize int
}

// ApplicationFilter narrows the admin application queue.
type ApplicationFilter struct {
	Status string

	Page     int
	PageSize int
}
