package booking

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "duration must be a positive number of minutes")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")

	// ErrStateConflict is the generic no-op failure: the conditional
	// update matched zero rows because the stored state moved on. The
	// caller must re-fetch and re-derive intent; nothing was changed.
	ErrStateConflict = apperror.New(http.StatusConflict, "booking state has changed, refresh and try again")

	ErrEarlyEndPending   = apperror.New(http.StatusConflict, "an early end request is already pending")
	ErrTimerExpired      = apperror.New(http.StatusConflict, "session timer has already expired")
	ErrSessionNotEndable = apperror.New(http.StatusConflict, "class can only be ended after the timer expires or an early end request is approved")
	ErrInvalidTransition = apperror.New(http.StatusBadRequest, "status transition not allowed")
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// transitions lists the allowed lifecycle edges. Terminal states have
// no exits; the early-end negotiation happens inside in_progress and
// is not a status change.
var transitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusRejected:   {},
}

// CanTransition checks if the lifecycle edge from -> to is allowed.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// Booking represents a bookings row, joined with participant names.
type Booking struct {
	ID          string
	StudentID   string
	StudentName *string
	TutorID     string
	TutorName   *string

	Subject    string
	GradeLevel string
	Language   string

	Status          Status
	DurationMinutes int
	StartTime       *time.Time
	EndTime         *time.Time

	EarlyEndRequested   bool
	EarlyEndRequestedAt *time.Time
	EarlyEndApproved    bool

	// Computed once at creation from the tutor's rate; never mutated
	// by the lifecycle manager.
	TotalAmountCents   int64
	PlatformFeeCents   int64
	TutorEarningsCents int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deadline is the derived session timer: start_time + duration.
// It is only meaningful once the session has started.
func (b *Booking) Deadline() (time.Time, bool) {
	if b.StartTime == nil {
		return time.Time{}, false
	}
	return b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute), true
}

// TimerExpired reports whether the session timer has elapsed at now.
// The deadline is re-derived from stored fields on every call; a
// client-side expiry flag is never an authorization input.
func (b *Booking) TimerExpired(now time.Time) bool {
	deadline, ok := b.Deadline()
	if !ok {
		return false
	}
	return !now.Before(deadline)
}

// Endable reports whether the tutor may force completion at now:
// the timer has expired, or the student's early end request was approved.
func (b *Booking) Endable(now time.Time) bool {
	if b.Status != StatusInProgress {
		return false
	}
	return b.TimerExpired(now) || (b.EarlyEndRequested && b.EarlyEndApproved)
}

// platformFeePercent is the fixed marketplace cut.
const platformFeePercent = 10

// Quote is the price breakdown fixed at booking creation.
type Quote struct {
	TotalAmountCents   int64
	PlatformFeeCents   int64
	TutorEarningsCents int64
}

// PriceFor computes the quote for a session: hourly rate prorated to
// the duration, with the platform fee taken out of the total.
func PriceFor(hourlyRateCents int64, durationMinutes int) Quote {
	total := hourlyRateCents * int64(durationMinutes) / 60
	fee := total * platformFeePercent / 100
	return Quote{
		TotalAmountCents:   total,
		PlatformFeeCents:   fee,
		TutorEarningsCents: total - fee,
	}
}

// Filter defines filter options for listing bookings.
type Filter struct {
	StudentID string
	TutorID   string
	Status    string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Event is the change-feed payload published after every successful
// transition. It carries the full updated row so subscribers can
// replace their local copy without a follow-up read.
type Event struct {
	BookingID           string     `json:"booking_id"`
	Status              Status     `json:"status"`
	StartTime           *time.Time `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	EarlyEndRequested   bool       `json:"early_end_requested"`
	EarlyEndRequestedAt *time.Time `json:"early_end_requested_at"`
	EarlyEndApproved    bool       `json:"early_end_approved"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewEvent snapshots the lifecycle fields of b.
func NewEvent(b *Booking) Event {
	return Event{
		BookingID:           b.ID,
		Status:              b.Status,
		StartTime:           b.StartTime,
		EndTime:             b.EndTime,
		EarlyEndRequested:   b.EarlyEndRequested,
		EarlyEndRequestedAt: b.EarlyEndRequestedAt,
		EarlyEndApproved:    b.EarlyEndApproved,
		UpdatedAt:           b.UpdatedAt,
	}
}
