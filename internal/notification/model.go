package notification

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "notification not found")

// Notification types emitted by the marketplace.
const (
	TypeBookingRequest  = "booking_request"
	TypeBookingAccepted = "booking_accepted"
	TypeBookingRejected = "booking_rejected"
	TypeClassCancelled  = "class_cancelled"
	TypeTutorApproved   = "tutor_approved"
	TypeTutorRejected   = "tutor_rejected"
	TypeReportResolved  = "report_resolved"
)

// Notification represents a notifications row.
// Data is a free-form payload rendered by the notification surface.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Data      map[string]any
	IsRead    bool
	CreatedAt time.Time
}
