package report

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "report not found")
	ErrAlreadyClosed  = apperror.New(http.StatusConflict, "report has already been closed")
	ErrInvalidOutcome = apperror.New(http.StatusBadRequest, "invalid report outcome")
)

// ReportStatus is the back-office state of a report.
type ReportStatus string

const (
	StatusOpen      ReportStatus = "open"
	StatusResolved  ReportStatus = "resolved"
	StatusDismissed ReportStatus = "dismissed"
)

// Report represents a reports row: one user reporting another,
// optionally anchored to a booking and an uploaded evidence file.
type Report struct {
	ID            string
	CreatedByID   string
	CreatedByName *string
	AgainstUserID string
	AgainstName   *string
	BookingID     *string
	ReporterRole  string
	Reason        string
	Comments      string
	FileID        *string

	Status     ReportStatus
	Resolution string
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

// Filter defines filter options for the admin report queue.
type Filter struct {
	Status   string
	Page     int
	PageSize int
}
