package report

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quicktutor/quicktutor-backend/internal/notification"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

// CreateRequest carries a new report from either side of a booking.
type CreateRequest struct {
	AgainstUserID string
	BookingID     *string
	Reason        string
	Comments      string
	FileID        *string
}

type Service interface {
	Create(ctx context.Context, reporterID string, role user.Role, req CreateRequest) (*Report, error)
	GetByID(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, filter Filter) ([]*Report, int, error)
	Close(ctx context.Context, id string, status ReportStatus, resolution string) (*Report, error)
	CountOpen(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	notifier notification.Service
	logger   zerolog.Logger
}

func NewService(repo Repository, notifier notification.Service, logger zerolog.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With().Str("component", "report").Logger(),
	}
}

func (s *service) Create(ctx context.Context, reporterID string, role user.Role, req CreateRequest) (*Report, error) {
	r := &Report{
		CreatedByID:   reporterID,
		AgainstUserID: req.AgainstUserID,
		BookingID:     req.BookingID,
		ReporterRole:  string(role),
		Reason:        req.Reason,
		Comments:      req.Comments,
		FileID:        req.FileID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Report, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Report, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Close(ctx context.Context, id string, status ReportStatus, resolution string) (*Report, error) {
	if status != StatusResolved && status != StatusDismissed {
		return nil, ErrInvalidOutcome
	}

	r, err := s.repo.Close(ctx, id, status, resolution)
	if err != nil {
		return nil, err
	}

	// Best effort: the reporter hears about the outcome, but the
	// close stands even if the notification write fails.
	data := map[string]any{"report_id": r.ID, "status": string(r.Status)}
	if err := s.notifier.Notify(ctx, r.CreatedByID, notification.TypeReportResolved, data); err != nil {
		s.logger.Warn().Err(err).Str("report_id", r.ID).Msg("failed to notify reporter of outcome")
	}
	return r, nil
}

func (s *service) CountOpen(ctx context.Context) (int, error) {
	return s.repo.CountOpen(ctx)
}
