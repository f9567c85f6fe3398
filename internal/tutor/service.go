package tutor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quicktutor/quicktutor-backend/internal/notification"
)

// UpsertRequest carries the tutor's own profile fields.
type UpsertRequest struct {
	Bio             string
	Subjects        []string
	Grades          []string
	Languages       []string
	HourlyRateCents int64
}

type Service interface {
	Upsert(ctx context.Context, userID string, req UpsertRequest) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)

	// GetApproved returns the profile only if the tutor is approved,
	// for the student-facing tutor page.
	GetApproved(ctx context.Context, userID string) (*Profile, error)

	Search(ctx context.Context, filter SearchFilter) ([]*Profile, int, error)
	SetOnline(ctx context.Context, userID string, online bool) error

	// Admin verification workflow.
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]*Profile, int, error)
	Decide(ctx context.Context, userID string, approve bool) error
	CountByStatus(ctx context.Context) (map[VerificationStatus]int, error)
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
		logger:   logger.With().Str("component", "tutor").Logger(),
	}
}

func (s *service) Upsert(ctx context.Context, userID string, req UpsertRequest) (*Profile, error) {
	if req.HourlyRateCents <= 0 {
		return nil, ErrInvalidRate
	}

	p := &Profile{
		UserID:          userID,
		Bio:             req.Bio,
		Subjects:        req.Subjects,
		Grades:          req.Grades,
		Languages:       req.Languages,
		HourlyRateCents: req.HourlyRateCents,
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) GetApproved(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.VerificationStatus != VerificationApproved {
		return nil, ErrNotApproved
	}
	return p, nil
}

func (s *service) Search(ctx context.Context, filter SearchFilter) ([]*Profile, int, error) {
	return s.repo.Search(ctx, filter)
}

func (s *service) SetOnline(ctx context.Context, userID string, online bool) error {
	return s.repo.SetOnline(ctx, userID, online)
}

func (s *service) ListApplications(ctx context.Context, filter ApplicationFilter) ([]*Profile, int, error) {
	return s.repo.ListApplications(ctx, filter)
}

func (s *service) Decide(ctx context.Context, userID string, approve bool) error {
	status := VerificationRejected
	notifType := notification.TypeTutorRejected
	if approve {
		status = VerificationApproved
		notifType = notification.TypeTutorApproved
	}

	if err := s.repo.Decide(ctx, userID, status); err != nil {
		return err
	}

	// Best effort: the decision stands even if the notification write fails.
	if err := s.notifier.Notify(ctx, userID, notifType, nil); err != nil {
		s.logger.Warn().Err(err).Str("tutor_id", userID).Msg("failed to notify tutor of verification decision")
	}

	return nil
}

func (s *service) CountByStatus(ctx context.Context) (map[VerificationStatus]int, error) {
	return s.repo.CountByStatus(ctx)
}
