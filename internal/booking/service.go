package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/quicktutor/quicktutor-backend/internal/feed"
	"github.com/quicktutor/quicktutor-backend/internal/notification"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/metrics"
	"github.com/quicktutor/quicktutor-backend/internal/tutor"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

// System chat lines appended on lifecycle transitions.
const (
	msgBookingAccepted = "Your tutor accepted the booking. You can start chatting now."
	msgEarlyEndAsked   = "Student has requested to end the class early. Waiting for tutor approval."
	msgEarlyEndOK      = "Tutor has approved the early end request. Class can now be ended."
	msgEarlyEndNo      = "Tutor has rejected the early end request. Class will continue."
	msgClassEnded      = "Class has ended."
)

// SystemMessenger appends system-authored lines to a booking's chat.
// Implemented by the message service; declared here so the lifecycle
// manager does not depend on the chat package.
type SystemMessenger interface {
	AppendSystem(ctx context.Context, bookingID, content string) error
}

// Publisher pushes change-feed events. Implemented by feed.Bus.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// CreateRequest carries the fields a student supplies when requesting
// a session. The price is never part of the request; it is computed
// server-side from the tutor's stored rate.
type CreateRequest struct {
	TutorID         string
	Subject         string
	GradeLevel      string
	Language        string
	DurationMinutes int
}

// Service defines business logic for the booking lifecycle. Every
// transition is a conditional single-row update: if the stored state
// no longer satisfies the operation's precondition the call fails
// without changing anything, and the caller must re-read.
type Service interface {
	Create(ctx context.Context, studentID string, req CreateRequest) (*Booking, error)
	GetForUser(ctx context.Context, id, callerID string, role user.Role) (*Booking, error)
	List(ctx context.Context, callerID string, role user.Role, filter Filter) ([]*Booking, int, error)

	Accept(ctx context.Context, id, tutorID string) (*Booking, error)
	Reject(ctx context.Context, id, tutorID string) (*Booking, error)
	Cancel(ctx context.Context, id, studentID string) (*Booking, error)
	StartClass(ctx context.Context, id, tutorID string) (*Booking, error)
	RequestEarlyEnd(ctx context.Context, id, studentID string) (*Booking, error)
	ApproveEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error)
	RejectEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error)
	EndClass(ctx context.Context, id, tutorID string) (*Booking, error)

	// Admin override; still constrained to legal transitions.
	ForceStatus(ctx context.Context, id string, status Status) (*Booking, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type service struct {
	repo      Repository
	tutors    tutor.Service
	messenger SystemMessenger
	notifier  notification.Service
	publisher Publisher
	logger    zerolog.Logger

	// Injected clock so timer behavior is testable.
	now func() time.Time
}

func NewService(
	repo Repository,
	tutors tutor.Service,
	messenger SystemMessenger,
	notifier notification.Service,
	publisher Publisher,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:      repo,
		tutors:    tutors,
		messenger: messenger,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With().Str("component", "booking").Logger(),
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, studentID string, req CreateRequest) (*Booking, error) {
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	// Only verified tutors can receive requests; the quote is locked
	// in from the tutor's rate at this moment and never recomputed.
	t, err := s.tutors.GetApproved(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}
	quote := PriceFor(t.HourlyRateCents, req.DurationMinutes)

	b := &Booking{
		StudentID:          studentID,
		TutorID:            req.TutorID,
		Subject:            req.Subject,
		GradeLevel:         req.GradeLevel,
		Language:           req.Language,
		DurationMinutes:    req.DurationMinutes,
		TotalAmountCents:   quote.TotalAmountCents,
		PlatformFeeCents:   quote.PlatformFeeCents,
		TutorEarningsCents: quote.TutorEarningsCents,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	metrics.IncBookingCreated()

	s.notify(ctx, b, req.TutorID, notification.TypeBookingRequest)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) GetForUser(ctx context.Context, id, callerID string, role user.Role) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != user.RoleAdmin && b.StudentID != callerID && b.TutorID != callerID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, callerID string, role user.Role, filter Filter) ([]*Booking, int, error) {
	// Non-admins only ever see their own side of the marketplace.
	switch role {
	case user.RoleStudent:
		filter.StudentID = callerID
		filter.TutorID = ""
	case user.RoleTutor:
		filter.TutorID = callerID
		filter.StudentID = ""
	case user.RoleAdmin:
	default:
		return nil, 0, ErrPermissionDenied
	}

	if filter.Status != "" && !ValidStatus(Status(filter.Status)) {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Accept(ctx context.Context, id, tutorID string) (*Booking, error) {
	b, err := s.repo.Accept(ctx, id, tutorID)
	if err != nil {
		return nil, s.classify(ctx, "accept", err, id, tutorID, callerTutor, nil)
	}
	metrics.IncBookingTransition("accept")

	s.appendSystem(ctx, b, msgBookingAccepted)
	s.notify(ctx, b, b.StudentID, notification.TypeBookingAccepted)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) Reject(ctx context.Context, id, tutorID string) (*Booking, error) {
	b, err := s.repo.Reject(ctx, id, tutorID)
	if err != nil {
		return nil, s.classify(ctx, "reject", err, id, tutorID, callerTutor, nil)
	}
	metrics.IncBookingTransition("reject")

	s.notify(ctx, b, b.StudentID, notification.TypeBookingRejected)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id, studentID string) (*Booking, error) {
	b, err := s.repo.Cancel(ctx, id, studentID)
	if err != nil {
		return nil, s.classify(ctx, "cancel", err, id, studentID, callerStudent, nil)
	}
	metrics.IncBookingTransition("cancel")

	s.notify(ctx, b, b.TutorID, notification.TypeClassCancelled)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) StartClass(ctx context.Context, id, tutorID string) (*Booking, error) {
	b, err := s.repo.Start(ctx, id, tutorID, s.now())
	if err != nil {
		return nil, s.classify(ctx, "start", err, id, tutorID, callerTutor, nil)
	}
	metrics.IncBookingTransition("start")

	s.publish(ctx, b)
	return b, nil
}

func (s *service) RequestEarlyEnd(ctx context.Context, id, studentID string) (*Booking, error) {
	now := s.now()
	b, err := s.repo.RequestEarlyEnd(ctx, id, studentID, now)
	if err != nil {
		return nil, s.classify(ctx, "request_early_end", err, id, studentID, callerStudent,
			func(cur *Booking) error {
				if cur.Status != StatusInProgress {
					return nil
				}
				if cur.EarlyEndRequested {
					return ErrEarlyEndPending
				}
				if cur.TimerExpired(now) {
					return ErrTimerExpired
				}
				return nil
			})
	}
	metrics.IncBookingTransition("request_early_end")

	s.appendSystem(ctx, b, msgEarlyEndAsked)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) ApproveEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error) {
	b, err := s.repo.ApproveEarlyEnd(ctx, id, tutorID)
	if err != nil {
		return nil, s.classify(ctx, "approve_early_end", err, id, tutorID, callerTutor, nil)
	}
	metrics.IncBookingTransition("approve_early_end")

	s.appendSystem(ctx, b, msgEarlyEndOK)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) RejectEarlyEnd(ctx context.Context, id, tutorID string) (*Booking, error) {
	b, err := s.repo.RejectEarlyEnd(ctx, id, tutorID)
	if err != nil {
		return nil, s.classify(ctx, "reject_early_end", err, id, tutorID, callerTutor, nil)
	}
	metrics.IncBookingTransition("reject_early_end")

	s.appendSystem(ctx, b, msgEarlyEndNo)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) EndClass(ctx context.Context, id, tutorID string) (*Booking, error) {
	now := s.now()
	b, err := s.repo.Complete(ctx, id, tutorID, now)
	if err != nil {
		return nil, s.classify(ctx, "end", err, id, tutorID, callerTutor,
			func(cur *Booking) error {
				if cur.Status == StatusInProgress && !cur.Endable(now) {
					return ErrSessionNotEndable
				}
				return nil
			})
	}
	metrics.IncBookingTransition("end")

	s.appendSystem(ctx, b, msgClassEnded)
	s.publish(ctx, b)
	return b, nil
}

func (s *service) ForceStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	// Even the override follows the transitions table; the update is
	// scoped by the status we read, so a concurrent transition surfaces
	// as a conflict instead of clobbering it.
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, ErrInvalidTransition
	}

	b, err := s.repo.ForceStatus(ctx, id, current.Status, status, s.now())
	if err != nil {
		if errors.Is(err, errNoMatch) {
			return nil, ErrStateConflict
		}
		return nil, err
	}
	metrics.IncBookingTransition("force_status")

	s.publish(ctx, b)
	return b, nil
}

func (s *service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

type callerSide int

const (
	callerStudent callerSide = iota
	callerTutor
)

// classify turns a zero-rows precondition failure into a user-facing
// error. The row is re-read once: a missing row is not-found, a caller
// that is not on the expected side is permission-denied, and anything
// else falls to the operation-specific check or the generic state
// conflict. Errors that are not precondition failures pass through.
func (s *service) classify(ctx context.Context, op string, err error, id, callerID string, side callerSide, specific func(*Booking) error) error {
	if !errors.Is(err, errNoMatch) {
		return err
	}
	metrics.IncBookingConflict(op)

	cur, getErr := s.repo.GetByID(ctx, id)
	if getErr != nil {
		return getErr
	}

	owner := cur.StudentID
	if side == callerTutor {
		owner = cur.TutorID
	}
	if owner != callerID {
		return ErrPermissionDenied
	}

	if specific != nil {
		if sErr := specific(cur); sErr != nil {
			return sErr
		}
	}
	return ErrStateConflict
}

// appendSystem, notify and publish are best-effort: a failed side
// effect is logged and counted but never rolls back the transition.

func (s *service) appendSystem(ctx context.Context, b *Booking, content string) {
	if err := s.messenger.AppendSystem(ctx, b.ID, content); err != nil {
		metrics.IncSideEffectFailed("system_message")
		s.logger.Warn().Err(err).Str("booking_id", b.ID).Msg("failed to append system message")
	}
}

func (s *service) notify(ctx context.Context, b *Booking, userID, typ string) {
	data := map[string]any{"booking_id": b.ID, "subject": b.Subject}
	if err := s.notifier.Notify(ctx, userID, typ, data); err != nil {
		metrics.IncSideEffectFailed("notification")
		s.logger.Warn().Err(err).Str("booking_id", b.ID).Str("type", typ).Msg("failed to write notification")
	}
}

func (s *service) publish(ctx context.Context, b *Booking) {
	if err := s.publisher.Publish(ctx, feed.BookingChannel(b.ID), NewEvent(b)); err != nil {
		metrics.IncSideEffectFailed("feed_publish")
		s.logger.Warn().Err(err).Str("booking_id", b.ID).Msg("failed to publish booking update")
	}
}
