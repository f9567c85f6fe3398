package message

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quicktutor/quicktutor-backend/internal/booking"
	"github.com/quicktutor/quicktutor-backend/internal/feed"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/metrics"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

// BookingReader is the slice of the booking store the chat needs to
// authorize senders and readers. Satisfied by booking.Repository.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
}

// Publisher pushes message inserts onto the change feed.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Service defines business logic for booking chat. Participants can
// write while the chat is open (accepted through in_progress) and
// read the history at any point. System lines bypass the gate: the
// lifecycle appends them as part of its own transitions, including
// the closing line on a completed class.
type Service interface {
	Append(ctx context.Context, bookingID, senderID, content string) (*Message, error)
	AppendSystem(ctx context.Context, bookingID, content string) error
	List(ctx context.Context, bookingID, callerID string, role user.Role, page, pageSize int) ([]*Message, int, error)
}

type service struct {
	repo      Repository
	bookings  BookingReader
	publisher Publisher
	logger    zerolog.Logger
}

func NewService(repo Repository, bookings BookingReader, publisher Publisher, logger zerolog.Logger) Service {
	return &service{
		repo:      repo,
		bookings:  bookings,
		publisher: publisher,
		logger:    logger.With().Str("component", "message").Logger(),
	}
}

// Event is the change-feed payload for a message insert.
type Event struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	SenderID   *string   `json:"sender_id"`
	SenderName *string   `json:"sender_name"`
	Content    string    `json:"content"`
	IsSystem   bool      `json:"is_system"`
	CreatedAt  time.Time `json:"created_at"`
}

func newEvent(m *Message) Event {
	return Event{
		ID:         m.ID,
		BookingID:  m.BookingID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		IsSystem:   m.IsSystem,
		CreatedAt:  m.CreatedAt,
	}
}

func (s *service) Append(ctx context.Context, bookingID, senderID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.StudentID != senderID && b.TutorID != senderID {
		return nil, ErrPermissionDenied
	}
	if b.Status != booking.StatusAccepted && b.Status != booking.StatusInProgress {
		return nil, ErrChatClosed
	}

	m := &Message{
		BookingID: bookingID,
		SenderID:  &senderID,
		Content:   content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.publish(ctx, m)
	return m, nil
}

func (s *service) AppendSystem(ctx context.Context, bookingID, content string) error {
	m := &Message{
		BookingID: bookingID,
		Content:   content,
		IsSystem:  true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}

	s.publish(ctx, m)
	return nil
}

func (s *service) List(ctx context.Context, bookingID, callerID string, role user.Role, page, pageSize int) ([]*Message, int, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, 0, err
	}
	if role != user.RoleAdmin && b.StudentID != callerID && b.TutorID != callerID {
		return nil, 0, ErrPermissionDenied
	}
	return s.repo.ListByBooking(ctx, bookingID, page, pageSize)
}

// publish is best-effort: the message is stored either way.
func (s *service) publish(ctx context.Context, m *Message) {
	if err := s.publisher.Publish(ctx, feed.MessageChannel(m.BookingID), newEvent(m)); err != nil {
		metrics.IncSideEffectFailed("feed_publish")
		s.logger.Warn().Err(err).Str("booking_id", m.BookingID).Msg("failed to publish message insert")
	}
}
