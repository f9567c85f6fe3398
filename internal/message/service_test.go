package message

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicktutor/quicktutor-backend/internal/booking"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

type fakeRepo struct {
	messages []*Message
	seq      int
}

func (r *fakeRepo) Create(_ context.Context, m *Message) error {
	r.seq++
	m.ID = fmt.Sprintf("msg-%d", r.seq)
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeRepo) ListByBooking(_ context.Context, bookingID string, _, _ int) ([]*Message, int, error) {
	var out []*Message
	for _, m := range r.messages {
		if m.BookingID == bookingID {
			out = append(out, m)
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

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

func newTestService(b *booking.Booking) (Service, *fakeRepo) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeBookings{booking: b}, noopPublisher{}, zerolog.Nop())
	return svc, repo
}

func liveBooking(status booking.Status) *booking.Booking {
	return &booking.Booking{
		ID:        "booking-1",
		StudentID: "student-1",
		TutorID:   "tutor-1",
		Status:    status,
	}
}

func TestAppend(t *testing.T) {
	svc, repo := newTestService(liveBooking(booking.StatusAccepted))
	ctx := context.Background()

	m, err := svc.Append(ctx, "booking-1", "student-1", "hello!")
	require.NoError(t, err)
	assert.Equal(t, "hello!", m.Content)
	assert.False(t, m.IsSystem)
	require.NotNil(t, m.SenderID)
	assert.Equal(t, "student-1", *m.SenderID)
	assert.Len(t, repo.messages, 1)
}

func TestAppendOutsider(t *testing.T) {
	svc, _ := newTestService(liveBooking(booking.StatusAccepted))

	_, err := svc.Append(context.Background(), "booking-1", "student-2", "hello!")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAppendClosedChat(t *testing.T) {
	for _, status := range []booking.Status{
		booking.StatusPending, booking.StatusCompleted, booking.StatusCancelled, booking.StatusRejected,
	} {
		svc, _ := newTestService(liveBooking(status))
		_, err := svc.Append(context.Background(), "booking-1", "student-1", "hello!")
		assert.ErrorIs(t, err, ErrChatClosed, "status %s", status)
	}
}

func TestAppendEmpty(t *testing.T) {
	svc, _ := newTestService(liveBooking(booking.StatusInProgress))

	_, err := svc.Append(context.Background(), "booking-1", "student-1", "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestAppendSystemBypassesGate(t *testing.T) {
	// The closing line lands after the booking is already completed.
	svc, repo := newTestService(liveBooking(booking.StatusCompleted))

	err := svc.AppendSystem(context.Background(), "booking-1", "Class has ended.")
	require.NoError(t, err)
	require.Len(t, repo.messages, 1)
	assert.True(t, repo.messages[0].IsSystem)
	assert.Nil(t, repo.messages[0].SenderID)
}

func TestList(t *testing.T) {
	svc, _ := newTestService(liveBooking(booking.StatusInProgress))
	ctx := context.Background()

	_, err := svc.Append(ctx, "booking-1", "student-1", "first")
	require.NoError(t, err)
	_, err = svc.Append(ctx, "booking-1", "tutor-1", "second")
	require.NoError(t, err)

	messages, total, err := svc.List(ctx, "booking-1", "tutor-1", user.RoleTutor, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, messages, 2)

	// History stays readable to admins, closed to outsiders.
	_, _, err = svc.List(ctx, "booking-1", "admin-1", user.RoleAdmin, 1, 50)
	require.NoError(t, err)
	_, _, err = svc.List(ctx, "booking-1", "student-9", user.RoleStudent, 1, 50)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
