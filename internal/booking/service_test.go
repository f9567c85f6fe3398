package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicktutor/quicktutor-backend/internal/notification"
	"github.com/quicktutor/quicktutor-backend/internal/tutor"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

// fakeRepo mirrors the conditional-update semantics of the pgx
// repository in memory: a transition only happens when the row still
// satisfies the operation's WHERE clause, and a miss changes nothing.
type fakeRepo struct {
	bookings map[string]*Booking
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[string]*Booking)}
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	b.Status = StatusPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*Booking, int, error) {
	out := make([]*Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		copied := *b
		out = append(out, &copied)
	}
	return out, len(out), nil
}

// update applies mutate only when the stored row satisfies match.
func (r *fakeRepo) update(id string, match func(*Booking) bool, mutate func(*Booking)) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok || !match(b) {
		return nil, errNoMatch
	}
	mutate(b)
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) Accept(_ context.Context, id, tutorID string) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool { return b.TutorID == tutorID && b.Status == StatusPending },
		func(b *Booking) { b.Status = StatusAccepted })
}

func (r *fakeRepo) Reject(_ context.Context, id, tutorID string) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool { return b.TutorID == tutorID && b.Status == StatusPending },
		func(b *Booking) { b.Status = StatusRejected })
}

func (r *fakeRepo) Cancel(_ context.Context, id, studentID string) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool {
			return b.StudentID == studentID && (b.Status == StatusPending || b.Status == StatusAccepted)
		},
		func(b *Booking) { b.Status = StatusCancelled })
}

func (r *fakeRepo) Start(_ context.Context, id, tutorID string, at time.Time) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool { return b.TutorID == tutorID && b.Status == StatusAccepted },
		func(b *Booking) {
			b.Status = StatusInProgress
			b.StartTime = &at
		})
}

func (r *fakeRepo) RequestEarlyEnd(_ context.Context, id, studentID string, at time.Time) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool {
			return b.StudentID == studentID && b.Status == StatusInProgress &&
				!b.EarlyEndRequested && !b.TimerExpired(at)
		},
		func(b *Booking) {
			b.EarlyEndRequested = true
			b.EarlyEndRequestedAt = &at
			b.EarlyEndApproved = false
		})
}

func (r *fakeRepo) ApproveEarlyEnd(_ context.Context, id, tutorID string) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool {
			return b.TutorID == tutorID && b.Status == StatusInProgress && b.EarlyEndRequested
		},
		func(b *Booking) { b.EarlyEndApproved = true })
}

func (r *fakeRepo) RejectEarlyEnd(_ context.Context, id, tutorID string) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool { return b.TutorID == tutorID && b.Status == StatusInProgress },
		func(b *Booking) {
			b.EarlyEndRequested = false
			b.EarlyEndRequestedAt = nil
			b.EarlyEndApproved = false
		})
}

func (r *fakeRepo) Complete(_ context.Context, id, tutorID string, at time.Time) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool { return b.TutorID == tutorID && b.Endable(at) },
		func(b *Booking) {
			b.Status = StatusCompleted
			b.EndTime = &at
			b.EarlyEndRequested = false
			b.EarlyEndRequestedAt = nil
			b.EarlyEndApproved = false
		})
}

func (r *fakeRepo) ForceStatus(_ context.Context, id string, from, to Status, at time.Time) (*Booking, error) {
	return r.update(id,
		func(b *Booking) bool { return b.Status == from },
		func(b *Booking) {
			b.Status = to
			switch to {
			case StatusInProgress:
				if b.StartTime == nil {
					b.StartTime = &at
				}
			case StatusCompleted:
				if b.EndTime == nil {
					b.EndTime = &at
				}
				b.EarlyEndRequested = false
				b.EarlyEndRequestedAt = nil
				b.EarlyEndApproved = false
			}
		})
}

func (r *fakeRepo) CountByStatus(_ context.Context) (map[Status]int, error) {
	counts := make(map[Status]int)
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

type stubTutors struct {
	tutor.Service
	profile *tutor.Profile
	err     error
}

func (s *stubTutors) GetApproved(_ context.Context, _ string) (*tutor.Profile, error) {
	return s.profile, s.err
}

type stubMessenger struct {
	appended []string
	err      error
}

func (s *stubMessenger) AppendSystem(_ context.Context, _, content string) error {
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, content)
	return nil
}

type stubNotifier struct {
	notification.Service
	sent []sentNotification
	err  error
}

type sentNotification struct {
	userID string
	typ    string
}

func (s *stubNotifier) Notify(_ context.Context, userID, typ string, _ map[string]any) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentNotification{userID: userID, typ: typ})
	return nil
}

type stubPublisher struct {
	published []string
	err       error
}

func (s *stubPublisher) Publish(_ context.Context, channel string, _ any) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, channel)
	return nil
}

type fixture struct {
	svc       *service
	repo      *fakeRepo
	messenger *stubMessenger
	notifier  *stubNotifier
	publisher *stubPublisher
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newFakeRepo(),
		messenger: &stubMessenger{},
		notifier:  &stubNotifier{},
		publisher: &stubPublisher{},
		clock:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.svc = &service{
		repo:      f.repo,
		tutors:    &stubTutors{profile: &tutor.Profile{UserID: "tutor-1", HourlyRateCents: 6000}},
		messenger: f.messenger,
		notifier:  f.notifier,
		publisher: f.publisher,
		logger:    zerolog.Nop(),
		now:       func() time.Time { return f.clock },
	}
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) create(t *testing.T) *Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), "student-1", CreateRequest{
		TutorID:         "tutor-1",
		Subject:         "English",
		GradeLevel:      "Standard 3",
		Language:        "en",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) startedBooking(t *testing.T) *Booking {
	t.Helper()
	b := f.create(t)
	_, err := f.svc.Accept(context.Background(), b.ID, "tutor-1")
	require.NoError(t, err)
	b, err = f.svc.StartClass(context.Background(), b.ID, "tutor-1")
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, int64(6000), b.TotalAmountCents)
	assert.Equal(t, int64(600), b.PlatformFeeCents)
	assert.Equal(t, int64(5400), b.TutorEarningsCents)
	assert.Nil(t, b.StartTime)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "tutor-1", f.notifier.sent[0].userID)
	assert.Equal(t, notification.TypeBookingRequest, f.notifier.sent[0].typ)
	assert.Len(t, f.publisher.published, 1)

	_, err := f.svc.Create(ctx, "student-1", CreateRequest{TutorID: "tutor-1", DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestCreateUnapprovedTutor(t *testing.T) {
	f := newFixture(t)
	f.svc.tutors = &stubTutors{err: tutor.ErrNotApproved}

	_, err := f.svc.Create(context.Background(), "student-1", CreateRequest{
		TutorID: "tutor-1", Subject: "English", GradeLevel: "Standard 3", Language: "en", DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, tutor.ErrNotApproved)
}

func TestAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	got, err := f.svc.Accept(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)

	assert.Contains(t, f.messenger.appended, msgBookingAccepted)
	assert.Equal(t, sentNotification{userID: "student-1", typ: notification.TypeBookingAccepted}, f.notifier.sent[len(f.notifier.sent)-1])
}

func TestAcceptWrongTutor(t *testing.T) {
	f := newFixture(t)
	b := f.create(t)

	_, err := f.svc.Accept(context.Background(), b.ID, "tutor-2")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAcceptMissingBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Accept(context.Background(), "no-such-booking", "tutor-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptAfterCancelIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	_, err := f.svc.Cancel(ctx, b.ID, "student-1")
	require.NoError(t, err)

	// The student won the race; the tutor's accept must change nothing.
	_, err = f.svc.Accept(ctx, b.ID, "tutor-1")
	assert.ErrorIs(t, err, ErrStateConflict)

	cur, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cur.Status)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Cancellable while pending.
	b := f.create(t)
	got, err := f.svc.Cancel(ctx, b.ID, "student-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, sentNotification{userID: "tutor-1", typ: notification.TypeClassCancelled}, f.notifier.sent[len(f.notifier.sent)-1])

	// Cancellable while accepted.
	b = f.create(t)
	_, err = f.svc.Accept(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, b.ID, "student-1")
	require.NoError(t, err)

	// Not cancellable once the class is live.
	b = f.startedBooking(t)
	_, err = f.svc.Cancel(ctx, b.ID, "student-1")
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestStartClass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	// Cannot start before accepting.
	_, err := f.svc.StartClass(ctx, b.ID, "tutor-1")
	assert.ErrorIs(t, err, ErrStateConflict)

	_, err = f.svc.Accept(ctx, b.ID, "tutor-1")
	require.NoError(t, err)

	got, err := f.svc.StartClass(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, f.clock, *got.StartTime)
}

func TestEndClassRequiresTimerOrApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.startedBooking(t)

	// Thirty minutes into a sixty-minute class: not endable.
	f.advance(30 * time.Minute)
	_, err := f.svc.EndClass(ctx, b.ID, "tutor-1")
	assert.ErrorIs(t, err, ErrSessionNotEndable)

	// Once the timer runs out the tutor can end with no negotiation.
	f.advance(30 * time.Minute)
	got, err := f.svc.EndClass(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, f.clock, *got.EndTime)
	assert.Contains(t, f.messenger.appended, msgClassEnded)
}

func TestNoAutoCompletionOnExpiry(t *testing.T) {
	f := newFixture(t)
	b := f.startedBooking(t)

	// Hours past the deadline the class is still live: only an
	// explicit end call by the tutor completes it.
	f.advance(5 * time.Hour)
	cur, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, cur.Status)
}

func TestEarlyEndNegotiation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.startedBooking(t)

	f.advance(20 * time.Minute)
	got, err := f.svc.RequestEarlyEnd(ctx, b.ID, "student-1")
	require.NoError(t, err)
	assert.True(t, got.EarlyEndRequested)
	assert.False(t, got.EarlyEndApproved)
	require.NotNil(t, got.EarlyEndRequestedAt)
	assert.Equal(t, f.clock, *got.EarlyEndRequestedAt)
	assert.Contains(t, f.messenger.appended, msgEarlyEndAsked)

	// Approval alone does not end the class.
	got, err = f.svc.ApproveEarlyEnd(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.True(t, got.EarlyEndApproved)
	assert.Contains(t, f.messenger.appended, msgEarlyEndOK)

	// The tutor may now end well before the timer. Ending clears the
	// negotiation, so the completed row carries no leftover request.
	f.advance(10 * time.Minute)
	got, err = f.svc.EndClass(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, f.clock, *got.EndTime)
	assert.False(t, got.EarlyEndRequested)
	assert.Nil(t, got.EarlyEndRequestedAt)
	assert.False(t, got.EarlyEndApproved)
}

func TestRequestEarlyEndTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.startedBooking(t)

	f.advance(10 * time.Minute)
	_, err := f.svc.RequestEarlyEnd(ctx, b.ID, "student-1")
	require.NoError(t, err)

	_, err = f.svc.RequestEarlyEnd(ctx, b.ID, "student-1")
	assert.ErrorIs(t, err, ErrEarlyEndPending)
}

func TestRequestEarlyEndAfterExpiry(t *testing.T) {
	f := newFixture(t)
	b := f.startedBooking(t)

	f.advance(61 * time.Minute)
	_, err := f.svc.RequestEarlyEnd(context.Background(), b.ID, "student-1")
	assert.ErrorIs(t, err, ErrTimerExpired)
}

func TestRejectEarlyEndResetsNegotiation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.startedBooking(t)

	f.advance(10 * time.Minute)
	_, err := f.svc.RequestEarlyEnd(ctx, b.ID, "student-1")
	require.NoError(t, err)
	_, err = f.svc.ApproveEarlyEnd(ctx, b.ID, "tutor-1")
	require.NoError(t, err)

	// Rejection after approval revokes it: the full negotiation resets.
	got, err := f.svc.RejectEarlyEnd(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	assert.False(t, got.EarlyEndRequested)
	assert.Nil(t, got.EarlyEndRequestedAt)
	assert.False(t, got.EarlyEndApproved)
	assert.Contains(t, f.messenger.appended, msgEarlyEndNo)

	// The end is locked again.
	_, err = f.svc.EndClass(ctx, b.ID, "tutor-1")
	assert.ErrorIs(t, err, ErrSessionNotEndable)

	// Rejecting with nothing pending is an idempotent no-op.
	_, err = f.svc.RejectEarlyEnd(ctx, b.ID, "tutor-1")
	require.NoError(t, err)

	// The student may open a fresh request.
	_, err = f.svc.RequestEarlyEnd(ctx, b.ID, "student-1")
	require.NoError(t, err)
}

func TestApproveWithoutRequest(t *testing.T) {
	f := newFixture(t)
	b := f.startedBooking(t)

	_, err := f.svc.ApproveEarlyEnd(context.Background(), b.ID, "tutor-1")
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestSideEffectFailuresDoNotRollBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	f.messenger.err = errors.New("chat store down")
	f.notifier.err = errors.New("notification store down")
	f.publisher.err = errors.New("redis down")

	got, err := f.svc.Accept(ctx, b.ID, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)

	cur, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, cur.Status)
}

func TestGetForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	_, err := f.svc.GetForUser(ctx, b.ID, "student-1", user.RoleStudent)
	require.NoError(t, err)
	_, err = f.svc.GetForUser(ctx, b.ID, "tutor-1", user.RoleTutor)
	require.NoError(t, err)
	_, err = f.svc.GetForUser(ctx, b.ID, "admin-1", user.RoleAdmin)
	require.NoError(t, err)

	_, err = f.svc.GetForUser(ctx, b.ID, "student-2", user.RoleStudent)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestForceStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	got, err := f.svc.ForceStatus(ctx, b.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	_, err = f.svc.ForceStatus(ctx, b.ID, Status("bogus"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// The override still follows the transitions table.
	_, err = f.svc.ForceStatus(ctx, b.ID, StatusInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.ForceStatus(ctx, "missing", StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForceStatusWritesImpliedTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	_, err := f.svc.Accept(ctx, b.ID, "tutor-1")
	require.NoError(t, err)

	// Forcing into in_progress stands in for a start the tutor never
	// recorded, so it must set start_time like a real start would.
	got, err := f.svc.ForceStatus(ctx, b.ID, StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, f.clock, *got.StartTime)

	f.advance(45 * time.Minute)
	got, err = f.svc.ForceStatus(ctx, b.ID, StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, f.clock, *got.EndTime)
	assert.False(t, got.EarlyEndRequested)
	assert.False(t, got.EarlyEndApproved)
}
