package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{StatusPending, StatusAccepted},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusAccepted, StatusInProgress},
		{StatusAccepted, StatusCancelled},
		{StatusInProgress, StatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to Status
	}{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusAccepted, StatusRejected},
		{StatusInProgress, StatusCancelled},
		{StatusInProgress, StatusRejected},
		{StatusCompleted, StatusInProgress},
		{StatusCancelled, StatusPending},
		{StatusRejected, StatusAccepted},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.True(t, IsTerminal(StatusRejected))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusAccepted))
	assert.False(t, IsTerminal(StatusInProgress))
}

func TestPriceFor(t *testing.T) {
	// RM50/hour for a full hour: RM50 total, RM5 fee, RM45 earnings.
	q := PriceFor(5000, 60)
	assert.Equal(t, int64(5000), q.TotalAmountCents)
	assert.Equal(t, int64(500), q.PlatformFeeCents)
	assert.Equal(t, int64(4500), q.TutorEarningsCents)

	// Half-hour session is prorated.
	q = PriceFor(5000, 30)
	assert.Equal(t, int64(2500), q.TotalAmountCents)
	assert.Equal(t, int64(250), q.PlatformFeeCents)
	assert.Equal(t, int64(2250), q.TutorEarningsCents)

	// Earnings plus fee always reconstruct the total.
	q = PriceFor(3333, 45)
	assert.Equal(t, q.TotalAmountCents, q.PlatformFeeCents+q.TutorEarningsCents)
}

func TestTimerExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b := &Booking{
		Status:          StatusInProgress,
		StartTime:       &start,
		DurationMinutes: 60,
	}

	assert.False(t, b.TimerExpired(start.Add(59*time.Minute)))
	assert.True(t, b.TimerExpired(start.Add(60*time.Minute)))
	assert.True(t, b.TimerExpired(start.Add(61*time.Minute)))

	// No start time means no timer.
	assert.False(t, (&Booking{DurationMinutes: 60}).TimerExpired(start))
}

func TestEndable(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b := &Booking{
		Status:          StatusInProgress,
		StartTime:       &start,
		DurationMinutes: 60,
	}

	// Mid-session without an approved request: not endable.
	assert.False(t, b.Endable(start.Add(30*time.Minute)))

	// A pending but unapproved request does not unlock the end.
	b.EarlyEndRequested = true
	assert.False(t, b.Endable(start.Add(30*time.Minute)))

	// Approval unlocks it immediately.
	b.EarlyEndApproved = true
	assert.True(t, b.Endable(start.Add(30*time.Minute)))

	// Timer expiry unlocks it with no negotiation at all.
	b.EarlyEndRequested = false
	b.EarlyEndApproved = false
	assert.True(t, b.Endable(start.Add(time.Hour)))

	// Status gates everything.
	b.Status = StatusCompleted
	assert.False(t, b.Endable(start.Add(2*time.Hour)))
}
