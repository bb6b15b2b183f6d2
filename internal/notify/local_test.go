package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingSink struct {
	mu        sync.Mutex
	delivered []Reminder
}

func (s *recordingSink) Deliver(_ context.Context, r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, r)
	return nil
}

func (s *recordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func newTestLocal(now time.Time) (*Local, *fakeClock, *recordingSink, *metrics.Metrics) {
	clock := &fakeClock{now: now}
	sink := &recordingSink{}
	m := metrics.Discard()
	l := NewLocal(LocalOptions{
		Permitted: true,
		Interval:  time.Hour,
		Sink:      sink,
		Now:       clock.Now,
	}, logger.Nop(), m)
	return l, clock, sink, m
}

func TestScheduleDailyLaterToday(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	l, _, _, _ := newTestLocal(now)

	require.NoError(t, l.ScheduleDaily(ctx, "09:00"))

	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, DailyReminderID, pending[0].ID)
	assert.True(t, pending[0].Repeats)
	assert.Equal(t, time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC), pending[0].At)
}

func TestScheduleDailyAlreadyPassedMovesToTomorrow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)
	l, _, _, _ := newTestLocal(now)

	require.NoError(t, l.ScheduleDaily(ctx, "09:00"))
	require.NoError(t, l.ScheduleDaily(ctx, "09:30"))

	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1, "daily reminder must be replaced, not duplicated")
	assert.Equal(t, time.Date(2024, time.June, 11, 9, 30, 0, 0, time.UTC), pending[0].At)
}

func TestScheduleDailyRejectsBadTime(t *testing.T) {
	l, _, _, _ := newTestLocal(time.Now())
	err := l.ScheduleDaily(context.Background(), "9am")
	assert.ErrorIs(t, err, domain.ErrInvalidReminderTime)
}

func TestScheduleForEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	l, _, _, m := newTestLocal(now)

	event := domain.Event{
		ID:           "e-1",
		ClientName:   "Ava",
		EventType:    domain.EventMeeting,
		ReminderDate: time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC),
		ReminderTime: "15:00",
	}

	ok, err := l.ScheduleForEvent(ctx, event)
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, EventReminderID("e-1"), pending[0].ID)
	assert.Equal(t, time.Date(2024, time.June, 12, 14, 0, 0, 0, time.UTC), pending[0].At)
	assert.Equal(t, "Meeting Reminder", pending[0].Title)
	assert.Equal(t, "Meeting with Ava today", pending[0].Body)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemindersScheduled.WithLabelValues("event")))
}

func TestScheduleForEventInPastSchedulesNothing(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	l, _, _, _ := newTestLocal(now)

	// Reminder would be at 07:30, already gone.
	event := domain.Event{ID: "e", ReminderDate: time.Date(2024, time.June, 10, 8, 30, 0, 0, time.UTC)}
	ok, err := l.ScheduleForEvent(ctx, event)
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCancelForEventAndCancelAll(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	l, _, _, _ := newTestLocal(now)
	future := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.ScheduleDaily(ctx, "09:00"))
	_, err := l.ScheduleForEvent(ctx, domain.Event{ID: "a", ReminderDate: future})
	require.NoError(t, err)
	_, err = l.ScheduleForEvent(ctx, domain.Event{ID: "b", ReminderDate: future})
	require.NoError(t, err)

	require.NoError(t, l.CancelForEvent(ctx, "a"))
	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, l.CancelAll(ctx))
	pending, err = l.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatchFiresDueRemindersAndRearmsDaily(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	l, clock, sink, m := newTestLocal(now)

	require.NoError(t, l.ScheduleDaily(ctx, "09:00"))
	_, err := l.ScheduleForEvent(ctx, domain.Event{
		ID: "e", EventType: domain.EventPromise, ClientName: "Ava",
		ReminderDate: time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, l.Dispatch(ctx))

	clock.Set(time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, 2, l.Dispatch(ctx))
	assert.Equal(t, 2, sink.Len())

	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, DailyReminderID, pending[0].ID)
	assert.Equal(t, time.Date(2024, time.June, 11, 9, 0, 0, 0, time.UTC), pending[0].At)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemindersFired.WithLabelValues("daily")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemindersFired.WithLabelValues("event")))
}

func TestStartStop(t *testing.T) {
	l, _, _, _ := newTestLocal(time.Now())
	require.NoError(t, l.Start(context.Background()))
	l.Stop()
	l.Stop()
}

func TestTriggerCoalesces(t *testing.T) {
	l, _, _, _ := newTestLocal(time.Now())
	assert.True(t, l.Trigger())
	assert.False(t, l.Trigger())
}

func TestTriggerDispatchesImmediately(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	l, clock, sink, _ := newTestLocal(now)
	ctx := context.Background()

	require.NoError(t, l.ScheduleDaily(ctx, "09:00"))
	require.NoError(t, l.Start(ctx))
	defer l.Stop()

	clock.Set(now.Add(2 * time.Hour))
	require.True(t, l.Trigger())
	assert.Eventually(t, func() bool { return sink.Len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestEventReminderIDRange(t *testing.T) {
	for _, id := range []string{"", "a", "5f0e8d9c-1111-4c1e-9a55-000000000000", "1717171717171"} {
		got := EventReminderID(id)
		assert.GreaterOrEqual(t, got, EventIDOffset)
		assert.Less(t, got, EventIDOffset+EventIDSpace)
		assert.NotEqual(t, DailyReminderID, got)
	}
	assert.Equal(t, EventReminderID("same"), EventReminderID("same"))
}

// collidingEventIDs returns two distinct event ids sharing one reminder id.
func collidingEventIDs(t *testing.T) (string, string) {
	t.Helper()
	seen := make(map[int]string, EventIDSpace)
	for i := 0; i <= EventIDSpace; i++ {
		id := fmt.Sprintf("event-%d", i)
		n := EventReminderID(id)
		if other, ok := seen[n]; ok {
			return other, id
		}
		seen[n] = id
	}
	t.Fatal("no colliding event ids found")
	return "", ""
}

func TestEventRemindersWithSharedIDStayIndependent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	l, clock, sink, _ := newTestLocal(now)
	a, b := collidingEventIDs(t)
	require.Equal(t, EventReminderID(a), EventReminderID(b))

	future := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	okA, err := l.ScheduleForEvent(ctx, domain.Event{ID: a, ClientName: "Ava", ReminderDate: future})
	require.NoError(t, err)
	okB, err := l.ScheduleForEvent(ctx, domain.Event{ID: b, ClientName: "Ben", ReminderDate: future})
	require.NoError(t, err)
	require.True(t, okA)
	require.True(t, okB)

	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, l.CancelForEvent(ctx, b))
	pending, err = l.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a, pending[0].EventID)

	clock.Set(future)
	assert.Equal(t, 1, l.Dispatch(ctx))
	require.Equal(t, 1, sink.Len())
	assert.Equal(t, a, sink.delivered[0].EventID)
}

func TestEventMessage(t *testing.T) {
	tests := []struct {
		typ   domain.EventType
		title string
		body  string
	}{
		{domain.EventBirthday, "Birthday Reminder", "Ava's birthday is today"},
		{domain.EventCelebration, "Celebration Reminder", "Celebration with Ava today"},
		{domain.EventMeeting, "Meeting Reminder", "Meeting with Ava today"},
		{domain.EventPromise, "Promise Follow-up", "Remember your commitment to Ava"},
		{domain.EventOther, "Upcoming Reminder", "Reminder for Ava: Call back"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			title, body := EventMessage(domain.Event{EventType: tt.typ, ClientName: "Ava", Description: "Call back"})
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.body, body)
		})
	}
}
