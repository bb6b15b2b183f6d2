// Package crm holds the single source of truth for clients, events and
// notification preferences. Every mutation is persisted before it becomes
// visible; a failed write leaves the store unchanged.
package crm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
	"github.com/MrSnakeDoc/memarch/internal/notify"
	"github.com/MrSnakeDoc/memarch/internal/persist"
)

// Announcer receives the confirmation shown to the user after a mutation.
type Announcer interface {
	Success(msg string)
}

// Option customizes a Store.
type Option func(*Store)

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Store owns the clients, events and preferences.
type Store struct {
	mu      sync.RWMutex
	clients []domain.Client
	events  []domain.Event
	prefs   domain.Preferences

	persist   *persist.Adapter
	scheduler notify.Scheduler
	notices   Announcer
	logger    logger.Logger
	metrics   *metrics.Metrics
	newID     func() string
}

// New creates a Store. Call Open before use.
func New(
	adapter *persist.Adapter,
	scheduler notify.Scheduler,
	notices Announcer,
	log logger.Logger,
	m *metrics.Metrics,
	opts ...Option,
) *Store {
	s := &Store{
		clients:   []domain.Client{},
		events:    []domain.Event{},
		prefs:     domain.DefaultPreferences(),
		persist:   adapter,
		scheduler: scheduler,
		notices:   notices,
		logger:    log,
		metrics:   m,
		newID:     domain.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads persisted state and brings the scheduler in line with it.
// When the platform denies permission, notifications are switched off.
func (s *Store) Open(ctx context.Context) error {
	snap, err := s.persist.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients = snap.Clients
	s.events = snap.Events
	s.prefs = snap.Preferences

	s.logger.Info("store loaded",
		logger.Int("clients", len(s.clients)),
		logger.Int("events", len(s.events)),
		logger.Bool("notifications_enabled", s.prefs.NotificationsEnabled),
		logger.String("reminder_time", s.prefs.ReminderTime))

	return s.reconcileLocked(ctx)
}

// reconcileLocked checks permission and re-arms every reminder.
func (s *Store) reconcileLocked(ctx context.Context) error {
	granted, err := s.scheduler.RequestPermission(ctx)
	if err != nil {
		s.logger.Warn("notification permission request failed", logger.Error(err))
		granted = false
	}

	if !granted && s.prefs.NotificationsEnabled {
		next := s.prefs
		next.NotificationsEnabled = false
		if err := s.persist.SavePreferences(ctx, next); err != nil {
			return fmt.Errorf("failed to disable notifications: %w", err)
		}
		s.prefs = next
		s.logger.Warn("notification permission denied, notifications disabled")
	}

	if !s.prefs.NotificationsEnabled {
		return nil
	}
	if err := s.armLocked(ctx); err != nil {
		s.logger.Warn("failed to schedule reminders", logger.Error(err))
	}
	return nil
}

// armLocked schedules the daily reminder and one reminder per pending event.
func (s *Store) armLocked(ctx context.Context) error {
	if err := s.scheduler.ScheduleDaily(ctx, s.prefs.ReminderTime); err != nil {
		return fmt.Errorf("failed to schedule daily reminder: %w", err)
	}
	for _, e := range s.events {
		if e.IsPending() {
			s.scheduleEventLocked(ctx, e)
		}
	}
	return nil
}

// scheduleEventLocked is best effort: the mutation already succeeded.
func (s *Store) scheduleEventLocked(ctx context.Context, e domain.Event) {
	if !s.prefs.NotificationsEnabled || !e.IsPending() {
		return
	}
	scheduled, err := s.scheduler.ScheduleForEvent(ctx, e)
	if err != nil {
		s.logger.Warn("failed to schedule event reminder",
			logger.String("event_id", e.ID),
			logger.Error(err))
		return
	}
	if !scheduled {
		s.logger.Debug("event reminder time already passed",
			logger.String("event_id", e.ID))
	}
}

func (s *Store) cancelEventLocked(ctx context.Context, id string) {
	if err := s.scheduler.CancelForEvent(ctx, id); err != nil {
		s.logger.Warn("failed to cancel event reminder",
			logger.String("event_id", id),
			logger.Error(err))
	}
}

func (s *Store) announce(format string, args ...any) {
	if s.notices != nil {
		s.notices.Success(fmt.Sprintf(format, args...))
	}
}

func (s *Store) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(op, err)
	}
	if err != nil {
		s.logger.Error("store mutation failed", logger.String("op", op), logger.Error(err))
	}
}

// ─────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────

// Clients returns a copy of the clients in insertion order.
func (s *Store) Clients() []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.clients)
}

// Events returns a copy of the events in insertion order.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.events)
}

// Client looks up one client.
func (s *Store) Client(id string) (domain.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOfClient(s.clients, id); i >= 0 {
		return s.clients[i], true
	}
	return domain.Client{}, false
}

// Event looks up one event.
func (s *Store) Event(id string) (domain.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOfEvent(s.events, id); i >= 0 {
		return s.events[i], true
	}
	return domain.Event{}, false
}

// Preferences returns the current notification settings.
func (s *Store) Preferences() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() persist.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return persist.Snapshot{
		Clients:     clone(s.clients),
		Events:      clone(s.events),
		Preferences: s.prefs,
	}
}

// ─────────────────────────────────────────────────────────────────
// Reset
// ─────────────────────────────────────────────────────────────────

// Reset erases every client, event and preference, then re-arms
// notifications from the defaults.
func (s *Store) Reset(ctx context.Context) (err error) {
	defer func() { s.observe("reset", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist.Reset(ctx); err != nil {
		return err
	}

	empty := persist.EmptySnapshot()
	s.clients = empty.Clients
	s.events = empty.Events
	s.prefs = empty.Preferences

	if err := s.scheduler.CancelAll(ctx); err != nil {
		s.logger.Warn("failed to cancel reminders on reset", logger.Error(err))
	}
	if err := s.reconcileLocked(ctx); err != nil {
		return err
	}

	s.announce("Application data reset")
	return nil
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func indexOfClient(clients []domain.Client, id string) int {
	for i := range clients {
		if clients[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfEvent(events []domain.Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

// errRollback joins the original failure with a failed rollback write.
func errRollback(cause, rollback error) error {
	if rollback == nil {
		return cause
	}
	return errors.Join(cause, fmt.Errorf("rollback failed: %w", rollback))
}
