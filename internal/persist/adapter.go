// Package persist maps the domain collections onto four named entries of a
// storage.KV, JSON encoded.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
	"github.com/MrSnakeDoc/memarch/internal/storage"
)

// Entry names in the key-value store.
const (
	KeyClients              = "clients"
	KeyEvents               = "events"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeyReminderTime         = "reminderTime"
)

// AllKeys lists every entry the adapter owns.
var AllKeys = []string{KeyClients, KeyEvents, KeyNotificationsEnabled, KeyReminderTime}

// Snapshot is the full persisted state.
type Snapshot struct {
	Clients     []domain.Client
	Events      []domain.Event
	Preferences domain.Preferences
}

// EmptySnapshot is the state of a fresh installation.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Clients:     []domain.Client{},
		Events:      []domain.Event{},
		Preferences: domain.DefaultPreferences(),
	}
}

// Adapter reads and writes Snapshots.
type Adapter struct {
	kv      storage.KV
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewAdapter creates an adapter over kv.
func NewAdapter(kv storage.KV, log logger.Logger, m *metrics.Metrics) *Adapter {
	return &Adapter{kv: kv, logger: log, metrics: m}
}

// Load reads the whole state. A missing or malformed entry falls back to its
// default and is logged; only backend failures are returned.
func (a *Adapter) Load(ctx context.Context) (Snapshot, error) {
	def := EmptySnapshot()

	clients, err := load(ctx, a, KeyClients, def.Clients)
	if err != nil {
		return Snapshot{}, err
	}
	events, err := load(ctx, a, KeyEvents, def.Events)
	if err != nil {
		return Snapshot{}, err
	}
	enabled, err := load(ctx, a, KeyNotificationsEnabled, def.Preferences.NotificationsEnabled)
	if err != nil {
		return Snapshot{}, err
	}
	reminderTime, err := load(ctx, a, KeyReminderTime, def.Preferences.ReminderTime)
	if err != nil {
		return Snapshot{}, err
	}
	if _, err := domain.ParseClock(reminderTime); err != nil {
		a.recovered(KeyReminderTime, err)
		reminderTime = domain.DefaultReminderTime
	}

	return Snapshot{
		Clients: nonNilClients(clients),
		Events:  nonNilEvents(events),
		Preferences: domain.Preferences{
			NotificationsEnabled: enabled,
			ReminderTime:         reminderTime,
		},
	}, nil
}

// load decodes one entry, returning def when it is missing, null or malformed.
func load[T any](ctx context.Context, a *Adapter, key string, def T) (T, error) {
	raw, err := a.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return def, nil
		}
		var zero T
		return zero, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		a.recovered(key, err)
		return def, nil
	}
	return v, nil
}

func (a *Adapter) recovered(key string, err error) {
	a.logger.Warn("malformed persisted entry, using default",
		logger.String("key", key),
		logger.Error(err))
	if a.metrics != nil {
		a.metrics.LoadRecoveries.WithLabelValues(key).Inc()
	}
}

// SaveClients persists the client collection.
func (a *Adapter) SaveClients(ctx context.Context, clients []domain.Client) error {
	return a.write(ctx, map[string]any{KeyClients: nonNilClients(clients)})
}

// SaveEvents persists the event collection.
func (a *Adapter) SaveEvents(ctx context.Context, events []domain.Event) error {
	return a.write(ctx, map[string]any{KeyEvents: nonNilEvents(events)})
}

// SaveClientsAndEvents persists both collections in one atomic write.
func (a *Adapter) SaveClientsAndEvents(ctx context.Context, clients []domain.Client, events []domain.Event) error {
	return a.write(ctx, map[string]any{
		KeyClients: nonNilClients(clients),
		KeyEvents:  nonNilEvents(events),
	})
}

// SavePreferences persists both preference entries.
func (a *Adapter) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	return a.write(ctx, map[string]any{
		KeyNotificationsEnabled: prefs.NotificationsEnabled,
		KeyReminderTime:         prefs.ReminderTime,
	})
}

// SaveAll persists the whole snapshot atomically.
func (a *Adapter) SaveAll(ctx context.Context, snap Snapshot) error {
	return a.write(ctx, map[string]any{
		KeyClients:              nonNilClients(snap.Clients),
		KeyEvents:               nonNilEvents(snap.Events),
		KeyNotificationsEnabled: snap.Preferences.NotificationsEnabled,
		KeyReminderTime:         snap.Preferences.ReminderTime,
	})
}

// Reset removes every entry, so the next Load returns EmptySnapshot.
func (a *Adapter) Reset(ctx context.Context) error {
	if err := a.kv.Delete(ctx, AllKeys...); err != nil {
		return fmt.Errorf("failed to reset storage: %w", err)
	}
	return nil
}

func (a *Adapter) write(ctx context.Context, values map[string]any) error {
	start := time.Now()
	if a.metrics != nil {
		defer a.metrics.ObservePersist(start)
	}

	entries := make(map[string][]byte, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		entries[key] = data
	}

	if err := a.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("failed to persist: %w", err)
	}
	return nil
}

func nonNilClients(c []domain.Client) []domain.Client {
	if c == nil {
		return []domain.Client{}
	}
	return c
}

func nonNilEvents(e []domain.Event) []domain.Event {
	if e == nil {
		return []domain.Event{}
	}
	return e
}
