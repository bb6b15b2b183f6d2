package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
	"github.com/MrSnakeDoc/memarch/internal/storage"
)

type brokenKV struct {
	*storage.Memory
	getErr error
}

func (b *brokenKV) Get(ctx context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.Memory.Get(ctx, key)
}

func newAdapter(kv storage.KV) (*Adapter, *metrics.Metrics) {
	m := metrics.Discard()
	return NewAdapter(kv, logger.Nop(), m), m
}

func TestLoadEmptyStoreReturnsDefaults(t *testing.T) {
	a, _ := newAdapter(storage.NewMemory())

	snap, err := a.Load(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, snap.Clients)
	assert.NotNil(t, snap.Events)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Events)
	assert.True(t, snap.Preferences.NotificationsEnabled)
	assert.Equal(t, "09:00", snap.Preferences.ReminderTime)
}

func TestSaveAllThenLoadRoundTrips(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(storage.NewMemory())

	plus2 := time.FixedZone("CEST", 2*3600)
	want := Snapshot{
		Clients: []domain.Client{
			{ID: "c1", Name: "Ava", Email: "ava@example.com", PersonalFacts: "likes tea"},
			{ID: "c2", Name: "Bob", Phone: "+33 1 23"},
		},
		Events: []domain.Event{
			{
				ID: "e1", ClientID: "c1", ClientName: "Ava", EventType: domain.EventPromise,
				Description: "Send draft", ReminderDate: time.Date(2024, time.June, 10, 0, 0, 0, 0, plus2),
				ReminderTime: "14:30", Notes: "v2", Status: domain.StatusPending,
			},
			{
				ID: "e2", ClientID: "c2", ClientName: "Bob", EventType: domain.EventBirthday,
				Description: "Cake", ReminderDate: time.Date(2024, time.March, 3, 18, 45, 12, 0, time.UTC),
				Status: domain.StatusDone,
			},
		},
		Preferences: domain.Preferences{NotificationsEnabled: false, ReminderTime: "07:15"},
	}

	require.NoError(t, a.SaveAll(ctx, want))

	got, err := a.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Clients, got.Clients)
	assert.Equal(t, want.Preferences, got.Preferences)
	require.Len(t, got.Events, len(want.Events))
	for i := range want.Events {
		w, g := want.Events[i], got.Events[i]
		assert.True(t, w.ReminderDate.Equal(g.ReminderDate), "event %s date %v != %v", w.ID, w.ReminderDate, g.ReminderDate)
		w.ReminderDate, g.ReminderDate = time.Time{}, time.Time{}
		assert.Equal(t, w, g)
	}
}

func TestLoadMalformedEntriesFallBack(t *testing.T) {
	kv := storage.NewMemory()
	kv.Raw(KeyClients, []byte(`{not json`))
	kv.Raw(KeyEvents, []byte(`[{"id": 12}]`))
	kv.Raw(KeyNotificationsEnabled, []byte(`"yes"`))
	kv.Raw(KeyReminderTime, []byte(`"25:99"`))

	a, m := newAdapter(kv)
	snap, err := a.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EmptySnapshot(), snap)
	for _, key := range AllKeys {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadRecoveries.WithLabelValues(key)), key)
	}
}

func TestLoadNullCollectionsBecomeEmpty(t *testing.T) {
	kv := storage.NewMemory()
	kv.Raw(KeyClients, []byte(`null`))
	kv.Raw(KeyEvents, []byte(`null`))

	a, _ := newAdapter(kv)
	snap, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Clients)
	assert.NotNil(t, snap.Events)
}

func TestLoadNullPreferencesUseDefaults(t *testing.T) {
	kv := storage.NewMemory()
	kv.Raw(KeyNotificationsEnabled, []byte(`null`))
	kv.Raw(KeyReminderTime, []byte(` null `))

	a, m := newAdapter(kv)
	snap, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Preferences.NotificationsEnabled)
	assert.Equal(t, domain.DefaultReminderTime, snap.Preferences.ReminderTime)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LoadRecoveries.WithLabelValues(KeyNotificationsEnabled)))
}

func TestLoadBackendFailureIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	a, _ := newAdapter(&brokenKV{Memory: storage.NewMemory(), getErr: boom})

	_, err := a.Load(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestSaveNilCollectionsWritesEmptyArrays(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	a, _ := newAdapter(kv)

	require.NoError(t, a.SaveClientsAndEvents(ctx, nil, nil))

	raw, err := kv.Get(ctx, KeyClients)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = kv.Get(ctx, KeyEvents)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(storage.NewMemory())

	require.NoError(t, a.SaveClients(ctx, []domain.Client{{ID: "c1", Name: "Ava"}}))
	require.NoError(t, a.SavePreferences(ctx, domain.Preferences{ReminderTime: "10:00"}))
	require.NoError(t, a.Reset(ctx))

	snap, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, EmptySnapshot(), snap)
}
