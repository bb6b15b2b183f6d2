package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
)

// Sink receives reminders when they come due.
type Sink interface {
	Deliver(ctx context.Context, r Reminder) error
}

// LogSink delivers reminders to the log.
type LogSink struct {
	Logger logger.Logger
}

func (s LogSink) Deliver(_ context.Context, r Reminder) error {
	s.Logger.Info("🔔 reminder",
		logger.Int("id", r.ID),
		logger.String("kind", string(r.Kind)),
		logger.String("title", r.Title),
		logger.String("body", r.Body))
	return nil
}

// LocalOptions configures a Local scheduler.
type LocalOptions struct {
	Permitted bool             // answer given to RequestPermission
	Interval  time.Duration    // how often due reminders are dispatched
	Sink      Sink             // where due reminders go
	Now       func() time.Time // clock, defaults to time.Now
}

// Local is an in-process Scheduler. Pending reminders live in memory and are
// dispatched by a ticker loop started with Start.
type Local struct {
	mu        sync.Mutex
	pending   map[string]Reminder
	permitted bool
	interval  time.Duration
	sink      Sink
	now       func() time.Time
	logger    logger.Logger
	metrics   *metrics.Metrics
	stopCh    chan struct{}
	stopOnce  sync.Once
	trigger   chan struct{}
}

// NewLocal creates an idle scheduler; call Start to begin dispatching.
func NewLocal(opts LocalOptions, log logger.Logger, m *metrics.Metrics) *Local {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sink == nil {
		opts.Sink = LogSink{Logger: log}
	}
	return &Local{
		pending:   make(map[string]Reminder),
		permitted: opts.Permitted,
		interval:  opts.Interval,
		sink:      opts.Sink,
		now:       opts.Now,
		logger:    log,
		metrics:   m,
		stopCh:    make(chan struct{}),
		trigger:   make(chan struct{}, 1),
	}
}

func (l *Local) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return l.permitted, nil
}

func (l *Local) ScheduleDaily(ctx context.Context, hhmm string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clock, err := domain.ParseClock(hhmm)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	at := clock.Next(l.now())
	l.pending[dailyKey] = Reminder{
		ID:      DailyReminderID,
		Kind:    KindDaily,
		Title:   dailyTitle,
		Body:    dailyBody,
		At:      at,
		Repeats: true,
	}
	l.scheduled(KindDaily)
	l.logger.Debug("daily reminder scheduled", logger.Time("at", at))
	return nil
}

func (l *Local) CancelAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.pending)
	l.pending = make(map[string]Reminder)
	l.logger.Debug("all reminders cancelled", logger.Int("count", n))
	return nil
}

func (l *Local) ScheduleForEvent(ctx context.Context, e domain.Event) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	at := e.DueAt().Add(-EventLeadTime)

	l.mu.Lock()
	defer l.mu.Unlock()

	if at.Before(l.now()) {
		return false, nil
	}

	title, body := EventMessage(e)
	id := EventReminderID(e.ID)
	for key, r := range l.pending {
		if r.ID == id && r.EventID != e.ID {
			l.logger.Warn("event reminder id shared with another event",
				logger.Int("id", id),
				logger.String("event_id", e.ID),
				logger.String("other_event_id", r.EventID),
				logger.String("other_key", key))
			break
		}
	}
	l.pending[eventKey(e.ID)] = Reminder{
		ID:      id,
		Kind:    KindEvent,
		EventID: e.ID,
		Title:   title,
		Body:    body,
		At:      at,
	}
	l.scheduled(KindEvent)
	return true, nil
}

func (l *Local) CancelForEvent(ctx context.Context, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.pending, eventKey(eventID))
	return nil
}

func (l *Local) Pending(ctx context.Context) ([]Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Reminder, 0, len(l.pending))
	for _, r := range l.pending {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ID < out[j].ID
		}
		return out[i].At.Before(out[j].At)
	})
	return out, nil
}

// Start dispatches due reminders every interval until ctx is done or Stop is called.
func (l *Local) Start(ctx context.Context) error {
	l.Dispatch(ctx)

	ticker := time.NewTicker(l.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Dispatch(ctx)
			case <-l.trigger:
				l.logger.Info("manual reminder dispatch triggered")
				l.Dispatch(ctx)
			case <-l.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Trigger asks the running loop for an immediate dispatch. It reports false
// when a request is already queued.
func (l *Local) Trigger() bool {
	select {
	case l.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Stop ends the dispatch loop. It is safe to call more than once.
func (l *Local) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Dispatch delivers every reminder whose time has come. One-shot reminders
// are removed; the daily reminder moves to its next occurrence.
func (l *Local) Dispatch(ctx context.Context) int {
	now := l.now()

	l.mu.Lock()
	var due []Reminder
	for key, r := range l.pending {
		if r.At.After(now) {
			continue
		}
		due = append(due, r)
		if r.Repeats {
			for !r.At.After(now) {
				r.At = r.At.AddDate(0, 0, 1)
			}
			l.pending[key] = r
		} else {
			delete(l.pending, key)
		}
	}
	l.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].At.Before(due[j].At) })

	for _, r := range due {
		if err := l.sink.Deliver(ctx, r); err != nil {
			l.logger.Warn("failed to deliver reminder",
				logger.Int("id", r.ID),
				logger.Error(err))
			continue
		}
		if l.metrics != nil {
			l.metrics.RemindersFired.WithLabelValues(string(r.Kind)).Inc()
		}
	}
	return len(due)
}

// Pending reminders are keyed by owner, so events whose numeric ids collide
// keep separate entries.
const dailyKey = "daily"

func eventKey(eventID string) string { return "event:" + eventID }

func (l *Local) scheduled(kind Kind) {
	if l.metrics != nil {
		l.metrics.RemindersScheduled.WithLabelValues(string(kind)).Inc()
	}
}

func (r Reminder) String() string {
	return fmt.Sprintf("#%d %s at %s", r.ID, r.Title, r.At.Format(time.RFC3339))
}

var _ Scheduler = (*Local)(nil)
