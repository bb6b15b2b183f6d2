package crm

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
)

// AddEvent creates a pending event for an existing client and schedules
// its reminder when notifications are on. An empty ClientName is filled
// from the owner.
func (s *Store) AddEvent(ctx context.Context, fields domain.EventFields) (e domain.Event, err error) {
	defer func() { s.observe("add_event", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ci := indexOfClient(s.clients, fields.ClientID)
	if ci < 0 {
		return domain.Event{}, fmt.Errorf("%w: %s", domain.ErrClientNotFound, fields.ClientID)
	}

	e = fields.WithID(s.newID())
	e.Status = domain.StatusPending
	if e.ClientName == "" {
		e.ClientName = s.clients[ci].Name
	}

	next := append(clone(s.events), e)
	if err := s.persist.SaveEvents(ctx, next); err != nil {
		return domain.Event{}, fmt.Errorf("failed to add event: %w", err)
	}
	s.events = next

	s.scheduleEventLocked(ctx, e)

	s.logger.Debug("event added",
		logger.String("event_id", e.ID),
		logger.String("client_id", e.ClientID))
	s.announce("Added new %s", e.EventType.Label())
	return e, nil
}

// UpdateEvent replaces the event carrying e.ID. Unknown ids are ignored.
// A Done event stays Done; an empty status keeps the current one.
func (s *Store) UpdateEvent(ctx context.Context, e domain.Event) (err error) {
	defer func() { s.observe("update_event", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfEvent(s.events, e.ID)
	if idx < 0 {
		return nil
	}

	ci := indexOfClient(s.clients, e.ClientID)
	if ci < 0 {
		return fmt.Errorf("%w: %s", domain.ErrClientNotFound, e.ClientID)
	}
	if e.ClientName == "" {
		e.ClientName = s.clients[ci].Name
	}

	current := s.events[idx]
	if e.Status == "" || current.Status == domain.StatusDone {
		e.Status = current.Status
	}

	next := clone(s.events)
	next[idx] = e
	if err := s.persist.SaveEvents(ctx, next); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	s.events = next

	s.cancelEventLocked(ctx, e.ID)
	s.scheduleEventLocked(ctx, e)

	s.announce("Updated %s", e.EventType.Label())
	return nil
}

// DeleteEvent removes one event and its reminder. Unknown ids are ignored.
func (s *Store) DeleteEvent(ctx context.Context, id string) (err error) {
	defer func() { s.observe("delete_event", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfEvent(s.events, id)
	if idx < 0 {
		return nil
	}
	removed := s.events[idx]

	next := make([]domain.Event, 0, len(s.events)-1)
	next = append(next, s.events[:idx]...)
	next = append(next, s.events[idx+1:]...)

	if err := s.persist.SaveEvents(ctx, next); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.events = next

	s.cancelEventLocked(ctx, id)
	s.announce("Deleted %s", removed.EventType.Label())
	return nil
}

// MarkEventAsDone completes a pending event and cancels its reminder.
// Calling it again, or with an unknown id, writes nothing.
func (s *Store) MarkEventAsDone(ctx context.Context, id string) (err error) {
	defer func() { s.observe("mark_done", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfEvent(s.events, id)
	if idx < 0 || s.events[idx].Status == domain.StatusDone {
		return nil
	}

	next := clone(s.events)
	next[idx].Status = domain.StatusDone
	if err := s.persist.SaveEvents(ctx, next); err != nil {
		return fmt.Errorf("failed to complete event: %w", err)
	}
	s.events = next

	s.cancelEventLocked(ctx, id)
	s.announce("Marked as done!")
	return nil
}
