package crm

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
)

// AddClient assigns a fresh identifier and appends the client.
func (s *Store) AddClient(ctx context.Context, fields domain.ClientFields) (c domain.Client, err error) {
	defer func() { s.observe("add_client", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	c = fields.WithID(s.newID())
	next := append(clone(s.clients), c)

	if err := s.persist.SaveClients(ctx, next); err != nil {
		return domain.Client{}, fmt.Errorf("failed to add client: %w", err)
	}
	s.clients = next

	s.logger.Debug("client added", logger.String("client_id", c.ID))
	s.announce("Added client: %s", c.Name)
	return c, nil
}

// UpdateClient replaces the client carrying c.ID. An unknown id leaves the
// collection as is, but the collection is still written back.
// Events keep their ClientName snapshot.
func (s *Store) UpdateClient(ctx context.Context, c domain.Client) (err error) {
	defer func() { s.observe("update_client", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.clients)
	idx := indexOfClient(next, c.ID)
	if idx >= 0 {
		next[idx] = c
	}

	if err := s.persist.SaveClients(ctx, next); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	s.clients = next

	if idx >= 0 {
		s.announce("Updated client: %s", c.Name)
	}
	return nil
}

// DeleteClient removes the client and every event it owns in a single
// write, then cancels the reminders of the removed events.
func (s *Store) DeleteClient(ctx context.Context, id string) (err error) {
	defer func() { s.observe("delete_client", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfClient(s.clients, id)
	var name string
	if idx >= 0 {
		name = s.clients[idx].Name
	}

	clients := make([]domain.Client, 0, len(s.clients))
	for _, c := range s.clients {
		if c.ID != id {
			clients = append(clients, c)
		}
	}

	var removed []string
	events := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if e.ClientID == id {
			removed = append(removed, e.ID)
			continue
		}
		events = append(events, e)
	}

	if idx < 0 && len(removed) == 0 {
		return nil
	}

	if err := s.persist.SaveClientsAndEvents(ctx, clients, events); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.clients = clients
	s.events = events

	for _, eventID := range removed {
		s.cancelEventLocked(ctx, eventID)
	}

	s.logger.Debug("client deleted",
		logger.String("client_id", id),
		logger.Int("events_removed", len(removed)))
	if idx >= 0 {
		s.announce("Deleted client: %s", name)
	}
	return nil
}
