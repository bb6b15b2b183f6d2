package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
)

// Target is the store the roster is written into.
type Target interface {
	Clients() []domain.Client
	Events() []domain.Event
	AddClient(ctx context.Context, fields domain.ClientFields) (domain.Client, error)
	AddEvent(ctx context.Context, fields domain.EventFields) (domain.Event, error)
	MarkEventAsDone(ctx context.Context, id string) error
}

// Result counts what an import added.
type Result struct {
	Clients  int
	Memories int
	Skipped  bool
}

// Import adds every entry to target. A target that already holds data is
// left alone.
func Import(ctx context.Context, target Target, entries []Entry, log logger.Logger) (Result, error) {
	if len(target.Clients()) > 0 || len(target.Events()) > 0 {
		log.Info("store not empty, seed import skipped")
		return Result{Skipped: true}, nil
	}

	var res Result
	for _, entry := range entries {
		client, err := target.AddClient(ctx, entry.Client)
		if err != nil {
			return res, fmt.Errorf("failed to import client %q: %w", entry.Client.Name, err)
		}
		res.Clients++

		for _, mem := range entry.Memories {
			fields := mem.Fields
			fields.ClientID = client.ID

			event, err := target.AddEvent(ctx, fields)
			if err != nil {
				return res, fmt.Errorf("failed to import memory %q: %w", fields.Description, err)
			}
			if mem.Done {
				if err := target.MarkEventAsDone(ctx, event.ID); err != nil {
					return res, fmt.Errorf("failed to complete memory %q: %w", fields.Description, err)
				}
			}
			res.Memories++
		}
	}

	log.Info("✅ seed roster imported",
		logger.Int("clients", res.Clients),
		logger.Int("memories", res.Memories))
	return res, nil
}

// LoadAndImport reads path and imports it into target.
func LoadAndImport(ctx context.Context, path string, loc *time.Location, target Target, log logger.Logger) (Result, error) {
	roster, err := NewLoader(path).Load()
	if err != nil {
		return Result{}, err
	}
	entries, err := NewMapper(loc).Map(roster)
	if err != nil {
		return Result{}, fmt.Errorf("invalid seed file: %w", err)
	}
	return Import(ctx, target, entries, log)
}
