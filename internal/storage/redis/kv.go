package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/memarch/internal/storage"
)

// KV stores entries as plain Redis strings under KeyPrefix.
type KV struct {
	client *redis.Client
}

// NewKV wraps an already connected client.
func NewKV(client *redis.Client) *KV {
	return &KV{client: client}
}

// Get returns the value stored for name.
func (s *KV) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, Key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", name, err)
	}
	return data, nil
}

// SetMany writes every entry inside one MULTI/EXEC transaction.
func (s *KV) SetMany(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, value := range entries {
			pipe.Set(ctx, Key(name), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save %d entries: %w", len(entries), err)
	}
	return nil
}

// Delete removes the given entries. Missing keys are ignored.
func (s *KV) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys(names)...).Err(); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

func (s *KV) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *KV) Close() error {
	return s.client.Close()
}

var _ storage.KV = (*KV)(nil)
