package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/memarch/internal/logger"
)

func TestFeedDrain(t *testing.T) {
	f := NewFeed(10, logger.Nop())
	f.Success("Added client: Ava")
	f.Info("hello")

	got := f.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, "success", got[0].Level)
	assert.Equal(t, "Added client: Ava", got[0].Message)
	assert.Equal(t, "info", got[1].Level)

	assert.Empty(t, f.Drain())
	assert.NotNil(t, f.Drain())
}

func TestFeedDropsOldest(t *testing.T) {
	f := NewFeed(2, logger.Nop())
	f.Success("one")
	f.Success("two")
	f.Success("three")

	got := f.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Message)
	assert.Equal(t, "three", got[1].Message)
}
