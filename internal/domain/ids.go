package domain

import "github.com/google/uuid"

// NewID returns a fresh random identifier for clients and events.
func NewID() string {
	return uuid.NewString()
}
