package domain

import (
	"strings"
	"time"
)

// EventType classifies a memory.
type EventType string

const (
	EventPromise     EventType = "Promise"
	EventMeeting     EventType = "Meeting"
	EventBirthday    EventType = "Birthday"
	EventCelebration EventType = "Celebration"
	EventOther       EventType = "Other"
)

// EventTypes lists the closed set of event types.
var EventTypes = []EventType{EventPromise, EventMeeting, EventBirthday, EventCelebration, EventOther}

// Valid reports whether t belongs to the closed set.
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the lowercase form used in user-facing notices ("Added new promise").
func (t EventType) Label() string {
	return strings.ToLower(string(t))
}

// EventStatus is the completion state of a memory.
// The only transition is Pending -> Done.
type EventStatus string

const (
	StatusPending EventStatus = "Pending"
	StatusDone    EventStatus = "Done"
)

// Event is a dated reminder ("memory") tied to a Client.
type Event struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	ID string `json:"id"`

	// ClientID references the owning Client. Deleting the client deletes the event.
	ClientID string `json:"clientId"`

	// ClientName is a snapshot of the owner's name taken when the event was
	// created or last updated. Renaming the client does NOT rewrite it, so it
	// may be stale; display code that needs the current name must resolve ClientID.
	ClientName string `json:"clientName"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	EventType   EventType `json:"eventType"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`

	// ─────────────────────────────
	// Scheduling
	// ─────────────────────────────

	// ReminderDate is the calendar date of the memory. Persisted as RFC3339.
	ReminderDate time.Time `json:"reminderDate"`

	// ReminderTime is an optional "HH:MM" time of day, independent of the
	// clock part of ReminderDate.
	ReminderTime string `json:"reminderTime,omitempty"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	Status EventStatus `json:"status"`
}

// EventFields holds every event attribute except the identifier.
type EventFields struct {
	ClientID     string      `json:"clientId" validate:"required"`
	ClientName   string      `json:"clientName,omitempty"`
	EventType    EventType   `json:"eventType" validate:"required,oneof=Promise Meeting Birthday Celebration Other"`
	Description  string      `json:"description" validate:"required"`
	ReminderDate time.Time   `json:"reminderDate"`
	ReminderTime string      `json:"reminderTime,omitempty" validate:"omitempty,hhmm"`
	Notes        string      `json:"notes,omitempty"`
	Status       EventStatus `json:"status,omitempty" validate:"omitempty,oneof=Pending Done"`
}

// WithID materializes the fields into an Event carrying id.
func (f EventFields) WithID(id string) Event {
	return Event{
		ID:           id,
		ClientID:     f.ClientID,
		ClientName:   f.ClientName,
		EventType:    f.EventType,
		Description:  f.Description,
		ReminderDate: f.ReminderDate,
		ReminderTime: f.ReminderTime,
		Notes:        f.Notes,
		Status:       f.Status,
	}
}

// IsPending reports whether the event still awaits completion.
func (e Event) IsPending() bool {
	return e.Status == StatusPending
}

// DueAt combines ReminderDate with ReminderTime when one is set.
// Without a ReminderTime the ReminderDate is returned unchanged.
func (e Event) DueAt() time.Time {
	if e.ReminderTime == "" {
		return e.ReminderDate
	}
	clock, err := ParseClock(e.ReminderTime)
	if err != nil {
		return e.ReminderDate
	}
	return clock.On(e.ReminderDate)
}
