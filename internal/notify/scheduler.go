// Package notify schedules local reminders: one recurring daily reminder and
// one-shot reminders ahead of individual events.
package notify

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/MrSnakeDoc/memarch/internal/domain"
)

const (
	// DailyReminderID identifies the single recurring daily reminder.
	DailyReminderID = 1
	// EventIDOffset starts the per-event identifier range above the daily one.
	EventIDOffset = 10000
	// EventIDSpace bounds the per-event range to keep identifiers small.
	EventIDSpace = 100000
	// EventLeadTime is how long before an event its reminder fires.
	EventLeadTime = time.Hour
)

// Kind tells daily reminders from event reminders.
type Kind string

const (
	KindDaily Kind = "daily"
	KindEvent Kind = "event"
)

// Reminder is one scheduled notification.
type Reminder struct {
	ID      int       `json:"id"`
	Kind    Kind      `json:"kind"`
	EventID string    `json:"eventId,omitempty"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	At      time.Time `json:"at"`
	Repeats bool      `json:"repeats"`
}

// Scheduler is the notification platform the store talks to.
type Scheduler interface {
	// RequestPermission asks the platform whether reminders may be shown.
	RequestPermission(ctx context.Context) (bool, error)
	// ScheduleDaily replaces the daily reminder with one at hhmm local time.
	ScheduleDaily(ctx context.Context, hhmm string) error
	// CancelAll drops every pending reminder, daily and per-event.
	CancelAll(ctx context.Context) error
	// ScheduleForEvent schedules a reminder EventLeadTime before the event.
	// It returns false and schedules nothing when that moment already passed.
	ScheduleForEvent(ctx context.Context, event domain.Event) (bool, error)
	// CancelForEvent drops the reminder of one event, if any.
	CancelForEvent(ctx context.Context, eventID string) error
	// Pending lists scheduled reminders ordered by firing time.
	Pending(ctx context.Context) ([]Reminder, error)
}

// EventReminderID maps an event identifier into the per-event range
// [EventIDOffset, EventIDOffset+EventIDSpace), never colliding with DailyReminderID.
func EventReminderID(eventID string) int {
	return EventIDOffset + int(xxhash.Sum64String(eventID)%EventIDSpace)
}

// EventMessage builds the title and body shown for an event reminder.
func EventMessage(e domain.Event) (title, body string) {
	switch e.EventType {
	case domain.EventBirthday:
		return "Birthday Reminder", e.ClientName + "'s birthday is today"
	case domain.EventCelebration:
		return "Celebration Reminder", "Celebration with " + e.ClientName + " today"
	case domain.EventMeeting:
		return "Meeting Reminder", "Meeting with " + e.ClientName + " today"
	case domain.EventPromise:
		return "Promise Follow-up", "Remember your commitment to " + e.ClientName
	default:
		return "Upcoming Reminder", "Reminder for " + e.ClientName + ": " + e.Description
	}
}

const (
	dailyTitle = "Memory Architect Reminder"
	dailyBody  = "Check your upcoming events and commitments"
)
