package domain

import (
	"sort"
	"strings"
	"time"
)

// CompletedPreviewSize is how many completed events the dashboard shows.
const CompletedPreviewSize = 5

// Midnight truncates t to the start of its calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DueTodayOrOverdue returns the pending events whose reminder day is on or
// before asOf's day. Days are compared in asOf's location. Order follows input.
func DueTodayOrOverdue(events []Event, asOf time.Time) []Event {
	loc := asOf.Location()
	today := Midnight(asOf, loc)

	out := make([]Event, 0)
	for _, e := range events {
		if e.Status != StatusPending {
			continue
		}
		if Midnight(e.ReminderDate, loc).After(today) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ByStatus filters events by status, preserving input order.
func ByStatus(events []Event, status EventStatus) []Event {
	out := make([]Event, 0)
	for _, e := range events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// ForClient returns the events of one client, most recent reminder first.
// Events sharing a reminder date keep their input order.
func ForClient(events []Event, clientID string) []Event {
	out := make([]Event, 0)
	for _, e := range events {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReminderDate.After(out[j].ReminderDate)
	})
	return out
}

// SearchClients matches term as a case-insensitive substring of the client name.
// An empty term matches every client.
func SearchClients(clients []Client, term string) []Client {
	needle := strings.ToLower(term)
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Truncate keeps the first n events and reports how many were dropped.
func Truncate(events []Event, n int) ([]Event, int) {
	if n < 0 {
		n = 0
	}
	if len(events) <= n {
		return events, 0
	}
	return events[:n], len(events) - n
}

// IsOverdue reports a pending event whose reminder moment is already past.
func IsOverdue(e Event, now time.Time) bool {
	return e.Status == StatusPending && e.ReminderDate.Before(now)
}

// Dashboard is the home screen view.
type Dashboard struct {
	TodayAndOverdue    []Event `json:"todayAndOverdue"`
	Pending            []Event `json:"pending"`
	Completed          []Event `json:"completed"`
	CompletedRemainder int     `json:"completedRemainder"`
}

// BuildDashboard derives the home screen lists from a snapshot of events.
func BuildDashboard(events []Event, asOf time.Time) Dashboard {
	completed, remainder := Truncate(ByStatus(events, StatusDone), CompletedPreviewSize)
	return Dashboard{
		TodayAndOverdue:    DueTodayOrOverdue(events, asOf),
		Pending:            ByStatus(events, StatusPending),
		Completed:          completed,
		CompletedRemainder: remainder,
	}
}
