package domain

import (
	"fmt"
	"time"
)

// DefaultReminderTime is the daily reminder time used when none is stored.
const DefaultReminderTime = "09:00"

// Preferences are the process-wide notification settings.
type Preferences struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	ReminderTime         string `json:"reminderTime"`
}

// DefaultPreferences returns the settings used when storage holds none.
func DefaultPreferences() Preferences {
	return Preferences{
		NotificationsEnabled: true,
		ReminderTime:         DefaultReminderTime,
	}
}

// Clock is a 24-hour time of day parsed from "HH:MM".
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a strict "HH:MM" 24-hour string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns day's calendar date at this clock time, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// Next returns the first occurrence of this clock time strictly after now.
// If the time already passed today the occurrence is tomorrow.
func (c Clock) Next(now time.Time) time.Time {
	at := c.On(now)
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
