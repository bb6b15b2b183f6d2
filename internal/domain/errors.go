package domain

import "errors"

var (
	// ErrClientNotFound is returned when an event references a client that does not exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrEventNotFound is returned by lookups for an unknown event id.
	ErrEventNotFound = errors.New("event not found")
	// ErrPermissionDenied is returned when the notification platform refuses permission.
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrInvalidReminderTime is returned for a reminder time that is not "HH:MM".
	ErrInvalidReminderTime = errors.New("invalid reminder time")
)
