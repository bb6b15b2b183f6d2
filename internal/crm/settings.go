package crm

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/logger"
)

// ToggleNotifications records the new setting first, then applies it to
// the scheduler. When enabling is refused or scheduling fails, the
// previous setting is restored and the error returned.
func (s *Store) ToggleNotifications(ctx context.Context, enabled bool) (err error) {
	defer func() { s.observe("toggle_notifications", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prefs
	next := prev
	next.NotificationsEnabled = enabled

	if err := s.persist.SavePreferences(ctx, next); err != nil {
		return fmt.Errorf("failed to save notification setting: %w", err)
	}
	s.prefs = next

	if err := s.applyNotificationsLocked(ctx, enabled); err != nil {
		return s.rollbackPrefsLocked(ctx, prev, err)
	}

	if enabled {
		s.announce("Notifications enabled")
	} else {
		s.announce("Notifications disabled")
	}
	return nil
}

func (s *Store) applyNotificationsLocked(ctx context.Context, enabled bool) error {
	if !enabled {
		return s.scheduler.CancelAll(ctx)
	}

	granted, err := s.scheduler.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("permission request failed: %w", err)
	}
	if !granted {
		return domain.ErrPermissionDenied
	}
	return s.armLocked(ctx)
}

// SetReminderTime changes the daily reminder time and re-arms the daily
// reminder when notifications are on.
func (s *Store) SetReminderTime(ctx context.Context, hhmm string) (err error) {
	defer func() { s.observe("set_reminder_time", err) }()

	clock, err := domain.ParseClock(hhmm)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prefs
	next := prev
	next.ReminderTime = clock.String()

	if err := s.persist.SavePreferences(ctx, next); err != nil {
		return fmt.Errorf("failed to save reminder time: %w", err)
	}
	s.prefs = next

	if next.NotificationsEnabled {
		if err := s.scheduler.ScheduleDaily(ctx, next.ReminderTime); err != nil {
			return s.rollbackPrefsLocked(ctx, prev, err)
		}
	}

	s.announce("Daily reminder set to %s", next.ReminderTime)
	return nil
}

func (s *Store) rollbackPrefsLocked(ctx context.Context, prev domain.Preferences, cause error) error {
	s.prefs = prev
	rbErr := s.persist.SavePreferences(ctx, prev)
	if rbErr != nil {
		s.logger.Error("failed to restore preferences", logger.Error(rbErr))
	}
	return errRollback(cause, rbErr)
}
