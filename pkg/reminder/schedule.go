package reminder

import (
	"math"
	"time"

	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/entities"
)

// CategoryOf maps a task label to its notification-settings category.
// Free-text tasks entered under "Other" fall back to the Other category.
func CategoryOf(task string) string {
	for _, category := range domain.TaskCategories {
		if task == category {
			return category
		}
	}
	return domain.TaskOther
}

// DueStatus computes the display bucket for a reminder at the given time.
// A reminder whose next_due has passed is Overdue; one due exactly now is
// "Due today". The returned day count is ceil((next_due - now) / 24h).
// Derived on every call, never persisted.
func DueStatus(reminder *entities.PlantReminder, now time.Time) (string, int) {
	days := int(math.Ceil(reminder.NextDue.Sub(now).Hours() / 24))

	if reminder.NextDue.Before(now) {
		return domain.DueStatusOverdue, days
	}
	if days == 0 {
		return domain.DueStatusDueToday, days
	}
	return domain.DueStatusScheduled, days
}

// CheckDue scans reminders in stored order and returns the single reminder to
// surface, or nil. A reminder is eligible when its next_due has arrived and
// the notification setting for its task category is enabled. At most one
// reminder is surfaced per check; the scan reads state and nothing else.
func CheckDue(reminders []*entities.PlantReminder, settings map[string]bool, now time.Time) *entities.PlantReminder {
	for _, reminder := range reminders {
		if reminder.NextDue.After(now) {
			continue
		}
		if enabled, ok := settings[CategoryOf(reminder.Task)]; ok && !enabled {
			continue
		}
		return reminder
	}
	return nil
}

// SettingsWithDefaults merges stored toggle rows over the all-enabled default.
func SettingsWithDefaults(rows []*entities.NotificationSetting) map[string]bool {
	settings := make(map[string]bool, len(domain.TaskCategories))
	for _, category := range domain.TaskCategories {
		settings[category] = true
	}

	for _, row := range rows {
		if _, ok := settings[row.Category]; ok {
			settings[row.Category] = row.Enabled
		}
	}

	return settings
}
