package domain

import (
	"errors"
	"time"
)

// Fixed task categories. Free-text tasks entered under "Other" keep their
// custom label but fall back to the Other category for notification settings.
const (
	TaskWatering    = "Watering"
	TaskPruning     = "Pruning"
	TaskRotating    = "Rotating"
	TaskFertilizing = "Fertilizing"
	TaskMistClean   = "Mist/Clean"
	TaskRepotting   = "Repotting"
	TaskOther       = "Other"
)

// TaskCategories lists every category in settings order.
var TaskCategories = []string{
	TaskWatering,
	TaskPruning,
	TaskRotating,
	TaskFertilizing,
	TaskMistClean,
	TaskRepotting,
	TaskOther,
}

// Due-status buckets derived from next_due at render time; never persisted.
const (
	DueStatusOverdue   = "Overdue"
	DueStatusDueToday  = "Due today"
	DueStatusScheduled = "Scheduled"
)

var (
	MessageSuccessCreateReminder   = "reminder created successfully"
	MessageSuccessGetReminders     = "reminders retrieved successfully"
	MessageSuccessCompleteReminder = "reminder completed successfully"
	MessageSuccessDeleteReminder   = "reminder deleted successfully"
	MessageSuccessGetDueReminder   = "due reminder check completed"
	MessageSuccessGetSettings      = "notification settings retrieved successfully"
	MessageSuccessUpdateSettings   = "notification settings updated successfully"

	MessageFailedCreateReminder   = "failed to create reminder"
	MessageFailedGetReminders     = "failed to retrieve reminders"
	MessageFailedCompleteReminder = "failed to complete reminder"
	MessageFailedDeleteReminder   = "failed to delete reminder"
	MessageFailedGetDueReminder   = "failed to check due reminders"
	MessageFailedGetSettings      = "failed to retrieve notification settings"
	MessageFailedUpdateSettings   = "failed to update notification settings"

	ErrReminderNotFound      = errors.New("reminder not found")
	ErrInvalidFrequency      = errors.New("frequency must be at least one day")
	ErrReminderLabelRequired = errors.New("reminder needs a linked plant or a custom label")
	ErrUnknownTaskCategory   = errors.New("unknown task category")
)

type (
	CreateReminderRequest struct {
		PlantID       string `json:"plant_id" validate:"omitempty,uuid"`
		Task          string `json:"task" validate:"required"`
		CustomLabel   string `json:"custom_label" validate:"omitempty,max=100"`
		FrequencyDays int    `json:"frequency_days" validate:"required,min=1"`
	}

	ReminderResponse struct {
		ID            string    `json:"id"`
		PlantID       string    `json:"plant_id,omitempty"`
		PlantName     string    `json:"plant_name"`
		Task          string    `json:"task"`
		FrequencyDays int       `json:"frequency_days"`
		LastCompleted time.Time `json:"last_completed"`
		NextDue       time.Time `json:"next_due"`
		DueStatus     string    `json:"due_status"`
		DueInDays     int       `json:"due_in_days"`
	}

	DueNotification struct {
		ReminderID string `json:"reminder_id"`
		PlantName  string `json:"plant_name"`
		Task       string `json:"task"`
		Message    string `json:"message"`
	}

	DueCheckResponse struct {
		Due          bool             `json:"due"`
		Notification *DueNotification `json:"notification,omitempty"`
	}

	UpdateSettingRequest struct {
		Category string `json:"category" validate:"required"`
		Enabled  *bool  `json:"enabled" validate:"required"`
	}

	NotificationSettingsResponse struct {
		Settings map[string]bool `json:"settings"`
	}
)
