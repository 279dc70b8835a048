package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/entities"
	"github.com/leaflens/leaflens-api/pkg/journal"
	"gorm.io/gorm"
)

type (
	ReminderService interface {
		Create(ctx context.Context, req domain.CreateReminderRequest, userID string) (domain.ReminderResponse, error)
		List(ctx context.Context, userID string) ([]domain.ReminderResponse, error)
		Complete(ctx context.Context, id string, userID string) (domain.ReminderResponse, error)
		Delete(ctx context.Context, id string, userID string) error
		CheckDueForUser(ctx context.Context, userID string) (domain.DueCheckResponse, error)
		GetSettings(ctx context.Context, userID string) (domain.NotificationSettingsResponse, error)
		UpdateSetting(ctx context.Context, req domain.UpdateSettingRequest, userID string) (domain.NotificationSettingsResponse, error)
	}

	reminderService struct {
		reminderRepository ReminderRepository
		journalRepository  journal.JournalRepository
		now                func() time.Time
	}
)

func NewReminderService(reminderRepository ReminderRepository, journalRepository journal.JournalRepository) ReminderService {
	return &reminderService{
		reminderRepository: reminderRepository,
		journalRepository:  journalRepository,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (s *reminderService) Create(ctx context.Context, req domain.CreateReminderRequest, userID string) (domain.ReminderResponse, error) {
	if req.FrequencyDays < 1 {
		return domain.ReminderResponse{}, domain.ErrInvalidFrequency
	}

	if CategoryOf(req.Task) != req.Task {
		return domain.ReminderResponse{}, domain.ErrUnknownTaskCategory
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ReminderResponse{}, domain.ErrParseUUID
	}

	var plantID *uuid.UUID
	plantName := ""

	if req.PlantID != "" {
		entryUUID, err := uuid.Parse(req.PlantID)
		if err != nil {
			return domain.ReminderResponse{}, domain.ErrParseUUID
		}

		entry, err := s.journalRepository.GetEntryByID(ctx, req.PlantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ReminderResponse{}, domain.ErrJournalEntryNotFound
			}
			return domain.ReminderResponse{}, err
		}
		if entry.UserID != userUUID {
			return domain.ReminderResponse{}, domain.ErrUserNotAllowed
		}

		plantID = &entryUUID
		// Snapshot taken at creation; not kept in sync with the journal.
		plantName = entry.PlantName
	} else if req.Task != domain.TaskOther || req.CustomLabel == "" {
		return domain.ReminderResponse{}, domain.ErrReminderLabelRequired
	}

	task := req.Task
	if req.Task == domain.TaskOther && req.CustomLabel != "" {
		task = req.CustomLabel
	}

	now := s.now()
	reminder := &entities.PlantReminder{
		ID:            uuid.New(),
		UserID:        userUUID,
		PlantID:       plantID,
		PlantName:     plantName,
		Task:          task,
		FrequencyDays: req.FrequencyDays,
		LastCompleted: now,
		NextDue:       now.AddDate(0, 0, req.FrequencyDays),
	}

	if err := s.reminderRepository.CreateReminder(ctx, reminder); err != nil {
		return domain.ReminderResponse{}, err
	}

	return s.toResponse(reminder), nil
}

func (s *reminderService) List(ctx context.Context, userID string) ([]domain.ReminderResponse, error) {
	reminders, err := s.reminderRepository.GetReminders(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ReminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		response = append(response, s.toResponse(reminder))
	}

	return response, nil
}

func (s *reminderService) Complete(ctx context.Context, id string, userID string) (domain.ReminderResponse, error) {
	reminder, err := s.reminderRepository.GetReminderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReminderResponse{}, domain.ErrReminderNotFound
		}
		return domain.ReminderResponse{}, err
	}

	if reminder.UserID.String() != userID {
		return domain.ReminderResponse{}, domain.ErrUserNotAllowed
	}

	// Recomputed from the current now, never from the stale next_due.
	now := s.now()
	reminder.LastCompleted = now
	reminder.NextDue = now.AddDate(0, 0, reminder.FrequencyDays)

	if err := s.reminderRepository.UpdateReminder(ctx, reminder); err != nil {
		return domain.ReminderResponse{}, err
	}

	return s.toResponse(reminder), nil
}

func (s *reminderService) Delete(ctx context.Context, id string, userID string) error {
	return s.reminderRepository.DeleteReminder(ctx, id, userID)
}

func (s *reminderService) CheckDueForUser(ctx context.Context, userID string) (domain.DueCheckResponse, error) {
	reminders, err := s.reminderRepository.GetReminders(ctx, userID)
	if err != nil {
		return domain.DueCheckResponse{}, err
	}

	rows, err := s.reminderRepository.GetSettings(ctx, userID)
	if err != nil {
		return domain.DueCheckResponse{}, err
	}

	due := CheckDue(reminders, SettingsWithDefaults(rows), s.now())
	if due == nil {
		return domain.DueCheckResponse{Due: false}, nil
	}

	notification := NotificationFor(due)
	return domain.DueCheckResponse{
		Due:          true,
		Notification: &notification,
	}, nil
}

func (s *reminderService) GetSettings(ctx context.Context, userID string) (domain.NotificationSettingsResponse, error) {
	rows, err := s.reminderRepository.GetSettings(ctx, userID)
	if err != nil {
		return domain.NotificationSettingsResponse{}, err
	}

	return domain.NotificationSettingsResponse{Settings: SettingsWithDefaults(rows)}, nil
}

func (s *reminderService) UpdateSetting(ctx context.Context, req domain.UpdateSettingRequest, userID string) (domain.NotificationSettingsResponse, error) {
	if CategoryOf(req.Category) != req.Category {
		return domain.NotificationSettingsResponse{}, domain.ErrUnknownTaskCategory
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.NotificationSettingsResponse{}, domain.ErrParseUUID
	}

	setting := &entities.NotificationSetting{
		ID:       uuid.New(),
		UserID:   userUUID,
		Category: req.Category,
		Enabled:  *req.Enabled,
	}

	if err := s.reminderRepository.UpsertSetting(ctx, setting); err != nil {
		return domain.NotificationSettingsResponse{}, err
	}

	return s.GetSettings(ctx, userID)
}

func (s *reminderService) toResponse(reminder *entities.PlantReminder) domain.ReminderResponse {
	status, days := DueStatus(reminder, s.now())

	plantID := ""
	if reminder.PlantID != nil {
		plantID = reminder.PlantID.String()
	}

	return domain.ReminderResponse{
		ID:            reminder.ID.String(),
		PlantID:       plantID,
		PlantName:     reminder.PlantName,
		Task:          reminder.Task,
		FrequencyDays: reminder.FrequencyDays,
		LastCompleted: reminder.LastCompleted,
		NextDue:       reminder.NextDue,
		DueStatus:     status,
		DueInDays:     days,
	}
}

// NotificationFor builds the single transient message surfaced for a due
// reminder.
func NotificationFor(reminder *entities.PlantReminder) domain.DueNotification {
	label := reminder.PlantName
	if label == "" {
		label = reminder.Task
	}

	message := fmt.Sprintf("%s is due", reminder.Task)
	if reminder.PlantName != "" {
		message = fmt.Sprintf("%s: %s is due", reminder.Task, reminder.PlantName)
	}

	return domain.DueNotification{
		ReminderID: reminder.ID.String(),
		PlantName:  label,
		Task:       reminder.Task,
		Message:    message,
	}
}
