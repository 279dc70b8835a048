package reminder

import (
	"context"
	"time"

	"github.com/leaflens/leaflens-api/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ReminderRepository interface {
		CreateReminder(ctx context.Context, reminder *entities.PlantReminder) error
		GetReminderByID(ctx context.Context, id string) (*entities.PlantReminder, error)
		GetReminders(ctx context.Context, userID string) ([]*entities.PlantReminder, error)
		UpdateReminder(ctx context.Context, reminder *entities.PlantReminder) error
		DeleteReminder(ctx context.Context, id string, userID string) error
		GetUserIDsWithDueReminders(ctx context.Context, now time.Time) ([]string, error)

		// Notification settings
		GetSettings(ctx context.Context, userID string) ([]*entities.NotificationSetting, error)
		UpsertSetting(ctx context.Context, setting *entities.NotificationSetting) error
	}

	reminderRepository struct {
		db *gorm.DB
	}
)

func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) CreateReminder(ctx context.Context, reminder *entities.PlantReminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *reminderRepository) GetReminderByID(ctx context.Context, id string) (*entities.PlantReminder, error) {
	var reminder entities.PlantReminder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *reminderRepository) GetReminders(ctx context.Context, userID string) ([]*entities.PlantReminder, error) {
	var reminders []*entities.PlantReminder

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reminders).Error; err != nil {
		return nil, err
	}

	return reminders, nil
}

func (r *reminderRepository) UpdateReminder(ctx context.Context, reminder *entities.PlantReminder) error {
	return r.db.WithContext(ctx).Save(reminder).Error
}

func (r *reminderRepository) DeleteReminder(ctx context.Context, id string, userID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.PlantReminder{}).Error
}

func (r *reminderRepository) GetUserIDsWithDueReminders(ctx context.Context, now time.Time) ([]string, error) {
	var userIDs []string

	if err := r.db.WithContext(ctx).
		Model(&entities.PlantReminder{}).
		Distinct("user_id").
		Where("next_due <= ?", now).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}

	return userIDs, nil
}

func (r *reminderRepository) GetSettings(ctx context.Context, userID string) ([]*entities.NotificationSetting, error) {
	var settings []*entities.NotificationSetting

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *reminderRepository) UpsertSetting(ctx context.Context, setting *entities.NotificationSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).
		Create(setting).Error
}
