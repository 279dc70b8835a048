package entities

import (
	"time"

	"github.com/google/uuid"
)

// PlantReminder is a recurring care task. PlantName is a snapshot taken at
// creation so the label survives journal eviction; it is never synced back.
// Invariant: NextDue = LastCompleted + FrequencyDays after every update.
type PlantReminder struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID  `gorm:"index" json:"user_id"`
	PlantID       *uuid.UUID `json:"plant_id,omitempty"`
	PlantName     string     `json:"plant_name"`
	Task          string     `json:"task"`
	FrequencyDays int        `json:"frequency_days"`
	LastCompleted time.Time  `gorm:"type:timestamp" json:"last_completed"`
	NextDue       time.Time  `gorm:"type:timestamp" json:"next_due"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// NotificationSetting is one task-category toggle. Absent rows mean enabled;
// rows are written only by the settings endpoint.
type NotificationSetting struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `gorm:"index:idx_notification_user_category,unique" json:"user_id"`
	Category string    `gorm:"index:idx_notification_user_category,unique" json:"category"`
	Enabled  bool      `json:"enabled"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
