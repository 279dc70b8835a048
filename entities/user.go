package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name       string     `json:"name"`
	Email      string     `gorm:"uniqueIndex" json:"email"`
	Password   string     `json:"-"`
	Role       string     `json:"role"`
	IsVerified bool       `json:"is_verified"`
	IsPro      bool       `json:"is_pro"`
	ProSince   *time.Time `json:"pro_since,omitempty"`

	JournalEntries []*JournalEntry  `gorm:"foreignKey:UserID"`
	Reminders      []*PlantReminder `gorm:"foreignKey:UserID"`
	Timestamp
}
