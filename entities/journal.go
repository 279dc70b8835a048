package entities

import (
	"github.com/google/uuid"
)

// JournalEntry is one past identification. The full botanical report is kept
// as JSON text; entries are immutable after creation and only leave the table
// through capacity eviction or a full journal reset.
type JournalEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID `gorm:"index" json:"user_id"`
	PlantName      string    `json:"plant_name"`
	ScientificName string    `json:"scientific_name"`
	Report         string    `json:"report,omitempty" gorm:"type:text"`
	ImageURL       string    `json:"image_url,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
