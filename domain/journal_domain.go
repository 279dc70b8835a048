package domain

import (
	"errors"
	"time"
)

// JournalCapacity bounds how many identifications a user keeps. Oldest
// entries are evicted first once the bound is exceeded.
const JournalCapacity = 15

var (
	MessageSuccessGetJournal      = "journal retrieved successfully"
	MessageSuccessGetJournalEntry = "journal entry retrieved successfully"
	MessageSuccessResetJournal    = "journal cleared successfully"

	MessageFailedGetJournal      = "failed to retrieve journal"
	MessageFailedGetJournalEntry = "failed to retrieve journal entry"
	MessageFailedResetJournal    = "failed to clear journal"

	ErrJournalEntryNotFound = errors.New("journal entry not found")
)

type (
	JournalEntryResponse struct {
		ID             string      `json:"id"`
		PlantName      string      `json:"plant_name"`
		ScientificName string      `json:"scientific_name"`
		ImageURL       string      `json:"image_url,omitempty"`
		Report         PlantReport `json:"report"`
		CreatedAt      time.Time   `json:"created_at"`
	}

	JournalListResponse struct {
		Entries []JournalEntryResponse `json:"entries"`
		Total   int                    `json:"total"`
	}
)
