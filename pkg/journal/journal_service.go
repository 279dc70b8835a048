package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/entities"
	"github.com/leaflens/leaflens-api/internal/utils/storage"
	"github.com/leaflens/leaflens-api/pkg/identify"
	"gorm.io/gorm"
)

// appendRetryLimit caps the best-effort degrade when a journal insert fails:
// each retry evicts one more of the oldest entries before trying again.
const appendRetryLimit = 3

type (
	JournalService interface {
		IdentifyAndRecord(ctx context.Context, req domain.IdentifyPlantRequest, userID string) (domain.IdentifyPlantResponse, error)
		List(ctx context.Context, userID string) (domain.JournalListResponse, error)
		Get(ctx context.Context, id string, userID string) (domain.JournalEntryResponse, error)
		Reset(ctx context.Context, userID string) error
	}

	journalService struct {
		journalRepository JournalRepository
		identifyService   identify.IdentifyService
		s3                storage.AwsS3
	}
)

func NewJournalService(journalRepository JournalRepository, identifyService identify.IdentifyService, s3 storage.AwsS3) JournalService {
	return &journalService{
		journalRepository: journalRepository,
		identifyService:   identifyService,
		s3:                s3,
	}
}

func (s *journalService) IdentifyAndRecord(ctx context.Context, req domain.IdentifyPlantRequest, userID string) (domain.IdentifyPlantResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.IdentifyPlantResponse{}, domain.ErrParseUUID
	}

	report, err := s.identifyService.IdentifyPlant(ctx, req.Image, identify.IdentifyHints{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Notes:     req.Notes,
	})
	if err != nil {
		// Nothing is persisted on a failed or malformed analysis.
		return domain.IdentifyPlantResponse{}, domain.ErrGeminiProcessingFailed
	}

	entryID := uuid.New()

	imageURL := ""
	fileName := fmt.Sprintf("journal-%s", entryID.String())
	objectKey, uploadErr := s.s3.UploadFile(fileName, req.Image, "journal", storage.AllowImage...)
	if uploadErr != nil {
		log.Printf("Error uploading journal photo: %v", uploadErr)
	} else {
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return domain.IdentifyPlantResponse{}, err
	}

	entry := &entities.JournalEntry{
		ID:             entryID,
		UserID:         userUUID,
		PlantName:      report.Name,
		ScientificName: report.ScientificName,
		Report:         string(reportJSON),
		ImageURL:       imageURL,
	}

	if err := s.appendEntry(ctx, entry); err != nil {
		// Persistence is best-effort: the identification still succeeds,
		// the result just is not remembered.
		log.Printf("Error persisting journal entry: %v", err)
		return domain.IdentifyPlantResponse{
			ImageURL: imageURL,
			Report:   report,
		}, nil
	}

	return domain.IdentifyPlantResponse{
		EntryID:  entry.ID.String(),
		ImageURL: imageURL,
		Report:   report,
	}, nil
}

// appendEntry inserts newest-first and keeps the per-user collection inside
// JournalCapacity, evicting oldest entries. When the insert itself fails it
// sheds progressively more old entries and retries instead of failing the
// user-visible action.
func (s *journalService) appendEntry(ctx context.Context, entry *entities.JournalEntry) error {
	userID := entry.UserID.String()

	var lastErr error
	for attempt := 0; attempt < appendRetryLimit; attempt++ {
		if attempt > 0 {
			if err := s.journalRepository.DeleteOldest(ctx, userID, attempt); err != nil {
				return err
			}
		}

		if err := s.journalRepository.CreateEntry(ctx, entry); err != nil {
			lastErr = err
			continue
		}

		return s.trimToCapacity(ctx, userID)
	}

	return lastErr
}

func (s *journalService) trimToCapacity(ctx context.Context, userID string) error {
	count, err := s.journalRepository.CountEntries(ctx, userID)
	if err != nil {
		return err
	}

	if count > domain.JournalCapacity {
		return s.journalRepository.DeleteOldest(ctx, userID, int(count-domain.JournalCapacity))
	}

	return nil
}

func (s *journalService) List(ctx context.Context, userID string) (domain.JournalListResponse, error) {
	entries, err := s.journalRepository.GetEntries(ctx, userID)
	if err != nil {
		return domain.JournalListResponse{}, err
	}

	response := make([]domain.JournalEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toEntryResponse(entry))
	}

	return domain.JournalListResponse{
		Entries: response,
		Total:   len(response),
	}, nil
}

func (s *journalService) Get(ctx context.Context, id string, userID string) (domain.JournalEntryResponse, error) {
	entry, err := s.journalRepository.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.JournalEntryResponse{}, domain.ErrJournalEntryNotFound
		}
		return domain.JournalEntryResponse{}, err
	}

	if entry.UserID.String() != userID {
		return domain.JournalEntryResponse{}, domain.ErrUserNotAllowed
	}

	return toEntryResponse(entry), nil
}

func (s *journalService) Reset(ctx context.Context, userID string) error {
	return s.journalRepository.DeleteAll(ctx, userID)
}

func toEntryResponse(entry *entities.JournalEntry) domain.JournalEntryResponse {
	var report domain.PlantReport
	if entry.Report != "" {
		// Corrupt stored report JSON degrades to an empty report, never a crash.
		if err := json.Unmarshal([]byte(entry.Report), &report); err != nil {
			report = domain.PlantReport{Name: entry.PlantName, ScientificName: entry.ScientificName}
		}
	}

	return domain.JournalEntryResponse{
		ID:             entry.ID.String(),
		PlantName:      entry.PlantName,
		ScientificName: entry.ScientificName,
		ImageURL:       entry.ImageURL,
		Report:         report,
		CreatedAt:      entry.CreatedAt,
	}
}
