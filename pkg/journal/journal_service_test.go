package journal

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/entities"
	"github.com/leaflens/leaflens-api/pkg/identify"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeJournalRepository struct {
	entries   []*entities.JournalEntry
	createErr error
	clock     time.Time
}

func (f *fakeJournalRepository) CreateEntry(_ context.Context, entry *entities.JournalEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.clock = f.clock.Add(time.Second)
	entry.CreatedAt = f.clock
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournalRepository) GetEntryByID(_ context.Context, id string) (*entities.JournalEntry, error) {
	for _, entry := range f.entries {
		if entry.ID.String() == id {
			return entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeJournalRepository) GetEntries(_ context.Context, userID string) ([]*entities.JournalEntry, error) {
	var out []*entities.JournalEntry
	for _, entry := range f.entries {
		if entry.UserID.String() == userID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeJournalRepository) CountEntries(_ context.Context, userID string) (int64, error) {
	entries, _ := f.GetEntries(context.Background(), userID)
	return int64(len(entries)), nil
}

func (f *fakeJournalRepository) DeleteOldest(_ context.Context, userID string, n int) error {
	entries, _ := f.GetEntries(context.Background(), userID)
	if n > len(entries) {
		n = len(entries)
	}
	doomed := map[uuid.UUID]bool{}
	for _, entry := range entries[len(entries)-n:] {
		doomed[entry.ID] = true
	}

	kept := f.entries[:0]
	for _, entry := range f.entries {
		if !doomed[entry.ID] {
			kept = append(kept, entry)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeJournalRepository) DeleteAll(_ context.Context, userID string) error {
	kept := f.entries[:0]
	for _, entry := range f.entries {
		if entry.UserID.String() != userID {
			kept = append(kept, entry)
		}
	}
	f.entries = kept
	return nil
}

type fakeIdentifyService struct {
	report domain.PlantReport
	err    error
	calls  int
}

func (f *fakeIdentifyService) IdentifyPlant(_ context.Context, _ *multipart.FileHeader, _ identify.IdentifyHints) (domain.PlantReport, error) {
	f.calls++
	return f.report, f.err
}

func (f *fakeIdentifyService) DiagnosePlant(_ context.Context, _ *multipart.FileHeader, _ string) (domain.HealthReport, error) {
	return domain.HealthReport{}, nil
}

func (f *fakeIdentifyService) GenerateReferenceImage(_ context.Context, _ string) ([]byte, string, error) {
	return nil, "", domain.ErrNoReferenceImage
}

func (f *fakeIdentifyService) FindNearbyShops(_ context.Context, _, _ float64) ([]domain.PlaceRef, error) {
	return nil, nil
}

type fakeS3 struct {
	uploadErr error
}

func (f *fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return dir + "/" + fileName, nil
}

func (f *fakeS3) UploadBuffer(fileName string, _ []byte, _ string, dir string) (string, error) {
	return dir + "/" + fileName, nil
}

func (f *fakeS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeS3) DeleteFile(_ string) error { return nil }

func (f *fakeS3) GetObjectKeyFromLink(link string) string { return link }
func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.example.com/" + objectKey
}

func sampleReport(name string) domain.PlantReport {
	return domain.PlantReport{
		Name:           name,
		ScientificName: "Monstera deliciosa",
		Family:         "Araceae",
		Description:    "A climbing aroid with fenestrated leaves.",
		Facts:          []string{"Native to Central America"},
		IsToxic:        true,
		ToxicityDetails: "Calcium oxalate crystals irritate mouths " +
			"of pets and people.",
		Confidence: 0.93,
		CareGuide: domain.CareGuide{
			Watering: "Weekly, when topsoil is dry",
			Light:    "Bright indirect",
		},
	}
}

func newTestJournalService(report domain.PlantReport, identifyErr error) (*journalService, *fakeJournalRepository, *fakeIdentifyService) {
	repo := &fakeJournalRepository{clock: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	ai := &fakeIdentifyService{report: report, err: identifyErr}
	svc := &journalService{
		journalRepository: repo,
		identifyService:   ai,
		s3:                &fakeS3{},
	}
	return svc, repo, ai
}

func TestJournalIdentifyAndRecord(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("successful identification is recorded", func(t *testing.T) {
		svc, repo, _ := newTestJournalService(sampleReport("Monstera"), nil)

		res, err := svc.IdentifyAndRecord(ctx, domain.IdentifyPlantRequest{}, userID.String())
		require.NoError(t, err)
		require.NotEmpty(t, res.EntryID)
		require.Equal(t, "Monstera", res.Report.Name)
		require.Len(t, repo.entries, 1)
		require.Equal(t, "Monstera", repo.entries[0].PlantName)
	})

	t.Run("failed analysis persists nothing", func(t *testing.T) {
		svc, repo, _ := newTestJournalService(domain.PlantReport{}, errors.New("model unavailable"))

		_, err := svc.IdentifyAndRecord(ctx, domain.IdentifyPlantRequest{}, userID.String())
		require.ErrorIs(t, err, domain.ErrGeminiProcessingFailed)
		require.Empty(t, repo.entries)
	})

	t.Run("persistence failure still returns the report", func(t *testing.T) {
		svc, repo, _ := newTestJournalService(sampleReport("Monstera"), nil)
		repo.createErr = errors.New("disk full")

		res, err := svc.IdentifyAndRecord(ctx, domain.IdentifyPlantRequest{}, userID.String())
		require.NoError(t, err)
		require.Empty(t, res.EntryID)
		require.Equal(t, "Monstera", res.Report.Name)
	})

	t.Run("capacity bound keeps the newest entries", func(t *testing.T) {
		svc, repo, ai := newTestJournalService(sampleReport("Plant"), nil)

		for i := 1; i <= 20; i++ {
			ai.report = sampleReport(fmt.Sprintf("Plant %d", i))
			_, err := svc.IdentifyAndRecord(ctx, domain.IdentifyPlantRequest{}, userID.String())
			require.NoError(t, err)
		}

		list, err := svc.List(ctx, userID.String())
		require.NoError(t, err)
		require.Equal(t, domain.JournalCapacity, list.Total)
		require.Equal(t, "Plant 20", list.Entries[0].PlantName)
		require.Equal(t, "Plant 6", list.Entries[len(list.Entries)-1].PlantName)
		require.Len(t, repo.entries, domain.JournalCapacity)
	})
}

func TestJournalListAndGet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("empty journal lists zero entries", func(t *testing.T) {
		svc, _, _ := newTestJournalService(sampleReport("Monstera"), nil)
		list, err := svc.List(ctx, userID.String())
		require.NoError(t, err)
		require.Equal(t, 0, list.Total)
		require.NotNil(t, list.Entries)
	})

	t.Run("get unknown entry", func(t *testing.T) {
		svc, _, _ := newTestJournalService(sampleReport("Monstera"), nil)
		_, err := svc.Get(ctx, uuid.New().String(), userID.String())
		require.ErrorIs(t, err, domain.ErrJournalEntryNotFound)
	})

	t.Run("get another users entry", func(t *testing.T) {
		svc, _, _ := newTestJournalService(sampleReport("Monstera"), nil)
		res, err := svc.IdentifyAndRecord(ctx, domain.IdentifyPlantRequest{}, userID.String())
		require.NoError(t, err)

		_, err = svc.Get(ctx, res.EntryID, uuid.New().String())
		require.ErrorIs(t, err, domain.ErrUserNotAllowed)
	})

	t.Run("corrupt stored report degrades to names only", func(t *testing.T) {
		svc, repo, _ := newTestJournalService(sampleReport("Monstera"), nil)
		entry := &entities.JournalEntry{
			ID:             uuid.New(),
			UserID:         userID,
			PlantName:      "Monstera",
			ScientificName: "Monstera deliciosa",
			Report:         "{not json",
		}
		require.NoError(t, repo.CreateEntry(ctx, entry))

		res, err := svc.Get(ctx, entry.ID.String(), userID.String())
		require.NoError(t, err)
		require.Equal(t, "Monstera", res.Report.Name)
		require.Equal(t, "Monstera deliciosa", res.Report.ScientificName)
	})
}

func TestJournalReset(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	other := uuid.New()

	svc, repo, _ := newTestJournalService(sampleReport("Monstera"), nil)
	_, err := svc.IdentifyAndRecord(ctx, domain.IdentifyPlantRequest{}, userID.String())
	require.NoError(t, err)
	_, err = svc.IdentifyAndRecord(ctx, domain.IdentifyPlantRequest{}, other.String())
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, userID.String()))

	list, err := svc.List(ctx, userID.String())
	require.NoError(t, err)
	require.Equal(t, 0, list.Total)

	// Other users are untouched.
	list, err = svc.List(ctx, other.String())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	require.Len(t, repo.entries, 1)
}
