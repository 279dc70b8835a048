package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/entities"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReminderRepository struct {
	reminders []*entities.PlantReminder
	settings  []*entities.NotificationSetting
}

func (f *fakeReminderRepository) CreateReminder(_ context.Context, reminder *entities.PlantReminder) error {
	f.reminders = append([]*entities.PlantReminder{reminder}, f.reminders...)
	return nil
}

func (f *fakeReminderRepository) GetReminderByID(_ context.Context, id string) (*entities.PlantReminder, error) {
	for _, reminder := range f.reminders {
		if reminder.ID.String() == id {
			return reminder, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReminderRepository) GetReminders(_ context.Context, userID string) ([]*entities.PlantReminder, error) {
	var out []*entities.PlantReminder
	for _, reminder := range f.reminders {
		if reminder.UserID.String() == userID {
			out = append(out, reminder)
		}
	}
	return out, nil
}

func (f *fakeReminderRepository) UpdateReminder(_ context.Context, reminder *entities.PlantReminder) error {
	for i, existing := range f.reminders {
		if existing.ID == reminder.ID {
			f.reminders[i] = reminder
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeReminderRepository) DeleteReminder(_ context.Context, id string, userID string) error {
	for i, reminder := range f.reminders {
		if reminder.ID.String() == id && reminder.UserID.String() == userID {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeReminderRepository) GetUserIDsWithDueReminders(_ context.Context, now time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, reminder := range f.reminders {
		if !reminder.NextDue.After(now) && !seen[reminder.UserID.String()] {
			seen[reminder.UserID.String()] = true
			out = append(out, reminder.UserID.String())
		}
	}
	return out, nil
}

func (f *fakeReminderRepository) GetSettings(_ context.Context, userID string) ([]*entities.NotificationSetting, error) {
	var out []*entities.NotificationSetting
	for _, setting := range f.settings {
		if setting.UserID.String() == userID {
			out = append(out, setting)
		}
	}
	return out, nil
}

func (f *fakeReminderRepository) UpsertSetting(_ context.Context, setting *entities.NotificationSetting) error {
	for _, existing := range f.settings {
		if existing.UserID == setting.UserID && existing.Category == setting.Category {
			existing.Enabled = setting.Enabled
			return nil
		}
	}
	f.settings = append(f.settings, setting)
	return nil
}

type fakeJournalRepository struct {
	entries []*entities.JournalEntry
}

func (f *fakeJournalRepository) CreateEntry(_ context.Context, entry *entities.JournalEntry) error {
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
	return out, nil
}

func (f *fakeJournalRepository) CountEntries(_ context.Context, userID string) (int64, error) {
	entries, _ := f.GetEntries(context.Background(), userID)
	return int64(len(entries)), nil
}

func (f *fakeJournalRepository) DeleteOldest(_ context.Context, _ string, _ int) error { return nil }

func (f *fakeJournalRepository) DeleteAll(_ context.Context, _ string) error { return nil }

func newTestService(now time.Time) (*reminderService, *fakeReminderRepository, *fakeJournalRepository) {
	reminderRepo := &fakeReminderRepository{}
	journalRepo := &fakeJournalRepository{}
	svc := &reminderService{
		reminderRepository: reminderRepo,
		journalRepository:  journalRepo,
		now:                func() time.Time { return now },
	}
	return svc, reminderRepo, journalRepo
}

func TestReminderServiceCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("frequency below one day rejected", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.Create(ctx, domain.CreateReminderRequest{
			Task:          domain.TaskWatering,
			CustomLabel:   "water it",
			FrequencyDays: 0,
		}, userID.String())
		require.ErrorIs(t, err, domain.ErrInvalidFrequency)
	})

	t.Run("unknown task category rejected", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.Create(ctx, domain.CreateReminderRequest{
			Task:          "Watering!!",
			FrequencyDays: 7,
		}, userID.String())
		require.ErrorIs(t, err, domain.ErrUnknownTaskCategory)
	})

	t.Run("no plant and no custom label rejected", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.Create(ctx, domain.CreateReminderRequest{
			Task:          domain.TaskWatering,
			FrequencyDays: 7,
		}, userID.String())
		require.ErrorIs(t, err, domain.ErrReminderLabelRequired)
	})

	t.Run("next due is now plus frequency", func(t *testing.T) {
		svc, _, journalRepo := newTestService(now)
		entry := &entities.JournalEntry{ID: uuid.New(), UserID: userID, PlantName: "Monstera"}
		journalRepo.entries = append(journalRepo.entries, entry)

		res, err := svc.Create(ctx, domain.CreateReminderRequest{
			PlantID:       entry.ID.String(),
			Task:          domain.TaskWatering,
			FrequencyDays: 7,
		}, userID.String())
		require.NoError(t, err)
		require.Equal(t, "Monstera", res.PlantName)
		require.Equal(t, now.AddDate(0, 0, 7), res.NextDue)
		require.Equal(t, domain.DueStatusScheduled, res.DueStatus)
		require.Equal(t, 7, res.DueInDays)
	})

	t.Run("linked plant of another user rejected", func(t *testing.T) {
		svc, _, journalRepo := newTestService(now)
		entry := &entities.JournalEntry{ID: uuid.New(), UserID: uuid.New(), PlantName: "Ficus"}
		journalRepo.entries = append(journalRepo.entries, entry)

		_, err := svc.Create(ctx, domain.CreateReminderRequest{
			PlantID:       entry.ID.String(),
			Task:          domain.TaskWatering,
			FrequencyDays: 7,
		}, userID.String())
		require.ErrorIs(t, err, domain.ErrUserNotAllowed)
	})

	t.Run("other with custom label keeps the label", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		res, err := svc.Create(ctx, domain.CreateReminderRequest{
			Task:          domain.TaskOther,
			CustomLabel:   "Check for spider mites",
			FrequencyDays: 3,
		}, userID.String())
		require.NoError(t, err)
		require.Equal(t, "Check for spider mites", res.Task)
		require.Len(t, repo.reminders, 1)
	})
}

func TestReminderServiceComplete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	seed := func(svc *reminderService) domain.ReminderResponse {
		res, err := svc.Create(ctx, domain.CreateReminderRequest{
			Task:          domain.TaskOther,
			CustomLabel:   "Dust the leaves",
			FrequencyDays: 7,
		}, userID.String())
		require.NoError(t, err)
		return res
	}

	t.Run("recomputes from completion time not stale due date", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		created := seed(svc)

		// Completed three days late.
		late := now.AddDate(0, 0, 10)
		svc.now = func() time.Time { return late }

		res, err := svc.Complete(ctx, created.ID, userID.String())
		require.NoError(t, err)
		require.Equal(t, late, res.LastCompleted)
		require.Equal(t, late.AddDate(0, 0, 7), res.NextDue)
	})

	t.Run("double complete advances twice", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		created := seed(svc)

		first := now.AddDate(0, 0, 7)
		svc.now = func() time.Time { return first }
		_, err := svc.Complete(ctx, created.ID, userID.String())
		require.NoError(t, err)

		second := first.Add(time.Hour)
		svc.now = func() time.Time { return second }
		res, err := svc.Complete(ctx, created.ID, userID.String())
		require.NoError(t, err)
		require.Equal(t, second.AddDate(0, 0, 7), res.NextDue)
	})

	t.Run("unknown reminder", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.Complete(ctx, uuid.New().String(), userID.String())
		require.ErrorIs(t, err, domain.ErrReminderNotFound)
	})

	t.Run("other users reminder", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		created := seed(svc)
		_, err := svc.Complete(ctx, created.ID, uuid.New().String())
		require.ErrorIs(t, err, domain.ErrUserNotAllowed)
	})
}

func TestReminderServiceCheckDueForUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("nothing due", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.Create(ctx, domain.CreateReminderRequest{
			Task:          domain.TaskOther,
			CustomLabel:   "Rotate the pot",
			FrequencyDays: 7,
		}, userID.String())
		require.NoError(t, err)

		res, err := svc.CheckDueForUser(ctx, userID.String())
		require.NoError(t, err)
		require.False(t, res.Due)
		require.Nil(t, res.Notification)
	})

	t.Run("due reminder surfaces one notification", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		repo.reminders = append(repo.reminders, &entities.PlantReminder{
			ID:            uuid.New(),
			UserID:        userID,
			PlantName:     "Monstera",
			Task:          domain.TaskWatering,
			FrequencyDays: 7,
			NextDue:       now.AddDate(0, 0, -1),
		})

		res, err := svc.CheckDueForUser(ctx, userID.String())
		require.NoError(t, err)
		require.True(t, res.Due)
		require.NotNil(t, res.Notification)
		require.Equal(t, "Watering: Monstera is due", res.Notification.Message)
	})

	t.Run("muted category suppresses the notification", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		repo.reminders = append(repo.reminders, &entities.PlantReminder{
			ID:            uuid.New(),
			UserID:        userID,
			PlantName:     "Monstera",
			Task:          domain.TaskWatering,
			FrequencyDays: 7,
			NextDue:       now.AddDate(0, 0, -1),
		})
		repo.settings = append(repo.settings, &entities.NotificationSetting{
			ID:       uuid.New(),
			UserID:   userID,
			Category: domain.TaskWatering,
			Enabled:  false,
		})

		res, err := svc.CheckDueForUser(ctx, userID.String())
		require.NoError(t, err)
		require.False(t, res.Due)
	})
}

func TestReminderServiceSettings(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("defaults all enabled", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		res, err := svc.GetSettings(ctx, userID.String())
		require.NoError(t, err)
		require.Len(t, res.Settings, len(domain.TaskCategories))
		for _, category := range domain.TaskCategories {
			require.True(t, res.Settings[category])
		}
	})

	t.Run("toggle persists and merges", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		enabled := false
		res, err := svc.UpdateSetting(ctx, domain.UpdateSettingRequest{
			Category: domain.TaskPruning,
			Enabled:  &enabled,
		}, userID.String())
		require.NoError(t, err)
		require.False(t, res.Settings[domain.TaskPruning])
		require.True(t, res.Settings[domain.TaskWatering])
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		enabled := true
		_, err := svc.UpdateSetting(ctx, domain.UpdateSettingRequest{
			Category: "Singing",
			Enabled:  &enabled,
		}, userID.String())
		require.ErrorIs(t, err, domain.ErrUnknownTaskCategory)
	})
}
