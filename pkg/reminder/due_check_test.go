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

type fakeUserRepository struct {
	users map[string]*entities.User
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

type fakeNotifier struct {
	sent []domain.DueNotification
}

func (f *fakeNotifier) NotifyDue(_ context.Context, _ string, notification domain.DueNotification) error {
	f.sent = append(f.sent, notification)
	return nil
}

func newTestWorker(now time.Time) (*DueCheckWorker, *fakeReminderRepository, *fakeUserRepository, *fakeNotifier) {
	reminderRepo := &fakeReminderRepository{}
	userRepo := &fakeUserRepository{users: map[string]*entities.User{}}
	notifier := &fakeNotifier{}

	worker := NewDueCheckWorker(reminderRepo, userRepo, notifier)
	worker.now = func() time.Time { return now }
	return worker, reminderRepo, userRepo, notifier
}

func seedProUser(userRepo *fakeUserRepository, pro bool) *entities.User {
	user := &entities.User{
		ID:    uuid.New(),
		Name:  "Jo",
		Email: "jo@example.com",
		IsPro: pro,
	}
	userRepo.users[user.ID.String()] = user
	return user
}

func TestDueCheckWorker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("notifies pro user with due reminder", func(t *testing.T) {
		worker, reminderRepo, userRepo, notifier := newTestWorker(now)
		user := seedProUser(userRepo, true)
		reminderRepo.reminders = append(reminderRepo.reminders, &entities.PlantReminder{
			ID:        uuid.New(),
			UserID:    user.ID,
			PlantName: "Monstera",
			Task:      domain.TaskWatering,
			NextDue:   now.AddDate(0, 0, -1),
		})

		worker.runOnce(ctx)
		require.Len(t, notifier.sent, 1)
		require.Equal(t, "Watering: Monstera is due", notifier.sent[0].Message)
	})

	t.Run("skips free users", func(t *testing.T) {
		worker, reminderRepo, userRepo, notifier := newTestWorker(now)
		user := seedProUser(userRepo, false)
		reminderRepo.reminders = append(reminderRepo.reminders, &entities.PlantReminder{
			ID:      uuid.New(),
			UserID:  user.ID,
			Task:    domain.TaskWatering,
			NextDue: now.AddDate(0, 0, -1),
		})

		worker.runOnce(ctx)
		require.Empty(t, notifier.sent)
	})

	t.Run("same due period is delivered once", func(t *testing.T) {
		worker, reminderRepo, userRepo, notifier := newTestWorker(now)
		user := seedProUser(userRepo, true)
		reminderRepo.reminders = append(reminderRepo.reminders, &entities.PlantReminder{
			ID:      uuid.New(),
			UserID:  user.ID,
			Task:    domain.TaskWatering,
			NextDue: now.AddDate(0, 0, -1),
		})

		worker.runOnce(ctx)
		worker.runOnce(ctx)
		require.Len(t, notifier.sent, 1)
	})

	t.Run("completing re-arms the reminder", func(t *testing.T) {
		worker, reminderRepo, userRepo, notifier := newTestWorker(now)
		user := seedProUser(userRepo, true)
		reminder := &entities.PlantReminder{
			ID:            uuid.New(),
			UserID:        user.ID,
			Task:          domain.TaskWatering,
			FrequencyDays: 7,
			NextDue:       now.AddDate(0, 0, -1),
		}
		reminderRepo.reminders = append(reminderRepo.reminders, reminder)

		worker.runOnce(ctx)
		require.Len(t, notifier.sent, 1)

		// User completes it; a week later it comes due again.
		reminder.NextDue = now.AddDate(0, 0, 7)
		later := now.AddDate(0, 0, 8)
		worker.now = func() time.Time { return later }

		worker.runOnce(ctx)
		require.Len(t, notifier.sent, 2)
	})

	t.Run("muted category never notifies", func(t *testing.T) {
		worker, reminderRepo, userRepo, notifier := newTestWorker(now)
		user := seedProUser(userRepo, true)
		reminderRepo.reminders = append(reminderRepo.reminders, &entities.PlantReminder{
			ID:      uuid.New(),
			UserID:  user.ID,
			Task:    domain.TaskWatering,
			NextDue: now.AddDate(0, 0, -1),
		})
		reminderRepo.settings = append(reminderRepo.settings, &entities.NotificationSetting{
			ID:       uuid.New(),
			UserID:   user.ID,
			Category: domain.TaskWatering,
			Enabled:  false,
		})

		worker.runOnce(ctx)
		require.Empty(t, notifier.sent)
	})
}

func TestDueCheckWorkerRunStopsOnCancel(t *testing.T) {
	worker, _, _, _ := newTestWorker(time.Now().UTC())
	worker.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
