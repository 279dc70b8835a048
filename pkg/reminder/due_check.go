package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/internal/utils/mailing"
	"github.com/leaflens/leaflens-api/pkg/user"
)

// DueCheckInterval is how often the worker polls persisted reminders. Each
// firing surfaces at most one notification per user.
const DueCheckInterval = 60 * time.Second

type (
	// Notifier delivers a due notification outside the request cycle.
	Notifier interface {
		NotifyDue(ctx context.Context, email string, notification domain.DueNotification) error
	}

	// DueCheckWorker drives the recurring due check. It only reads reminder
	// state; completing a reminder stays a user action.
	DueCheckWorker struct {
		reminderRepository ReminderRepository
		userRepository     user.UserRepository
		notifier           Notifier
		interval           time.Duration
		now                func() time.Time

		mu       sync.Mutex
		notified map[string]time.Time // reminder id -> when last surfaced
	}
)

func NewDueCheckWorker(reminderRepository ReminderRepository, userRepository user.UserRepository, notifier Notifier) *DueCheckWorker {
	return &DueCheckWorker{
		reminderRepository: reminderRepository,
		userRepository:     userRepository,
		notifier:           notifier,
		interval:           DueCheckInterval,
		now:                func() time.Time { return time.Now().UTC() },
		notified:           make(map[string]time.Time),
	}
}

// Run polls until ctx is canceled. Firings never overlap: each one completes
// before the next tick is handled.
func (w *DueCheckWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *DueCheckWorker) runOnce(ctx context.Context) {
	now := w.now()

	userIDs, err := w.reminderRepository.GetUserIDsWithDueReminders(ctx, now)
	if err != nil {
		log.Printf("due check: failed to list users with due reminders: %v", err)
		return
	}

	for _, userID := range userIDs {
		if err := w.checkUser(ctx, userID, now); err != nil {
			log.Printf("due check: user %s: %v", userID, err)
		}
	}
}

func (w *DueCheckWorker) checkUser(ctx context.Context, userID string, now time.Time) error {
	reminders, err := w.reminderRepository.GetReminders(ctx, userID)
	if err != nil {
		return err
	}

	rows, err := w.reminderRepository.GetSettings(ctx, userID)
	if err != nil {
		return err
	}

	due := CheckDue(reminders, SettingsWithDefaults(rows), now)
	if due == nil {
		return nil
	}

	// One delivery per due period; completing the reminder moves next_due
	// forward, which re-arms it here.
	w.mu.Lock()
	last, seen := w.notified[due.ID.String()]
	if seen && last.After(due.NextDue) {
		w.mu.Unlock()
		return nil
	}
	w.notified[due.ID.String()] = now
	w.mu.Unlock()

	owner, err := w.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !owner.IsPro {
		return nil
	}

	return w.notifier.NotifyDue(ctx, owner.Email, NotificationFor(due))
}

// EmailNotifier sends due notifications through the mailing stack.
type EmailNotifier struct{}

func NewEmailNotifier() Notifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) NotifyDue(_ context.Context, email string, notification domain.DueNotification) error {
	body := fmt.Sprintf(
		"<p>Hi,</p><p>%s.</p><p>Open LeafLens to mark it done and schedule the next one.</p>",
		notification.Message,
	)
	return mailing.SendMail(email, "Plant care reminder: "+notification.Task, body)
}
