package journal

import (
	"context"

	"github.com/leaflens/leaflens-api/entities"
	"gorm.io/gorm"
)

type (
	JournalRepository interface {
		CreateEntry(ctx context.Context, entry *entities.JournalEntry) error
		GetEntryByID(ctx context.Context, id string) (*entities.JournalEntry, error)
		GetEntries(ctx context.Context, userID string) ([]*entities.JournalEntry, error)
		CountEntries(ctx context.Context, userID string) (int64, error)
		DeleteOldest(ctx context.Context, userID string, n int) error
		DeleteAll(ctx context.Context, userID string) error
	}

	journalRepository struct {
		db *gorm.DB
	}
)

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) CreateEntry(ctx context.Context, entry *entities.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *journalRepository) GetEntryByID(ctx context.Context, id string) (*entities.JournalEntry, error) {
	var entry entities.JournalEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) GetEntries(ctx context.Context, userID string) ([]*entities.JournalEntry, error) {
	var entries []*entities.JournalEntry

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *journalRepository) CountEntries(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.JournalEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *journalRepository) DeleteOldest(ctx context.Context, userID string, n int) error {
	if n <= 0 {
		return nil
	}

	sub := r.db.Model(&entities.JournalEntry{}).
		Select("id").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Limit(n)

	return r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Delete(&entities.JournalEntry{}).Error
}

func (r *journalRepository) DeleteAll(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.JournalEntry{}).Error
}
