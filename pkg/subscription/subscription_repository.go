package subscription

import (
	"context"

	"github.com/leaflens/leaflens-api/entities"
	"gorm.io/gorm"
)

type (
	SubscriptionRepository interface {
		CreateTransaction(ctx context.Context, tx *entities.ProTransaction) error
		GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.ProTransaction, error)
		UpdateTransaction(ctx context.Context, tx *entities.ProTransaction) error
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateTransaction(ctx context.Context, tx *entities.ProTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *subscriptionRepository) GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.ProTransaction, error) {
	var tx entities.ProTransaction
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *subscriptionRepository) UpdateTransaction(ctx context.Context, tx *entities.ProTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}
