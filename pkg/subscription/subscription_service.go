package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/entities"
	"github.com/leaflens/leaflens-api/internal/utils"
	"github.com/leaflens/leaflens-api/pkg/user"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

const (
	statusPending    = "Pending"
	statusSettlement = "Settlement"
	statusExpired    = "Expired"
	statusCancelled  = "Cancelled"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error)
		HandleNotification(ctx context.Context, notification domain.MidtransNotification) error
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userService            user.UserService
		snapClient             snap.Client
		coreClient             coreapi.Client
	}
)

func NewSubscriptionService(subscriptionRepository SubscriptionRepository, userService user.UserService) SubscriptionService {
	serverKey := utils.GetConfig("SERVER_KEY")
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(serverKey, env)

	var coreClient coreapi.Client
	coreClient.New(serverKey, env)

	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userService:            userService,
		snapClient:             snapClient,
		coreClient:             coreClient,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error) {
	owner, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return domain.SubscribeResponse{}, err
	}
	if owner.IsPro {
		return domain.SubscribeResponse{}, domain.ErrAlreadyPro
	}

	orderID := fmt.Sprintf("leaflens-pro-%s", uuid.New().String())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: domain.ProPlanPrice,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: owner.Name,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "leaflens-pro",
				Name:  "LeafLens Pro (lifetime)",
				Price: domain.ProPlanPrice,
				Qty:   1,
			},
		},
	}

	snapResp, midErr := s.snapClient.CreateTransaction(snapReq)
	if midErr != nil {
		return domain.SubscribeResponse{}, domain.ErrPaymentFailed
	}

	tx := entities.ProTransaction{
		UserID:  owner.ID,
		OrderID: orderID,
		Amount:  domain.ProPlanPrice,
		Status:  statusPending,
		Token:   snapResp.Token,
	}

	if err := s.subscriptionRepository.CreateTransaction(ctx, &tx); err != nil {
		return domain.SubscribeResponse{}, err
	}

	return domain.SubscribeResponse{
		OrderID:     orderID,
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

func (s *subscriptionService) HandleNotification(ctx context.Context, notification domain.MidtransNotification) error {
	if notification.OrderID == "" {
		return domain.ErrInvalidWebhookPayload
	}

	tx, err := s.subscriptionRepository.GetTransactionByOrderID(ctx, notification.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionNotFound
		}
		return err
	}

	// Verify the status against Midtrans instead of trusting the payload.
	statusResp, midErr := s.coreClient.CheckTransaction(notification.OrderID)
	if midErr != nil {
		return domain.ErrPaymentFailed
	}

	switch statusResp.TransactionStatus {
	case "capture":
		if statusResp.FraudStatus != "accept" {
			return nil
		}
		return s.settle(ctx, tx)
	case "settlement":
		return s.settle(ctx, tx)
	case "expire":
		tx.Status = statusExpired
		return s.subscriptionRepository.UpdateTransaction(ctx, tx)
	case "cancel", "deny":
		tx.Status = statusCancelled
		return s.subscriptionRepository.UpdateTransaction(ctx, tx)
	}

	return nil
}

func (s *subscriptionService) settle(ctx context.Context, tx *entities.ProTransaction) error {
	if tx.Status == statusSettlement {
		return nil
	}

	tx.Status = statusSettlement
	if err := s.subscriptionRepository.UpdateTransaction(ctx, tx); err != nil {
		return err
	}

	return s.userService.SetPro(ctx, tx.UserID.String())
}
