package domain

import "errors"

// ProPlanPrice is the one-off Pro upgrade price in IDR.
const ProPlanPrice int64 = 49000

var (
	MessageSuccessSubscribe = "subscription transaction created"
	MessageSuccessWebhook   = "webhook processed"

	MessageFailedSubscribe = "failed to create subscription transaction"
	MessageFailedWebhook   = "failed to process webhook"

	ErrAlreadyPro            = errors.New("user already has pro access")
	ErrPaymentFailed         = errors.New("payment processing failed")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")
)

type (
	SubscribeRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SubscribeResponse struct {
		OrderID     string `json:"order_id"`
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}

	MidtransNotification struct {
		OrderID           string `json:"order_id"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
	}
)
