package response

import (
	"time"

	"sessionpass/internal/usecase/commands"
	"sessionpass/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CreatePaymentResponse struct {
	PaymentID       string  `json:"paymentId"`
	ConfirmationURL *string `json:"confirmationUrl,omitempty"`
	Status          string  `json:"status"`
}

type PaymentStatusResponse struct {
	ID              string     `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	TariffID        uuid.UUID  `json:"tariffId"`
	OrderID         string     `json:"orderId"`
	AmountValue     string     `json:"amountValue"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	Paid            bool       `json:"paid"`
	ConfirmationURL *string    `json:"confirmationUrl,omitempty"`
	CapturedAt      *time.Time `json:"capturedAt,omitempty"`
	SubscriptionID  *uuid.UUID `json:"subscriptionId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type NotificationAckResponse struct {
	Status string `json:"status"`
}

func FromCreatePaymentResult(r *commands.CreatePaymentResult) *CreatePaymentResponse {
	return &CreatePaymentResponse{
		PaymentID:       r.PaymentID,
		ConfirmationURL: r.ConfirmationURL,
		Status:          r.Status,
	}
}

func FromPaymentView(v *queries.PaymentView) (*PaymentStatusResponse, error) {
	var resp PaymentStatusResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, err
	}
	return &resp, nil
}
