package commands

import "context"

// GatewayPayment is the slice of the gateway's payment object this service
// cares about.
type GatewayPayment struct {
	ID              string
	Status          string
	ConfirmationURL *string
}

type CreateGatewayPaymentParams struct {
	AmountValue    string
	Currency       string
	Description    string
	ReturnURL      string
	IdempotenceKey string
	Metadata       map[string]string
}

// PaymentGateway is the outbound payment-processor port; the YooKassa client
// implements it.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, params CreateGatewayPaymentParams) (*GatewayPayment, error)
}
