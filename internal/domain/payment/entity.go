package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Gateway-side payment statuses (YooKassa v3).
const (
	StatusPending           = "pending"
	StatusWaitingForCapture = "waiting_for_capture"
	StatusSucceeded         = "succeeded"
	StatusCanceled          = "canceled"
)

var ErrMissingGatewayID = errors.New("gateway payment id is required")

// Payment mirrors one gateway payment. The gateway assigns the identifier;
// this service only records status transitions reported by webhooks.
type Payment struct {
	id              string
	userID          uuid.UUID
	tariffID        uuid.UUID
	orderID         string
	amountValue     string
	currency        string
	status          string
	paid            bool
	confirmationURL *string
	capturedAt      *time.Time
	createdAt       time.Time
}

func NewPayment(
	gatewayID string,
	userID, tariffID uuid.UUID,
	orderID, amountValue, currency, status string,
	confirmationURL *string,
	now time.Time,
) (*Payment, error) {
	if gatewayID == "" {
		return nil, ErrMissingGatewayID
	}
	return &Payment{
		id:              gatewayID,
		userID:          userID,
		tariffID:        tariffID,
		orderID:         orderID,
		amountValue:     amountValue,
		currency:        currency,
		status:          status,
		confirmationURL: confirmationURL,
		createdAt:       now,
	}, nil
}

// Activates reports whether a status event should trigger subscription
// creation.
func Activates(status string, paid bool) bool {
	return status == StatusSucceeded && paid
}

func (p *Payment) ID() string               { return p.id }
func (p *Payment) UserID() uuid.UUID        { return p.userID }
func (p *Payment) TariffID() uuid.UUID      { return p.tariffID }
func (p *Payment) OrderID() string          { return p.orderID }
func (p *Payment) AmountValue() string      { return p.amountValue }
func (p *Payment) Currency() string         { return p.currency }
func (p *Payment) Status() string           { return p.status }
func (p *Payment) Paid() bool               { return p.paid }
func (p *Payment) ConfirmationURL() *string { return p.confirmationURL }
func (p *Payment) CapturedAt() *time.Time   { return p.capturedAt }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }
