package repository

import (
	"context"
	"time"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

const insertPayment = `
INSERT INTO payments (id, user_id, tariff_id, order_id, amount_value, currency, status, confirmation_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *PaymentRepository) Create(ctx context.Context, dbtx db.DBTX, p shared.PaymentRow) error {
	_, err := dbtx.Exec(ctx, insertPayment,
		p.ID, p.UserID, p.TariffID, p.OrderID,
		p.AmountValue, p.Currency, p.Status, p.ConfirmationURL,
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("payment already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

const updatePaymentEvent = `
UPDATE payments
SET status = $2, paid = $3, captured_at = COALESCE($4, captured_at), updated_at = now()
WHERE id = $1`

func (r *PaymentRepository) RecordEvent(ctx context.Context, dbtx db.DBTX, id, status string, paid bool, capturedAt *time.Time) error {
	tag, err := dbtx.Exec(ctx, updatePaymentEvent, id, status, paid, capturedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to record payment event", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

const markSubscriptionCreated = `
UPDATE payments
SET subscription_id = $2, activation_error = NULL, updated_at = now()
WHERE id = $1`

func (r *PaymentRepository) MarkSubscriptionCreated(ctx context.Context, dbtx db.DBTX, id string, subscriptionID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, markSubscriptionCreated, id, subscriptionID); err != nil {
		return infra.WrapRepoErr("failed to mark subscription created", err)
	}
	return nil
}

const recordActivationError = `
UPDATE payments
SET activation_error = $2, updated_at = now()
WHERE id = $1`

// RecordActivationError keeps downstream activation failures visible on the
// payment row instead of surfacing them to the webhook caller.
func (r *PaymentRepository) RecordActivationError(ctx context.Context, dbtx db.DBTX, id, message string) error {
	if _, err := dbtx.Exec(ctx, recordActivationError, id, message); err != nil {
		return infra.WrapRepoErr("failed to record activation error", err)
	}
	return nil
}
