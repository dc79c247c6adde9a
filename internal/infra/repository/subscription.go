package repository

import (
	"context"
	"time"

	"sessionpass/internal/domain/subscription"
	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SubscriptionRepository struct{}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

const insertSubscription = `
INSERT INTO subscriptions (
	id, user_id, tariff_id, payment_id, start_date, end_date,
	total_sessions, remaining_sessions, is_active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (payment_id) DO NOTHING`

// Create is idempotent per payment: a redelivered payment event hits the
// payment_id conflict and writes nothing.
func (r *SubscriptionRepository) Create(ctx context.Context, dbtx db.DBTX, sub *subscription.Subscription) (bool, error) {
	tag, err := dbtx.Exec(ctx, insertSubscription,
		sub.ID(), sub.UserID(), sub.TariffID(), sub.PaymentID(),
		sub.StartDate(), sub.EndDate(),
		sub.TotalSessions(), sub.RemainingSessions(), sub.IsActive(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to create subscription", err)
	}
	return tag.RowsAffected() == 1, nil
}

const decrementSessions = `
UPDATE subscriptions
SET remaining_sessions = remaining_sessions - 1, last_used = $2
WHERE id = $1 AND remaining_sessions > 0
RETURNING remaining_sessions`

// DecrementSessions serializes concurrent redemptions on the balance row:
// two racers against one remaining session produce exactly one updated row.
func (r *SubscriptionRepository) DecrementSessions(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) (int, error) {
	var remaining int
	err := dbtx.QueryRow(ctx, decrementSessions, id, now).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !pgconv.IsNoRows(err) {
		return 0, infra.WrapRepoErr("failed to decrement sessions", err)
	}

	// No row updated: either the subscription is gone or the balance is zero.
	var exists bool
	if qErr := dbtx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE id = $1)`, id,
	).Scan(&exists); qErr != nil {
		return 0, infra.WrapRepoErr("failed to check subscription existence", qErr)
	}
	if !exists {
		return 0, infra.WrapRepoErr("subscription not found", err, infra.KindNotFound)
	}
	return 0, infra.WrapRepoErr("no sessions remaining", err, infra.KindConflict)
}
