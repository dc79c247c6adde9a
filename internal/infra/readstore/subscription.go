package readstore

import (
	"context"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type SubscriptionReadStore struct {
	dbtx db.DBTX
}

func NewSubscriptionReadStore(dbtx db.DBTX) *SubscriptionReadStore {
	return &SubscriptionReadStore{dbtx: dbtx}
}

const subscriptionColumns = `
	id, user_id, tariff_id, payment_id, start_date, end_date,
	total_sessions, remaining_sessions, is_active, last_used`

const selectActiveSubscription = `
SELECT` + subscriptionColumns + `
FROM subscriptions
WHERE user_id = $1 AND is_active
ORDER BY created_at DESC
LIMIT 1`

// FindActiveByUser returns the most recently created active subscription.
func (r *SubscriptionReadStore) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*shared.SubscriptionSnapshot, error) {
	return r.scanOne(ctx, selectActiveSubscription, userID, "no active subscription for user")
}

const selectSubscriptionByID = `
SELECT` + subscriptionColumns + `
FROM subscriptions
WHERE id = $1`

func (r *SubscriptionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.SubscriptionSnapshot, error) {
	return r.scanOne(ctx, selectSubscriptionByID, id, "subscription not found")
}

func (r *SubscriptionReadStore) scanOne(ctx context.Context, query string, arg any, notFoundMsg string) (*shared.SubscriptionSnapshot, error) {
	var snap shared.SubscriptionSnapshot
	err := r.dbtx.QueryRow(ctx, query, arg).Scan(
		&snap.ID, &snap.UserID, &snap.TariffID, &snap.PaymentID,
		&snap.StartDate, &snap.EndDate,
		&snap.TotalSessions, &snap.RemainingSessions,
		&snap.IsActive, &snap.LastUsed,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find subscription", err)
	}
	return &snap, nil
}
