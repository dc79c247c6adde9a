package repository

import (
	"context"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/usecase/shared"
)

type UsageRepository struct{}

func NewUsageRepository() *UsageRepository {
	return &UsageRepository{}
}

const insertUsage = `
INSERT INTO subscription_usage (subscription_id, user_id, operator_id, code, remaining_sessions, used_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// Append writes one immutable audit row per successful redemption.
func (r *UsageRepository) Append(ctx context.Context, dbtx db.DBTX, rec shared.UsageRecord) error {
	_, err := dbtx.Exec(ctx, insertUsage,
		rec.SubscriptionID, rec.UserID, rec.OperatorID,
		rec.Code, rec.RemainingSessions, rec.UsedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append usage record", err)
	}
	return nil
}
