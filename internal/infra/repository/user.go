package repository

import (
	"context"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const updateSubscriptionMirror = `
UPDATE users
SET active_subscription_id = $2,
    active_tariff_title = $3,
    remaining_sessions = $4,
    total_sessions = $5,
    subscription_start_date = $6,
    subscription_end_date = $7,
    is_subscription_active = true,
    updated_at = now()
WHERE id = $1`

func (r *UserRepository) UpdateSubscriptionMirror(ctx context.Context, dbtx db.DBTX, m shared.SubscriptionMirror) error {
	tag, err := dbtx.Exec(ctx, updateSubscriptionMirror,
		m.UserID, m.SubscriptionID, m.TariffTitle,
		m.RemainingSessions, m.TotalSessions,
		m.StartDate, m.EndDate,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update user subscription mirror", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

const updateRemainingSessions = `
UPDATE users
SET remaining_sessions = $2, updated_at = now()
WHERE id = $1`

func (r *UserRepository) UpdateRemainingSessions(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, remaining int) error {
	if _, err := dbtx.Exec(ctx, updateRemainingSessions, userID, remaining); err != nil {
		return infra.WrapRepoErr("failed to update user balance mirror", err)
	}
	return nil
}
