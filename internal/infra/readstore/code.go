package readstore

import (
	"context"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"
	"sessionpass/internal/usecase/shared"
)

type CodeReadStore struct {
	dbtx db.DBTX
}

func NewCodeReadStore(dbtx db.DBTX) *CodeReadStore {
	return &CodeReadStore{dbtx: dbtx}
}

const selectCodeByValue = `
SELECT code, subscription_id, user_id, created_at, expires_at, is_used, used_at, used_by
FROM redemption_codes
WHERE code = $1`

func (r *CodeReadStore) FindByValue(ctx context.Context, value string) (*shared.CodeSnapshot, error) {
	var snap shared.CodeSnapshot
	err := r.dbtx.QueryRow(ctx, selectCodeByValue, value).Scan(
		&snap.Value, &snap.SubscriptionID, &snap.UserID,
		&snap.CreatedAt, &snap.ExpiresAt,
		&snap.IsUsed, &snap.UsedAt, &snap.UsedBy,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("redemption code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find redemption code", err)
	}
	return &snap, nil
}
