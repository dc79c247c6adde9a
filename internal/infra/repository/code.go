package repository

import (
	"context"
	"time"

	"sessionpass/internal/domain/redemption"
	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CodeRepository struct{}

func NewCodeRepository() *CodeRepository {
	return &CodeRepository{}
}

const insertCode = `
INSERT INTO redemption_codes (code, subscription_id, user_id, created_at, expires_at, is_used)
VALUES ($1, $2, $3, $4, $5, false)`

func (r *CodeRepository) Create(ctx context.Context, dbtx db.DBTX, code *redemption.Code) error {
	_, err := dbtx.Exec(ctx, insertCode,
		code.Value(), code.SubscriptionID(), code.UserID(),
		code.CreatedAt(), code.ExpiresAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("code value collision", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create redemption code", err)
	}
	return nil
}

const consumeCode = `
UPDATE redemption_codes
SET is_used = true, used_at = $2, used_by = $3
WHERE code = $1 AND is_used = false`

// ConsumeUnused is the row-level guard behind the at-most-once redemption
// guarantee; the usecase pre-checks are advisory only.
func (r *CodeRepository) ConsumeUnused(ctx context.Context, dbtx db.DBTX, value string, operatorID uuid.UUID, now time.Time) error {
	tag, err := dbtx.Exec(ctx, consumeCode, value, now, operatorID)
	if err != nil {
		return infra.WrapRepoErr("failed to consume redemption code", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("code already consumed", nil, infra.KindConflict)
	}
	return nil
}
