package readstore

import (
	"context"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type OperatorReadStore struct {
	dbtx db.DBTX
}

func NewOperatorReadStore(dbtx db.DBTX) *OperatorReadStore {
	return &OperatorReadStore{dbtx: dbtx}
}

const selectOperatorByID = `
SELECT id, name, is_active
FROM admins
WHERE id = $1 AND is_active`

// FindByID resolves an authorized operator. Deactivated operators are
// indistinguishable from unknown ones.
func (r *OperatorReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.OperatorSnapshot, error) {
	var snap shared.OperatorSnapshot
	err := r.dbtx.QueryRow(ctx, selectOperatorByID, id).Scan(&snap.ID, &snap.Name, &snap.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("operator not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find operator", err)
	}
	return &snap, nil
}
