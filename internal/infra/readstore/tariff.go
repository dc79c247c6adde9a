package readstore

import (
	"context"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type TariffReadStore struct {
	dbtx db.DBTX
}

func NewTariffReadStore(dbtx db.DBTX) *TariffReadStore {
	return &TariffReadStore{dbtx: dbtx}
}

const selectTariffByID = `
SELECT id, title, duration, session_count, price_cents
FROM tariffs
WHERE id = $1`

func (r *TariffReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.TariffSnapshot, error) {
	var snap shared.TariffSnapshot
	err := r.dbtx.QueryRow(ctx, selectTariffByID, id).Scan(
		&snap.ID, &snap.Title, &snap.Duration, &snap.SessionCount, &snap.PriceCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("tariff not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find tariff", err)
	}
	return &snap, nil
}
