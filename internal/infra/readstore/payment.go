package readstore

import (
	"context"

	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/pkg/pgconv"
	"sessionpass/internal/usecase/queries"
)

type PaymentReadStore struct {
	dbtx db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{dbtx: dbtx}
}

const selectPaymentByID = `
SELECT id, user_id, tariff_id, order_id, amount_value, currency, status, paid,
       confirmation_url, captured_at, subscription_id, created_at
FROM payments
WHERE id = $1`

func (r *PaymentReadStore) FindByID(ctx context.Context, id string) (*queries.PaymentView, error) {
	var view queries.PaymentView
	err := r.dbtx.QueryRow(ctx, selectPaymentByID, id).Scan(
		&view.ID, &view.UserID, &view.TariffID, &view.OrderID,
		&view.AmountValue, &view.Currency, &view.Status, &view.Paid,
		&view.ConfirmationURL, &view.CapturedAt, &view.SubscriptionID,
		&view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return &view, nil
}
