package queries

import (
	"context"
	"time"

	"sessionpass/internal/infra"
	"sessionpass/internal/pkg/errs"

	"github.com/google/uuid"
)

type PaymentView struct {
	ID              string
	UserID          uuid.UUID
	TariffID        uuid.UUID
	OrderID         string
	AmountValue     string
	Currency        string
	Status          string
	Paid            bool
	ConfirmationURL *string
	CapturedAt      *time.Time
	SubscriptionID  *uuid.UUID
	CreatedAt       time.Time
}

type PaymentReadStore interface {
	FindByID(ctx context.Context, id string) (*PaymentView, error)
}

type PaymentQueries interface {
	GetByID(ctx context.Context, id string) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	store PaymentReadStore
}

func NewPaymentQueries(store PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{store: store}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, id string) (*PaymentView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPaymentNotFound)
		}
		return nil, err
	}
	return view, nil
}
