package commands

import (
	"context"
	"log/slog"
	"time"

	"sessionpass/internal/domain/payment"
	"sessionpass/internal/domain/subscription"
	"sessionpass/internal/domain/tariff"
	"sessionpass/internal/infra"
	"sessionpass/internal/pkg/clock"
	"sessionpass/internal/pkg/errs"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreatePaymentInput struct {
	AmountValue string
	UserID      uuid.UUID
	TariffID    uuid.UUID
	OrderID     string
	ReturnURL   string
}

type CreatePaymentResult struct {
	PaymentID       string
	ConfirmationURL *string
	Status          string
}

// GatewayEvent is one payment-status notification from the processor's
// at-least-once webhook delivery.
type GatewayEvent struct {
	PaymentID  string
	Status     string
	Paid       bool
	CapturedAt *time.Time
	UserID     *uuid.UUID
	TariffID   *uuid.UUID
}

type PaymentCommands interface {
	CreatePayment(ctx context.Context, in CreatePaymentInput) (*CreatePaymentResult, error)
	HandleGatewayEvent(ctx context.Context, evt GatewayEvent) error
}

type paymentUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	clock   clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, gateway PaymentGateway, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:     uow,
		gateway: gateway,
		clock:   clk,
	}
}

func (uc *paymentUseCaseImpl) CreatePayment(ctx context.Context, in CreatePaymentInput) (*CreatePaymentResult, error) {
	reads := uc.uow.CommandReads()

	exists, err := reads.UserExists(ctx, in.UserID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !exists {
		return nil, errs.ErrUserNotFound
	}

	tariffSnap, err := reads.TariffByID(ctx, in.TariffID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTariffNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	gwPayment, err := uc.gateway.CreatePayment(ctx, CreateGatewayPaymentParams{
		AmountValue:    in.AmountValue,
		Currency:       "RUB",
		Description:    tariffSnap.Title,
		ReturnURL:      in.ReturnURL,
		IdempotenceKey: in.OrderID,
		Metadata: map[string]string{
			"userId":   in.UserID.String(),
			"tariffId": in.TariffID.String(),
			"orderId":  in.OrderID,
		},
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrGatewayUnavailable)
	}

	p, err := payment.NewPayment(
		gwPayment.ID, in.UserID, in.TariffID,
		in.OrderID, in.AmountValue, "RUB", gwPayment.Status,
		gwPayment.ConfirmationURL, uc.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().Create(ctx, tx.DB(), shared.PaymentRow{
			ID:              p.ID(),
			UserID:          p.UserID(),
			TariffID:        p.TariffID(),
			OrderID:         p.OrderID(),
			AmountValue:     p.AmountValue(),
			Currency:        p.Currency(),
			Status:          p.Status(),
			ConfirmationURL: p.ConfirmationURL(),
		})
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &CreatePaymentResult{
		PaymentID:       p.ID(),
		ConfirmationURL: p.ConfirmationURL(),
		Status:          p.Status(),
	}, nil
}

// HandleGatewayEvent durably records the status event, then attempts
// subscription activation. Activation failures are logged and written to the
// payment row, never returned: the upstream redelivers on non-success, and
// redelivery cannot fix a catalog gap.
func (uc *paymentUseCaseImpl) HandleGatewayEvent(ctx context.Context, evt GatewayEvent) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().RecordEvent(ctx, tx.DB(), evt.PaymentID, evt.Status, evt.Paid, evt.CapturedAt)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrPaymentNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !payment.Activates(evt.Status, evt.Paid) || evt.UserID == nil || evt.TariffID == nil {
		return nil
	}

	if err := uc.activateSubscription(ctx, evt); err != nil {
		slog.Error("subscription activation failed",
			"payment_id", evt.PaymentID,
			"user_id", evt.UserID.String(),
			"error", err.Error())
		uc.recordActivationError(ctx, evt.PaymentID, err)
	}
	return nil
}

func (uc *paymentUseCaseImpl) activateSubscription(ctx context.Context, evt GatewayEvent) error {
	tariffSnap, err := uc.uow.CommandReads().TariffByID(ctx, *evt.TariffID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrTariffNotFound)
		}
		return err
	}

	t, err := tariff.NewTariff(tariffSnap.ID, tariffSnap.Title, tariffSnap.Duration, tariffSnap.SessionCount, tariffSnap.PriceCents)
	if err != nil {
		return errs.Mark(err, errs.ErrTariffInvalid)
	}

	sub, err := subscription.NewSubscription(*evt.UserID, t, evt.PaymentID, uc.clock.Now())
	if err != nil {
		return errs.Mark(err, errs.ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Subscriptions().Create(ctx, tx.DB(), sub)
		if err != nil {
			return err
		}
		if !created {
			// Redelivered event; the earlier delivery already activated.
			slog.Info("subscription already exists for payment, skipping",
				"payment_id", evt.PaymentID)
			return nil
		}

		if err := tx.Users().UpdateSubscriptionMirror(ctx, tx.DB(), shared.SubscriptionMirror{
			UserID:            sub.UserID(),
			SubscriptionID:    sub.ID(),
			TariffTitle:       t.Title(),
			RemainingSessions: sub.RemainingSessions(),
			TotalSessions:     sub.TotalSessions(),
			StartDate:         sub.StartDate(),
			EndDate:           sub.EndDate(),
		}); err != nil {
			return err
		}

		return tx.Payments().MarkSubscriptionCreated(ctx, tx.DB(), evt.PaymentID, sub.ID())
	})
}

func (uc *paymentUseCaseImpl) recordActivationError(ctx context.Context, paymentID string, cause error) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().RecordActivationError(ctx, tx.DB(), paymentID, cause.Error())
	})
	if err != nil {
		slog.Error("failed to record activation error",
			"payment_id", paymentID,
			"error", err.Error())
	}
}
