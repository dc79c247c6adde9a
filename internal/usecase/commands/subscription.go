package commands

import (
	"context"
	"errors"
	"time"

	"sessionpass/internal/domain/redemption"
	"sessionpass/internal/domain/subscription"
	"sessionpass/internal/infra"
	"sessionpass/internal/pkg/clock"
	"sessionpass/internal/pkg/config"
	"sessionpass/internal/pkg/errs"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

// Practically unreachable with 128-bit tokens, but a collision with an
// existing code must mint a fresh token rather than fail the request.
const maxTokenAttempts = 3

type IssueCodeResult struct {
	Code              string
	ExpiresAt         time.Time
	RemainingSessions int
}

type ValidateCodeResult struct {
	RemainingSessions int
}

type SubscriptionCommands interface {
	IssueCode(ctx context.Context, userID uuid.UUID) (*IssueCodeResult, error)
	ValidateCode(ctx context.Context, code string, operatorID uuid.UUID) (*ValidateCodeResult, error)
}

type subscriptionUseCaseImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	codeTTL time.Duration
}

func NewSubscriptionCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.RedemptionConfig) SubscriptionCommands {
	return &subscriptionUseCaseImpl{
		uow:     uow,
		clock:   clk,
		codeTTL: cfg.CodeTTL,
	}
}

// IssueCode mints a single-use code against the caller's active
// subscription. The balance is only inspected here; consuming a session is
// the validator's job.
func (uc *subscriptionUseCaseImpl) IssueCode(ctx context.Context, userID uuid.UUID) (*IssueCodeResult, error) {
	snap, err := uc.uow.CommandReads().ActiveSubscriptionByUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrNoActiveSubscription)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if snap.RemainingSessions <= 0 {
		return nil, errs.ErrInsufficientSessions
	}

	code, err := uc.persistFreshCode(ctx, snap.ID, userID)
	if err != nil {
		return nil, err
	}

	return &IssueCodeResult{
		Code:              code.Value(),
		ExpiresAt:         code.ExpiresAt(),
		RemainingSessions: snap.RemainingSessions,
	}, nil
}

func (uc *subscriptionUseCaseImpl) persistFreshCode(ctx context.Context, subscriptionID, userID uuid.UUID) (*redemption.Code, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		code, err := redemption.NewCode(subscriptionID, userID, uc.clock.Now(), uc.codeTTL)
		if err != nil {
			return nil, errs.Wrap(err, "failed to generate code token")
		}

		err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Codes().Create(ctx, tx.DB(), code)
		})
		if err == nil {
			return code, nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return nil, errs.New("failed to mint unique code token")
}

// ValidateCode consumes a code exactly once. The snapshot checks order the
// caller-visible failures (missing, expired, used, operator, subscription);
// the conditional writes inside the same transaction make the happy path
// atomic and race-safe.
func (uc *subscriptionUseCaseImpl) ValidateCode(ctx context.Context, codeValue string, operatorID uuid.UUID) (*ValidateCodeResult, error) {
	var remaining int

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().CodeByValue(ctx, codeValue)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrCodeNotFound)
			}
			return err
		}

		code, err := redemption.Reconstruct(
			snap.Value, snap.SubscriptionID, snap.UserID,
			snap.CreatedAt, snap.ExpiresAt,
			snap.IsUsed, snap.UsedAt, snap.UsedBy,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		now := uc.clock.Now()
		if err := code.MarkUsed(operatorID, now); err != nil {
			switch {
			case errors.Is(err, redemption.ErrExpired):
				return errs.ErrCodeExpired
			case errors.Is(err, redemption.ErrAlreadyUsed):
				return errs.ErrCodeAlreadyUsed
			default:
				return err
			}
		}

		if _, err := tx.Reads().OperatorByID(ctx, operatorID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrOperatorNotAuthorized)
			}
			return err
		}

		sub, err := tx.Reads().SubscriptionByID(ctx, snap.SubscriptionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSubscriptionNotFound)
			}
			return err
		}

		subEnt, err := subscription.Reconstruct(
			sub.ID, sub.UserID, sub.TariffID, sub.PaymentID,
			sub.StartDate, sub.EndDate,
			sub.TotalSessions, sub.RemainingSessions,
			sub.IsActive, sub.LastUsed,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		// Advisory pre-check on the snapshot; the conditional UPDATE below is
		// what actually decides a race on the last session.
		if err := subEnt.Redeem(now); err != nil {
			return errs.Mark(err, errs.ErrInsufficientSessions)
		}

		if err := tx.Codes().ConsumeUnused(ctx, tx.DB(), codeValue, operatorID, now); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				// Lost the race to a concurrent validation of the same code.
				return errs.Mark(err, errs.ErrCodeAlreadyUsed)
			}
			return err
		}

		remaining, err = tx.Subscriptions().DecrementSessions(ctx, tx.DB(), sub.ID, now)
		if err != nil {
			switch {
			case infra.IsKind(err, infra.KindConflict):
				return errs.Mark(err, errs.ErrInsufficientSessions)
			case infra.IsKind(err, infra.KindNotFound):
				return errs.Mark(err, errs.ErrSubscriptionNotFound)
			default:
				return err
			}
		}

		if err := tx.Usage().Append(ctx, tx.DB(), shared.UsageRecord{
			SubscriptionID:    sub.ID,
			UserID:            snap.UserID,
			OperatorID:        operatorID,
			Code:              codeValue,
			RemainingSessions: remaining,
			UsedAt:            now,
		}); err != nil {
			return err
		}

		return tx.Users().UpdateRemainingSessions(ctx, tx.DB(), snap.UserID, remaining)
	})
	if err != nil {
		return nil, err
	}

	return &ValidateCodeResult{RemainingSessions: remaining}, nil
}
