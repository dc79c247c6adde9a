//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sessionpass/internal/infra"
	"sessionpass/internal/pkg/clock"
	"sessionpass/internal/pkg/config"
	"sessionpass/internal/pkg/errs"
	"sessionpass/internal/usecase/commands"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const codeTTL = 30 * time.Second

func newSubscriptionCommands(store *fakeStore, clk clock.Clock) commands.SubscriptionCommands {
	return commands.NewSubscriptionCommands(newFakeUoW(store), clk, config.RedemptionConfig{CodeTTL: codeTTL})
}

func TestIssueCode(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("issues a fresh code against the active subscription", func(t *testing.T) {
		store := newFakeStore()
		userID := uuid.New()
		snap := store.addActiveSubscription(userID, 5)
		uc := newSubscriptionCommands(store, clock.NewMockClock(now))

		result, err := uc.IssueCode(ctx, userID)
		require.NoError(t, err)

		assert.Len(t, result.Code, 32)
		assert.Equal(t, now.Add(codeTTL), result.ExpiresAt)
		assert.Equal(t, 5, result.RemainingSessions)

		stored, ok := store.codes[result.Code]
		require.True(t, ok)
		assert.Equal(t, snap.ID, stored.SubscriptionID)
		assert.Equal(t, userID, stored.UserID)
		assert.False(t, stored.IsUsed)
	})

	t.Run("no active subscription", func(t *testing.T) {
		store := newFakeStore()
		uc := newSubscriptionCommands(store, clock.NewMockClock(now))

		_, err := uc.IssueCode(ctx, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNoActiveSubscription), "unexpected error: %v", err)
	})

	t.Run("zero balance refuses issuance", func(t *testing.T) {
		store := newFakeStore()
		userID := uuid.New()
		store.addActiveSubscription(userID, 0)
		uc := newSubscriptionCommands(store, clock.NewMockClock(now))

		_, err := uc.IssueCode(ctx, userID)
		assert.True(t, errs.Is(err, errs.ErrInsufficientSessions), "unexpected error: %v", err)
		assert.Empty(t, store.codes)
	})

	t.Run("retries on token collision", func(t *testing.T) {
		store := newFakeStore()
		userID := uuid.New()
		store.addActiveSubscription(userID, 3)
		dup := infra.WrapRepoErr("duplicate code", errors.New("duplicate"), infra.KindDuplicateKey)
		store.codeCreateErrors = []error{dup, dup}
		uc := newSubscriptionCommands(store, clock.NewMockClock(now))

		result, err := uc.IssueCode(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, store.codes, 1)
		assert.Contains(t, store.codes, result.Code)
	})

	t.Run("gives up after exhausting collision retries", func(t *testing.T) {
		store := newFakeStore()
		userID := uuid.New()
		store.addActiveSubscription(userID, 3)
		dup := infra.WrapRepoErr("duplicate code", errors.New("duplicate"), infra.KindDuplicateKey)
		store.codeCreateErrors = []error{dup, dup, dup}
		uc := newSubscriptionCommands(store, clock.NewMockClock(now))

		_, err := uc.IssueCode(ctx, userID)
		assert.Error(t, err)
	})
}

func TestValidateCode(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()

	type fixture struct {
		store      *fakeStore
		clk        *clock.MockClock
		uc         commands.SubscriptionCommands
		userID     uuid.UUID
		operatorID uuid.UUID
		code       string
	}

	setup := func(t *testing.T, remaining int) *fixture {
		t.Helper()
		store := newFakeStore()
		clk := clock.NewMockClock(now)
		uc := newSubscriptionCommands(store, clk)

		userID := uuid.New()
		store.addActiveSubscription(userID, remaining)

		operatorID := uuid.New()
		store.operators[operatorID] = &shared.OperatorSnapshot{ID: operatorID, Name: "front desk", IsActive: true}

		result, err := uc.IssueCode(ctx, userID)
		require.NoError(t, err)

		return &fixture{store: store, clk: clk, uc: uc, userID: userID, operatorID: operatorID, code: result.Code}
	}

	t.Run("happy path consumes one session atomically", func(t *testing.T) {
		f := setup(t, 5)
		f.clk.Add(10 * time.Second)

		result, err := f.uc.ValidateCode(ctx, f.code, f.operatorID)
		require.NoError(t, err)
		assert.Equal(t, 4, result.RemainingSessions)

		stored := f.store.codes[f.code]
		assert.True(t, stored.IsUsed)
		require.NotNil(t, stored.UsedBy)
		assert.Equal(t, f.operatorID, *stored.UsedBy)

		require.Len(t, f.store.usage, 1)
		rec := f.store.usage[0]
		assert.Equal(t, f.code, rec.Code)
		assert.Equal(t, f.operatorID, rec.OperatorID)
		assert.Equal(t, 4, rec.RemainingSessions)

		assert.Equal(t, 4, f.store.mirrorRemaining[f.userID])
	})

	t.Run("exactly at expiry is still valid", func(t *testing.T) {
		f := setup(t, 2)
		f.clk.Add(codeTTL)

		result, err := f.uc.ValidateCode(ctx, f.code, f.operatorID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.RemainingSessions)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := setup(t, 2)
		_, err := f.uc.ValidateCode(ctx, "deadbeef", f.operatorID)
		assert.True(t, errs.Is(err, errs.ErrCodeNotFound), "unexpected error: %v", err)
	})

	t.Run("expired code", func(t *testing.T) {
		f := setup(t, 2)
		f.clk.Add(codeTTL + time.Millisecond)

		_, err := f.uc.ValidateCode(ctx, f.code, f.operatorID)
		assert.True(t, errs.Is(err, errs.ErrCodeExpired), "unexpected error: %v", err)
		assert.False(t, f.store.codes[f.code].IsUsed)
	})

	t.Run("already used code", func(t *testing.T) {
		f := setup(t, 2)
		_, err := f.uc.ValidateCode(ctx, f.code, f.operatorID)
		require.NoError(t, err)

		_, err = f.uc.ValidateCode(ctx, f.code, f.operatorID)
		assert.True(t, errs.Is(err, errs.ErrCodeAlreadyUsed), "unexpected error: %v", err)
	})

	t.Run("expired reported before used", func(t *testing.T) {
		f := setup(t, 2)
		_, err := f.uc.ValidateCode(ctx, f.code, f.operatorID)
		require.NoError(t, err)

		f.clk.Add(codeTTL + time.Second)
		_, err = f.uc.ValidateCode(ctx, f.code, f.operatorID)
		assert.True(t, errs.Is(err, errs.ErrCodeExpired), "unexpected error: %v", err)
	})

	t.Run("unknown operator", func(t *testing.T) {
		f := setup(t, 2)
		_, err := f.uc.ValidateCode(ctx, f.code, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrOperatorNotAuthorized), "unexpected error: %v", err)
		assert.False(t, f.store.codes[f.code].IsUsed)
	})

	t.Run("subscription vanished after issuance", func(t *testing.T) {
		f := setup(t, 2)
		subID := f.store.codes[f.code].SubscriptionID
		delete(f.store.subs, subID)

		_, err := f.uc.ValidateCode(ctx, f.code, f.operatorID)
		assert.True(t, errs.Is(err, errs.ErrSubscriptionNotFound), "unexpected error: %v", err)
	})

	t.Run("balance drained between issue and validate", func(t *testing.T) {
		f := setup(t, 1)
		subID := f.store.codes[f.code].SubscriptionID
		f.store.subs[subID].RemainingSessions = 0

		_, err := f.uc.ValidateCode(ctx, f.code, f.operatorID)
		assert.True(t, errs.Is(err, errs.ErrInsufficientSessions), "unexpected error: %v", err)
	})
}
