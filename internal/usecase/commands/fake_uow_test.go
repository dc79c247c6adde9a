//go:build unit

package commands_test

import (
	"context"
	"errors"
	"time"

	"sessionpass/internal/domain/redemption"
	"sessionpass/internal/domain/subscription"
	"sessionpass/internal/infra"
	"sessionpass/internal/infra/db"
	"sessionpass/internal/usecase/shared"

	"github.com/google/uuid"
)

var errFakeNotFound = errors.New("not found")

// fakeStore backs a UnitOfWork with plain maps. It mirrors the repository
// error kinds the real pgx layer produces so the commands' error mapping is
// exercised for real.
type fakeStore struct {
	subs         map[uuid.UUID]*shared.SubscriptionSnapshot
	activeByUser map[uuid.UUID]uuid.UUID
	codes        map[string]*shared.CodeSnapshot
	operators    map[uuid.UUID]*shared.OperatorSnapshot
	tariffs      map[uuid.UUID]*shared.TariffSnapshot
	users        map[uuid.UUID]bool

	usage            []shared.UsageRecord
	payments         map[string]*fakePayment
	mirrors          map[uuid.UUID]shared.SubscriptionMirror
	mirrorRemaining  map[uuid.UUID]int
	subByPayment     map[string]uuid.UUID
	codeCreateErrors []error
}

type fakePayment struct {
	row             shared.PaymentRow
	status          string
	paid            bool
	capturedAt      *time.Time
	subscriptionID  *uuid.UUID
	activationError string
	eventCount      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		subs:            map[uuid.UUID]*shared.SubscriptionSnapshot{},
		activeByUser:    map[uuid.UUID]uuid.UUID{},
		codes:           map[string]*shared.CodeSnapshot{},
		operators:       map[uuid.UUID]*shared.OperatorSnapshot{},
		tariffs:         map[uuid.UUID]*shared.TariffSnapshot{},
		users:           map[uuid.UUID]bool{},
		payments:        map[string]*fakePayment{},
		mirrors:         map[uuid.UUID]shared.SubscriptionMirror{},
		mirrorRemaining: map[uuid.UUID]int{},
		subByPayment:    map[string]uuid.UUID{},
	}
}

func (s *fakeStore) addActiveSubscription(userID uuid.UUID, remaining int) *shared.SubscriptionSnapshot {
	snap := &shared.SubscriptionSnapshot{
		ID:                uuid.New(),
		UserID:            userID,
		TariffID:          uuid.New(),
		PaymentID:         "pay-" + uuid.NewString(),
		TotalSessions:     remaining,
		RemainingSessions: remaining,
		IsActive:          true,
	}
	s.subs[snap.ID] = snap
	s.activeByUser[userID] = snap.ID
	return snap
}

type fakeUoW struct {
	store *fakeStore
}

func newFakeUoW(store *fakeStore) *fakeUoW { return &fakeUoW{store: store} }

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Subscriptions() shared.SubscriptionRepository { return &fakeSubRepo{t.store} }
func (t *fakeTx) Codes() shared.CodeRepository                 { return &fakeCodeRepo{t.store} }
func (t *fakeTx) Usage() shared.UsageRepository                { return &fakeUsageRepo{t.store} }
func (t *fakeTx) Payments() shared.PaymentRepository           { return &fakePaymentRepo{t.store} }
func (t *fakeTx) Users() shared.UserRepository                 { return &fakeUserRepo{t.store} }
func (t *fakeTx) Reads() shared.CommandReads                   { return &fakeReads{t.store} }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) ActiveSubscriptionByUser(_ context.Context, userID uuid.UUID) (*shared.SubscriptionSnapshot, error) {
	id, ok := r.store.activeByUser[userID]
	if !ok {
		return nil, infra.WrapRepoErr("active subscription not found", errFakeNotFound, infra.KindNotFound)
	}
	snap := *r.store.subs[id]
	return &snap, nil
}

func (r *fakeReads) SubscriptionByID(_ context.Context, id uuid.UUID) (*shared.SubscriptionSnapshot, error) {
	snap, ok := r.store.subs[id]
	if !ok {
		return nil, infra.WrapRepoErr("subscription not found", errFakeNotFound, infra.KindNotFound)
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) CodeByValue(_ context.Context, value string) (*shared.CodeSnapshot, error) {
	snap, ok := r.store.codes[value]
	if !ok {
		return nil, infra.WrapRepoErr("code not found", errFakeNotFound, infra.KindNotFound)
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) OperatorByID(_ context.Context, id uuid.UUID) (*shared.OperatorSnapshot, error) {
	snap, ok := r.store.operators[id]
	if !ok {
		return nil, infra.WrapRepoErr("operator not found", errFakeNotFound, infra.KindNotFound)
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) TariffByID(_ context.Context, id uuid.UUID) (*shared.TariffSnapshot, error) {
	snap, ok := r.store.tariffs[id]
	if !ok {
		return nil, infra.WrapRepoErr("tariff not found", errFakeNotFound, infra.KindNotFound)
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.store.users[id], nil
}

type fakeSubRepo struct {
	store *fakeStore
}

func (r *fakeSubRepo) Create(_ context.Context, _ db.DBTX, sub *subscription.Subscription) (bool, error) {
	if _, exists := r.store.subByPayment[sub.PaymentID()]; exists {
		return false, nil
	}
	r.store.subByPayment[sub.PaymentID()] = sub.ID()
	r.store.subs[sub.ID()] = &shared.SubscriptionSnapshot{
		ID:                sub.ID(),
		UserID:            sub.UserID(),
		TariffID:          sub.TariffID(),
		PaymentID:         sub.PaymentID(),
		StartDate:         sub.StartDate(),
		EndDate:           sub.EndDate(),
		TotalSessions:     sub.TotalSessions(),
		RemainingSessions: sub.RemainingSessions(),
		IsActive:          sub.IsActive(),
	}
	r.store.activeByUser[sub.UserID()] = sub.ID()
	return true, nil
}

func (r *fakeSubRepo) DecrementSessions(_ context.Context, _ db.DBTX, id uuid.UUID, now time.Time) (int, error) {
	snap, ok := r.store.subs[id]
	if !ok {
		return 0, infra.WrapRepoErr("subscription not found", errFakeNotFound, infra.KindNotFound)
	}
	if snap.RemainingSessions <= 0 {
		return 0, infra.WrapRepoErr("no sessions remaining", errors.New("conflict"), infra.KindConflict)
	}
	snap.RemainingSessions--
	snap.LastUsed = &now
	return snap.RemainingSessions, nil
}

type fakeCodeRepo struct {
	store *fakeStore
}

func (r *fakeCodeRepo) Create(_ context.Context, _ db.DBTX, code *redemption.Code) error {
	if len(r.store.codeCreateErrors) > 0 {
		err := r.store.codeCreateErrors[0]
		r.store.codeCreateErrors = r.store.codeCreateErrors[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := r.store.codes[code.Value()]; exists {
		return infra.WrapRepoErr("duplicate code", errors.New("duplicate"), infra.KindDuplicateKey)
	}
	r.store.codes[code.Value()] = &shared.CodeSnapshot{
		Value:          code.Value(),
		SubscriptionID: code.SubscriptionID(),
		UserID:         code.UserID(),
		CreatedAt:      code.CreatedAt(),
		ExpiresAt:      code.ExpiresAt(),
	}
	return nil
}

func (r *fakeCodeRepo) ConsumeUnused(_ context.Context, _ db.DBTX, value string, operatorID uuid.UUID, now time.Time) error {
	snap, ok := r.store.codes[value]
	if !ok || snap.IsUsed {
		return infra.WrapRepoErr("code already consumed", errors.New("conflict"), infra.KindConflict)
	}
	snap.IsUsed = true
	snap.UsedAt = &now
	snap.UsedBy = &operatorID
	return nil
}

type fakeUsageRepo struct {
	store *fakeStore
}

func (r *fakeUsageRepo) Append(_ context.Context, _ db.DBTX, rec shared.UsageRecord) error {
	r.store.usage = append(r.store.usage, rec)
	return nil
}

type fakePaymentRepo struct {
	store *fakeStore
}

func (r *fakePaymentRepo) Create(_ context.Context, _ db.DBTX, p shared.PaymentRow) error {
	r.store.payments[p.ID] = &fakePayment{row: p, status: p.Status}
	return nil
}

func (r *fakePaymentRepo) RecordEvent(_ context.Context, _ db.DBTX, id, status string, paid bool, capturedAt *time.Time) error {
	p, ok := r.store.payments[id]
	if !ok {
		return infra.WrapRepoErr("payment not found", errFakeNotFound, infra.KindNotFound)
	}
	p.status = status
	p.paid = paid
	if capturedAt != nil {
		p.capturedAt = capturedAt
	}
	p.eventCount++
	return nil
}

func (r *fakePaymentRepo) MarkSubscriptionCreated(_ context.Context, _ db.DBTX, id string, subscriptionID uuid.UUID) error {
	p, ok := r.store.payments[id]
	if !ok {
		return infra.WrapRepoErr("payment not found", errFakeNotFound, infra.KindNotFound)
	}
	p.subscriptionID = &subscriptionID
	return nil
}

func (r *fakePaymentRepo) RecordActivationError(_ context.Context, _ db.DBTX, id, message string) error {
	p, ok := r.store.payments[id]
	if !ok {
		return infra.WrapRepoErr("payment not found", errFakeNotFound, infra.KindNotFound)
	}
	p.activationError = message
	return nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) UpdateSubscriptionMirror(_ context.Context, _ db.DBTX, m shared.SubscriptionMirror) error {
	r.store.mirrors[m.UserID] = m
	return nil
}

func (r *fakeUserRepo) UpdateRemainingSessions(_ context.Context, _ db.DBTX, userID uuid.UUID, remaining int) error {
	r.store.mirrorRemaining[userID] = remaining
	return nil
}
