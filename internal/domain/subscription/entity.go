package subscription

import (
	"errors"
	"time"

	"sessionpass/internal/domain/tariff"

	"github.com/google/uuid"
)

var (
	ErrNoSessionsLeft      = errors.New("no sessions remaining")
	ErrInvalidSessionCount = errors.New("remaining sessions cannot exceed total")
	ErrMissingPaymentID    = errors.New("originating payment id is required")
)

// Subscription is a user's time-bounded session allowance instantiated from a
// tariff at payment time. totalSessions is fixed at creation; only
// remainingSessions and lastUsed change afterwards, and only through Redeem.
type Subscription struct {
	id                uuid.UUID
	userID            uuid.UUID
	tariffID          uuid.UUID
	paymentID         string
	startDate         time.Time
	endDate           time.Time
	totalSessions     int
	remainingSessions int
	isActive          bool
	lastUsed          *time.Time
}

// NewSubscription activates a paid tariff starting now. The end date follows
// the tariff's parsed duration; a tariff with a zero session count still
// activates (the payment pipeline must not block on catalog gaps).
func NewSubscription(userID uuid.UUID, t *tariff.Tariff, paymentID string, now time.Time) (*Subscription, error) {
	if paymentID == "" {
		return nil, ErrMissingPaymentID
	}

	sessions := t.SessionCount()
	return &Subscription{
		id:                uuid.New(),
		userID:            userID,
		tariffID:          t.ID(),
		paymentID:         paymentID,
		startDate:         now,
		endDate:           t.Duration().AddTo(now),
		totalSessions:     sessions,
		remainingSessions: sessions,
		isActive:          true,
	}, nil
}

// Reconstruct rebuilds a subscription from stored state.
func Reconstruct(
	id, userID, tariffID uuid.UUID,
	paymentID string,
	startDate, endDate time.Time,
	totalSessions, remainingSessions int,
	isActive bool,
	lastUsed *time.Time,
) (*Subscription, error) {
	if remainingSessions < 0 || remainingSessions > totalSessions {
		return nil, ErrInvalidSessionCount
	}
	return &Subscription{
		id:                id,
		userID:            userID,
		tariffID:          tariffID,
		paymentID:         paymentID,
		startDate:         startDate,
		endDate:           endDate,
		totalSessions:     totalSessions,
		remainingSessions: remainingSessions,
		isActive:          isActive,
		lastUsed:          lastUsed,
	}, nil
}

// Redeem consumes one session. A zero balance is rejected, never clamped.
func (s *Subscription) Redeem(now time.Time) error {
	if s.remainingSessions <= 0 {
		return ErrNoSessionsLeft
	}
	s.remainingSessions--
	s.lastUsed = &now
	return nil
}

func (s *Subscription) HasSessionsLeft() bool {
	return s.remainingSessions > 0
}

func (s *Subscription) ID() uuid.UUID          { return s.id }
func (s *Subscription) UserID() uuid.UUID      { return s.userID }
func (s *Subscription) TariffID() uuid.UUID    { return s.tariffID }
func (s *Subscription) PaymentID() string      { return s.paymentID }
func (s *Subscription) StartDate() time.Time   { return s.startDate }
func (s *Subscription) EndDate() time.Time     { return s.endDate }
func (s *Subscription) TotalSessions() int     { return s.totalSessions }
func (s *Subscription) RemainingSessions() int { return s.remainingSessions }
func (s *Subscription) IsActive() bool         { return s.isActive }
func (s *Subscription) LastUsed() *time.Time   { return s.lastUsed }
