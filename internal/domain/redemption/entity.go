package redemption

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrExpired     = errors.New("code has expired")
	ErrAlreadyUsed = errors.New("code has already been used")
	ErrNotUsed     = errors.New("code has not been used")
	ErrEmptyValue  = errors.New("code value is required")
)

// tokenBytes gives 128 bits of entropy; the hex form is the code value
// presented in the QR image.
const tokenBytes = 16

// Code is a single-use, time-boxed redemption token bound to one
// subscription. It transitions active → used at most once and is kept as an
// audit row afterwards.
type Code struct {
	value          string
	subscriptionID uuid.UUID
	userID         uuid.UUID
	createdAt      time.Time
	expiresAt      time.Time
	used           bool
	usedAt         *time.Time
	usedBy         *uuid.UUID
}

func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func NewCode(subscriptionID, userID uuid.UUID, now time.Time, ttl time.Duration) (*Code, error) {
	value, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	return &Code{
		value:          value,
		subscriptionID: subscriptionID,
		userID:         userID,
		createdAt:      now,
		expiresAt:      now.Add(ttl),
	}, nil
}

func Reconstruct(
	value string,
	subscriptionID, userID uuid.UUID,
	createdAt, expiresAt time.Time,
	used bool,
	usedAt *time.Time,
	usedBy *uuid.UUID,
) (*Code, error) {
	if value == "" {
		return nil, ErrEmptyValue
	}
	return &Code{
		value:          value,
		subscriptionID: subscriptionID,
		userID:         userID,
		createdAt:      createdAt,
		expiresAt:      expiresAt,
		used:           used,
		usedAt:         usedAt,
		usedBy:         usedBy,
	}, nil
}

// Redeemable reports whether the code can still be consumed at t. Expiry is
// checked before used-state, so an expired-and-used code reports expiry.
// A code presented at exactly expiresAt is still valid.
func (c *Code) Redeemable(t time.Time) error {
	if t.After(c.expiresAt) {
		return ErrExpired
	}
	if c.used {
		return ErrAlreadyUsed
	}
	return nil
}

// MarkUsed records the one allowed active → used transition.
func (c *Code) MarkUsed(operatorID uuid.UUID, now time.Time) error {
	if err := c.Redeemable(now); err != nil {
		return err
	}
	c.used = true
	c.usedAt = &now
	c.usedBy = &operatorID
	return nil
}

func (c *Code) Value() string             { return c.value }
func (c *Code) SubscriptionID() uuid.UUID { return c.subscriptionID }
func (c *Code) UserID() uuid.UUID         { return c.userID }
func (c *Code) CreatedAt() time.Time      { return c.createdAt }
func (c *Code) ExpiresAt() time.Time      { return c.expiresAt }
func (c *Code) IsUsed() bool              { return c.used }
func (c *Code) UsedAt() *time.Time        { return c.usedAt }
func (c *Code) UsedBy() *uuid.UUID        { return c.usedBy }
