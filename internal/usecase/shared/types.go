package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command read operations

type SubscriptionSnapshot struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	TariffID          uuid.UUID
	PaymentID         string
	StartDate         time.Time
	EndDate           time.Time
	TotalSessions     int
	RemainingSessions int
	IsActive          bool
	LastUsed          *time.Time
}

type CodeSnapshot struct {
	Value          string
	SubscriptionID uuid.UUID
	UserID         uuid.UUID
	CreatedAt      time.Time
	ExpiresAt      time.Time
	IsUsed         bool
	UsedAt         *time.Time
	UsedBy         *uuid.UUID
}

type OperatorSnapshot struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

type TariffSnapshot struct {
	ID           uuid.UUID
	Title        string
	Duration     string
	SessionCount int
	PriceCents   int64
}

type UsageRecord struct {
	SubscriptionID    uuid.UUID
	UserID            uuid.UUID
	OperatorID        uuid.UUID
	Code              string
	RemainingSessions int
	UsedAt            time.Time
}

type PaymentRow struct {
	ID              string
	UserID          uuid.UUID
	TariffID        uuid.UUID
	OrderID         string
	AmountValue     string
	Currency        string
	Status          string
	ConfirmationURL *string
}

type SubscriptionMirror struct {
	UserID            uuid.UUID
	SubscriptionID    uuid.UUID
	TariffTitle       string
	RemainingSessions int
	TotalSessions     int
	StartDate         time.Time
	EndDate           time.Time
}
