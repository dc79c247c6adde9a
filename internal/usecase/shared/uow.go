package shared

import (
	"context"
	"time"

	"sessionpass/internal/domain/redemption"
	"sessionpass/internal/domain/subscription"
	"sessionpass/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork is the only place transactional boundaries are drawn. The
// three-way redemption commit (mark code used, decrement balance, append
// usage) must run inside a single Within call.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: direct access to command reads for validation outside
	// transactions
	CommandReads() CommandReads
}

type Tx interface {
	Subscriptions() SubscriptionRepository
	Codes() CodeRepository
	Usage() UsageRepository
	Payments() PaymentRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ActiveSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*SubscriptionSnapshot, error)
	SubscriptionByID(ctx context.Context, id uuid.UUID) (*SubscriptionSnapshot, error)
	CodeByValue(ctx context.Context, value string) (*CodeSnapshot, error)
	OperatorByID(ctx context.Context, id uuid.UUID) (*OperatorSnapshot, error)
	TariffByID(ctx context.Context, id uuid.UUID) (*TariffSnapshot, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type SubscriptionRepository interface {
	// Create inserts the subscription unless one already exists for its
	// payment id; the bool reports whether a row was actually written.
	Create(ctx context.Context, dbtx db.DBTX, sub *subscription.Subscription) (bool, error)
	// DecrementSessions atomically consumes one session and stamps last_used.
	// Returns the post-decrement remaining count; a zero balance fails, it is
	// never clamped.
	DecrementSessions(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) (int, error)
}

type CodeRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, code *redemption.Code) error
	// ConsumeUnused flips is_used on a still-unused row; a zero row count
	// means another redemption won the race.
	ConsumeUnused(ctx context.Context, dbtx db.DBTX, value string, operatorID uuid.UUID, now time.Time) error
}

type UsageRepository interface {
	Append(ctx context.Context, dbtx db.DBTX, rec UsageRecord) error
}

type PaymentRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, p PaymentRow) error
	RecordEvent(ctx context.Context, dbtx db.DBTX, id, status string, paid bool, capturedAt *time.Time) error
	MarkSubscriptionCreated(ctx context.Context, dbtx db.DBTX, id string, subscriptionID uuid.UUID) error
	RecordActivationError(ctx context.Context, dbtx db.DBTX, id, message string) error
}

type UserRepository interface {
	// UpdateSubscriptionMirror rewrites the denormalized subscription fields
	// kept on the user row for client reads.
	UpdateSubscriptionMirror(ctx context.Context, dbtx db.DBTX, m SubscriptionMirror) error
	// UpdateRemainingSessions refreshes only the balance mirror after a
	// redemption.
	UpdateRemainingSessions(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, remaining int) error
}
