//go:build e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a user row and returns its id.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email) VALUES ($1) RETURNING id`, email).Scan(&id)
	require.NoError(t, err, "failed to insert test user")
	return id
}

// CreateTestAdmin inserts an operator row.
func CreateTestAdmin(t *testing.T, pool *pgxpool.Pool, name string, active bool) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO admins (name, is_active) VALUES ($1, $2) RETURNING id`, name, active).Scan(&id)
	require.NoError(t, err, "failed to insert test admin")
	return id
}

// CreateTestTariff inserts a catalog entry.
func CreateTestTariff(t *testing.T, pool *pgxpool.Pool, title, duration string, sessions int, priceCents int64) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO tariffs (title, duration, session_count, price_cents)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		title, duration, sessions, priceCents).Scan(&id)
	require.NoError(t, err, "failed to insert test tariff")
	return id
}

// CreateTestSubscription inserts an active subscription with the given
// balance, plus the payment row it originated from.
func CreateTestSubscription(t *testing.T, pool *pgxpool.Pool, userID, tariffID uuid.UUID, remaining int) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	subID := uuid.New()
	paymentID := "test-pay-" + uuid.NewString()
	now := time.Now()

	_, err := pool.Exec(ctx,
		`INSERT INTO payments (id, user_id, tariff_id, order_id, amount_value, status, paid)
		 VALUES ($1, $2, $3, $4, '5000.00', 'succeeded', true)`,
		paymentID, userID, tariffID, "order-"+uuid.NewString())
	require.NoError(t, err, "failed to insert test payment")

	_, err = pool.Exec(ctx,
		`INSERT INTO subscriptions
		 (id, user_id, tariff_id, payment_id, start_date, end_date, total_sessions, remaining_sessions, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7, true)`,
		subID, userID, tariffID, paymentID, now, now.AddDate(0, 1, 0), remaining)
	require.NoError(t, err, "failed to insert test subscription")

	return subID
}

// ExpireCode rewinds a code's expiry so it reads as stale.
func ExpireCode(t *testing.T, pool *pgxpool.Pool, code string) {
	t.Helper()

	tag, err := pool.Exec(context.Background(),
		`UPDATE redemption_codes SET expires_at = now() - interval '1 minute' WHERE code = $1`, code)
	require.NoError(t, err, "failed to expire code")
	require.EqualValues(t, 1, tag.RowsAffected())
}

// RemainingSessions reads the subscription balance directly.
func RemainingSessions(t *testing.T, pool *pgxpool.Pool, subID uuid.UUID) int {
	t.Helper()

	var remaining int
	err := pool.QueryRow(context.Background(),
		`SELECT remaining_sessions FROM subscriptions WHERE id = $1`, subID).Scan(&remaining)
	require.NoError(t, err, "failed to read remaining sessions")
	return remaining
}

// UsageCount counts audit rows for a subscription.
func UsageCount(t *testing.T, pool *pgxpool.Pool, subID uuid.UUID) int {
	t.Helper()

	var count int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM subscription_usage WHERE subscription_id = $1`, subID).Scan(&count)
	require.NoError(t, err, "failed to count usage rows")
	return count
}
