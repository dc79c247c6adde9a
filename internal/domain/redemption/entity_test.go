//go:build unit

package redemption_test

import (
	"testing"
	"time"

	"sessionpass/internal/domain/redemption"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := redemption.GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token, 32)

	other, err := redemption.GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestNewCode(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	subID, userID := uuid.New(), uuid.New()

	code, err := redemption.NewCode(subID, userID, now, 30*time.Second)
	require.NoError(t, err)

	assert.Len(t, code.Value(), 32)
	assert.Equal(t, subID, code.SubscriptionID())
	assert.Equal(t, userID, code.UserID())
	assert.Equal(t, now, code.CreatedAt())
	assert.Equal(t, now.Add(30*time.Second), code.ExpiresAt())
	assert.False(t, code.IsUsed())
	assert.Nil(t, code.UsedAt())
	assert.Nil(t, code.UsedBy())
}

func TestRedeemable(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := now.Add(30 * time.Second)

	fresh := func(t *testing.T, used bool) *redemption.Code {
		t.Helper()
		code, err := redemption.Reconstruct("a1b2c3", uuid.New(), uuid.New(), now, expiresAt, used, nil, nil)
		require.NoError(t, err)
		return code
	}

	cases := []struct {
		name  string
		used  bool
		at    time.Time
		errIs error
	}{
		{name: "fresh code within ttl", at: now.Add(time.Second)},
		{name: "exactly at expiry is still valid", at: expiresAt},
		{name: "one millisecond past expiry", at: expiresAt.Add(time.Millisecond), errIs: redemption.ErrExpired},
		{name: "used code within ttl", used: true, at: now.Add(time.Second), errIs: redemption.ErrAlreadyUsed},
		{name: "expired wins over used", used: true, at: expiresAt.Add(time.Second), errIs: redemption.ErrExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := fresh(t, tc.used).Redeemable(tc.at)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarkUsed(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	operatorID := uuid.New()

	t.Run("transitions once", func(t *testing.T) {
		code, err := redemption.NewCode(uuid.New(), uuid.New(), now, 30*time.Second)
		require.NoError(t, err)

		usedAt := now.Add(5 * time.Second)
		require.NoError(t, code.MarkUsed(operatorID, usedAt))

		assert.True(t, code.IsUsed())
		require.NotNil(t, code.UsedAt())
		assert.Equal(t, usedAt, *code.UsedAt())
		require.NotNil(t, code.UsedBy())
		assert.Equal(t, operatorID, *code.UsedBy())

		err = code.MarkUsed(operatorID, usedAt.Add(time.Second))
		assert.ErrorIs(t, err, redemption.ErrAlreadyUsed)
	})

	t.Run("expired code cannot be used", func(t *testing.T) {
		code, err := redemption.NewCode(uuid.New(), uuid.New(), now, 30*time.Second)
		require.NoError(t, err)

		err = code.MarkUsed(operatorID, now.Add(31*time.Second))
		assert.ErrorIs(t, err, redemption.ErrExpired)
		assert.False(t, code.IsUsed())
	})
}

func TestReconstructRequiresValue(t *testing.T) {
	_, err := redemption.Reconstruct("", uuid.New(), uuid.New(), time.Now(), time.Now(), false, nil, nil)
	assert.ErrorIs(t, err, redemption.ErrEmptyValue)
}
