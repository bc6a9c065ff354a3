package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	timeProvider "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := timeProvider.NewManualTimeProvider(fixedTime)

	t.Run("Valid user creation", func(t *testing.T) {
		user, err := NewUser("u-1", "  Ada@Example.COM ", " Ada Obi ", clock)

		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "Ada Obi", user.FullName)
		assert.False(t, user.HasPIN())
		assert.Equal(t, fixedTime, user.CreatedAt)
		assert.Equal(t, fixedTime, user.UpdatedAt)
	})

	t.Run("Invalid email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "@example.com"} {
			user, err := NewUser("u-1", email, "Ada", clock)

			assert.ErrorIs(t, err, errs.ErrInvalidRequest, email)
			assert.Nil(t, user)
		}
	})
}

func TestUser_SetPINHash(t *testing.T) {
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := timeProvider.NewManualTimeProvider(start)
	user, err := NewUser("u-1", "ada@example.com", "Ada", clock)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	require.NoError(t, user.SetPINHash("hash-1", clock))
	assert.True(t, user.HasPIN())
	assert.Equal(t, start.Add(time.Hour), user.UpdatedAt)

	assert.ErrorIs(t, user.SetPINHash("hash-2", clock), errs.ErrPINAlreadySet)
	assert.Equal(t, "hash-1", user.PINHash)
}

func TestValidatePIN(t *testing.T) {
	testCases := []struct {
		pin   string
		valid bool
	}{
		{"1234", true},
		{"123456", true},
		{"0000", true},
		{"123", false},
		{"1234567", false},
		{"12a4", false},
		{"", false},
		{"12 34", false},
	}

	for _, tc := range testCases {
		t.Run(tc.pin, func(t *testing.T) {
			err := ValidatePIN(tc.pin)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidPINFormat)
			}
		})
	}
}
