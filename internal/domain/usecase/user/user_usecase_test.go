package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/database/dbtest"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/time"
	msecurity "github.com/amirhossein-jamali/wallet-ledger/mocks/port/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// zeroReader always yields zero bytes, so every generated wallet number is 0000000000
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func newTestUseCase(t *testing.T) (*UserUseCase, *dbtest.TestDB, *msecurity.MockPINHasher) {
	t.Helper()
	db := dbtest.NewSQLite(t)
	hasher := msecurity.NewMockPINHasher(t)
	clock := timeprovider.NewManualTimeProvider(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewUserUseCase(db.UoW, hasher, clock, logger.NewNoopLogger(), "NGN"), db, hasher
}

func TestOnboard(t *testing.T) {
	t.Run("New email creates user and wallet", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)

		result, err := uc.Onboard(context.Background(), "  Ada@Example.com ", "Ada Lovelace")

		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "ada@example.com", result.User.Email)
		assert.Equal(t, "Ada Lovelace", result.User.FullName)
		assert.False(t, result.User.HasPIN())
		assert.Equal(t, result.User.ID, result.Wallet.UserID)
		assert.Equal(t, int64(0), result.Wallet.Balance())
		assert.Equal(t, "NGN", result.Wallet.Currency)
		assert.NoError(t, entity.ValidateWalletNumber(result.Wallet.WalletNumber))
	})

	t.Run("Known email returns the existing account", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		first, err := uc.Onboard(context.Background(), "ada@example.com", "Ada")
		require.NoError(t, err)

		again, err := uc.Onboard(context.Background(), "ADA@example.com", "Someone Else")

		require.NoError(t, err)
		assert.False(t, again.Created)
		assert.Equal(t, first.User.ID, again.User.ID)
		assert.Equal(t, first.Wallet.ID, again.Wallet.ID)
		assert.Equal(t, first.Wallet.WalletNumber, again.Wallet.WalletNumber)
		assert.Equal(t, "Ada", again.User.FullName)
	})

	t.Run("Invalid email", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)

		_, err := uc.Onboard(context.Background(), "not-an-email", "Ada")

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Wallet numbers exhausted", func(t *testing.T) {
		uc, db, _ := newTestUseCase(t)
		uc.WithRandom(zeroReader{})
		first, err := uc.Onboard(context.Background(), "first@example.com", "First")
		require.NoError(t, err)
		require.Equal(t, "0000000000", first.Wallet.WalletNumber)

		_, err = uc.Onboard(context.Background(), "second@example.com", "Second")

		assert.ErrorIs(t, err, errs.ErrWalletNumberExhausted)
		// The user insert rolled back with the wallet
		_, err = db.UoW.Users(context.Background()).GetByEmail(context.Background(), "second@example.com")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("Concurrent sign-ins create one account", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)

		const callers = 5
		results := make([]string, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				result, err := uc.Onboard(context.Background(), "race@example.com", "Racer")
				if assert.NoError(t, err) {
					results[i] = result.Wallet.ID
				}
			}(i)
		}
		wg.Wait()

		for _, id := range results {
			assert.Equal(t, results[0], id)
		}
	})
}

func TestSetPIN(t *testing.T) {
	tests := []struct {
		name          string
		pin           string
		presetPIN     bool
		setupMocks    func(hasher *msecurity.MockPINHasher)
		expectedError error
		expectedHash  string
	}{
		{
			name: "Four digits",
			pin:  "1234",
			setupMocks: func(hasher *msecurity.MockPINHasher) {
				hasher.On("Hash", "1234").Return("hashed-1234", nil).Once()
			},
			expectedHash: "hashed-1234",
		},
		{
			name: "Six digits",
			pin:  "123456",
			setupMocks: func(hasher *msecurity.MockPINHasher) {
				hasher.On("Hash", "123456").Return("hashed-123456", nil).Once()
			},
			expectedHash: "hashed-123456",
		},
		{
			name:          "Too short",
			pin:           "123",
			setupMocks:    func(hasher *msecurity.MockPINHasher) {},
			expectedError: errs.ErrInvalidPINFormat,
		},
		{
			name:          "Too long",
			pin:           "1234567",
			setupMocks:    func(hasher *msecurity.MockPINHasher) {},
			expectedError: errs.ErrInvalidPINFormat,
		},
		{
			name:          "Non-numeric",
			pin:           "12a4",
			setupMocks:    func(hasher *msecurity.MockPINHasher) {},
			expectedError: errs.ErrInvalidPINFormat,
		},
		{
			name:      "Already set",
			pin:       "5678",
			presetPIN: true,
			setupMocks: func(hasher *msecurity.MockPINHasher) {
				hasher.On("Hash", "1111").Return("hashed-1111", nil).Once()
			},
			expectedError: errs.ErrPINAlreadySet,
			expectedHash:  "hashed-1111",
		},
		{
			name: "Hasher failure",
			pin:  "1234",
			setupMocks: func(hasher *msecurity.MockPINHasher) {
				hasher.On("Hash", "1234").Return("", errors.New("cost too high")).Once()
			},
			expectedError: errs.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, db, hasher := newTestUseCase(t)
			tt.setupMocks(hasher)
			account, err := uc.Onboard(context.Background(), "pin@example.com", "Pin Owner")
			require.NoError(t, err)
			if tt.presetPIN {
				require.NoError(t, uc.SetPIN(context.Background(), account.User.ID, "1111"))
			}

			err = uc.SetPIN(context.Background(), account.User.ID, tt.pin)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			stored, err := db.UoW.Users(context.Background()).GetByID(context.Background(), account.User.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHash, stored.PINHash)
		})
	}

	t.Run("Unknown user", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)

		err := uc.SetPIN(context.Background(), "ghost", "1234")

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("Missing user", func(t *testing.T) {
		uc, _, hasher := newTestUseCase(t)

		err := uc.SetPIN(context.Background(), "", "1234")

		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
		hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})
}
