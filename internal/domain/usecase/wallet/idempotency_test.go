package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/time"
	mpers "github.com/amirhossein-jamali/wallet-ledger/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGuardExecute(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	key := ScopeKey("user-1", OpTransfer, "token")
	fingerprint := Fingerprint("1000000002", "1500")
	outcome := &entity.OperationOutcome{Status: entity.StatusSuccess, Reference: "ref-1", Message: "Transfer successful"}

	tests := []struct {
		name             string
		setupMocks       func(store *mpers.MockIdempotencyStore)
		fnErr            error
		expectedOutcome  *entity.OperationOutcome
		expectedReplayed bool
		expectedError    error
		expectedRuns     int
	}{
		{
			name: "Fresh key runs and completes",
			setupMocks: func(store *mpers.MockIdempotencyStore) {
				store.On("Reserve", mock.Anything, mock.MatchedBy(func(r *entity.IdempotencyRecord) bool {
					return r.Key == key && r.Fingerprint == fingerprint &&
						r.Status == entity.IdempotencyInProgress && r.ExpiresAt.Equal(now.Add(time.Hour))
				})).Return(nil, true, nil).Once()
				store.On("Complete", mock.Anything, key, outcome).Return(nil).Once()
			},
			expectedOutcome: outcome,
			expectedRuns:    1,
		},
		{
			name: "Completed key replays",
			setupMocks: func(store *mpers.MockIdempotencyStore) {
				store.On("Reserve", mock.Anything, mock.Anything).Return(&entity.IdempotencyRecord{
					Key: key, Fingerprint: fingerprint, Status: entity.IdempotencyCompleted, Outcome: outcome,
				}, false, nil).Once()
			},
			expectedOutcome:  outcome,
			expectedReplayed: true,
		},
		{
			name: "Key reused for another request",
			setupMocks: func(store *mpers.MockIdempotencyStore) {
				store.On("Reserve", mock.Anything, mock.Anything).Return(&entity.IdempotencyRecord{
					Key: key, Fingerprint: "different", Status: entity.IdempotencyCompleted, Outcome: outcome,
				}, false, nil).Once()
			},
			expectedError: errs.ErrIdempotencyKeyReused,
		},
		{
			name: "Key still in progress",
			setupMocks: func(store *mpers.MockIdempotencyStore) {
				store.On("Reserve", mock.Anything, mock.Anything).Return(&entity.IdempotencyRecord{
					Key: key, Fingerprint: fingerprint, Status: entity.IdempotencyInProgress,
				}, false, nil).Once()
			},
			expectedError: errs.ErrOperationInProgress,
		},
		{
			name: "Failure releases the key",
			setupMocks: func(store *mpers.MockIdempotencyStore) {
				store.On("Reserve", mock.Anything, mock.Anything).Return(nil, true, nil).Once()
				store.On("Release", mock.Anything, key).Return(nil).Once()
			},
			fnErr:         errs.ErrInsufficientFunds,
			expectedError: errs.ErrInsufficientFunds,
			expectedRuns:  1,
		},
		{
			name: "Failed compensation keeps the key",
			setupMocks: func(store *mpers.MockIdempotencyStore) {
				store.On("Reserve", mock.Anything, mock.Anything).Return(nil, true, nil).Once()
			},
			fnErr:         errs.NewConsistencyError("withdrawal compensation", "wth-1", 100, errors.New("db down")),
			expectedError: errs.ErrCompensationFailed,
			expectedRuns:  1,
		},
		{
			name: "Store unavailable",
			setupMocks: func(store *mpers.MockIdempotencyStore) {
				store.On("Reserve", mock.Anything, mock.Anything).Return(nil, false, errs.ErrDatabaseConnection).Once()
			},
			expectedError: errs.ErrDatabaseConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mpers.NewMockIdempotencyStore(t)
			tt.setupMocks(store)
			guard := NewGuard(store, timeprovider.NewManualTimeProvider(now), logger.NewNoopLogger(), time.Hour)

			runs := 0
			got, replayed, err := guard.Execute(context.Background(), key, fingerprint, func(ctx context.Context) (*entity.OperationOutcome, error) {
				runs++
				if tt.fnErr != nil {
					return nil, tt.fnErr
				}
				return outcome, nil
			})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedOutcome, got)
			}
			assert.Equal(t, tt.expectedReplayed, replayed)
			assert.Equal(t, tt.expectedRuns, runs)
		})
	}
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	assert.Len(t, Fingerprint("x"), 64)
	assert.Equal(t, "user-1:transfer:abc", ScopeKey("user-1", OpTransfer, "abc"))
}
