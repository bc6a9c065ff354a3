package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInitiateDeposit(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		setupMocks    func(env *engineEnv)
		expectedError error
		expectStatus  entity.TransactionStatus
		expectURL     string
	}{
		{
			name:   "Checkout opened",
			amount: 5000,
			setupMocks: func(env *engineEnv) {
				env.gateway.On("InitializeDeposit", mock.Anything, "user1@example.com", int64(5000), mock.AnythingOfType("string")).
					Return(func(_ context.Context, _ string, _ int64, reference string) (*gateway.DepositCheckout, error) {
						return &gateway.DepositCheckout{
							AuthorizationURL: "https://checkout.example.com/" + reference,
							AccessCode:       "ac_123",
							Reference:        reference,
						}, nil
					}).Once()
			},
			expectStatus: entity.StatusPending,
			expectURL:    "https://checkout.example.com/",
		},
		{
			name:   "Gateway refuses checkout",
			amount: 5000,
			setupMocks: func(env *engineEnv) {
				env.gateway.On("InitializeDeposit", mock.Anything, mock.Anything, int64(5000), mock.Anything).
					Return(nil, errors.New("upstream 503")).Once()
			},
			expectedError: errs.ErrProviderInitialization,
			expectStatus:  entity.StatusFailed,
		},
		{
			name:          "Zero amount",
			amount:        0,
			setupMocks:    func(env *engineEnv) {},
			expectedError: errs.ErrInvalidAmount,
		},
		{
			name:          "Negative amount",
			amount:        -100,
			setupMocks:    func(env *engineEnv) {},
			expectedError: errs.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEngineEnv(t)
			acct := env.newAccount(t, false)
			tt.setupMocks(env)

			checkout, err := env.service.InitiateDeposit(context.Background(), acct.user.ID, tt.amount)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, checkout)
			} else {
				require.NoError(t, err)
				require.NotNil(t, checkout)
				assert.Contains(t, checkout.AuthorizationURL, tt.expectURL)
				assert.NotEmpty(t, checkout.Reference)

				txn := env.transaction(t, checkout.Reference)
				assert.Equal(t, entity.TypeDeposit, txn.Type)
				assert.Equal(t, tt.amount, txn.Amount)
				assert.Equal(t, checkout.AuthorizationURL, txn.Metadata[entity.MetaAuthorizationURL])
				assert.Equal(t, "ac_123", txn.Metadata[entity.MetaAccessCode])
			}

			if tt.expectStatus != "" {
				page, err := env.service.ListTransactions(context.Background(), acct.user.ID, 0, 10)
				require.NoError(t, err)
				require.Len(t, page.Transactions, 1)
				assert.Equal(t, tt.expectStatus, page.Transactions[0].Status)
			}
			assert.Equal(t, int64(0), env.balance(t, acct.wallet.ID))
		})
	}
}

func TestInitiateDeposit_ProviderErrorCarriesContext(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	env.gateway.On("InitializeDeposit", mock.Anything, mock.Anything, int64(700), mock.Anything).
		Return(nil, errors.New("timeout")).Once()

	_, err := env.service.InitiateDeposit(context.Background(), acct.user.ID, 700)

	var providerErr *errs.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "initialize_deposit", providerErr.Step)
	assert.Equal(t, int64(700), providerErr.Amount)
	assert.False(t, providerErr.Compensated)
	assert.Equal(t, errs.KindExternalProvider, errs.KindOf(err))

	txn := env.transaction(t, providerErr.Reference)
	assert.Equal(t, entity.StatusFailed, txn.Status)
	assert.Equal(t, "timeout", txn.Metadata[entity.MetaFailureReason])
}

func TestConfirmDeposit(t *testing.T) {
	tests := []struct {
		name            string
		setup           func(t *testing.T, env *engineEnv, walletID string)
		reference       string
		amountPaid      int64
		expectedError   error
		expectedOutcome usecase.ConfirmationOutcome
		expectedBalance int64
		expectedStatus  entity.TransactionStatus
	}{
		{
			name: "Pending deposit is credited",
			setup: func(t *testing.T, env *engineEnv, walletID string) {
				env.pendingDeposit(t, walletID, "dep-1", 5000)
			},
			reference:       "dep-1",
			amountPaid:      5000,
			expectedOutcome: usecase.OutcomeApplied,
			expectedBalance: 5000,
			expectedStatus:  entity.StatusSuccess,
		},
		{
			name: "Already credited deposit is not credited again",
			setup: func(t *testing.T, env *engineEnv, walletID string) {
				env.pendingDeposit(t, walletID, "dep-1", 5000)
				_, err := env.service.ConfirmDeposit(context.Background(), "dep-1", 5000)
				require.NoError(t, err)
			},
			reference:       "dep-1",
			amountPaid:      5000,
			expectedOutcome: usecase.OutcomeAlreadyProcessed,
			expectedBalance: 5000,
			expectedStatus:  entity.StatusSuccess,
		},
		{
			name: "Amount mismatch fails the deposit",
			setup: func(t *testing.T, env *engineEnv, walletID string) {
				env.pendingDeposit(t, walletID, "dep-1", 5000)
			},
			reference:       "dep-1",
			amountPaid:      4000,
			expectedError:   errs.ErrAmountMismatch,
			expectedBalance: 0,
			expectedStatus:  entity.StatusFailed,
		},
		{
			name:          "Unknown reference",
			setup:         func(t *testing.T, env *engineEnv, walletID string) {},
			reference:     "missing",
			amountPaid:    5000,
			expectedError: errs.ErrTransactionNotFound,
		},
		{
			name: "Failed deposit is reported as processed",
			setup: func(t *testing.T, env *engineEnv, walletID string) {
				env.pendingDeposit(t, walletID, "dep-1", 5000)
				_, err := env.service.ConfirmDeposit(context.Background(), "dep-1", 1)
				require.ErrorIs(t, err, errs.ErrAmountMismatch)
			},
			reference:       "dep-1",
			amountPaid:      5000,
			expectedOutcome: usecase.OutcomeAlreadyProcessed,
			expectedBalance: 0,
			expectedStatus:  entity.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEngineEnv(t)
			acct := env.newAccount(t, false)
			tt.setup(t, env, acct.wallet.ID)

			confirmation, err := env.service.ConfirmDeposit(context.Background(), tt.reference, tt.amountPaid)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, confirmation)
			} else {
				require.NoError(t, err)
				require.NotNil(t, confirmation)
				assert.Equal(t, tt.expectedOutcome, confirmation.Outcome)
				assert.Equal(t, tt.reference, confirmation.Transaction.Reference)
			}

			assert.Equal(t, tt.expectedBalance, env.balance(t, acct.wallet.ID))
			if tt.expectedStatus != "" {
				assert.Equal(t, tt.expectedStatus, env.transaction(t, tt.reference).Status)
			}
			env.requireConsistent(t, acct.user.ID)
		})
	}
}

func TestConfirmDeposit_RejectsOtherTransactionTypes(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	txn, err := entity.NewTransaction("txn-w", acct.wallet.ID, "wth-1", entity.TypeWithdrawal, entity.StatusPending, -100, nil, env.clock)
	require.NoError(t, err)
	require.NoError(t, env.db.UoW.Transactions(context.Background()).Create(context.Background(), txn))

	_, err = env.service.ConfirmDeposit(context.Background(), "wth-1", 100)

	assert.ErrorIs(t, err, errs.ErrReferenceTypeMismatch)
	assert.Equal(t, entity.StatusPending, env.transaction(t, "wth-1").Status)
}

func TestConfirmDeposit_ConcurrentRedeliveryCreditsOnce(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	env.pendingDeposit(t, acct.wallet.ID, "dep-race", 2500)

	const deliveries = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			confirmation, err := env.service.ConfirmDeposit(context.Background(), "dep-race", 2500)
			if !assert.NoError(t, err) {
				return
			}
			if confirmation.Outcome == usecase.OutcomeApplied {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Equal(t, int64(2500), env.balance(t, acct.wallet.ID))
	env.requireConsistent(t, acct.user.ID)
}

func TestDepositStatus(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(env *engineEnv)
		otherOwner     bool
		reference      string
		expectedError  error
		expectedStatus entity.TransactionStatus
		expectedNote   string
		storedStatus   entity.TransactionStatus
	}{
		{
			name: "Gateway reports failure",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("VerifyDeposit", mock.Anything, "dep-1").
					Return(&gateway.DepositVerification{Reference: "dep-1", Status: "abandoned", Amount: 3000}, nil).Once()
			},
			reference:      "dep-1",
			expectedStatus: entity.StatusFailed,
			storedStatus:   entity.StatusFailed,
		},
		{
			name: "Gateway reports payment without crediting",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("VerifyDeposit", mock.Anything, "dep-1").
					Return(&gateway.DepositVerification{Reference: "dep-1", Status: "success", Amount: 3000}, nil).Once()
			},
			reference:      "dep-1",
			expectedStatus: entity.StatusSuccess,
			expectedNote:   DepositConfirmedNote,
			storedStatus:   entity.StatusPending,
		},
		{
			name: "Verification error returns stored state",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("VerifyDeposit", mock.Anything, "dep-1").
					Return(nil, errors.New("connection reset")).Once()
			},
			reference:      "dep-1",
			expectedStatus: entity.StatusPending,
			storedStatus:   entity.StatusPending,
		},
		{
			name:          "Deposit of another wallet",
			setupMocks:    func(env *engineEnv) {},
			otherOwner:    true,
			reference:     "dep-1",
			expectedError: errs.ErrTransactionAccessDenied,
			storedStatus:  entity.StatusPending,
		},
		{
			name:          "Unknown reference",
			setupMocks:    func(env *engineEnv) {},
			reference:     "missing",
			expectedError: errs.ErrTransactionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEngineEnv(t)
			owner := env.newAccount(t, false)
			caller := owner
			if tt.otherOwner {
				caller = env.newAccount(t, false)
			}
			env.pendingDeposit(t, owner.wallet.ID, "dep-1", 3000)
			tt.setupMocks(env)

			status, err := env.service.DepositStatus(context.Background(), caller.user.ID, tt.reference)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, status.Status)
				assert.Equal(t, tt.expectedNote, status.Note)
				assert.Equal(t, int64(3000), status.Amount)
			}
			if tt.storedStatus != "" {
				assert.Equal(t, tt.storedStatus, env.transaction(t, "dep-1").Status)
			}
			assert.Equal(t, int64(0), env.balance(t, owner.wallet.ID))
		})
	}
}

func TestDepositStatus_SettledDepositSkipsGateway(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	env.pendingDeposit(t, acct.wallet.ID, "dep-1", 3000)
	_, err := env.service.ConfirmDeposit(context.Background(), "dep-1", 3000)
	require.NoError(t, err)

	status, err := env.service.DepositStatus(context.Background(), acct.user.ID, "dep-1")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuccess, status.Status)
	assert.Empty(t, status.Note)
	env.gateway.AssertNotCalled(t, "VerifyDeposit", mock.Anything, mock.Anything)
}

func TestInitiateDeposit_ConfirmedDuringCheckoutCreditsOnce(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	env.gateway.On("InitializeDeposit", mock.Anything, mock.Anything, int64(5000), mock.Anything).
		Run(func(args mock.Arguments) {
			// charge.success arrives before the checkout call returns
			confirmation, err := env.service.ConfirmDeposit(context.Background(), args.String(3), 5000)
			require.NoError(t, err)
			require.Equal(t, usecase.OutcomeApplied, confirmation.Outcome)
		}).
		Return(&gateway.DepositCheckout{AuthorizationURL: "https://checkout.example.com/x", AccessCode: "ac_123"}, nil).Once()

	checkout, err := env.service.InitiateDeposit(context.Background(), acct.user.ID, 5000)
	require.NoError(t, err)

	txn := env.transaction(t, checkout.Reference)
	assert.Equal(t, entity.StatusSuccess, txn.Status)
	assert.Equal(t, "5000", txn.Metadata[entity.MetaAmountPaid])
	assert.Equal(t, int64(5000), env.balance(t, acct.wallet.ID))

	confirmation, err := env.service.ConfirmDeposit(context.Background(), checkout.Reference, 5000)
	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeAlreadyProcessed, confirmation.Outcome)
	assert.Equal(t, int64(5000), env.balance(t, acct.wallet.ID))
	env.requireConsistent(t, acct.user.ID)
}
