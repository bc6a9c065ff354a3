package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withdrawCommand(userID string, amount int64) usecase.WithdrawCommand {
	return usecase.WithdrawCommand{
		UserID:        userID,
		Amount:        amount,
		AccountNumber: "0123456789",
		BankCode:      "058",
		AccountName:   "Ada Obi",
		PIN:           testPIN,
	}
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name            string
		setupMocks      func(env *engineEnv)
		expectedError   error
		expectedStep    string
		expectedBalance int64
		expectedStatus  entity.TransactionStatus
	}{
		{
			name: "Payout accepted",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("RegisterPayoutRecipient", mock.Anything, "Ada Obi", "0123456789", "058").
					Return(&gateway.PayoutRecipient{RecipientCode: "RCP_1"}, nil).Once()
				env.gateway.On("InitiatePayout", mock.Anything, int64(4000), "RCP_1", mock.AnythingOfType("string"), "Wallet Withdrawal").
					Return(&gateway.PayoutResult{Accepted: true, TransferCode: "TRF_1", Status: "pending"}, nil).Once()
			},
			expectedBalance: 6000,
			expectedStatus:  entity.StatusPending,
		},
		{
			name: "Recipient registration fails",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("invalid account")).Once()
			},
			expectedError:   errs.ErrProviderRegistration,
			expectedStep:    StepRegisterRecipient,
			expectedBalance: 10000,
			expectedStatus:  entity.StatusFailed,
		},
		{
			name: "Recipient registration returns no code",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(&gateway.PayoutRecipient{}, nil).Once()
			},
			expectedError:   errs.ErrProviderRegistration,
			expectedStep:    StepRegisterRecipient,
			expectedBalance: 10000,
			expectedStatus:  entity.StatusFailed,
		},
		{
			name: "Payout rejected",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(&gateway.PayoutRecipient{RecipientCode: "RCP_1"}, nil).Once()
				env.gateway.On("InitiatePayout", mock.Anything, int64(4000), "RCP_1", mock.Anything, mock.Anything).
					Return(&gateway.PayoutResult{Accepted: false, Message: "balance too low"}, nil).Once()
			},
			expectedError:   errs.ErrProviderTransfer,
			expectedStep:    StepInitiatePayout,
			expectedBalance: 10000,
			expectedStatus:  entity.StatusFailed,
		},
		{
			name: "Payout call errors",
			setupMocks: func(env *engineEnv) {
				env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(&gateway.PayoutRecipient{RecipientCode: "RCP_1"}, nil).Once()
				env.gateway.On("InitiatePayout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, context.DeadlineExceeded).Once()
			},
			expectedError:   errs.ErrProviderTransfer,
			expectedStep:    StepInitiatePayout,
			expectedBalance: 10000,
			expectedStatus:  entity.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEngineEnv(t)
			acct := env.newAccount(t, true)
			env.fund(t, acct.wallet.ID, 10000)
			tt.setupMocks(env)

			result, err := env.service.Withdraw(context.Background(), withdrawCommand(acct.user.ID, 4000))

			var reference string
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Equal(t, errs.KindExternalProvider, errs.KindOf(err))

				var providerErr *errs.ProviderError
				require.ErrorAs(t, err, &providerErr)
				assert.Equal(t, tt.expectedStep, providerErr.Step)
				assert.True(t, providerErr.Compensated)
				assert.Equal(t, int64(4000), providerErr.Amount)
				reference = providerErr.Reference

				txn := env.transaction(t, reference)
				assert.Equal(t, tt.expectedStep, txn.Metadata[entity.MetaFailureStep])
				assert.NotEmpty(t, txn.Metadata[entity.MetaFailureReason])
			} else {
				require.NoError(t, err)
				assert.Equal(t, WithdrawalProcessingMessage, result.Outcome.Message)
				reference = result.Outcome.Reference

				txn := env.transaction(t, reference)
				assert.Equal(t, "RCP_1", txn.Metadata[entity.MetaRecipientCode])
				assert.Equal(t, "TRF_1", txn.Metadata[entity.MetaTransferCode])
				assert.Equal(t, "058", txn.Metadata[entity.MetaBankCode])
			}

			assert.Contains(t, reference, entity.WithdrawalReferencePrefix)
			txn := env.transaction(t, reference)
			assert.Equal(t, entity.TypeWithdrawal, txn.Type)
			assert.Equal(t, int64(-4000), txn.Amount)
			assert.Equal(t, tt.expectedStatus, txn.Status)
			assert.Equal(t, tt.expectedBalance, env.balance(t, acct.wallet.ID))
			env.requireConsistent(t, acct.user.ID)
		})
	}
}

func TestWithdraw_RejectedBeforeHold(t *testing.T) {
	tests := []struct {
		name          string
		withPIN       bool
		funds         int64
		mutate        func(cmd *usecase.WithdrawCommand)
		expectedError error
	}{
		{name: "PIN not set", withPIN: false, funds: 10000, expectedError: errs.ErrPINNotSet},
		{
			name:          "Wrong PIN",
			withPIN:       true,
			funds:         10000,
			mutate:        func(cmd *usecase.WithdrawCommand) { cmd.PIN = "0000" },
			expectedError: errs.ErrInvalidPIN,
		},
		{name: "Insufficient funds", withPIN: true, funds: 1000, expectedError: errs.ErrInsufficientFunds},
		{
			name:          "Missing bank code",
			withPIN:       true,
			funds:         10000,
			mutate:        func(cmd *usecase.WithdrawCommand) { cmd.BankCode = "" },
			expectedError: errs.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEngineEnv(t)
			acct := env.newAccount(t, tt.withPIN)
			env.fund(t, acct.wallet.ID, tt.funds)

			cmd := withdrawCommand(acct.user.ID, 4000)
			if tt.mutate != nil {
				tt.mutate(&cmd)
			}
			_, err := env.service.Withdraw(context.Background(), cmd)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Equal(t, tt.funds, env.balance(t, acct.wallet.ID))
			env.gateway.AssertNotCalled(t, "RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestWithdraw_CompensationFailureKeepsKeyReserved(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, true)
	env.fund(t, acct.wallet.ID, 10000)

	env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// Losing the pending record makes the refund impossible
			require.NoError(t, env.db.DB.Where("type = ?", string(entity.TypeWithdrawal)).Delete(&model.Transaction{}).Error)
		}).
		Return(nil, errors.New("invalid account")).Once()

	cmd := withdrawCommand(acct.user.ID, 4000)
	cmd.IdempotencyKey = "withdraw-key"
	_, err := env.service.Withdraw(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrCompensationFailed)
	assert.Equal(t, errs.KindInternalConsistency, errs.KindOf(err))
	var consistencyErr *errs.ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, int64(4000), consistencyErr.Amount)
	env.metrics.AssertCalled(t, "RecordCompensation", StepRegisterRecipient, ResultFailed)

	_, err = env.service.Withdraw(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrOperationInProgress)
	assert.Equal(t, int64(6000), env.balance(t, acct.wallet.ID))
}

func TestSettleAndReverseWithdrawal(t *testing.T) {
	tests := []struct {
		name            string
		apply           func(env *engineEnv, reference string) (*usecase.Confirmation, error)
		expectedOutcome usecase.ConfirmationOutcome
		expectedStatus  entity.TransactionStatus
		expectedBalance int64
	}{
		{
			name: "Settle delivered payout",
			apply: func(env *engineEnv, reference string) (*usecase.Confirmation, error) {
				return env.service.SettleWithdrawal(context.Background(), reference)
			},
			expectedOutcome: usecase.OutcomeApplied,
			expectedStatus:  entity.StatusSuccess,
			expectedBalance: 6000,
		},
		{
			name: "Reverse failed payout",
			apply: func(env *engineEnv, reference string) (*usecase.Confirmation, error) {
				return env.service.ReverseWithdrawal(context.Background(), reference, "transfer.failed")
			},
			expectedOutcome: usecase.OutcomeApplied,
			expectedStatus:  entity.StatusFailed,
			expectedBalance: 10000,
		},
		{
			name: "Reverse after settle is ignored",
			apply: func(env *engineEnv, reference string) (*usecase.Confirmation, error) {
				if _, err := env.service.SettleWithdrawal(context.Background(), reference); err != nil {
					return nil, err
				}
				return env.service.ReverseWithdrawal(context.Background(), reference, "transfer.reversed")
			},
			expectedOutcome: usecase.OutcomeAlreadyProcessed,
			expectedStatus:  entity.StatusSuccess,
			expectedBalance: 6000,
		},
		{
			name: "Duplicate reversal refunds once",
			apply: func(env *engineEnv, reference string) (*usecase.Confirmation, error) {
				if _, err := env.service.ReverseWithdrawal(context.Background(), reference, "transfer.failed"); err != nil {
					return nil, err
				}
				return env.service.ReverseWithdrawal(context.Background(), reference, "transfer.failed")
			},
			expectedOutcome: usecase.OutcomeAlreadyProcessed,
			expectedStatus:  entity.StatusFailed,
			expectedBalance: 10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEngineEnv(t)
			acct := env.newAccount(t, true)
			env.fund(t, acct.wallet.ID, 10000)
			env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(&gateway.PayoutRecipient{RecipientCode: "RCP_1"}, nil).Once()
			env.gateway.On("InitiatePayout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(&gateway.PayoutResult{Accepted: true, TransferCode: "TRF_1"}, nil).Once()

			result, err := env.service.Withdraw(context.Background(), withdrawCommand(acct.user.ID, 4000))
			require.NoError(t, err)

			confirmation, err := tt.apply(env, result.Outcome.Reference)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOutcome, confirmation.Outcome)
			assert.Equal(t, tt.expectedStatus, env.transaction(t, result.Outcome.Reference).Status)
			assert.Equal(t, tt.expectedBalance, env.balance(t, acct.wallet.ID))
			env.requireConsistent(t, acct.user.ID)
		})
	}
}

func TestSettleWithdrawal_Errors(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	env.pendingDeposit(t, acct.wallet.ID, "dep-1", 100)

	_, err := env.service.SettleWithdrawal(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)

	_, err = env.service.ReverseWithdrawal(context.Background(), "dep-1", "")
	assert.ErrorIs(t, err, errs.ErrReferenceTypeMismatch)
	assert.Equal(t, entity.StatusPending, env.transaction(t, "dep-1").Status)
}

func TestSettleWithdrawal_AfterRefundRaisesConflict(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, true)
	env.fund(t, acct.wallet.ID, 10000)
	env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&gateway.PayoutRecipient{RecipientCode: "RCP_1"}, nil).Once()
	env.gateway.On("InitiatePayout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, context.DeadlineExceeded).Once()

	_, err := env.service.Withdraw(context.Background(), withdrawCommand(acct.user.ID, 4000))
	var providerErr *errs.ProviderError
	require.ErrorAs(t, err, &providerErr)
	reference := providerErr.Reference

	// The timed out payout was delivered after all
	confirmation, err := env.service.SettleWithdrawal(context.Background(), reference)

	assert.Nil(t, confirmation)
	assert.ErrorIs(t, err, errs.ErrPayoutAfterRefund)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.Equal(t, entity.StatusFailed, env.transaction(t, reference).Status)
	assert.Equal(t, int64(10000), env.balance(t, acct.wallet.ID))
	env.metrics.AssertCalled(t, "RecordCompensation", StepSettleAfterRefund, ResultFailed)
	env.requireConsistent(t, acct.user.ID)
}

func TestWithdraw_SettledDuringPayoutCallKeepsStatus(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, true)
	env.fund(t, acct.wallet.ID, 10000)
	env.gateway.On("RegisterPayoutRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&gateway.PayoutRecipient{RecipientCode: "RCP_1"}, nil).Once()
	env.gateway.On("InitiatePayout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// transfer.success lands before the gateway answers
			confirmation, err := env.service.SettleWithdrawal(context.Background(), args.String(3))
			require.NoError(t, err)
			require.Equal(t, usecase.OutcomeApplied, confirmation.Outcome)
		}).
		Return(&gateway.PayoutResult{Accepted: true, TransferCode: "TRF_1"}, nil).Once()

	result, err := env.service.Withdraw(context.Background(), withdrawCommand(acct.user.ID, 4000))
	require.NoError(t, err)

	txn := env.transaction(t, result.Outcome.Reference)
	assert.Equal(t, entity.StatusSuccess, txn.Status)
	assert.NotContains(t, txn.Metadata, entity.MetaTransferCode)
	assert.Equal(t, int64(6000), env.balance(t, acct.wallet.ID))
	env.requireConsistent(t, acct.user.ID)
}
