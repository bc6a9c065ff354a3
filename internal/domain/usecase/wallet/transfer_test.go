package wallet

import (
	"context"
	"sync"
	"testing"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	tests := []struct {
		name              string
		senderPIN         bool
		funds             int64
		amount            int64
		pin               string
		recipient         func(sender, recipient account) string
		expectedError     error
		expectedSender    int64
		expectedRecipient int64
	}{
		{
			name:              "Funds moved",
			senderPIN:         true,
			funds:             10000,
			amount:            2500,
			pin:               testPIN,
			recipient:         func(_, r account) string { return r.wallet.WalletNumber },
			expectedSender:    7500,
			expectedRecipient: 2500,
		},
		{
			name:              "Whole balance moved",
			senderPIN:         true,
			funds:             2500,
			amount:            2500,
			pin:               testPIN,
			recipient:         func(_, r account) string { return r.wallet.WalletNumber },
			expectedSender:    0,
			expectedRecipient: 2500,
		},
		{
			name:           "PIN not set",
			senderPIN:      false,
			funds:          10000,
			amount:         2500,
			pin:            testPIN,
			recipient:      func(_, r account) string { return r.wallet.WalletNumber },
			expectedError:  errs.ErrPINNotSet,
			expectedSender: 10000,
		},
		{
			name:           "Wrong PIN",
			senderPIN:      true,
			funds:          10000,
			amount:         2500,
			pin:            "9999",
			recipient:      func(_, r account) string { return r.wallet.WalletNumber },
			expectedError:  errs.ErrInvalidPIN,
			expectedSender: 10000,
		},
		{
			name:           "Insufficient funds",
			senderPIN:      true,
			funds:          1000,
			amount:         2500,
			pin:            testPIN,
			recipient:      func(_, r account) string { return r.wallet.WalletNumber },
			expectedError:  errs.ErrInsufficientFunds,
			expectedSender: 1000,
		},
		{
			name:           "Unknown recipient",
			senderPIN:      true,
			funds:          10000,
			amount:         2500,
			pin:            testPIN,
			recipient:      func(_, _ account) string { return "9999999999" },
			expectedError:  errs.ErrRecipientNotFound,
			expectedSender: 10000,
		},
		{
			name:           "Transfer to self",
			senderPIN:      true,
			funds:          10000,
			amount:         2500,
			pin:            testPIN,
			recipient:      func(s, _ account) string { return s.wallet.WalletNumber },
			expectedError:  errs.ErrSelfTransfer,
			expectedSender: 10000,
		},
		{
			name:           "Malformed wallet number",
			senderPIN:      true,
			funds:          10000,
			amount:         2500,
			pin:            testPIN,
			recipient:      func(_, _ account) string { return "12345" },
			expectedError:  errs.ErrInvalidWalletNumber,
			expectedSender: 10000,
		},
		{
			name:           "Non-positive amount",
			senderPIN:      true,
			funds:          10000,
			amount:         0,
			pin:            testPIN,
			recipient:      func(_, r account) string { return r.wallet.WalletNumber },
			expectedError:  errs.ErrInvalidAmount,
			expectedSender: 10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEngineEnv(t)
			sender := env.newAccount(t, tt.senderPIN)
			recipient := env.newAccount(t, true)
			env.fund(t, sender.wallet.ID, tt.funds)

			result, err := env.service.Transfer(context.Background(), usecase.TransferCommand{
				UserID:                sender.user.ID,
				RecipientWalletNumber: tt.recipient(sender, recipient),
				Amount:                tt.amount,
				PIN:                   tt.pin,
			})

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, entity.StatusSuccess, result.Outcome.Status)
				assert.Equal(t, TransferSucceededMessage, result.Outcome.Message)
				assert.False(t, result.Replayed)

				debit := env.transaction(t, result.Outcome.Reference)
				credit := env.transaction(t, entity.CreditReference(result.Outcome.Reference))
				assert.Equal(t, -tt.amount, debit.Amount)
				assert.Equal(t, tt.amount, credit.Amount)
				assert.Equal(t, entity.DirectionSent, debit.Metadata[entity.MetaDirection])
				assert.Equal(t, recipient.wallet.WalletNumber, debit.Metadata[entity.MetaCounterparty])
				assert.Equal(t, entity.DirectionReceived, credit.Metadata[entity.MetaDirection])
				assert.Equal(t, sender.wallet.WalletNumber, credit.Metadata[entity.MetaCounterparty])
			}

			assert.Equal(t, tt.expectedSender, env.balance(t, sender.wallet.ID))
			assert.Equal(t, tt.expectedRecipient, env.balance(t, recipient.wallet.ID))
			env.requireConsistent(t, sender.user.ID)
			env.requireConsistent(t, recipient.user.ID)
		})
	}
}

func TestTransfer_IdempotencyKey(t *testing.T) {
	env := newEngineEnv(t)
	sender := env.newAccount(t, true)
	recipient := env.newAccount(t, true)
	env.fund(t, sender.wallet.ID, 10000)

	cmd := usecase.TransferCommand{
		UserID:                sender.user.ID,
		RecipientWalletNumber: recipient.wallet.WalletNumber,
		Amount:                1500,
		PIN:                   testPIN,
		IdempotencyKey:        "client-key-1",
	}

	first, err := env.service.Transfer(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	replay, err := env.service.Transfer(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
	assert.Equal(t, first.Outcome, replay.Outcome)
	assert.Equal(t, int64(8500), env.balance(t, sender.wallet.ID))
	assert.Equal(t, int64(1500), env.balance(t, recipient.wallet.ID))

	cmd.Amount = 2000
	_, err = env.service.Transfer(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrIdempotencyKeyReused)
	assert.Equal(t, int64(8500), env.balance(t, sender.wallet.ID))
}

func TestTransfer_FailedAttemptReleasesKey(t *testing.T) {
	env := newEngineEnv(t)
	sender := env.newAccount(t, true)
	recipient := env.newAccount(t, true)
	env.fund(t, sender.wallet.ID, 1000)

	cmd := usecase.TransferCommand{
		UserID:                sender.user.ID,
		RecipientWalletNumber: recipient.wallet.WalletNumber,
		Amount:                1500,
		PIN:                   testPIN,
		IdempotencyKey:        "client-key-2",
	}
	_, err := env.service.Transfer(context.Background(), cmd)
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)

	env.fund(t, sender.wallet.ID, 1000)
	result, err := env.service.Transfer(context.Background(), cmd)

	require.NoError(t, err)
	assert.False(t, result.Replayed)
	assert.Equal(t, int64(500), env.balance(t, sender.wallet.ID))
}

func TestTransfer_ConcurrentTransfersConserveMoney(t *testing.T) {
	env := newEngineEnv(t)
	alice := env.newAccount(t, true)
	bob := env.newAccount(t, true)
	env.fund(t, alice.wallet.ID, 5000)
	env.fund(t, bob.wallet.ID, 5000)

	const perDirection = 15
	var wg sync.WaitGroup
	send := func(from, to account, amount int64) {
		defer wg.Done()
		_, err := env.service.Transfer(context.Background(), usecase.TransferCommand{
			UserID:                from.user.ID,
			RecipientWalletNumber: to.wallet.WalletNumber,
			Amount:                amount,
			PIN:                   testPIN,
		})
		if err != nil {
			assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		}
	}
	for i := 0; i < perDirection; i++ {
		wg.Add(2)
		go send(alice, bob, 700)
		go send(bob, alice, 300)
	}
	wg.Wait()

	aliceBalance := env.balance(t, alice.wallet.ID)
	bobBalance := env.balance(t, bob.wallet.ID)
	assert.Equal(t, int64(10000), aliceBalance+bobBalance)
	assert.GreaterOrEqual(t, aliceBalance, int64(0))
	assert.GreaterOrEqual(t, bobBalance, int64(0))
	env.requireConsistent(t, alice.user.ID)
	env.requireConsistent(t, bob.user.ID)

	sum, _, err := env.db.UoW.Ledger(context.Background()).SumByWallet(context.Background(), alice.wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, aliceBalance, sum)
}
