package wallet

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalance(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	env.fund(t, acct.wallet.ID, 12345)

	balance, err := env.service.GetBalance(context.Background(), acct.user.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(12345), balance.Balance)
	assert.Equal(t, "NGN", balance.Currency)

	_, err = env.service.GetBalance(context.Background(), "nobody")
	assert.ErrorIs(t, err, errs.ErrWalletNotFound)

	_, err = env.service.GetBalance(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestListTransactions(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	for i := 1; i <= 5; i++ {
		env.pendingDeposit(t, acct.wallet.ID, "dep-"+strconv.Itoa(i), int64(i*100))
		env.clock.Advance(time.Minute)
	}

	tests := []struct {
		name          string
		skip          int
		limit         int
		expectedRefs  []string
		expectedLimit int
		expectedError error
	}{
		{name: "Default limit, newest first", skip: 0, limit: 0, expectedRefs: []string{"dep-5", "dep-4", "dep-3", "dep-2", "dep-1"}, expectedLimit: 20},
		{name: "Second page", skip: 2, limit: 2, expectedRefs: []string{"dep-3", "dep-2"}, expectedLimit: 2},
		{name: "Past the end", skip: 10, limit: 5, expectedRefs: []string{}, expectedLimit: 5},
		{name: "Negative skip", skip: -1, limit: 5, expectedError: errs.ErrInvalidPagination},
		{name: "Limit above maximum", skip: 0, limit: 101, expectedError: errs.ErrInvalidPagination},
		{name: "Negative limit", skip: 0, limit: -3, expectedError: errs.ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.service.ListTransactions(context.Background(), acct.user.ID, tt.skip, tt.limit)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLimit, page.Limit)
			refs := make([]string, 0, len(page.Transactions))
			for _, txn := range page.Transactions {
				refs = append(refs, txn.Reference)
			}
			assert.Equal(t, tt.expectedRefs, refs)
		})
	}
}

func TestAuditWallet(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	env.fund(t, acct.wallet.ID, 4000)
	env.fund(t, acct.wallet.ID, 1000)

	audit, err := env.service.AuditWallet(context.Background(), acct.user.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent())
	assert.Equal(t, int64(5000), audit.LedgerBalance)
	assert.Equal(t, int64(2), audit.EntryCount)

	// A balance written around the engine shows up as drift
	require.NoError(t, env.db.DB.Model(&model.Wallet{}).Where("id = ?", acct.wallet.ID).Update("balance", 9000).Error)

	audit, err = env.service.AuditWallet(context.Background(), acct.user.ID)
	require.NoError(t, err)
	assert.False(t, audit.Consistent())
	assert.Equal(t, int64(9000), audit.CachedBalance)
	assert.Equal(t, int64(5000), audit.LedgerBalance)
	assert.Equal(t, entity.LedgerAudit{WalletID: acct.wallet.ID, CachedBalance: 9000, LedgerBalance: 5000, EntryCount: 2}, *audit)
}

func TestListTransactions_PagesThroughHistory(t *testing.T) {
	env := newEngineEnv(t)
	acct := env.newAccount(t, false)
	for i := 1; i <= 25; i++ {
		env.pendingDeposit(t, acct.wallet.ID, fmt.Sprintf("dep-%02d", i), int64(i*100))
		env.clock.Advance(time.Second)
	}

	tests := []struct {
		name        string
		skip        int
		expectedLen int
		expectedTop string
	}{
		{name: "First page", skip: 0, expectedLen: 10, expectedTop: "dep-25"},
		{name: "Last partial page", skip: 20, expectedLen: 5, expectedTop: "dep-05"},
		{name: "Beyond history", skip: 30, expectedLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.service.ListTransactions(context.Background(), acct.user.ID, tt.skip, 10)

			require.NoError(t, err)
			require.Len(t, page.Transactions, tt.expectedLen)
			assert.Equal(t, tt.skip, page.Skip)
			if tt.expectedLen > 0 {
				assert.Equal(t, tt.expectedTop, page.Transactions[0].Reference)
			}
		})
	}
}

func TestAuditWallet_ConsistentWhileTransfersRun(t *testing.T) {
	env := newEngineEnv(t)
	alice := env.newAccount(t, true)
	bob := env.newAccount(t, true)
	env.fund(t, alice.wallet.ID, 10000)

	const transfers = 10
	var wg sync.WaitGroup
	for i := 0; i < transfers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.service.Transfer(context.Background(), usecase.TransferCommand{
				UserID:                alice.user.ID,
				RecipientWalletNumber: bob.wallet.WalletNumber,
				Amount:                500,
				PIN:                   testPIN,
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			audit, err := env.service.AuditWallet(context.Background(), alice.user.ID)
			if assert.NoError(t, err) {
				assert.True(t, audit.Consistent(), "cached %d, ledger %d", audit.CachedBalance, audit.LedgerBalance)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5000), env.balance(t, alice.wallet.ID))
	assert.Equal(t, int64(5000), env.balance(t, bob.wallet.ID))
	env.requireConsistent(t, bob.user.ID)
}
