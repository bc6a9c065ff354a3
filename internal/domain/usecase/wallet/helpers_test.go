package wallet

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/database/dbtest"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/repository"
	timeprovider "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/time"
	mcore "github.com/amirhossein-jamali/wallet-ledger/mocks/port/core"
	mgateway "github.com/amirhossein-jamali/wallet-ledger/mocks/port/gateway"
	mmessaging "github.com/amirhossein-jamali/wallet-ledger/mocks/port/messaging"
	msecurity "github.com/amirhossein-jamali/wallet-ledger/mocks/port/security"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testPIN     = "1234"
	testPINHash = "hash-1234"
)

// engineEnv is a Service wired to a migrated sqlite database and mocked collaborators
type engineEnv struct {
	db        *dbtest.TestDB
	gateway   *mgateway.MockPaymentGateway
	hasher    *msecurity.MockPINHasher
	publisher *mmessaging.MockEventPublisher
	metrics   *mcore.MockMetrics
	clock     *timeprovider.ManualTimeProvider
	service   *Service
	seq       atomic.Int64
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()

	env := &engineEnv{
		db:        dbtest.NewSQLite(t),
		gateway:   mgateway.NewMockPaymentGateway(t),
		hasher:    msecurity.NewMockPINHasher(t),
		publisher: mmessaging.NewMockEventPublisher(t),
		metrics:   mcore.NewMockMetrics(t),
		clock:     timeprovider.NewManualTimeProvider(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
	}

	env.hasher.On("Compare", testPINHash, testPIN).Return(true).Maybe()
	env.hasher.On("Compare", mock.Anything, mock.Anything).Return(false).Maybe()
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	env.metrics.On("RecordOperation", mock.Anything, mock.Anything).Maybe()
	env.metrics.On("RecordCompensation", mock.Anything, mock.Anything).Maybe()
	env.metrics.On("ObserveGatewayCall", mock.Anything, mock.Anything, mock.Anything).Maybe()

	log := logger.NewNoopLogger()
	env.service = NewService(Dependencies{
		UnitOfWork:   env.db.UoW,
		Gateway:      env.gateway,
		PINHasher:    env.hasher,
		Idempotency:  repository.NewIdempotencyRepository(env.db.DB, env.clock, log),
		Publisher:    env.publisher,
		Metrics:      env.metrics,
		TimeProvider: env.clock,
		Logger:       log,
	}, DefaultConfig(), time.Hour)

	return env
}

// account is a seeded user with its wallet
type account struct {
	user   *entity.User
	wallet *entity.Wallet
}

// newAccount creates a user and an empty wallet. The PIN is set when withPIN is true.
func (env *engineEnv) newAccount(t *testing.T, withPIN bool) account {
	t.Helper()
	ctx := context.Background()
	n := env.seq.Add(1)

	user, err := entity.NewUser(fmt.Sprintf("user-%d", n), fmt.Sprintf("user%d@example.com", n), "Test User", env.clock)
	require.NoError(t, err)
	require.NoError(t, env.db.UoW.Users(ctx).Create(ctx, user))
	if withPIN {
		require.NoError(t, env.db.UoW.Users(ctx).SetPINHash(ctx, user.ID, testPINHash))
		user.PINHash = testPINHash
	}

	wallet, err := entity.NewWallet(fmt.Sprintf("wallet-%d", n), user.ID, fmt.Sprintf("%010d", 1000000000+n), entity.DefaultCurrency, env.clock)
	require.NoError(t, err)
	require.NoError(t, env.db.UoW.Wallets(ctx).Create(ctx, wallet))

	return account{user: user, wallet: wallet}
}

// fund credits a wallet through a settled deposit so the ledger stays consistent
func (env *engineEnv) fund(t *testing.T, walletID string, amount int64) {
	t.Helper()
	n := env.seq.Add(1)

	err := env.db.UoW.Do(context.Background(), func(txCtx context.Context) error {
		wallet, err := env.db.UoW.Wallets(txCtx).LockByID(txCtx, walletID)
		if err != nil {
			return err
		}
		if err := wallet.Credit(amount, env.clock); err != nil {
			return err
		}
		if err := env.db.UoW.Wallets(txCtx).SaveBalance(txCtx, wallet); err != nil {
			return err
		}
		txn, err := entity.NewTransaction(fmt.Sprintf("fund-txn-%d", n), walletID, fmt.Sprintf("fund-%d", n),
			entity.TypeDeposit, entity.StatusSuccess, amount, nil, env.clock)
		if err != nil {
			return err
		}
		if err := env.db.UoW.Transactions(txCtx).Create(txCtx, txn); err != nil {
			return err
		}
		return env.db.UoW.Ledger(txCtx).Append(txCtx,
			entity.NewLedgerEntry(fmt.Sprintf("fund-entry-%d", n), walletID, txn.ID, amount, env.clock))
	})
	require.NoError(t, err)
}

func (env *engineEnv) balance(t *testing.T, walletID string) int64 {
	t.Helper()
	wallet, err := env.db.UoW.Wallets(context.Background()).GetByID(context.Background(), walletID)
	require.NoError(t, err)
	return wallet.Balance()
}

func (env *engineEnv) transaction(t *testing.T, reference string) *entity.Transaction {
	t.Helper()
	txn, err := env.db.UoW.Transactions(context.Background()).GetByReference(context.Background(), reference)
	require.NoError(t, err)
	return txn
}

// requireConsistent checks that the cached balance equals the ledger sum
func (env *engineEnv) requireConsistent(t *testing.T, userID string) {
	t.Helper()
	audit, err := env.service.AuditWallet(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, audit.Consistent(), "cached %d, ledger %d", audit.CachedBalance, audit.LedgerBalance)
}

// pendingDeposit stores a pending deposit without going through the gateway
func (env *engineEnv) pendingDeposit(t *testing.T, walletID, reference string, amount int64) {
	t.Helper()
	txn, err := entity.NewTransaction("txn-"+reference, walletID, reference, entity.TypeDeposit, entity.StatusPending, amount, nil, env.clock)
	require.NoError(t, err)
	require.NoError(t, env.db.UoW.Transactions(context.Background()).Create(context.Background(), txn))
}
