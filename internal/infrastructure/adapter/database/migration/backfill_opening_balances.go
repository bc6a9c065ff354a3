package migration

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OpeningBalancePrefix prefixes the reference of a backfilled opening balance
const OpeningBalancePrefix = "opening-"

// BackfillOpeningBalances gives wallets created before the ledger existed an
// opening ledger entry, so that balance equals the ledger sum again
type BackfillOpeningBalances struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewBackfillOpeningBalances creates a new migration instance
func NewBackfillOpeningBalances(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *BackfillOpeningBalances {
	return &BackfillOpeningBalances{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

type walletDrift struct {
	WalletID    string
	Balance     int64
	LedgerTotal int64
}

// Run executes the migration
func (m *BackfillOpeningBalances) Run(ctx context.Context) error {
	m.logger.Info("Backfilling opening balances into the ledger", nil)

	var drifts []walletDrift
	err := m.db.WithContext(ctx).Raw(`
		SELECT w.id AS wallet_id, w.balance AS balance, COALESCE(SUM(l.amount), 0) AS ledger_total
		FROM wallets w
		LEFT JOIN ledger_entries l ON l.wallet_id = w.id
		GROUP BY w.id, w.balance
	`).Scan(&drifts).Error
	if err != nil {
		m.logger.Error("Failed to compare balances with the ledger", map[string]any{"error": err.Error()})
		return err
	}

	backfilled := 0
	for _, drift := range drifts {
		missing := drift.Balance - drift.LedgerTotal
		switch {
		case missing == 0:
			continue
		case missing < 0:
			// A ledger above the cached balance cannot be explained by missing history
			m.logger.Warn("Wallet ledger exceeds cached balance, leaving for reconciliation", map[string]any{
				"wallet_id":    drift.WalletID,
				"balance":      drift.Balance,
				"ledger_total": drift.LedgerTotal,
			})
			continue
		}

		if err := m.backfill(ctx, drift.WalletID, missing); err != nil {
			m.logger.Error("Failed to backfill opening balance", map[string]any{
				"wallet_id": drift.WalletID,
				"error":     err.Error(),
			})
			return err
		}
		backfilled++
	}

	m.logger.Info("Opening balance backfill finished", map[string]any{
		"wallets_checked":    len(drifts),
		"wallets_backfilled": backfilled,
	})
	return nil
}

func (m *BackfillOpeningBalances) backfill(ctx context.Context, walletID string, amount int64) error {
	now := m.timeProvider.Now().UTC()
	txn := model.Transaction{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Reference: OpeningBalancePrefix + walletID,
		Type:      string(entity.TypeDeposit),
		Status:    string(entity.StatusSuccess),
		Amount:    amount,
		Metadata:  model.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	entry := model.LedgerEntry{
		ID:            uuid.NewString(),
		WalletID:      walletID,
		TransactionID: txn.ID,
		Amount:        amount,
		CreatedAt:     now,
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&txn).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&entry).Error
	})
}
