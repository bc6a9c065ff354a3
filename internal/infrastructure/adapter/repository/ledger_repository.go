package repository

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository implements LedgerRepository interface using GORM
type LedgerRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Append stores new entries
func (r *LedgerRepository) Append(ctx context.Context, entries ...*entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]model.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		models = append(models, model.LedgerEntry{
			ID:            e.ID,
			WalletID:      e.WalletID,
			TransactionID: e.TransactionID,
			Amount:        e.Amount,
			CreatedAt:     e.CreatedAt,
		})
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&models).Error; err != nil {
		r.logger.Error("Failed to append ledger entries", map[string]any{
			"entries": len(entries),
			"error":   err.Error(),
		})
		return r.errorClassifier.wrap(err)
	}

	r.logger.Debug("Ledger entries appended", map[string]any{
		"entries": len(entries),
	})
	return nil
}

type ledgerSum struct {
	Total int64
	Count int64
}

// SumByWallet returns the ledger balance and entry count of a wallet
func (r *LedgerRepository) SumByWallet(ctx context.Context, walletID string) (int64, int64, error) {
	var sum ledgerSum
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("wallet_id = ?", walletID).
		Scan(&sum).Error
	if err != nil {
		r.logger.Error("Failed to sum ledger", map[string]any{
			"wallet_id": walletID,
			"error":     err.Error(),
		})
		return 0, 0, r.errorClassifier.wrap(err)
	}
	return sum.Total, sum.Count, nil
}

// SumByTransactions returns the total of all entries linked to the given transactions
func (r *LedgerRepository) SumByTransactions(ctx context.Context, transactionIDs ...string) (int64, error) {
	if len(transactionIDs) == 0 {
		return 0, nil
	}

	var sum ledgerSum
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("transaction_id IN ?", transactionIDs).
		Scan(&sum).Error
	if err != nil {
		r.logger.Error("Failed to sum ledger by transactions", map[string]any{
			"transactions": len(transactionIDs),
			"error":        err.Error(),
		})
		return 0, r.errorClassifier.wrap(err)
	}
	return sum.Total, nil
}
