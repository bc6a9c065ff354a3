package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository implements WalletRepository interface using GORM
type WalletRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *WalletRepository) modelToEntity(m *model.Wallet) *entity.Wallet {
	return entity.RestoreWallet(m.ID, m.UserID, m.WalletNumber, m.Balance, m.Currency, m.CreatedAt, m.UpdatedAt)
}

func (r *WalletRepository) handleDatabaseError(operation string, err error, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Wallet not found", map[string]any{
			"wallet": key,
		})
		return errs.ErrWalletNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"wallet": key,
		"error":  err.Error(),
	})

	if r.errorClassifier.IsCheckViolation(err) {
		return fmt.Errorf("%w: %s", errs.ErrInsufficientFunds, err.Error())
	}
	return r.errorClassifier.wrap(err)
}

// Create saves a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	r.logger.Debug("Creating wallet", map[string]any{
		"wallet_id": wallet.ID,
		"user_id":   wallet.UserID,
	})

	walletModel := model.Wallet{
		ID:           wallet.ID,
		UserID:       wallet.UserID,
		WalletNumber: wallet.WalletNumber,
		Balance:      wallet.Balance(),
		Currency:     wallet.Currency,
		CreatedAt:    wallet.CreatedAt,
		UpdatedAt:    wallet.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&walletModel).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate wallet", map[string]any{
				"user_id":       wallet.UserID,
				"wallet_number": wallet.WalletNumber,
			})
			return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
		}
		return r.handleDatabaseError("creating wallet", err, wallet.ID)
	}

	r.logger.Info("Wallet created successfully", map[string]any{
		"wallet_id":     wallet.ID,
		"wallet_number": wallet.WalletNumber,
	})
	return nil
}

func (r *WalletRepository) first(ctx context.Context, operation, key string, query string, args ...any) (*entity.Wallet, error) {
	var walletModel model.Wallet
	if err := r.db.WithContext(ctx).Where(query, args...).First(&walletModel).Error; err != nil {
		return nil, r.handleDatabaseError(operation, err, key)
	}
	return r.modelToEntity(&walletModel), nil
}

// GetByID retrieves a wallet without locking it
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*entity.Wallet, error) {
	r.logger.Debug("Getting wallet by ID", map[string]any{
		"wallet_id": id,
	})
	return r.first(ctx, "getting wallet", id, "id = ?", id)
}

// GetByUserID retrieves the wallet owned by a user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*entity.Wallet, error) {
	r.logger.Debug("Getting wallet by user", map[string]any{
		"user_id": userID,
	})
	return r.first(ctx, "getting wallet by user", userID, "user_id = ?", userID)
}

// GetByNumber retrieves a wallet by its external number
func (r *WalletRepository) GetByNumber(ctx context.Context, walletNumber string) (*entity.Wallet, error) {
	r.logger.Debug("Getting wallet by number", map[string]any{
		"wallet_number": walletNumber,
	})
	return r.first(ctx, "getting wallet by number", walletNumber, "wallet_number = ?", walletNumber)
}

// NumberExists checks if a wallet number is already allocated
func (r *WalletRepository) NumberExists(ctx context.Context, walletNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("wallet_number = ?", walletNumber).
		Count(&count).Error
	if err != nil {
		return false, r.handleDatabaseError("checking wallet number", err, walletNumber)
	}
	return count > 0, nil
}

// LockByID reads a wallet with SELECT ... FOR UPDATE
func (r *WalletRepository) LockByID(ctx context.Context, id string) (*entity.Wallet, error) {
	r.logger.Debug("Locking wallet", map[string]any{
		"wallet_id": id,
	})

	var walletModel model.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&walletModel).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking wallet", err, id)
	}

	return r.modelToEntity(&walletModel), nil
}

// LockByIDs locks wallets one at a time in ascending ID order.
// Two transfers crossing the same pair in opposite directions take the locks in the same order.
func (r *WalletRepository) LockByIDs(ctx context.Context, ids ...string) (map[string]*entity.Wallet, error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)

	wallets := make(map[string]*entity.Wallet, len(ordered))
	for _, id := range ordered {
		if _, seen := wallets[id]; seen {
			continue
		}
		wallet, err := r.LockByID(ctx, id)
		if err != nil {
			return nil, err
		}
		wallets[id] = wallet
	}
	return wallets, nil
}

// SaveBalance persists the wallet's current balance
func (r *WalletRepository) SaveBalance(ctx context.Context, wallet *entity.Wallet) error {
	r.logger.Debug("Saving wallet balance", map[string]any{
		"wallet_id": wallet.ID,
		"balance":   wallet.FormattedBalance(),
	})

	result := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]any{
			"balance":    wallet.Balance(),
			"updated_at": wallet.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("saving balance", result.Error, wallet.ID)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Wallet not found during balance update", map[string]any{
			"wallet_id": wallet.ID,
		})
		return errs.ErrWalletNotFound
	}
	return nil
}
