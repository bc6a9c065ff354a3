package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:        transaction.ID,
		WalletID:  transaction.WalletID,
		Reference: transaction.Reference,
		Type:      string(transaction.Type),
		Status:    string(transaction.Status),
		Amount:    transaction.Amount,
		Metadata:  model.JSONMap(transaction.Metadata),
		CreatedAt: transaction.CreatedAt,
		UpdatedAt: transaction.UpdatedAt,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	metadata := entity.Metadata{}
	for k, v := range m.Metadata {
		metadata[k] = v
	}
	return &entity.Transaction{
		ID:        m.ID,
		WalletID:  m.WalletID,
		Reference: m.Reference,
		Type:      entity.TransactionType(m.Type),
		Status:    entity.TransactionStatus(m.Status),
		Amount:    m.Amount,
		Metadata:  metadata,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *TransactionRepository) handleDatabaseError(operation string, err error, reference string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Transaction not found", map[string]any{
			"reference": reference,
		})
		return errs.ErrTransactionNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"reference": reference,
		"error":     err.Error(),
	})
	return r.errorClassifier.wrap(err)
}

// Create saves a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"reference": transaction.Reference,
		"wallet_id": transaction.WalletID,
		"type":      transaction.Type,
	})

	transactionModel := r.entityToModel(transaction)
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(&transactionModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate transaction reference detected", map[string]any{
				"reference": transaction.Reference,
			})
			return fmt.Errorf("%w: %s", errs.ErrDuplicateReference, transaction.Reference)
		}
		return r.handleDatabaseError("creating transaction", result.Error, transaction.Reference)
	}

	r.logger.Debug("Transaction created successfully", map[string]any{
		"reference": transaction.Reference,
		"status":    transaction.Status,
	})
	return nil
}

// UpdateStatus persists status and metadata of an existing transaction
func (r *TransactionRepository) UpdateStatus(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Updating transaction", map[string]any{
		"reference": transaction.Reference,
		"status":    transaction.Status,
	})

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"status":     string(transaction.Status),
			"metadata":   model.JSONMap(transaction.Metadata),
			"updated_at": transaction.UpdatedAt,
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating transaction", result.Error, transaction.Reference)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Transaction not found during update", map[string]any{
			"reference": transaction.Reference,
		})
		return errs.ErrTransactionNotFound
	}

	r.logger.Debug("Transaction updated successfully", map[string]any{
		"reference": transaction.Reference,
		"status":    transaction.Status,
	})
	return nil
}

// GetByReference retrieves a transaction by its reference
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	r.logger.Debug("Getting transaction by reference", map[string]any{
		"reference": reference,
	})

	var transactionModel model.Transaction
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&transactionModel).Error; err != nil {
		return nil, r.handleDatabaseError("getting transaction", err, reference)
	}

	return r.modelToEntity(&transactionModel), nil
}

// LockByReference reads a transaction with SELECT ... FOR UPDATE
func (r *TransactionRepository) LockByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	r.logger.Debug("Locking transaction", map[string]any{
		"reference": reference,
	})

	var transactionModel model.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference = ?", reference).
		First(&transactionModel).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking transaction", err, reference)
	}

	return r.modelToEntity(&transactionModel), nil
}

// ListByWallet returns a page of transactions, newest first
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, skip, limit int) ([]*entity.Transaction, error) {
	r.logger.Debug("Listing transactions", map[string]any{
		"wallet_id": walletID,
		"skip":      skip,
		"limit":     limit,
	})

	var models []model.Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, r.handleDatabaseError("listing transactions", err, walletID)
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions, nil
}
