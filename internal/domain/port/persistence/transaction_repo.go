package persistence

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with transaction data
type TransactionRepository interface {
	// Create saves a new transaction
	//
	// Possible errors:
	// - ErrDuplicateReference: If a transaction with the same reference already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// UpdateStatus persists status, metadata and updated_at of an existing transaction
	//
	// Possible errors:
	// - ErrTransactionNotFound: If transaction with the given ID doesn't exist
	UpdateStatus(ctx context.Context, transaction *entity.Transaction) error

	// GetByReference retrieves a transaction by its reference
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction has the reference
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)

	// LockByReference reads a transaction under an exclusive row lock held until commit.
	// Status checks for idempotency happen on the locked row.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction has the reference
	LockByReference(ctx context.Context, reference string) (*entity.Transaction, error)

	// ListByWallet returns a page of transactions, newest first
	ListByWallet(ctx context.Context, walletID string, skip, limit int) ([]*entity.Transaction, error)
}
