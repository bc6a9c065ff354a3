package persistence

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// WalletRepository defines methods to read and mutate wallets.
// LockByID and LockByIDs must be called on a repository bound to an open unit of work.
type WalletRepository interface {
	// Create saves a new wallet
	//
	// Possible errors:
	// - ErrDuplicateUser: If the user already owns a wallet
	// - ErrConstraintViolation: If the wallet number is taken
	Create(ctx context.Context, wallet *entity.Wallet) error

	// GetByID retrieves a wallet without locking it
	//
	// Possible errors:
	// - ErrWalletNotFound: If the wallet doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Wallet, error)

	// GetByUserID retrieves the wallet owned by a user
	//
	// Possible errors:
	// - ErrWalletNotFound: If the user has no wallet
	GetByUserID(ctx context.Context, userID string) (*entity.Wallet, error)

	// GetByNumber retrieves a wallet by its external number
	//
	// Possible errors:
	// - ErrWalletNotFound: If no wallet has the number
	GetByNumber(ctx context.Context, walletNumber string) (*entity.Wallet, error)

	// NumberExists checks if a wallet number is already allocated
	NumberExists(ctx context.Context, walletNumber string) (bool, error)

	// LockByID reads a wallet under an exclusive row lock held until commit
	//
	// Possible errors:
	// - ErrWalletNotFound: If the wallet doesn't exist
	LockByID(ctx context.Context, id string) (*entity.Wallet, error)

	// LockByIDs locks several wallets in ascending ID order and returns them keyed by ID
	//
	// Possible errors:
	// - ErrWalletNotFound: If any wallet doesn't exist
	LockByIDs(ctx context.Context, ids ...string) (map[string]*entity.Wallet, error)

	// SaveBalance persists the wallet's current balance
	//
	// Possible errors:
	// - ErrWalletNotFound: If the wallet doesn't exist
	// - ErrInsufficientFunds: If storage rejects a negative balance
	SaveBalance(ctx context.Context, wallet *entity.Wallet) error
}
