package persistence

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// UserRepository defines essential methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail retrieves a user by email, used by onboarding
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create creates a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If a user with the same ID or email already exists
	Create(ctx context.Context, user *entity.User) error

	// SetPINHash stores the PIN hash only if none is set yet
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrPINAlreadySet: If a PIN hash is already stored
	SetPINHash(ctx context.Context, userID, pinHash string) error
}
