package usecase

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// OnboardResult is the user and wallet after onboarding
type OnboardResult struct {
	User    *entity.User
	Wallet  *entity.Wallet
	Created bool
}

// UserUseCase defines methods for user-related business operations
type UserUseCase interface {
	// Onboard returns the user with email, creating it and an empty wallet if needed
	Onboard(ctx context.Context, email, fullName string) (*OnboardResult, error)

	// SetPIN stores the user's transaction PIN once
	SetPIN(ctx context.Context, userID, pin string) error
}
