package user

import (
	"context"
	"errors"
	"strings"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
)

// Onboard returns the user registered under email, creating the user and an
// empty wallet on first sight
func (u *UserUseCase) Onboard(ctx context.Context, email, fullName string) (*usecase.OnboardResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := u.existing(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, err
	}

	user, err := entity.NewUser(u.newID(), email, fullName, u.timeProvider)
	if err != nil {
		return nil, err
	}

	var wallet *entity.Wallet
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.uow.Users(txCtx).Create(txCtx, user); err != nil {
			return err
		}
		number, err := u.allocateWalletNumber(txCtx)
		if err != nil {
			return err
		}
		wallet, err = entity.NewWallet(u.newID(), user.ID, number, u.currency, u.timeProvider)
		if err != nil {
			return err
		}
		return u.uow.Wallets(txCtx).Create(txCtx, wallet)
	})
	if errors.Is(err, errs.ErrDuplicateUser) {
		// Lost a race with a concurrent sign-in for the same email
		return u.existing(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	u.logger.Info("User onboarded", map[string]any{
		"user_id":       user.ID,
		"wallet_id":     wallet.ID,
		"wallet_number": wallet.WalletNumber,
	})
	return &usecase.OnboardResult{User: user, Wallet: wallet, Created: true}, nil
}

func (u *UserUseCase) existing(ctx context.Context, email string) (*usecase.OnboardResult, error) {
	user, err := u.uow.Users(ctx).GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	wallet, err := u.uow.Wallets(ctx).GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &usecase.OnboardResult{User: user, Wallet: wallet}, nil
}

// allocateWalletNumber draws random numbers until one is free
func (u *UserUseCase) allocateWalletNumber(ctx context.Context) (string, error) {
	wallets := u.uow.Wallets(ctx)
	for attempt := 1; attempt <= MaxWalletNumberAttempts; attempt++ {
		number, err := entity.GenerateWalletNumber(u.random)
		if err != nil {
			return "", err
		}
		taken, err := wallets.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
		u.logger.Debug("Wallet number collision", map[string]any{
			"attempt": attempt,
		})
	}

	u.logger.Error("Could not allocate a wallet number", map[string]any{
		"attempts": MaxWalletNumberAttempts,
	})
	return "", errs.ErrWalletNumberExhausted
}
