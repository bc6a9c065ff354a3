package user

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// SetPIN stores the transaction PIN. A PIN can be set only once.
func (u *UserUseCase) SetPIN(ctx context.Context, userID, pin string) error {
	if userID == "" {
		return errs.ErrUnauthenticated
	}
	if err := entity.ValidatePIN(pin); err != nil {
		return err
	}

	user, err := u.uow.Users(ctx).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasPIN() {
		return errs.ErrPINAlreadySet
	}

	hash, err := u.hasher.Hash(pin)
	if err != nil {
		return fmt.Errorf("%w: hashing PIN: %s", errs.ErrInternalServer, err.Error())
	}

	// The conditional update rejects a PIN stored by a concurrent request
	if err := u.uow.Users(ctx).SetPINHash(ctx, userID, hash); err != nil {
		return err
	}

	u.logger.Info("Transaction PIN set", map[string]any{
		"user_id": userID,
	})
	return nil
}
