package wallet

import (
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
)

// Validator checks engine inputs before any state is touched
type Validator struct {
	defaultLimit int
	maxLimit     int
}

// NewValidator creates a new Validator
func NewValidator(defaultLimit, maxLimit int) *Validator {
	return &Validator{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// ValidateUser checks that a caller is present
func (v *Validator) ValidateUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errs.ErrUnauthenticated
	}
	return nil
}

// ValidateTransfer checks a transfer command
func (v *Validator) ValidateTransfer(cmd usecase.TransferCommand) error {
	if err := v.ValidateUser(cmd.UserID); err != nil {
		return err
	}
	if err := entity.ValidatePositiveAmount(cmd.Amount); err != nil {
		return err
	}
	return entity.ValidateWalletNumber(cmd.RecipientWalletNumber)
}

// ValidateWithdraw checks a withdraw command
func (v *Validator) ValidateWithdraw(cmd usecase.WithdrawCommand) error {
	if err := v.ValidateUser(cmd.UserID); err != nil {
		return err
	}
	if err := entity.ValidatePositiveAmount(cmd.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(cmd.AccountNumber) == "" {
		return fmt.Errorf("%w: account number is required", errs.ErrInvalidRequest)
	}
	if strings.TrimSpace(cmd.BankCode) == "" {
		return fmt.Errorf("%w: bank code is required", errs.ErrInvalidRequest)
	}
	if strings.TrimSpace(cmd.AccountName) == "" {
		return fmt.Errorf("%w: account name is required", errs.ErrInvalidRequest)
	}
	return nil
}

// NormalizePage applies the default limit and rejects out-of-range values
func (v *Validator) NormalizePage(skip, limit int) (int, int, error) {
	if limit == 0 {
		limit = v.defaultLimit
	}
	if skip < 0 {
		return 0, 0, fmt.Errorf("%w: skip must be >= 0, got %d", errs.ErrInvalidPagination, skip)
	}
	if limit < 1 || limit > v.maxLimit {
		return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d, got %d", errs.ErrInvalidPagination, v.maxLimit, limit)
	}
	return skip, limit, nil
}
