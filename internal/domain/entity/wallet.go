package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
)

// DefaultCurrency is the only currency wallets hold in v1
const DefaultCurrency = "NGN"

// Wallet holds a user's balance in minor units
type Wallet struct {
	ID           string    // Opaque identifier
	UserID       string    // Owning user, exactly one
	WalletNumber string    // Externally shareable 10-digit number
	balance      int64     // Minor units, never negative after commit (private)
	Currency     string    // ISO code
	CreatedAt    time.Time // When the wallet was created
	UpdatedAt    time.Time // When the balance last changed
}

// NewWallet creates an empty wallet for a freshly onboarded user
func NewWallet(id, userID, walletNumber, currency string, timeProvider coreport.TimeProvider) (*Wallet, error) {
	if err := ValidateWalletNumber(walletNumber); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	now := timeProvider.Now()
	return &Wallet{
		ID:           id,
		UserID:       userID,
		WalletNumber: walletNumber,
		Currency:     currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RestoreWallet rebuilds a wallet from storage (for repositories)
func RestoreWallet(id, userID, walletNumber string, balance int64, currency string, createdAt, updatedAt time.Time) *Wallet {
	return &Wallet{
		ID:           id,
		UserID:       userID,
		WalletNumber: walletNumber,
		balance:      balance,
		Currency:     currency,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Balance returns the current balance in minor units
func (w *Wallet) Balance() int64 {
	return w.balance
}

// FormattedBalance returns the balance with 2 decimal places
func (w *Wallet) FormattedBalance() string {
	return FormatMinorUnits(w.balance)
}

// CanDebit checks if the wallet can cover amount
func (w *Wallet) CanDebit(amount int64) bool {
	return amount > 0 && w.balance >= amount
}

// Credit adds amount to the balance
func (w *Wallet) Credit(amount int64, timeProvider coreport.TimeProvider) error {
	if err := ValidatePositiveAmount(amount); err != nil {
		return err
	}
	next, err := AddChecked(w.balance, amount)
	if err != nil {
		return err
	}
	w.balance = next
	w.UpdatedAt = timeProvider.Now()
	return nil
}

// Debit subtracts amount from the balance if sufficient balance exists
func (w *Wallet) Debit(amount int64, timeProvider coreport.TimeProvider) error {
	if err := ValidatePositiveAmount(amount); err != nil {
		return err
	}
	if w.balance < amount {
		return fmt.Errorf("%w: wallet %s has %s, needs %s",
			errs.ErrInsufficientFunds, w.WalletNumber, FormatMinorUnits(w.balance), FormatMinorUnits(amount))
	}
	w.balance -= amount
	w.UpdatedAt = timeProvider.Now()
	return nil
}
