package entity

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
)

// PIN length bounds
const (
	MinPINLength = 4
	MaxPINLength = 6
)

// User is the identity anchor that owns one wallet
type User struct {
	ID        string    // Unique identifier for the user
	Email     string    // Unique login email
	FullName  string    // Display name
	PINHash   string    // Transaction PIN hash, empty until set
	CreatedAt time.Time // When the user was created
	UpdatedAt time.Time // When the user was last updated
}

// NewUser creates a user without a PIN
func NewUser(id, email, fullName string, timeProvider coreport.TimeProvider) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", errs.ErrInvalidRequest, email)
	}

	now := timeProvider.Now()
	return &User{
		ID:        id,
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasPIN reports whether a transaction PIN has been set
func (u *User) HasPIN() bool {
	return u.PINHash != ""
}

// SetPINHash stores the PIN hash once
func (u *User) SetPINHash(hash string, timeProvider coreport.TimeProvider) error {
	if u.HasPIN() {
		return errs.ErrPINAlreadySet
	}
	u.PINHash = hash
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// ValidatePIN checks the PIN is 4 to 6 digits
func ValidatePIN(pin string) error {
	if !isDigits(pin, MinPINLength, MaxPINLength) {
		return errs.ErrInvalidPINFormat
	}
	return nil
}
