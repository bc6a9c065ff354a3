package entity

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// WalletNumberLength is the number of digits in a wallet number
const WalletNumberLength = 10

var walletNumberSpace = big.NewInt(10_000_000_000)

// GenerateWalletNumber draws a uniformly random 10-digit number from r.
// Leading zeros are kept, so every number in the space is reachable.
func GenerateWalletNumber(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, walletNumberSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate wallet number: %w", err)
	}
	return fmt.Sprintf("%010d", n.Int64()), nil
}

// ValidateWalletNumber checks the 10-digit numeric format
func ValidateWalletNumber(number string) error {
	if !isDigits(number, WalletNumberLength, WalletNumberLength) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidWalletNumber, number)
	}
	return nil
}

func isDigits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
