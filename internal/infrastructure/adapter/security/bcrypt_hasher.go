package security

import (
	"fmt"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/security"
	"golang.org/x/crypto/bcrypt"
)

// BcryptPINHasher hashes PINs with bcrypt
type BcryptPINHasher struct {
	cost int
}

var _ security.PINHasher = (*BcryptPINHasher)(nil)

// NewBcryptPINHasher creates a hasher. Costs outside bcrypt's range fall back to the default.
func NewBcryptPINHasher(cost int) *BcryptPINHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPINHasher{cost: cost}
}

// Hash returns the bcrypt hash of pin
func (h *BcryptPINHasher) Hash(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash PIN: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether pin matches hash
func (h *BcryptPINHasher) Compare(hash, pin string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
