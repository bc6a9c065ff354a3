package security

import (
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// TokenVerifier resolves a bearer token to the caller it was issued for
type TokenVerifier interface {
	Verify(token string) (entity.Principal, error)
}

// TokenIssuer mints bearer tokens for a principal
type TokenIssuer interface {
	Issue(principal entity.Principal, expiry entity.Expiry) (string, error)
}
