package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/security"
	"github.com/golang-jwt/jwt/v5"
)

// leeway tolerates clock skew between issuer and verifier
const leeway = 5 * time.Second

// claims is the bearer token body. A token without perms grants every permission.
type claims struct {
	Permissions []string `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator issues and verifies HS256 bearer tokens
type JWTAuthenticator struct {
	secret       []byte
	issuer       string
	timeProvider coreport.TimeProvider
}

var (
	_ security.TokenVerifier = (*JWTAuthenticator)(nil)
	_ security.TokenIssuer   = (*JWTAuthenticator)(nil)
)

// NewJWTAuthenticator creates a new JWTAuthenticator
func NewJWTAuthenticator(secret, issuer string, timeProvider coreport.TimeProvider) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:       []byte(secret),
		issuer:       issuer,
		timeProvider: timeProvider,
	}
}

// Issue signs a token for principal that ends after expiry
func (a *JWTAuthenticator) Issue(principal entity.Principal, expiry entity.Expiry) (string, error) {
	if principal.UserID == "" {
		return "", errs.ErrUnauthenticated
	}
	// An omitted perms claim means every permission, so an empty grant cannot be encoded
	if principal.Permissions != nil && len(principal.Permissions) == 0 {
		return "", fmt.Errorf("%w: token without permissions", errs.ErrInvalidRequest)
	}

	now := a.timeProvider.Now()
	body := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry.ExpiresAt(now)),
		},
	}
	for _, p := range principal.Permissions {
		body.Permissions = append(body.Permissions, string(p))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, body).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its principal
func (a *JWTAuthenticator) Verify(token string) (entity.Principal, error) {
	if token == "" {
		return entity.Principal{}, errs.ErrUnauthenticated
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(a.timeProvider.Now),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	var body claims
	parsed, err := jwt.ParseWithClaims(token, &body, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, options...)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entity.Principal{}, fmt.Errorf("%w: token expired", errs.ErrUnauthenticated)
		}
		return entity.Principal{}, errs.ErrUnauthenticated
	}
	if body.Subject == "" {
		return entity.Principal{}, fmt.Errorf("%w: missing subject", errs.ErrUnauthenticated)
	}

	if body.Permissions == nil {
		return entity.NewPrincipal(body.Subject, nil), nil
	}
	permissions := make([]entity.Permission, 0, len(body.Permissions))
	for _, name := range body.Permissions {
		p, err := entity.ParsePermission(name)
		if err != nil {
			return entity.Principal{}, fmt.Errorf("%w: %s", errs.ErrUnauthenticated, err.Error())
		}
		permissions = append(permissions, p)
	}
	return entity.NewPrincipal(body.Subject, permissions), nil
}
