package middleware

import (
	"strings"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/security"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticate resolves the bearer token into a principal
func Authenticate(verifier security.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			_ = c.Error(domainerr.ErrUnauthenticated)
			c.Abort()
			return
		}

		principal, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequirePermission rejects principals without permission
func RequirePermission(permission entity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := PrincipalFrom(c)
		if err := entity.Authorize(principal, permission); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller, if any
func PrincipalFrom(c *gin.Context) (entity.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return entity.Principal{}, false
	}
	principal, ok := value.(entity.Principal)
	return principal, ok
}
