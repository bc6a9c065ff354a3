package entity

import (
	"fmt"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// Permission is a capability an authenticated principal may hold
type Permission string

// Permissions understood by the API
const (
	PermissionDeposit  Permission = "deposit"
	PermissionTransfer Permission = "transfer"
	PermissionRead     Permission = "read"
)

// AllPermissions is the set held by interactive (token) users
var AllPermissions = []Permission{PermissionDeposit, PermissionTransfer, PermissionRead}

// ParsePermission validates a permission name
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	switch p {
	case PermissionDeposit, PermissionTransfer, PermissionRead:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown permission %q", errs.ErrInvalidRequest, s)
}

// Principal is the authenticated caller
type Principal struct {
	UserID      string
	Permissions []Permission
}

// NewPrincipal creates a principal. A nil permission list grants everything.
func NewPrincipal(userID string, permissions []Permission) Principal {
	if permissions == nil {
		permissions = AllPermissions
	}
	return Principal{UserID: userID, Permissions: permissions}
}

// Has reports whether the principal holds permission
func (p Principal) Has(permission Permission) bool {
	for _, held := range p.Permissions {
		if held == permission {
			return true
		}
	}
	return false
}

// Authorize allows the principal through or returns ErrMissingPermission
func Authorize(principal Principal, required Permission) error {
	if principal.UserID == "" {
		return errs.ErrUnauthenticated
	}
	if !principal.Has(required) {
		return fmt.Errorf("%w: %s", errs.ErrMissingPermission, required)
	}
	return nil
}
