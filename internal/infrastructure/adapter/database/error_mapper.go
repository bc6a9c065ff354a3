package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// ErrorMapper decides how unit-of-work failures surface to the domain
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// IsRetryable reports whether the whole unit may be re-run. Only lock
// contention qualifies: the failed attempt rolled back and left nothing behind.
func (m *ErrorMapper) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errs.ErrCommitFailed) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "deadlock") ||
		strings.Contains(errMsg, "could not serialize access") ||
		strings.Contains(errMsg, "serialization failure") ||
		strings.Contains(errMsg, "lock timeout") ||
		strings.Contains(errMsg, "lock wait timeout") ||
		strings.Contains(errMsg, "database is locked") ||
		strings.Contains(errMsg, "database table is locked")
}

// MapBeginError wraps a failure to open a transaction
func (m *ErrorMapper) MapBeginError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: failed to begin transaction: %s", errs.ErrDatabaseConnection, err.Error())
}

// MapCommitError wraps a failed commit. The outcome of the unit is unknown to the caller.
func (m *ErrorMapper) MapCommitError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", errs.ErrCommitFailed, err.Error())
}
