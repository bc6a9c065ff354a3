package persistence

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// IdempotencyStore reserves client idempotency keys
type IdempotencyStore interface {
	// Reserve stores record if its key is free or expired. When the key is taken it
	// returns the existing record and reserved=false.
	Reserve(ctx context.Context, record *entity.IdempotencyRecord) (existing *entity.IdempotencyRecord, reserved bool, err error)

	// Complete marks a reserved key as completed with its outcome
	Complete(ctx context.Context, key string, outcome *entity.OperationOutcome) error

	// Release removes a reservation so the key may be retried
	Release(ctx context.Context, key string) error
}
