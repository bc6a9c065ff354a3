package entity

import (
	"time"
)

// IdempotencyStatus is the lifecycle of a client idempotency key
type IdempotencyStatus string

const (
	IdempotencyInProgress IdempotencyStatus = "in_progress"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

// OperationOutcome is what a client-initiated money movement returns, and what a replay returns again
type OperationOutcome struct {
	Status    TransactionStatus `json:"status"`
	Reference string            `json:"reference"`
	Message   string            `json:"message"`
}

// IdempotencyRecord reserves a client key for one request fingerprint
type IdempotencyRecord struct {
	Key         string
	Fingerprint string
	Status      IdempotencyStatus
	Outcome     *OperationOutcome
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the record may be discarded
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}
