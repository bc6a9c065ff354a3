package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/persistence"
)

// DefaultIdempotencyTTL is how long a completed outcome is replayed
const DefaultIdempotencyTTL = 24 * time.Hour

// Guard makes client-initiated money movements safe to retry under one Idempotency-Key
type Guard struct {
	store        persistence.IdempotencyStore
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	ttl          time.Duration
}

// NewGuard creates a new Guard
func NewGuard(store persistence.IdempotencyStore, timeProvider coreport.TimeProvider, logger coreport.Logger, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &Guard{
		store:        store,
		timeProvider: timeProvider,
		logger:       logger,
		ttl:          ttl,
	}
}

// ScopeKey namespaces a client token by caller and operation
func ScopeKey(userID, operation, token string) string {
	return userID + ":" + operation + ":" + token
}

// Fingerprint hashes the canonical request fields
func Fingerprint(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// Execute runs fn at most once per key. A completed key replays its stored
// outcome; replayed reports whether that happened.
func (g *Guard) Execute(
	ctx context.Context,
	key string,
	fingerprint string,
	fn func(ctx context.Context) (*entity.OperationOutcome, error),
) (outcome *entity.OperationOutcome, replayed bool, err error) {
	now := g.timeProvider.Now()
	existing, reserved, err := g.store.Reserve(ctx, &entity.IdempotencyRecord{
		Key:         key,
		Fingerprint: fingerprint,
		Status:      entity.IdempotencyInProgress,
		CreatedAt:   now,
		ExpiresAt:   now.Add(g.ttl),
	})
	if err != nil {
		return nil, false, err
	}

	if !reserved {
		switch {
		case existing.Fingerprint != fingerprint:
			return nil, false, errs.ErrIdempotencyKeyReused
		case existing.Status != entity.IdempotencyCompleted || existing.Outcome == nil:
			return nil, false, errs.ErrOperationInProgress
		}
		g.logger.Info("Replaying idempotent outcome", map[string]any{
			"idempotency_key": key,
			"reference":       existing.Outcome.Reference,
		})
		return existing.Outcome, true, nil
	}

	outcome, err = fn(ctx)
	detached := context.WithoutCancel(ctx)

	if err != nil {
		if errors.Is(err, errs.ErrCompensationFailed) {
			// Left reserved: a blind retry could pay out twice
			g.logger.Error("Keeping idempotency key reserved after failed compensation", map[string]any{
				"idempotency_key": key,
				"alert":           "manual_reconciliation_required",
			})
			return nil, false, err
		}
		if releaseErr := g.store.Release(detached, key); releaseErr != nil {
			g.logger.Warn("Failed to release idempotency key", map[string]any{
				"idempotency_key": key,
				"error":           releaseErr.Error(),
			})
		}
		return nil, false, err
	}

	if completeErr := g.store.Complete(detached, key, outcome); completeErr != nil {
		g.logger.Warn("Failed to store idempotent outcome", map[string]any{
			"idempotency_key": key,
			"reference":       outcome.Reference,
			"error":           completeErr.Error(),
		})
	}
	return outcome, false, nil
}
