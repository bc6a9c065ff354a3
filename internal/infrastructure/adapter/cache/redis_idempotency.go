// Package cache keeps client idempotency keys in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/persistence"
	"github.com/redis/go-redis/v9"
)

// storedRecord is the JSON value kept under each key
type storedRecord struct {
	Fingerprint string                   `json:"fingerprint"`
	Status      entity.IdempotencyStatus `json:"status"`
	Outcome     *entity.OperationOutcome `json:"outcome,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	ExpiresAt   time.Time                `json:"expires_at"`
}

// RedisIdempotencyStore implements IdempotencyStore with SET NX. Redis expiry
// replaces the expired-row sweep of the database store.
type RedisIdempotencyStore struct {
	client       redis.UniversalClient
	prefix       string
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ persistence.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// NewRedisIdempotencyStore creates a new RedisIdempotencyStore
func NewRedisIdempotencyStore(client redis.UniversalClient, prefix string, timeProvider coreport.TimeProvider, logger coreport.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:       client,
		prefix:       prefix,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func (s *RedisIdempotencyStore) key(key string) string {
	return s.prefix + key
}

func encodeRecord(record *entity.IdempotencyRecord) ([]byte, error) {
	return json.Marshal(storedRecord{
		Fingerprint: record.Fingerprint,
		Status:      record.Status,
		Outcome:     record.Outcome,
		CreatedAt:   record.CreatedAt,
		ExpiresAt:   record.ExpiresAt,
	})
}

func decodeRecord(key string, raw []byte) (*entity.IdempotencyRecord, error) {
	var stored storedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%w: corrupt idempotency record: %s", errs.ErrInternalServer, err.Error())
	}
	return &entity.IdempotencyRecord{
		Key:         key,
		Fingerprint: stored.Fingerprint,
		Status:      stored.Status,
		Outcome:     stored.Outcome,
		CreatedAt:   stored.CreatedAt,
		ExpiresAt:   stored.ExpiresAt,
	}, nil
}

// Reserve stores the record if the key is free
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, record *entity.IdempotencyRecord) (*entity.IdempotencyRecord, bool, error) {
	ttl := record.ExpiresAt.Sub(s.timeProvider.Now())
	if ttl <= 0 {
		return nil, false, fmt.Errorf("%w: idempotency record already expired", errs.ErrInternalServer)
	}

	value, err := encodeRecord(record)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}

	reserved, err := s.client.SetNX(ctx, s.key(record.Key), value, ttl).Result()
	if err != nil {
		s.logger.Error("Failed to reserve idempotency key", map[string]any{
			"key":   record.Key,
			"error": err.Error(),
		})
		return nil, false, fmt.Errorf("%w: redis: %s", errs.ErrDatabaseConnection, err.Error())
	}
	if reserved {
		return nil, true, nil
	}

	raw, err := s.client.Get(ctx, s.key(record.Key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Released or expired between SETNX and GET
		return &entity.IdempotencyRecord{Key: record.Key, Fingerprint: record.Fingerprint, Status: entity.IdempotencyInProgress}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis: %s", errs.ErrDatabaseConnection, err.Error())
	}

	existing, err := decodeRecord(record.Key, raw)
	if err != nil {
		return nil, false, err
	}
	s.logger.Debug("Idempotency key already reserved", map[string]any{
		"key":    record.Key,
		"status": existing.Status,
	})
	return existing, false, nil
}

// Complete stores the outcome and keeps the remaining TTL
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, outcome *entity.OperationOutcome) error {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.logger.Warn("Idempotency key vanished before completion", map[string]any{
			"key": key,
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: redis: %s", errs.ErrDatabaseConnection, err.Error())
	}

	record, err := decodeRecord(key, raw)
	if err != nil {
		return err
	}
	record.Status = entity.IdempotencyCompleted
	record.Outcome = outcome

	value, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}
	if err := s.client.SetArgs(ctx, s.key(key), value, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Error("Failed to complete idempotency key", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: redis: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return nil
}

// Release removes a reservation so the key may be retried
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.Error("Failed to release idempotency key", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: redis: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return nil
}
