package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// IdempotencyRepository implements IdempotencyStore on the idempotency_keys table.
// The primary key on key makes Reserve a single-winner insert.
type IdempotencyRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewIdempotencyRepository creates a new IdempotencyRepository instance
func NewIdempotencyRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *IdempotencyRepository) modelToEntity(m *model.IdempotencyKey) (*entity.IdempotencyRecord, error) {
	record := &entity.IdempotencyRecord{
		Key:         m.Key,
		Fingerprint: m.Fingerprint,
		Status:      entity.IdempotencyStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ExpiresAt:   m.ExpiresAt,
	}
	if m.Outcome != nil {
		var outcome entity.OperationOutcome
		if err := json.Unmarshal([]byte(*m.Outcome), &outcome); err != nil {
			return nil, fmt.Errorf("%w: corrupt idempotency outcome: %s", errs.ErrInternalServer, err.Error())
		}
		record.Outcome = &outcome
	}
	return record, nil
}

// Reserve inserts the record unless a live record with the same key exists
func (r *IdempotencyRepository) Reserve(ctx context.Context, record *entity.IdempotencyRecord) (*entity.IdempotencyRecord, bool, error) {
	r.logger.Debug("Reserving idempotency key", map[string]any{
		"key": record.Key,
	})

	now := r.timeProvider.Now()
	// Expired keys are reusable
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at < ?", record.Key, now).
		Delete(&model.IdempotencyKey{}).Error; err != nil {
		return nil, false, r.errorClassifier.wrap(err)
	}

	keyModel := model.IdempotencyKey{
		Key:         record.Key,
		Fingerprint: record.Fingerprint,
		Status:      string(record.Status),
		CreatedAt:   record.CreatedAt,
		ExpiresAt:   record.ExpiresAt,
	}
	err := r.db.WithContext(ctx).Create(&keyModel).Error
	if err == nil {
		return nil, true, nil
	}
	if !r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Error("Failed to reserve idempotency key", map[string]any{
			"key":   record.Key,
			"error": err.Error(),
		})
		return nil, false, r.errorClassifier.wrap(err)
	}

	var existing model.IdempotencyKey
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", record.Key).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Released between our insert and read; report it as in progress
			return &entity.IdempotencyRecord{Key: record.Key, Fingerprint: record.Fingerprint, Status: entity.IdempotencyInProgress}, false, nil
		}
		return nil, false, r.errorClassifier.wrap(err)
	}

	existingRecord, err := r.modelToEntity(&existing)
	if err != nil {
		return nil, false, err
	}
	r.logger.Debug("Idempotency key already reserved", map[string]any{
		"key":    record.Key,
		"status": existingRecord.Status,
	})
	return existingRecord, false, nil
}

// Complete marks a reserved key as completed with its outcome
func (r *IdempotencyRepository) Complete(ctx context.Context, key string, outcome *entity.OperationOutcome) error {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}
	encoded := string(raw)

	result := r.db.WithContext(ctx).Model(&model.IdempotencyKey{}).
		Where("idempotency_key = ?", key).
		Updates(map[string]any{
			"status":  string(entity.IdempotencyCompleted),
			"outcome": &encoded,
		})
	if result.Error != nil {
		r.logger.Error("Failed to complete idempotency key", map[string]any{
			"key":   key,
			"error": result.Error.Error(),
		})
		return r.errorClassifier.wrap(result.Error)
	}
	return nil
}

// Release removes a reservation so the key may be retried
func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).Delete(&model.IdempotencyKey{}).Error; err != nil {
		r.logger.Error("Failed to release idempotency key", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return r.errorClassifier.wrap(err)
	}
	return nil
}
