package model

import (
	"time"
)

// IdempotencyKey represents a reserved client idempotency key
type IdempotencyKey struct {
	Key         string    `gorm:"column:idempotency_key;primaryKey;size:255"`
	Fingerprint string    `gorm:"not null;size:64"`
	Status      string    `gorm:"not null;size:20"`
	Outcome     *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
