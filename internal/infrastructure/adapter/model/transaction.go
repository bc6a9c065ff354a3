package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Transaction represents the database model for transactions
type Transaction struct {
	ID        string    `gorm:"primaryKey;size:36"`
	WalletID  string    `gorm:"not null;index:idx_transactions_wallet_created,priority:1;size:36"`
	Reference string    `gorm:"uniqueIndex;not null;size:255"`
	Type      string    `gorm:"not null;size:20"`
	Status    string    `gorm:"not null;size:20;index"`
	Amount    int64     `gorm:"not null"`
	Metadata  JSONMap   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index:idx_transactions_wallet_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null"`

	// Define relationships
	Wallet Wallet `gorm:"foreignKey:WalletID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// JSONMap stores a string map as a JSON document
type JSONMap map[string]string

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}
