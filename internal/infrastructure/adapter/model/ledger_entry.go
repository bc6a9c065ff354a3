package model

import (
	"time"
)

// LedgerEntry represents an append-only ledger row
type LedgerEntry struct {
	ID            string    `gorm:"primaryKey;size:36"`
	WalletID      string    `gorm:"not null;index;size:36"`
	TransactionID string    `gorm:"not null;index;size:36"`
	Amount        int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`

	Wallet      Wallet      `gorm:"foreignKey:WalletID;references:ID"`
	Transaction Transaction `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
