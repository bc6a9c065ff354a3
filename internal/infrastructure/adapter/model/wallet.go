package model

import (
	"time"
)

// Wallet represents the database model for wallets
type Wallet struct {
	ID           string    `gorm:"primaryKey;size:36"`
	UserID       string    `gorm:"uniqueIndex;not null;size:36"`
	WalletNumber string    `gorm:"uniqueIndex;not null;size:10"`
	Balance      int64     `gorm:"not null;default:0;check:chk_wallets_balance_non_negative,balance >= 0"` // Minor units
	Currency     string    `gorm:"not null;size:3;default:NGN"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for Wallet
func (Wallet) TableName() string {
	return "wallets"
}
