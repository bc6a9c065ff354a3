package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	FullName  string    `gorm:"not null;size:255"`
	PINHash   *string   `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Wallet *Wallet `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
