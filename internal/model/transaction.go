package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types.
const (
	TransactionIn  = "in"
	TransactionOut = "out"
)

// Transaction statuses. Only Status may change after a row is written.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionRejected  = "rejected"
)

// Transaction records a stock movement (or a pending order) against a product.
type Transaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type          string    `gorm:"type:varchar(8);not null;index"`
	Quantity      int       `gorm:"not null"`
	Reference     string    `gorm:"not null"`
	PerformedBy   uuid.UUID `gorm:"type:uuid;not null"`
	PreviousStock int       `gorm:"not null"`
	NewStock      int       `gorm:"not null"`
	Status        string    `gorm:"type:varchar(12);not null;index;default:'completed'"`
	CreatedAt     time.Time `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Actor   *User    `gorm:"foreignKey:PerformedBy"`
}

// ApplyMovement returns the stock level after moving quantity units of the given type.
func ApplyMovement(previous int, txType string, quantity int) int {
	if txType == TransactionOut {
		return previous - quantity
	}
	return previous + quantity
}

// ValidTransactionType reports whether t is "in" or "out".
func ValidTransactionType(t string) bool {
	return t == TransactionIn || t == TransactionOut
}
