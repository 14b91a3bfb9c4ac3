package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product status values. Status is derived from Stock and LowStockThreshold and is
// never authoritative on its own.
const (
	StatusInStock    = "in-stock"
	StatusLowStock   = "low-stock"
	StatusOutOfStock = "out-of-stock"
)

// DefaultLowStockThreshold applies when a product is created without a threshold.
const DefaultLowStockThreshold = 10

// Product is a catalog entry with its current stock level.
type Product struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string    `gorm:"index;not null"`
	SKU               string    `gorm:"column:sku;uniqueIndex;not null"`
	Category          string    `gorm:"index;not null"`
	Description       *string
	Stock             int             `gorm:"not null;default:0"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LowStockThreshold int             `gorm:"not null;default:10"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DeriveStatus maps a stock level and threshold to the product status.
func DeriveStatus(stock, threshold int) string {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ApplyDerivedStatus overwrites Status with the value derived from Stock.
// Every write path that persists a product calls it first.
func (p *Product) ApplyDerivedStatus() {
	p.Status = DeriveStatus(p.Stock, p.LowStockThreshold)
}

// IsLowStock reports whether the product is at or below its reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// ValidProductStatus reports whether s is one of the product status values.
func ValidProductStatus(s string) bool {
	return s == StatusInStock || s == StatusLowStock || s == StatusOutOfStock
}
