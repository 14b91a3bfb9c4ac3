package dto

import (
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name              string          `json:"name"              validate:"required,min=2,max=120"`
	SKU               string          `json:"sku"               validate:"required,min=1,max=64"`
	Category          string          `json:"category"          validate:"required"`
	Description       *string         `json:"description"`
	Stock             int             `json:"stock"             validate:"min=0"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold *int            `json:"lowStockThreshold" validate:"omitempty,min=0"`
	// Status is accepted for compatibility but always recomputed from stock.
	Status string `json:"status"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"              validate:"omitempty,min=2,max=120"`
	SKU               *string          `json:"sku"               validate:"omitempty,min=1,max=64"`
	Category          *string          `json:"category"`
	Description       *string          `json:"description"`
	Stock             *int             `json:"stock"             validate:"omitempty,min=0"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int             `json:"lowStockThreshold" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Category          string          `json:"category"`
	Description       *string         `json:"description"`
	Stock             int             `json:"stock"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	Status            string          `json:"status"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}

type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for a result set.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
