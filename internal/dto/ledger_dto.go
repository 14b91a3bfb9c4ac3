package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StockMovementRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference"`
}

type TransactionFilter struct {
	ProductID string `form:"productId"`
	Type      string `form:"type"   validate:"omitempty,oneof=in out"`
	Status    string `form:"status" validate:"omitempty,oneof=pending completed rejected"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockMovementProduct struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	PreviousStock int    `json:"previousStock"`
	NewStock      int    `json:"newStock"`
	Status        string `json:"status"`
}

type StockMovementResponse struct {
	Product     StockMovementProduct `json:"product"`
	Transaction TransactionResponse  `json:"transaction"`
	Reference   string               `json:"reference"`
}

type TransactionResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	Product       *ProductSummary `json:"product,omitempty"`
	Type          string          `json:"type"`
	Quantity      int             `json:"quantity"`
	Reference     string          `json:"reference"`
	PerformedBy   string          `json:"performedBy"`
	PreviousStock int             `json:"previousStock"`
	NewStock      int             `json:"newStock"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
}

// ProductSummary is the slice of a product embedded in transaction and notification payloads.
type ProductSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	SKU    string `json:"sku"`
	Stock  int    `json:"stock"`
	Status string `json:"status"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}

type StockSummary struct {
	TotalProducts int `json:"totalProducts"`
	LowStock      int `json:"lowStock"`
	OutOfStock    int `json:"outOfStock"`
	Healthy       int `json:"healthy"`
}

type StockIssue struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	Severity    string `json:"severity"`
}

type StockValidationResponse struct {
	Summary   StockSummary `json:"summary"`
	Issues    []StockIssue `json:"issues"`
	HasIssues bool         `json:"hasIssues"`
	Timestamp time.Time    `json:"timestamp"`
}
