package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Type      string `json:"type"      validate:"required,oneof=in out"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference"`
}

type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=completed rejected"`
}

type ReorderRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  *int    `json:"quantity"  validate:"omitempty,min=1"`
	Note      *string `json:"note"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReorderResponse struct {
	Product           ProductSummary `json:"product"`
	RequestedQuantity int            `json:"requestedQuantity"`
	NotifiedManagers  int            `json:"notifiedManagers"`
}
