package dto

// ─── Filter ──────────────────────────────────────────────────────────────────

type NotificationFilter struct {
	IsRead *bool  `form:"isRead"`
	Type   string `form:"type"  validate:"omitempty,oneof=reorder restock audit system"`
	Limit  int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type NotificationResponse struct {
	ID             string                 `json:"id"`
	RecipientID    string                 `json:"recipientId"`
	SenderID       *string                `json:"senderId"`
	SenderName     string                 `json:"senderName,omitempty"`
	Message        string                 `json:"message"`
	Type           string                 `json:"type"`
	RelatedProduct *ProductSummary        `json:"relatedProduct,omitempty"`
	Metadata       map[string]interface{} `json:"metadata"`
	IsRead         bool                   `json:"isRead"`
	CreatedAt      string                 `json:"createdAt"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
