package service

import (
	"time"

	"inventra/internal/dto"
	"inventra/internal/model"
)

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		SKU:               p.SKU,
		Category:          p.Category,
		Description:       p.Description,
		Stock:             p.Stock,
		Price:             p.Price,
		LowStockThreshold: p.LowStockThreshold,
		Status:            p.Status,
		CreatedAt:         formatTime(p.CreatedAt),
		UpdatedAt:         formatTime(p.UpdatedAt),
	}
}

func toProductResponses(ps []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toProductResponse(&ps[i]))
	}
	return out
}

func toProductSummary(p *model.Product) *dto.ProductSummary {
	if p == nil {
		return nil
	}
	return &dto.ProductSummary{ID: p.ID.String(), Name: p.Name, SKU: p.SKU, Stock: p.Stock, Status: p.Status}
}

func toTransactionResponse(t *model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID.String(),
		ProductID:     t.ProductID.String(),
		Product:       toProductSummary(t.Product),
		Type:          t.Type,
		Quantity:      t.Quantity,
		Reference:     t.Reference,
		PerformedBy:   t.PerformedBy.String(),
		PreviousStock: t.PreviousStock,
		NewStock:      t.NewStock,
		Status:        t.Status,
		CreatedAt:     formatTime(t.CreatedAt),
	}
}

func toTransactionResponses(ts []model.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(ts))
	for i := range ts {
		out = append(out, toTransactionResponse(&ts[i]))
	}
	return out
}

func toAuditResponse(a *model.Audit) dto.AuditResponse {
	resp := dto.AuditResponse{
		ID:                 a.ID.String(),
		Title:              a.Title,
		Date:               formatTime(a.Date),
		Status:             a.Status,
		Discrepancies:      a.Discrepancies,
		DiscrepancyDetails: []model.ProductFinding(a.DiscrepancyDetails),
		CreatedBy:          a.CreatedBy.String(),
		Notes:              a.Notes,
		CreatedAt:          formatTime(a.CreatedAt),
	}
	if resp.DiscrepancyDetails == nil {
		resp.DiscrepancyDetails = []model.ProductFinding{}
	}
	if a.Creator != nil {
		resp.CreatedByName = a.Creator.Name
	}
	if a.CompletedAt != nil {
		s := formatTime(*a.CompletedAt)
		resp.CompletedAt = &s
	}
	return resp
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:             n.ID.String(),
		RecipientID:    n.RecipientID.String(),
		Message:        n.Message,
		Type:           n.Type,
		RelatedProduct: toProductSummary(n.RelatedProduct),
		Metadata:       map[string]interface{}(n.Metadata),
		IsRead:         n.IsRead,
		CreatedAt:      formatTime(n.CreatedAt),
	}
	if n.SenderID != nil {
		s := n.SenderID.String()
		resp.SenderID = &s
	}
	if n.Sender != nil {
		resp.SenderName = n.Sender.Name
	}
	if resp.Metadata == nil {
		resp.Metadata = map[string]interface{}{}
	}
	return resp
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role, Active: u.Active}
}
