package dto

import "inventra/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AuditInventoryRequest struct {
	Title string  `json:"title" validate:"omitempty,max=200"`
	Notes *string `json:"notes"`
}

type ScheduleAuditRequest struct {
	Title string  `json:"title" validate:"required,max=200"`
	Date  string  `json:"date"  validate:"required"`
	Notes *string `json:"notes"`
}

type CompleteAuditRequest struct {
	Notes *string `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AuditResponse struct {
	ID                 string                 `json:"id"`
	Title              string                 `json:"title"`
	Date               string                 `json:"date"`
	Status             string                 `json:"status"`
	Discrepancies      int                    `json:"discrepancies"`
	DiscrepancyDetails []model.ProductFinding `json:"discrepancyDetails"`
	CreatedBy          string                 `json:"createdBy"`
	CreatedByName      string                 `json:"createdByName,omitempty"`
	Notes              *string                `json:"notes"`
	CompletedAt        *string                `json:"completedAt"`
	CreatedAt          string                 `json:"createdAt"`
}

type SeverityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type AuditSummaryResponse struct {
	Audit                AuditResponse          `json:"audit"`
	TotalProducts        int                    `json:"totalProducts"`
	TotalDiscrepancies   int                    `json:"totalDiscrepancies"`
	DiscrepancyBreakdown SeverityBreakdown      `json:"discrepancyBreakdown"`
	AuditResults         []model.ProductFinding `json:"auditResults"`
}
