package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit lifecycle: scheduled → in-progress → completed, or in-progress directly.
const (
	AuditScheduled  = "scheduled"
	AuditInProgress = "in-progress"
	AuditCompleted  = "completed"
)

// Finding severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Issue types reported by the audit scan and by stock validation.
const (
	IssueNegativeStock     = "negative_stock"
	IssueStatusMismatch    = "status_mismatch"
	IssueThresholdMismatch = "threshold_mismatch"
	IssueInvalidPrice      = "invalid_price"
	IssueOutOfStock        = "out_of_stock"
	IssueLowStock          = "low_stock"
)

// Issue is a single discrepancy detected for a product.
type Issue struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ProductFinding groups the issues detected for one product during a scan.
type ProductFinding struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	Issues      []Issue `json:"issues"`
}

// Audit is an inventory audit record. Findings are stored as a JSON column and are
// only populated once the audit has been run.
type Audit struct {
	ID                 uuid.UUID                           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title              string                              `gorm:"not null"`
	Date               time.Time                           `gorm:"not null;index"`
	Status             string                              `gorm:"type:varchar(20);not null;index"`
	Discrepancies      int                                 `gorm:"not null;default:0"`
	DiscrepancyDetails datatypes.JSONSlice[ProductFinding] `gorm:"type:jsonb"`
	CreatedBy          uuid.UUID                           `gorm:"type:uuid;not null"`
	Notes              *string
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Creator *User `gorm:"foreignKey:CreatedBy"`
}
