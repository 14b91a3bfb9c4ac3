package service

import (
	"fmt"

	"inventra/internal/model"
)

// AuditResult is the outcome of scanning the catalog.
type AuditResult struct {
	DiscrepancyCount int
	Findings         []model.ProductFinding
}

// RunAudit evaluates every product independently; one product may produce several
// issues. DiscrepancyCount is the total number of issues, not of products.
func RunAudit(products []model.Product) AuditResult {
	result := AuditResult{Findings: []model.ProductFinding{}}
	for i := range products {
		issues := inspectProduct(&products[i])
		if len(issues) == 0 {
			continue
		}
		p := &products[i]
		result.Findings = append(result.Findings, model.ProductFinding{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			SKU:         p.SKU,
			Issues:      issues,
		})
		result.DiscrepancyCount += len(issues)
	}
	return result
}

func inspectProduct(p *model.Product) []model.Issue {
	var issues []model.Issue
	if p.Stock < 0 {
		issues = append(issues, model.Issue{
			Type:     model.IssueNegativeStock,
			Message:  fmt.Sprintf("Negative stock detected: %d", p.Stock),
			Severity: model.SeverityHigh,
		})
	}
	if p.Stock == 0 && p.Status != model.StatusOutOfStock {
		issues = append(issues, model.Issue{
			Type:     model.IssueStatusMismatch,
			Message:  fmt.Sprintf("Stock is 0 but status is %q", p.Status),
			Severity: model.SeverityMedium,
		})
	}
	if p.Stock > 0 && p.Stock <= p.LowStockThreshold &&
		p.Status != model.StatusLowStock && p.Status != model.StatusOutOfStock {
		issues = append(issues, model.Issue{
			Type:     model.IssueThresholdMismatch,
			Message:  fmt.Sprintf("Stock %d is at or below threshold %d but status is %q", p.Stock, p.LowStockThreshold, p.Status),
			Severity: model.SeverityLow,
		})
	}
	if !p.Price.IsPositive() {
		issues = append(issues, model.Issue{
			Type:     model.IssueInvalidPrice,
			Message:  fmt.Sprintf("Invalid price: %s", p.Price.StringFixed(2)),
			Severity: model.SeverityMedium,
		})
	}
	return issues
}

func severityBreakdown(findings []model.ProductFinding) (high, medium, low int) {
	for _, f := range findings {
		for _, is := range f.Issues {
			switch is.Severity {
			case model.SeverityHigh:
				high++
			case model.SeverityMedium:
				medium++
			case model.SeverityLow:
				low++
			}
		}
	}
	return high, medium, low
}
