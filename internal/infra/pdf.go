package infra

// pdf.go: audit report rendering using go-pdf/fpdf.
// A4 portrait document with:
//   - Title, audit date and status
//   - Discrepancy totals
//   - One table row per issue (product, SKU, issue type, severity, message)

import (
	"bytes"
	"fmt"

	"inventra/internal/model"

	"github.com/go-pdf/fpdf"
)

// RenderAuditPDF renders the findings of an audit into an in-memory PDF.
func RenderAuditPDF(a *model.Audit) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Inventra - Inventory Audit Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, a.Title, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Date: %s   Status: %s", a.Date.Format("2006-01-02 15:04"), a.Status), "", 1, "L", false, 0, "")
	if a.CompletedAt != nil {
		pdf.CellFormat(contentW, 6, "Completed: "+a.CompletedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	high, medium, low := countSeverities(a)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Discrepancies: %d (high %d, medium %d, low %d)", a.Discrepancies, high, medium, low), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Findings table ───────────────────────────────────────────────────────
	widths := []float64{contentW * 0.22, contentW * 0.14, contentW * 0.18, contentW * 0.11, contentW * 0.35}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range auditColumns {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	rows := auditRows(a)
	if len(rows) == 0 {
		pdf.CellFormat(contentW, 6, "No discrepancies found.", "1", 1, "C", false, 0, "")
	}
	for _, row := range rows {
		for i, v := range row {
			pdf.CellFormat(widths[i], 6, truncate(v, widths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if a.Notes != nil && *a.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notes: "+*a.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render audit: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate keeps a cell on one line; roughly two characters fit per millimetre at 8pt.
func truncate(s string, width float64) string {
	max := int(width * 0.55 * 2)
	if len(s) <= max || max < 4 {
		return s
	}
	return s[:max-3] + "..."
}
