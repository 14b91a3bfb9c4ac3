package infra

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"inventra/internal/model"

	"github.com/xuri/excelize/v2"
)

var auditColumns = []string{"Product", "SKU", "Issue", "Severity", "Message"}

// auditRows flattens the per-product findings into one row per issue.
func auditRows(a *model.Audit) [][]string {
	var rows [][]string
	for _, f := range a.DiscrepancyDetails {
		for _, is := range f.Issues {
			rows = append(rows, []string{f.ProductName, f.SKU, is.Type, is.Severity, is.Message})
		}
	}
	return rows
}

func countSeverities(a *model.Audit) (high, medium, low int) {
	for _, f := range a.DiscrepancyDetails {
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

// RenderAuditCSV writes a header row followed by one row per issue.
func RenderAuditCSV(a *model.Audit) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(auditColumns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(auditRows(a)); err != nil {
		return nil, fmt.Errorf("csv: render audit: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderAuditXLSX produces a workbook with a summary sheet and a findings sheet.
func RenderAuditXLSX(a *model.Audit) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary, findings = "Summary", "Findings"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(findings); err != nil {
		return nil, err
	}

	high, medium, low := countSeverities(a)
	summaryRows := [][]interface{}{
		{"Title", a.Title},
		{"Date", a.Date.Format("2006-01-02 15:04")},
		{"Status", a.Status},
		{"Discrepancies", a.Discrepancies},
		{"High", high},
		{"Medium", medium},
		{"Low", low},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, err
		}
	}

	header := make([]interface{}, len(auditColumns))
	for i, h := range auditColumns {
		header[i] = h
	}
	if err := f.SetSheetRow(findings, "A1", &header); err != nil {
		return nil, err
	}
	for i, row := range auditRows(a) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(findings, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: render audit: %w", err)
	}
	return buf.Bytes(), nil
}
