package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventra/internal/dto"
	"inventra/internal/infra"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// dueAuditBatch caps how many scheduled audits one cron tick starts.
const dueAuditBatch = 20

// Export formats accepted by ExportReport.
const (
	ExportCSV  = "csv"
	ExportPDF  = "pdf"
	ExportXLSX = "xlsx"
)

// ExportFile is a rendered audit report ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// AuditService runs inventory audits and manages their lifecycle:
// scheduled → in-progress → completed, with in-progress reachable directly.
type AuditService interface {
	CreateNewAudit(ctx context.Context, actor uuid.UUID, req dto.AuditInventoryRequest) (*dto.AuditSummaryResponse, error)
	ScheduleAudit(ctx context.Context, actor uuid.UUID, req dto.ScheduleAuditRequest) (*dto.AuditResponse, error)
	StartAudit(ctx context.Context, id uuid.UUID) (*dto.AuditSummaryResponse, error)
	CompleteAudit(ctx context.Context, id uuid.UUID, req dto.CompleteAuditRequest) (*dto.AuditResponse, error)
	ListAudits(ctx context.Context) ([]dto.AuditResponse, error)
	GetAudit(ctx context.Context, id uuid.UUID) (*dto.AuditResponse, error)
	StartDueAudits(ctx context.Context) (int, error)
	ExportReport(ctx context.Context, format string, auditID *uuid.UUID) (*ExportFile, error)
}

type auditService struct {
	audits   repository.AuditRepository
	products repository.ProductRepository
	notifier NotificationService
	now      func() time.Time
}

func NewAuditService(audits repository.AuditRepository, products repository.ProductRepository, notifier NotificationService) AuditService {
	return &auditService{audits: audits, products: products, notifier: notifier, now: time.Now}
}

func (s *auditService) CreateNewAudit(ctx context.Context, actor uuid.UUID, req dto.AuditInventoryRequest) (*dto.AuditSummaryResponse, error) {
	now := s.now()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Inventory audit " + now.Format("2006-01-02 15:04")
	}

	products, result, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	a := &model.Audit{
		Title:              title,
		Date:               now,
		Status:             model.AuditInProgress,
		Discrepancies:      result.DiscrepancyCount,
		DiscrepancyDetails: datatypes.JSONSlice[model.ProductFinding](result.Findings),
		CreatedBy:          actor,
		Notes:              req.Notes,
	}
	if err := s.audits.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create audit: %w", err)
	}
	s.notifyManagers(ctx, &actor, a)
	return summarize(a, len(products), result), nil
}

func (s *auditService) ScheduleAudit(ctx context.Context, actor uuid.UUID, req dto.ScheduleAuditRequest) (*dto.AuditResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, invalid("date is required")
	}
	date, err := s.parseScheduleDate(req.Date)
	if err != nil {
		return nil, err
	}

	a := &model.Audit{
		Title:              title,
		Date:               date,
		Status:             model.AuditScheduled,
		DiscrepancyDetails: datatypes.JSONSlice[model.ProductFinding]{},
		CreatedBy:          actor,
		Notes:              req.Notes,
	}
	if err := s.audits.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create audit: %w", err)
	}
	resp := toAuditResponse(a)
	return &resp, nil
}

// parseScheduleDate accepts RFC 3339 timestamps or plain calendar dates. A plain
// date of today is accepted; anything earlier is rejected.
func (s *auditService) parseScheduleDate(raw string) (time.Time, error) {
	now := s.now()
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		if t.Before(now) {
			return time.Time{}, invalid("audit date must not be in the past")
		}
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, now.Location())
	if err != nil {
		return time.Time{}, invalid("invalid date %q, expected YYYY-MM-DD or RFC 3339", raw)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if t.Before(today) {
		return time.Time{}, invalid("audit date must not be in the past")
	}
	return t, nil
}

func (s *auditService) StartAudit(ctx context.Context, id uuid.UUID) (*dto.AuditSummaryResponse, error) {
	a, err := s.audits.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("audit", err)
	}
	if a.Status != model.AuditScheduled {
		return nil, conflict("audit is %s, only scheduled audits can be started", a.Status)
	}

	products, result, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	a.Status = model.AuditInProgress
	a.Discrepancies = result.DiscrepancyCount
	a.DiscrepancyDetails = datatypes.JSONSlice[model.ProductFinding](result.Findings)
	ok, err := s.audits.Transition(ctx, a, model.AuditScheduled)
	if err != nil {
		return nil, fmt.Errorf("start audit: %w", err)
	}
	if !ok {
		return nil, conflict("audit was modified concurrently")
	}
	s.notifyManagers(ctx, nil, a)
	return summarize(a, len(products), result), nil
}

// CompleteAudit closes an audit without recomputing its findings. Completed
// audits are never modified again.
func (s *auditService) CompleteAudit(ctx context.Context, id uuid.UUID, req dto.CompleteAuditRequest) (*dto.AuditResponse, error) {
	a, err := s.audits.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("audit", err)
	}
	if a.Status == model.AuditCompleted {
		return nil, conflict("audit is already completed")
	}

	from := a.Status
	now := s.now()
	a.Status = model.AuditCompleted
	a.CompletedAt = &now
	if req.Notes != nil {
		a.Notes = req.Notes
	}
	ok, err := s.audits.Transition(ctx, a, from)
	if err != nil {
		return nil, fmt.Errorf("complete audit: %w", err)
	}
	if !ok {
		return nil, conflict("audit is already completed")
	}
	resp := toAuditResponse(a)
	return &resp, nil
}

func (s *auditService) ListAudits(ctx context.Context) ([]dto.AuditResponse, error) {
	list, err := s.audits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	out := make([]dto.AuditResponse, 0, len(list))
	for i := range list {
		out = append(out, toAuditResponse(&list[i]))
	}
	return out, nil
}

func (s *auditService) GetAudit(ctx context.Context, id uuid.UUID) (*dto.AuditResponse, error) {
	a, err := s.audits.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("audit", err)
	}
	resp := toAuditResponse(a)
	return &resp, nil
}

// StartDueAudits starts every scheduled audit whose date has passed. Failures
// are logged per audit; the count of started audits is returned.
func (s *auditService) StartDueAudits(ctx context.Context) (int, error) {
	due, err := s.audits.ListDue(ctx, s.now(), dueAuditBatch)
	if err != nil {
		return 0, fmt.Errorf("list due audits: %w", err)
	}
	started := 0
	for _, a := range due {
		if _, err := s.StartAudit(ctx, a.ID); err != nil {
			var ce *ConflictError
			if !errors.As(err, &ce) {
				log.Error().Err(err).Str("audit_id", a.ID.String()).Msg("audit: failed to start scheduled audit")
			}
			continue
		}
		started++
	}
	return started, nil
}

func (s *auditService) ExportReport(ctx context.Context, format string, auditID *uuid.UUID) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportPDF && format != ExportXLSX {
		return nil, invalid("unsupported export format %q, expected csv, pdf or xlsx", format)
	}

	var (
		a   *model.Audit
		err error
	)
	if auditID != nil {
		a, err = s.audits.FindByID(ctx, *auditID)
	} else {
		a, err = s.audits.Latest(ctx)
	}
	if err != nil {
		return nil, lookupErr("audit", err)
	}

	base := fmt.Sprintf("audit-report-%s", a.Date.Format("2006-01-02"))
	switch format {
	case ExportPDF:
		body, err := infra.RenderAuditPDF(a)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Body: body}, nil
	case ExportXLSX:
		body, err := infra.RenderAuditXLSX(a)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	default:
		body, err := infra.RenderAuditCSV(a)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Body: body}, nil
	}
}

func (s *auditService) scan(ctx context.Context) ([]model.Product, AuditResult, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, AuditResult{}, fmt.Errorf("list products: %w", err)
	}
	return products, RunAudit(products), nil
}

func (s *auditService) notifyManagers(ctx context.Context, sender *uuid.UUID, a *model.Audit) {
	if a.Discrepancies == 0 {
		return
	}
	_, err := s.notifier.NotifyRole(ctx, model.RoleManager, NotificationInput{
		Message:  fmt.Sprintf("Audit %q found %d discrepancies", a.Title, a.Discrepancies),
		Type:     model.NotificationAudit,
		SenderID: sender,
		Metadata: map[string]interface{}{
			"auditId":       a.ID.String(),
			"discrepancies": a.Discrepancies,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("audit_id", a.ID.String()).Msg("audit: manager notification failed")
	}
}

func summarize(a *model.Audit, totalProducts int, result AuditResult) *dto.AuditSummaryResponse {
	high, medium, low := severityBreakdown(result.Findings)
	return &dto.AuditSummaryResponse{
		Audit:                toAuditResponse(a),
		TotalProducts:        totalProducts,
		TotalDiscrepancies:   result.DiscrepancyCount,
		DiscrepancyBreakdown: dto.SeverityBreakdown{High: high, Medium: medium, Low: low},
		AuditResults:         result.Findings,
	}
}
