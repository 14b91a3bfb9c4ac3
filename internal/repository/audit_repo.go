package repository

import (
	"context"
	"time"

	"inventra/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(ctx context.Context, a *model.Audit) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Audit, error)
	// Latest returns the most recently created audit.
	Latest(ctx context.Context) (*model.Audit, error)
	List(ctx context.Context) ([]model.Audit, error)
	// ListDue returns scheduled audits whose date is at or before now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.Audit, error)
	// Transition persists a's status, findings, notes and completion time only if
	// the stored status still equals from.
	Transition(ctx context.Context, a *model.Audit, from string) (bool, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, a *model.Audit) error {
	return r.db.WithContext(ctx).Omit("Creator").Create(a).Error
}

func (r *auditRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Audit, error) {
	var a model.Audit
	if err := r.db.WithContext(ctx).Preload("Creator").First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *auditRepo) Latest(ctx context.Context) (*model.Audit, error) {
	var a model.Audit
	if err := r.db.WithContext(ctx).Preload("Creator").Order("created_at DESC").First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *auditRepo) List(ctx context.Context) ([]model.Audit, error) {
	var audits []model.Audit
	err := r.db.WithContext(ctx).Preload("Creator").Order("created_at DESC").Find(&audits).Error
	return audits, err
}

func (r *auditRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Audit, error) {
	var audits []model.Audit
	err := r.db.WithContext(ctx).
		Where("status = ? AND date <= ?", model.AuditScheduled, now).
		Order("date ASC").
		Limit(limit).
		Find(&audits).Error
	return audits, err
}

func (r *auditRepo) Transition(ctx context.Context, a *model.Audit, from string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Audit{}).
		Where("id = ? AND status = ?", a.ID, from).
		Updates(map[string]interface{}{
			"status":              a.Status,
			"discrepancies":       a.Discrepancies,
			"discrepancy_details": a.DiscrepancyDetails,
			"notes":               a.Notes,
			"completed_at":        a.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
