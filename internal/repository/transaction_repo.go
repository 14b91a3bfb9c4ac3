package repository

import (
	"context"

	"inventra/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter defines filters for listing stock movements.
type TransactionFilter struct {
	ProductID *uuid.UUID
	Type      string
	Status    string
	Page      int
	Limit     int
}

// TransactionRepository is append-mostly: rows are created once and only their
// status may change afterwards.
type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error)
	// ListRecent returns the newest limit rows; limit <= 0 returns every row.
	ListRecent(ctx context.Context, limit int) ([]model.Transaction, error)
	ListByStatus(ctx context.Context, status string) ([]model.Transaction, error)
	// UpdateStatus moves a row from one status to another and reports false when
	// the row was not in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	return r.db.WithContext(ctx).Omit("Product", "Actor").Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	if err := r.db.WithContext(ctx).Preload("Product").First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *transactionRepo) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 20, 100)
	var txs []model.Transaction
	err := q.Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&txs).Error
	return txs, total, err
}

func (r *transactionRepo) ListRecent(ctx context.Context, limit int) ([]model.Transaction, error) {
	q := r.db.WithContext(ctx).Preload("Product").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var txs []model.Transaction
	err := q.Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) ListByStatus(ctx context.Context, status string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Preload("Product").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
