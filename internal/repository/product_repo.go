package repository

import (
	"context"
	"time"

	"inventra/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search   string
	Category string
	Status   string
	Page     int
	Limit    int
}

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	// ListLowStock returns products with stock <= low_stock_threshold, lowest stock first.
	ListLowStock(ctx context.Context) ([]model.Product, error)
	// Update writes the catalog columns, stock and status of p only if the stored
	// stock still equals expectedStock, so a concurrent ledger movement is never
	// overwritten. It reports false when the stock moved underneath the caller.
	Update(ctx context.Context, p *model.Product, expectedStock int) (bool, error)
	// UpdateStock writes stock and status only if the stored stock still equals
	// expected. It reports false when another writer got there first.
	UpdateStock(ctx context.Context, id uuid.UUID, expected, stock int, status string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 20, 100)
	var products []model.Product
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock <= low_stock_threshold").
		Order("stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product, expectedStock int) (bool, error) {
	p.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock = ?", p.ID, expectedStock).
		Updates(map[string]interface{}{
			"name":                p.Name,
			"sku":                 p.SKU,
			"category":            p.Category,
			"description":         p.Description,
			"stock":               p.Stock,
			"price":               p.Price,
			"low_stock_threshold": p.LowStockThreshold,
			"status":              p.Status,
			"updated_at":          p.UpdatedAt,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, expected, stock int, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock = ?", id, expected).
		Updates(map[string]interface{}{"stock": stock, "status": status})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
