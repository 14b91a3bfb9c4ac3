package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
)

// ProductService is the admin catalog. Status is always derived from stock on
// write; any status sent by the client is ignored.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// updateAttempts bounds how often a catalog edit re-reads a product whose stock
// was moved by the ledger in the meantime.
const updateAttempts = 3

type productService struct {
	repo   repository.ProductRepository
	locker Locker
}

// NewProductService wires the catalog. locker may be nil; it is the same
// per-product lock the ledger takes.
func NewProductService(repo repository.ProductRepository, locker Locker) ProductService {
	if locker == nil {
		locker = NoopLocker()
	}
	return &productService{repo: repo, locker: locker}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.Stock < 0 {
		return nil, invalid("stock must not be negative")
	}
	if req.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}
	p := &model.Product{
		Name:              strings.TrimSpace(req.Name),
		SKU:               strings.TrimSpace(req.SKU),
		Category:          strings.TrimSpace(req.Category),
		Description:       req.Description,
		Stock:             req.Stock,
		Price:             req.Price,
		LowStockThreshold: model.DefaultLowStockThreshold,
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	p.ApplyDerivedStatus()

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a product with SKU %q already exists", p.SKU)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("product", err)
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Status != "" && !model.ValidProductStatus(filter.Status) {
		return nil, invalid("invalid status %q", filter.Status)
	}
	page, limit := clampPage(filter.Page, filter.Limit, 20, 100)
	rows, total, err := s.repo.List(ctx, repository.ProductFilter{
		Search:   strings.TrimSpace(filter.Search),
		Category: filter.Category,
		Status:   filter.Status,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &dto.ProductListResponse{
		Products:   toProductResponses(rows),
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if req.Stock != nil && *req.Stock < 0 {
		return nil, invalid("stock must not be negative")
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}

	release, err := lockProduct(ctx, s.locker, id)
	if err != nil {
		return nil, err
	}
	defer release()

	for attempt := 1; ; attempt++ {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, lookupErr("product", err)
		}
		readStock := p.Stock
		applyProductUpdate(p, req)

		ok, err := s.repo.Update(ctx, p, readStock)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, conflict("a product with SKU %q already exists", p.SKU)
			}
			return nil, lookupErr("product", err)
		}
		if ok {
			resp := toProductResponse(p)
			return &resp, nil
		}
		// An explicit stock value was chosen against a stock that no longer
		// exists; catalog-only edits are re-applied on a fresh read.
		if req.Stock != nil || attempt == updateAttempts {
			return nil, conflict("product %s stock changed while it was being updated", id)
		}
	}
}

func applyProductUpdate(p *model.Product, req dto.UpdateProductRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		p.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	p.ApplyDerivedStatus()
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupErr("product", err)
	}
	return nil
}
