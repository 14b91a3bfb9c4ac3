package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LedgerService applies stock movements and keeps the transaction log.
type LedgerService interface {
	StockIn(ctx context.Context, actor uuid.UUID, req dto.StockMovementRequest) (*dto.StockMovementResponse, error)
	StockOut(ctx context.Context, actor uuid.UUID, req dto.StockMovementRequest) (*dto.StockMovementResponse, error)
	ValidateStock(ctx context.Context) (*dto.StockValidationResponse, error)
	ListTransactions(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
}

type ledgerService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	notifier     NotificationService
	locker       Locker
	now          func() time.Time
}

func NewLedgerService(
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	notifier NotificationService,
	locker Locker,
) LedgerService {
	if locker == nil {
		locker = NoopLocker()
	}
	return &ledgerService{
		products:     products,
		transactions: transactions,
		notifier:     notifier,
		locker:       locker,
		now:          time.Now,
	}
}

func (s *ledgerService) StockIn(ctx context.Context, actor uuid.UUID, req dto.StockMovementRequest) (*dto.StockMovementResponse, error) {
	return s.move(ctx, actor, model.TransactionIn, req)
}

func (s *ledgerService) StockOut(ctx context.Context, actor uuid.UUID, req dto.StockMovementRequest) (*dto.StockMovementResponse, error) {
	return s.move(ctx, actor, model.TransactionOut, req)
}

// move writes the product first and appends the transaction second. If the
// append fails the stock stays updated and the log is one row short.
func (s *ledgerService) move(ctx context.Context, actor uuid.UUID, txType string, req dto.StockMovementRequest) (*dto.StockMovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, invalid("invalid productId %q", req.ProductID)
	}
	if req.Quantity <= 0 {
		return nil, invalid("quantity must be a positive integer")
	}

	release, err := lockProduct(ctx, s.locker, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, lookupErr("product", err)
	}
	if txType == model.TransactionOut && p.Stock < req.Quantity {
		return nil, &InsufficientStockError{Available: p.Stock, Requested: req.Quantity}
	}

	previous := p.Stock
	p.Stock = model.ApplyMovement(previous, txType, req.Quantity)
	p.ApplyDerivedStatus()

	swapped, err := s.products.UpdateStock(ctx, p.ID, previous, p.Stock, p.Status)
	if err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	if !swapped {
		return nil, conflict("stock of product %s changed concurrently, retry the operation", p.SKU)
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		reference = fmt.Sprintf("STOCK-%s-%d", strings.ToUpper(txType), s.now().UnixMilli())
	}
	tx := &model.Transaction{
		ProductID:     p.ID,
		Type:          txType,
		Quantity:      req.Quantity,
		Reference:     reference,
		PerformedBy:   actor,
		PreviousStock: previous,
		NewStock:      p.Stock,
		Status:        model.TransactionCompleted,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		log.Error().Err(err).
			Str("product_id", p.ID.String()).
			Int("previous_stock", previous).
			Int("new_stock", p.Stock).
			Msg("ledger: stock updated but transaction append failed")
		return nil, fmt.Errorf("append transaction: %w", err)
	}
	tx.Product = p

	log.Info().
		Str("product_id", p.ID.String()).
		Str("type", txType).
		Int("quantity", req.Quantity).
		Int("new_stock", p.Stock).
		Msg("ledger: stock movement recorded")

	if txType == model.TransactionIn {
		s.notifyRestock(ctx, actor, p, req.Quantity)
	}

	return &dto.StockMovementResponse{
		Product: dto.StockMovementProduct{
			ID:            p.ID.String(),
			Name:          p.Name,
			SKU:           p.SKU,
			PreviousStock: previous,
			NewStock:      p.Stock,
			Status:        p.Status,
		},
		Transaction: toTransactionResponse(tx),
		Reference:   reference,
	}, nil
}

func (s *ledgerService) notifyRestock(ctx context.Context, actor uuid.UUID, p *model.Product, quantity int) {
	sender := actor
	productID := p.ID
	sent, err := s.notifier.NotifyRole(ctx, model.RoleClerk, NotificationInput{
		Message:   fmt.Sprintf("%s (%s) restocked with %d units, now %d in stock", p.Name, p.SKU, quantity, p.Stock),
		Type:      model.NotificationRestock,
		SenderID:  &sender,
		ProductID: &productID,
		Metadata: map[string]interface{}{
			"sku":      p.SKU,
			"quantity": quantity,
			"newStock": p.Stock,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("product_id", p.ID.String()).Msg("ledger: restock notification failed")
		return
	}
	log.Debug().Int("recipients", sent).Str("product_id", p.ID.String()).Msg("ledger: clerks notified of restock")
}

func (s *ledgerService) ValidateStock(ctx context.Context) (*dto.StockValidationResponse, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	resp := &dto.StockValidationResponse{
		Summary:   dto.StockSummary{TotalProducts: len(products)},
		Issues:    []dto.StockIssue{},
		Timestamp: s.now().UTC(),
	}
	for i := range products {
		p := &products[i]
		add := func(issueType, severity, msg string) {
			resp.Issues = append(resp.Issues, dto.StockIssue{
				ProductID:   p.ID.String(),
				ProductName: p.Name,
				SKU:         p.SKU,
				Type:        issueType,
				Message:     msg,
				Severity:    severity,
			})
		}

		switch {
		case p.Stock < 0:
			resp.Summary.OutOfStock++
			add(model.IssueNegativeStock, model.SeverityHigh, fmt.Sprintf("Negative stock: %d", p.Stock))
		case p.Stock == 0:
			resp.Summary.OutOfStock++
			add(model.IssueOutOfStock, model.SeverityHigh, "Product is out of stock")
		case p.Stock <= p.LowStockThreshold:
			resp.Summary.LowStock++
			add(model.IssueLowStock, model.SeverityMedium,
				fmt.Sprintf("Stock %d is at or below threshold %d", p.Stock, p.LowStockThreshold))
		default:
			resp.Summary.Healthy++
		}

		if want := model.DeriveStatus(p.Stock, p.LowStockThreshold); p.Status != want {
			add(model.IssueStatusMismatch, model.SeverityMedium,
				fmt.Sprintf("Status is %q but stock level implies %q", p.Status, want))
		}
	}
	resp.HasIssues = len(resp.Issues) > 0
	return resp, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	repoFilter := repository.TransactionFilter{
		Type:   filter.Type,
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.Type != "" && !model.ValidTransactionType(filter.Type) {
		return nil, invalid("invalid transaction type %q", filter.Type)
	}
	if filter.ProductID != "" {
		id, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, invalid("invalid productId %q", filter.ProductID)
		}
		repoFilter.ProductID = &id
	}

	page, limit := clampPage(filter.Page, filter.Limit, 20, 100)
	repoFilter.Page, repoFilter.Limit = page, limit

	rows, total, err := s.transactions.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return &dto.TransactionListResponse{
		Transactions: toTransactionResponses(rows),
		Pagination:   dto.NewPagination(page, limit, total),
	}, nil
}

func clampPage(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}
