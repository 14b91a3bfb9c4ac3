package service

import (
	"context"
	"fmt"
	"time"

	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/shopspring/decimal"
)

// Report types accepted by Generate.
const (
	ReportInventory    = "inventory"
	ReportTransactions = "transactions"
	ReportLowStock     = "lowStock"
)

// recentTransactionLimit bounds the transaction tail embedded in the inventory report.
const recentTransactionLimit = 100

// ReportService assembles read-only snapshots; it never writes.
type ReportService interface {
	Generate(ctx context.Context, reportType string) (interface{}, error)
}

type reportService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	now          func() time.Time
}

func NewReportService(products repository.ProductRepository, transactions repository.TransactionRepository) ReportService {
	return &reportService{products: products, transactions: transactions, now: time.Now}
}

func (s *reportService) Generate(ctx context.Context, reportType string) (interface{}, error) {
	switch reportType {
	case ReportInventory:
		return s.inventory(ctx)
	case ReportTransactions:
		return s.transactionsReport(ctx)
	case ReportLowStock:
		return s.lowStock(ctx)
	}
	return nil, invalid("invalid report type %q, expected inventory, transactions or lowStock", reportType)
}

func (s *reportService) inventory(ctx context.Context) (*dto.InventoryReport, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	recent, err := s.transactions.ListRecent(ctx, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	summary := dto.InventorySummary{TotalProducts: len(products), TotalValue: decimal.Zero}
	for _, p := range products {
		summary.TotalStock += p.Stock
		summary.TotalValue = summary.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch model.DeriveStatus(p.Stock, p.LowStockThreshold) {
		case model.StatusOutOfStock:
			summary.OutOfStock++
		case model.StatusLowStock:
			summary.LowStock++
		default:
			summary.InStock++
		}
	}

	return &dto.InventoryReport{
		Type:               ReportInventory,
		GeneratedAt:        s.now().UTC(),
		Summary:            summary,
		Products:           toProductResponses(products),
		RecentTransactions: toTransactionResponses(recent),
	}, nil
}

func (s *reportService) transactionsReport(ctx context.Context) (*dto.TransactionsReport, error) {
	all, err := s.transactions.ListRecent(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	summary := dto.TransactionsSummary{Total: len(all)}
	for _, t := range all {
		today := !t.CreatedAt.Before(startOfDay)
		if today {
			summary.Today++
		}
		switch t.Type {
		case model.TransactionIn:
			summary.StockInCount++
			summary.TotalInQuantity += t.Quantity
			if today {
				summary.TodayIn++
			}
		case model.TransactionOut:
			summary.StockOutCount++
			summary.TotalOutQuantity += t.Quantity
			if today {
				summary.TodayOut++
			}
		}
	}

	return &dto.TransactionsReport{
		Type:         ReportTransactions,
		GeneratedAt:  now.UTC(),
		Summary:      summary,
		Transactions: toTransactionResponses(all),
	}, nil
}

func (s *reportService) lowStock(ctx context.Context) (*dto.LowStockReport, error) {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	report := &dto.LowStockReport{
		Type:        ReportLowStock,
		GeneratedAt: s.now().UTC(),
		Critical:    []dto.ProductResponse{},
		Warning:     []dto.ProductResponse{},
	}
	for i := range products {
		if products[i].Stock <= 0 {
			report.Critical = append(report.Critical, toProductResponse(&products[i]))
		} else {
			report.Warning = append(report.Warning, toProductResponse(&products[i]))
		}
	}
	report.Summary = dto.LowStockSummary{
		Total:    len(products),
		Critical: len(report.Critical),
		Warning:  len(report.Warning),
	}
	return report, nil
}
