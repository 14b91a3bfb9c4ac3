package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventorySummary struct {
	TotalProducts int             `json:"totalProducts"`
	TotalStock    int             `json:"totalStock"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	InStock       int             `json:"inStock"`
	LowStock      int             `json:"lowStock"`
	OutOfStock    int             `json:"outOfStock"`
}

type InventoryReport struct {
	Type               string                `json:"type"`
	GeneratedAt        time.Time             `json:"generatedAt"`
	Summary            InventorySummary      `json:"summary"`
	Products           []ProductResponse     `json:"products"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

type TransactionsSummary struct {
	Total            int `json:"total"`
	Today            int `json:"today"`
	StockInCount     int `json:"stockInCount"`
	StockOutCount    int `json:"stockOutCount"`
	TodayIn          int `json:"todayIn"`
	TodayOut         int `json:"todayOut"`
	TotalInQuantity  int `json:"totalInQuantity"`
	TotalOutQuantity int `json:"totalOutQuantity"`
}

type TransactionsReport struct {
	Type         string                `json:"type"`
	GeneratedAt  time.Time             `json:"generatedAt"`
	Summary      TransactionsSummary   `json:"summary"`
	Transactions []TransactionResponse `json:"transactions"`
}

type LowStockSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

type LowStockReport struct {
	Type        string            `json:"type"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Summary     LowStockSummary   `json:"summary"`
	Critical    []ProductResponse `json:"critical"`
	Warning     []ProductResponse `json:"warning"`
}
