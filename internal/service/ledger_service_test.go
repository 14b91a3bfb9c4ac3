package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockInRestocksAndNotifiesClerks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.addUser(t, model.RoleManager)
	clerkA := f.addUser(t, model.RoleClerk)
	clerkB := f.addUser(t, model.RoleClerk)
	p := f.addProduct(t, "X1", 5, 10, "4.50")
	require.Equal(t, model.StatusLowStock, p.Status)

	resp, err := f.ledger.StockIn(ctx, manager.ID, dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: 20})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Product.PreviousStock)
	assert.Equal(t, 25, resp.Product.NewStock)
	assert.Equal(t, model.StatusInStock, resp.Product.Status)
	assert.Equal(t, 5, resp.Transaction.PreviousStock)
	assert.Equal(t, 25, resp.Transaction.NewStock)
	assert.Equal(t, model.TransactionCompleted, resp.Transaction.Status)
	assert.Equal(t, fmt.Sprintf("STOCK-IN-%d", fixedNow.UnixMilli()), resp.Reference)

	stored := f.product(t, p.ID)
	assert.Equal(t, 25, stored.Stock)
	assert.Equal(t, model.StatusInStock, stored.Status)

	assert.EqualValues(t, 1, f.unread(t, clerkA))
	assert.EqualValues(t, 1, f.unread(t, clerkB))
	assert.EqualValues(t, 0, f.unread(t, manager))

	feed, err := f.notifier.GetAll(ctx, Viewer{UserID: clerkA.ID, Role: model.RoleClerk}, dto.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, model.NotificationRestock, feed[0].Type)
	require.NotNil(t, feed[0].RelatedProduct)
	assert.Equal(t, "X1", feed[0].RelatedProduct.SKU)
}

func TestStockOutInsufficientLeavesStockUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "OUT-1", 3, 10, "1")

	_, err := f.ledger.StockOut(ctx, uuid.New(), dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: 5})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, 3, f.product(t, p.ID).Stock)

	rows, err := f.repos.Transactions.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStockOutDerivesStatus(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "OUT-2", 12, 10, "1")

	resp, err := f.ledger.StockOut(context.Background(), uuid.New(),
		dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: 12, Reference: "PO-77"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Product.NewStock)
	assert.Equal(t, model.StatusOutOfStock, resp.Product.Status)
	assert.Equal(t, "PO-77", resp.Reference)
	assert.Equal(t, model.TransactionOut, resp.Transaction.Type)
}

func TestStockMovementRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "BAD-1", 3, 10, "1")
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.StockMovementRequest
		want interface{}
	}{
		{"zero quantity", dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: 0}, &ValidationError{}},
		{"negative quantity", dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: -2}, &ValidationError{}},
		{"malformed id", dto.StockMovementRequest{ProductID: "nope", Quantity: 1}, &ValidationError{}},
		{"unknown product", dto.StockMovementRequest{ProductID: uuid.NewString(), Quantity: 1}, &NotFoundError{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.StockIn(ctx, uuid.New(), tc.req)
			require.Error(t, err)
			switch tc.want.(type) {
			case *ValidationError:
				var target *ValidationError
				assert.ErrorAs(t, err, &target)
			case *NotFoundError:
				var target *NotFoundError
				assert.ErrorAs(t, err, &target)
			}
		})
	}
	assert.Equal(t, 3, f.product(t, p.ID).Stock)
}

// racingProducts changes the stock between the ledger's read and its write.
type racingProducts struct {
	repository.ProductRepository
}

func (r racingProducts) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := r.ProductRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.ProductRepository.UpdateStock(ctx, id, p.Stock, p.Stock-1, p.Status); err != nil {
		return nil, err
	}
	return p, nil
}

func TestConcurrentWriteIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "CAS-1", 10, 5, "1")
	ledger := NewLedgerService(racingProducts{f.repos.Products}, f.repos.Transactions, f.notifier, nil)

	_, err := ledger.StockOut(ctx, uuid.New(), dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: 2})

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 9, f.product(t, p.ID).Stock)
	rows, err := f.repos.Transactions.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

type busyLocker struct{ err error }

func (l busyLocker) Acquire(context.Context, string) (func(), bool, error) {
	return nil, false, l.err
}

func TestLockedProductIsRejected(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "LOCK-1", 10, 5, "1")
	req := dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: 1}

	busy := NewLedgerService(f.repos.Products, f.repos.Transactions, f.notifier, busyLocker{})
	_, err := busy.StockIn(context.Background(), uuid.New(), req)
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)

	broken := NewLedgerService(f.repos.Products, f.repos.Transactions, f.notifier, busyLocker{err: errors.New("redis down")})
	_, err = broken.StockIn(context.Background(), uuid.New(), req)
	require.Error(t, err)
	assert.False(t, errors.As(err, &ce))
	assert.Equal(t, 10, f.product(t, p.ID).Stock)
}

// Random movements: every successful call leaves status derived from stock and a
// transaction whose previous/new stock matches the product exactly.
func TestLedgerMovementProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "PROP-1", 15, 10, "2")
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		before := f.product(t, p.ID).Stock
		qty := rng.Intn(12) + 1
		req := dto.StockMovementRequest{ProductID: p.ID.String(), Quantity: qty}

		var (
			resp *dto.StockMovementResponse
			err  error
		)
		if rng.Intn(2) == 0 {
			resp, err = f.ledger.StockIn(ctx, uuid.New(), req)
			require.NoError(t, err)
			assert.Equal(t, before+qty, resp.Transaction.NewStock)
		} else {
			resp, err = f.ledger.StockOut(ctx, uuid.New(), req)
			if qty > before {
				var insufficient *InsufficientStockError
				require.ErrorAs(t, err, &insufficient)
				assert.Equal(t, before, f.product(t, p.ID).Stock)
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, before-qty, resp.Transaction.NewStock)
		}

		after := f.product(t, p.ID)
		assert.Equal(t, before, resp.Transaction.PreviousStock)
		assert.Equal(t, after.Stock, resp.Transaction.NewStock)
		assert.Equal(t, model.DeriveStatus(after.Stock, after.LowStockThreshold), after.Status)
	}
}

func TestValidateStock(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "OK-1", 50, 10, "1")
	f.addProduct(t, "LOW-1", 4, 10, "1")
	f.addProduct(t, "ZERO-1", 0, 10, "1")
	f.putProduct(t, model.Product{Name: "Broken", SKU: "NEG-1", Category: "general", Stock: -2, LowStockThreshold: 10, Status: model.StatusInStock})

	resp, err := f.ledger.ValidateStock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dto.StockSummary{TotalProducts: 4, LowStock: 1, OutOfStock: 2, Healthy: 1}, resp.Summary)
	assert.True(t, resp.HasIssues)
	assert.Equal(t, fixedNow, resp.Timestamp)

	bySKU := map[string][]string{}
	for _, is := range resp.Issues {
		bySKU[is.SKU] = append(bySKU[is.SKU], is.Type)
	}
	assert.Equal(t, []string{model.IssueLowStock}, bySKU["LOW-1"])
	assert.Equal(t, []string{model.IssueOutOfStock}, bySKU["ZERO-1"])
	assert.Equal(t, []string{model.IssueNegativeStock, model.IssueStatusMismatch}, bySKU["NEG-1"])
	assert.NotContains(t, bySKU, "OK-1")
}

func TestListTransactionsPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "PAGE-A", 100, 10, "1")
	b := f.addProduct(t, "PAGE-B", 100, 10, "1")
	for i := 0; i < 5; i++ {
		_, err := f.ledger.StockIn(ctx, uuid.New(), dto.StockMovementRequest{ProductID: a.ID.String(), Quantity: 1})
		require.NoError(t, err)
	}
	_, err := f.ledger.StockOut(ctx, uuid.New(), dto.StockMovementRequest{ProductID: b.ID.String(), Quantity: 3})
	require.NoError(t, err)

	all, err := f.ledger.ListTransactions(ctx, dto.TransactionFilter{Page: 1, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, all.Transactions, 4)
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 4, Total: 6, Pages: 2}, all.Pagination)
	assert.Equal(t, model.TransactionOut, all.Transactions[0].Type, "newest first")

	onlyA, err := f.ledger.ListTransactions(ctx, dto.TransactionFilter{ProductID: a.ID.String(), Type: model.TransactionIn})
	require.NoError(t, err)
	assert.EqualValues(t, 5, onlyA.Pagination.Total)
	assert.Equal(t, 20, onlyA.Pagination.Limit)

	capped, err := f.ledger.ListTransactions(ctx, dto.TransactionFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, capped.Pagination.Limit)

	_, err = f.ledger.ListTransactions(ctx, dto.TransactionFilter{ProductID: "x"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
