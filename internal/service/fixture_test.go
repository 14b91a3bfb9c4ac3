package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inventra/internal/model"
	"inventra/internal/repository"
	"inventra/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)

type fixture struct {
	repos    repository.Set
	notifier NotificationService
	ledger   *ledgerService
	audits   *auditService
	clerk    *clerkService
	reports  *reportService
	mail     *recordingQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.New().Set()
	notifier := NewNotificationService(repos.Notifications, repos.Users)
	mail := &recordingQueue{}

	ledger := NewLedgerService(repos.Products, repos.Transactions, notifier, nil).(*ledgerService)
	ledger.now = func() time.Time { return fixedNow }
	audits := NewAuditService(repos.Audits, repos.Products, notifier).(*auditService)
	audits.now = func() time.Time { return fixedNow }
	clerk := NewClerkService(repos.Products, repos.Transactions, repos.Users, notifier, mail).(*clerkService)
	clerk.now = func() time.Time { return fixedNow }
	reports := NewReportService(repos.Products, repos.Transactions).(*reportService)
	reports.now = func() time.Time { return fixedNow }

	return &fixture{
		repos:    repos,
		notifier: notifier,
		ledger:   ledger,
		audits:   audits,
		clerk:    clerk,
		reports:  reports,
		mail:     mail,
	}
}

func (f *fixture) addUser(t *testing.T, role string) model.User {
	t.Helper()
	u := model.User{
		Name:         role + " " + uuid.NewString()[:8],
		Email:        fmt.Sprintf("%s-%s@inventra.test", role, uuid.NewString()[:8]),
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, f.repos.Users.Create(context.Background(), &u))
	return u
}

func (f *fixture) addProduct(t *testing.T, sku string, stock, threshold int, price string) model.Product {
	t.Helper()
	p := model.Product{
		Name:              "Product " + sku,
		SKU:               sku,
		Category:          "general",
		Stock:             stock,
		Price:             decimal.RequireFromString(price),
		LowStockThreshold: threshold,
	}
	p.ApplyDerivedStatus()
	require.NoError(t, f.repos.Products.Create(context.Background(), &p))
	return p
}

// putProduct writes a product as-is, bypassing status derivation.
func (f *fixture) putProduct(t *testing.T, p model.Product) model.Product {
	t.Helper()
	require.NoError(t, f.repos.Products.Create(context.Background(), &p))
	return p
}

func (f *fixture) product(t *testing.T, id uuid.UUID) *model.Product {
	t.Helper()
	p, err := f.repos.Products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) unread(t *testing.T, u model.User) int64 {
	t.Helper()
	n, err := f.notifier.GetUnreadCount(context.Background(), Viewer{UserID: u.ID, Role: u.Role})
	require.NoError(t, err)
	return n
}

type recordingQueue struct {
	jobs []interface{}
}

func (q *recordingQueue) EnqueueEmail(_ context.Context, payload interface{}) error {
	q.jobs = append(q.jobs, payload)
	return nil
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
