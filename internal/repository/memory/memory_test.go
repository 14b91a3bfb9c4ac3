package memory

import (
	"context"
	"testing"

	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSKUIsUnique(t *testing.T) {
	ctx := context.Background()
	repos := New().Set()

	require.NoError(t, repos.Products.Create(ctx, &model.Product{Name: "A", SKU: "S-1", Price: decimal.NewFromInt(1)}))
	err := repos.Products.Create(ctx, &model.Product{Name: "B", SKU: "S-1", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUpdateStockIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repos := New().Set()
	p := &model.Product{Name: "A", SKU: "S-1", Stock: 5, LowStockThreshold: 2, Price: decimal.NewFromInt(1)}
	require.NoError(t, repos.Products.Create(ctx, p))

	ok, err := repos.Products.UpdateStock(ctx, p.ID, 4, 10, model.StatusInStock)
	require.NoError(t, err)
	assert.False(t, ok, "stale expected stock must not write")

	ok, err = repos.Products.UpdateStock(ctx, p.ID, 5, 10, model.StatusInStock)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)

	_, err = repos.Products.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNotificationVisibility(t *testing.T) {
	ctx := context.Background()
	repos := New().Set()
	alice, bob := uuid.New(), uuid.New()

	for _, to := range []uuid.UUID{alice, alice, bob} {
		require.NoError(t, repos.Notifications.Create(ctx, &model.Notification{
			RecipientID: to, Message: "m", Type: model.NotificationSystem,
		}))
	}

	n, err := repos.Notifications.CountUnread(ctx, &alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repos.Notifications.CountUnread(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "nil recipient widens to every notification")

	bobs, err := repos.Notifications.List(ctx, repository.NotificationFilter{RecipientID: &bob})
	require.NoError(t, err)
	require.Len(t, bobs, 1)

	ok, err := repos.Notifications.MarkRead(ctx, bobs[0].ID, &alice)
	require.NoError(t, err)
	assert.False(t, ok, "alice cannot read bob's notification")

	updated, err := repos.Notifications.MarkAllRead(ctx, &alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
}

func TestProductUpdateRequiresExpectedStock(t *testing.T) {
	ctx := context.Background()
	repos := New().Set()
	p := &model.Product{Name: "A", SKU: "S-1", Stock: 5, LowStockThreshold: 2, Price: decimal.NewFromInt(1)}
	require.NoError(t, repos.Products.Create(ctx, p))
	_, err := repos.Products.UpdateStock(ctx, p.ID, 5, 25, model.StatusInStock)
	require.NoError(t, err)

	edit := *p
	edit.Name = "Renamed"
	ok, err := repos.Products.Update(ctx, &edit, 5)
	require.NoError(t, err)
	assert.False(t, ok, "edit based on a stale read must not overwrite stock")

	got, err := repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Stock)
	assert.Equal(t, "A", got.Name)

	edit.Stock = 25
	ok, err = repos.Products.Update(ctx, &edit, 25)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserUpdateRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	repos := New().Set()
	a := &model.User{Name: "A", Email: "a@inventra.test", Role: model.RoleClerk, Active: true}
	b := &model.User{Name: "B", Email: "b@inventra.test", Role: model.RoleClerk, Active: true}
	require.NoError(t, repos.Users.Create(ctx, a))
	require.NoError(t, repos.Users.Create(ctx, b))

	b.Email = "A@inventra.test"
	assert.ErrorIs(t, repos.Users.Update(ctx, b), repository.ErrDuplicate)

	b.Email = "b2@inventra.test"
	assert.NoError(t, repos.Users.Update(ctx, b))
}
