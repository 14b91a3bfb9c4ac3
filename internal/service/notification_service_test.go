package service

import (
	"context"
	"errors"
	"testing"

	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var ve *ValidationError

	_, err := f.notifier.Send(ctx, uuid.New(), NotificationInput{Message: "hi", Type: "alert"})
	assert.ErrorAs(t, err, &ve)
	_, err = f.notifier.Send(ctx, uuid.New(), NotificationInput{Message: "  ", Type: model.NotificationSystem})
	assert.ErrorAs(t, err, &ve)

	resp, err := f.notifier.Send(ctx, uuid.New(), NotificationInput{Message: "hi", Type: model.NotificationSystem})
	require.NoError(t, err)
	assert.False(t, resp.IsRead)
	assert.NotNil(t, resp.Metadata)
}

func TestAdminSeesGlobalFeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, model.RoleAdmin)
	alice := f.addUser(t, model.RoleClerk)
	bob := f.addUser(t, model.RoleManager)

	for _, u := range []model.User{alice, alice, bob} {
		_, err := f.notifier.Send(ctx, u.ID, NotificationInput{Message: "m", Type: model.NotificationSystem})
		require.NoError(t, err)
	}

	adminView := Viewer{UserID: admin.ID, Role: model.RoleAdmin}
	all, err := f.notifier.GetAll(ctx, adminView, dto.NotificationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, f.unread(t, admin))

	own, err := f.notifier.GetAll(ctx, Viewer{UserID: alice.ID, Role: model.RoleClerk}, dto.NotificationFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	limited, err := f.notifier.GetAll(ctx, adminView, dto.NotificationFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMarkAsReadScopesToRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, model.RoleClerk)
	bob := f.addUser(t, model.RoleClerk)

	n, err := f.notifier.Send(ctx, alice.ID, NotificationInput{Message: "m", Type: model.NotificationSystem})
	require.NoError(t, err)
	_, err = f.notifier.Send(ctx, alice.ID, NotificationInput{Message: "m2", Type: model.NotificationAudit})
	require.NoError(t, err)
	id := uuid.MustParse(n.ID)

	err = f.notifier.MarkAsRead(ctx, Viewer{UserID: bob.ID, Role: model.RoleClerk}, id)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	aliceView := Viewer{UserID: alice.ID, Role: model.RoleClerk}
	require.NoError(t, f.notifier.MarkAsRead(ctx, aliceView, id))
	require.NoError(t, f.notifier.MarkAsRead(ctx, aliceView, id), "marking twice is not an error")
	assert.EqualValues(t, 1, f.unread(t, alice))

	read := true
	onlyRead, err := f.notifier.GetAll(ctx, aliceView, dto.NotificationFilter{IsRead: &read})
	require.NoError(t, err)
	require.Len(t, onlyRead, 1)
	assert.Equal(t, n.ID, onlyRead[0].ID)

	updated, err := f.notifier.MarkAllAsRead(ctx, aliceView)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)
	assert.EqualValues(t, 0, f.unread(t, alice))
}

// flakyNotifications fails writes addressed to one recipient.
type flakyNotifications struct {
	repository.NotificationRepository
	failFor uuid.UUID
}

func (r flakyNotifications) Create(ctx context.Context, n *model.Notification) error {
	if n.RecipientID == r.failFor {
		return errors.New("write failed")
	}
	return r.NotificationRepository.Create(ctx, n)
}

func TestNotifyRoleToleratesPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var managers []model.User
	for i := 0; i < 4; i++ {
		managers = append(managers, f.addUser(t, model.RoleManager))
	}
	f.addUser(t, model.RoleClerk)
	inactive := f.addUser(t, model.RoleManager)
	require.NoError(t, f.repos.Users.SoftDelete(ctx, inactive.ID))

	notifier := NewNotificationService(flakyNotifications{f.repos.Notifications, managers[2].ID}, f.repos.Users)
	sent, err := notifier.NotifyRole(ctx, model.RoleManager, NotificationInput{Message: "m", Type: model.NotificationSystem})
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.EqualValues(t, 0, f.unread(t, managers[2]))
	assert.EqualValues(t, 1, f.unread(t, managers[0]))
	assert.EqualValues(t, 0, f.unread(t, inactive))
}
