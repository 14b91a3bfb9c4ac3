package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// fanOutLimit bounds concurrent notification writes during a role broadcast.
const fanOutLimit = 8

// Viewer identifies who is reading notifications. Admins see the global feed.
type Viewer struct {
	UserID uuid.UUID
	Role   string
}

// recipientScope returns nil for admins, meaning "every recipient".
func (v Viewer) recipientScope() *uuid.UUID {
	if v.Role == model.RoleAdmin {
		return nil
	}
	id := v.UserID
	return &id
}

// NotificationInput carries everything about a notification except its recipient.
type NotificationInput struct {
	Message   string
	Type      string
	SenderID  *uuid.UUID
	ProductID *uuid.UUID
	Metadata  map[string]interface{}
}

type NotificationService interface {
	Send(ctx context.Context, recipientID uuid.UUID, in NotificationInput) (*dto.NotificationResponse, error)
	NotifyRole(ctx context.Context, role string, in NotificationInput) (int, error)
	GetAll(ctx context.Context, viewer Viewer, filter dto.NotificationFilter) ([]dto.NotificationResponse, error)
	MarkAsRead(ctx context.Context, viewer Viewer, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, viewer Viewer) (int64, error)
	GetUnreadCount(ctx context.Context, viewer Viewer) (int64, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
}

func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository) NotificationService {
	return &notificationService{repo: repo, users: users}
}

func (s *notificationService) Send(ctx context.Context, recipientID uuid.UUID, in NotificationInput) (*dto.NotificationResponse, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, invalid("notification message is required")
	}
	if !model.ValidNotificationType(in.Type) {
		return nil, invalid("invalid notification type %q", in.Type)
	}
	n := &model.Notification{
		RecipientID:      recipientID,
		SenderID:         in.SenderID,
		Message:          in.Message,
		Type:             in.Type,
		RelatedProductID: in.ProductID,
		Metadata:         datatypes.JSONMap(in.Metadata),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	resp := toNotificationResponse(n)
	return &resp, nil
}

// NotifyRole sends the same notification to every active user holding role.
// Writes are independent: a failed recipient is logged and does not stop the
// others. The returned count is the number of rows created.
func (s *notificationService) NotifyRole(ctx context.Context, role string, in NotificationInput) (int, error) {
	recipients, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return 0, fmt.Errorf("list %s users: %w", role, err)
	}

	var created int64
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for _, u := range recipients {
		recipient := u
		g.Go(func() error {
			if _, err := s.Send(ctx, recipient.ID, in); err != nil {
				log.Error().Err(err).
					Str("recipient", recipient.ID.String()).
					Str("type", in.Type).
					Msg("notification: delivery failed")
				return nil
			}
			atomic.AddInt64(&created, 1)
			return nil
		})
	}
	_ = g.Wait()
	return int(created), nil
}

func (s *notificationService) GetAll(ctx context.Context, viewer Viewer, filter dto.NotificationFilter) ([]dto.NotificationResponse, error) {
	if filter.Type != "" && !model.ValidNotificationType(filter.Type) {
		return nil, invalid("invalid notification type %q", filter.Type)
	}
	rows, err := s.repo.List(ctx, repository.NotificationFilter{
		RecipientID: viewer.recipientScope(),
		IsRead:      filter.IsRead,
		Type:        filter.Type,
		Limit:       filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toNotificationResponse(&rows[i]))
	}
	return out, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, viewer Viewer, id uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, id, viewer.recipientScope())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return notFound("notification")
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, viewer Viewer) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, viewer.recipientScope())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, viewer Viewer) (int64, error) {
	n, err := s.repo.CountUnread(ctx, viewer.recipientScope())
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}
