package repository

import (
	"context"

	"inventra/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationFilter narrows a notification feed. A nil RecipientID selects the
// global feed across every recipient.
type NotificationFilter struct {
	RecipientID *uuid.UUID
	IsRead      *bool
	Type        string
	Limit       int
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	// MarkRead flags one notification as read. recipientID nil skips the owner check.
	MarkRead(ctx context.Context, id uuid.UUID, recipientID *uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, recipientID *uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID *uuid.UUID) (int64, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Omit("Sender", "RelatedProduct").Create(n).Error
}

func (r *notificationRepo) List(ctx context.Context, filter NotificationFilter) ([]model.Notification, error) {
	q := scopeRecipient(r.db.WithContext(ctx).Model(&model.Notification{}), filter.RecipientID)
	if filter.IsRead != nil {
		q = q.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	_, limit := normalizePage(1, filter.Limit, 50, 200)

	var list []model.Notification
	err := q.Preload("Sender").Preload("RelatedProduct").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID, recipientID *uuid.UUID) (bool, error) {
	q := scopeRecipient(r.db.WithContext(ctx).Model(&model.Notification{}), recipientID)
	res := q.Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	// Already-read rows report zero affected rows on some drivers; check existence.
	var count int64
	err := scopeRecipient(r.db.WithContext(ctx).Model(&model.Notification{}), recipientID).
		Where("id = ?", id).Count(&count).Error
	return count == 1, err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID *uuid.UUID) (int64, error) {
	q := scopeRecipient(r.db.WithContext(ctx).Model(&model.Notification{}), recipientID)
	res := q.Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID *uuid.UUID) (int64, error) {
	var count int64
	err := scopeRecipient(r.db.WithContext(ctx).Model(&model.Notification{}), recipientID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func scopeRecipient(q *gorm.DB, recipientID *uuid.UUID) *gorm.DB {
	if recipientID == nil {
		return q
	}
	return q.Where("recipient_id = ?", *recipientID)
}
