package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification types.
const (
	NotificationReorder = "reorder"
	NotificationRestock = "restock"
	NotificationAudit   = "audit"
	NotificationSystem  = "system"
)

// Notification is a short message delivered to one user. Only IsRead changes
// after creation.
type Notification struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	SenderID         *uuid.UUID        `gorm:"type:uuid"`
	Message          string            `gorm:"not null"`
	Type             string            `gorm:"type:varchar(12);not null;index"`
	RelatedProductID *uuid.UUID        `gorm:"type:uuid"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb"`
	IsRead           bool              `gorm:"not null;default:false;index"`
	CreatedAt        time.Time         `gorm:"index"`

	Sender         *User    `gorm:"foreignKey:SenderID"`
	RelatedProduct *Product `gorm:"foreignKey:RelatedProductID"`
}

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationReorder, NotificationRestock, NotificationAudit, NotificationSystem:
		return true
	}
	return false
}
