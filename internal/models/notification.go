package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationTypeModeration is the canonical type value for every
// notification this subsystem produces.
const NotificationTypeModeration = "moderation"

// Notification is created as a side effect of moderation actions and
// reversals. Delivery transport belongs to the notification service.
type Notification struct {
	ID                    uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID                uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type                  string         `gorm:"not null;size:30" json:"type"`
	Title                 string         `gorm:"not null;size:200" json:"title"`
	Message               string         `gorm:"not null;size:2000" json:"message"`
	Priority              int            `gorm:"not null;default:1" json:"priority"`
	Read                  bool           `gorm:"default:false" json:"read"`
	RelatedNotificationID *uuid.UUID     `gorm:"type:uuid" json:"related_notification_id,omitempty"`
	Data                  datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"data"`
	CreatedAt             time.Time      `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
