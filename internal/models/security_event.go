package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityEventType string

const (
	EventDuplicateReportAttempt SecurityEventType = "duplicate_report_attempt"
	EventRateLimitExceeded      SecurityEventType = "rate_limit_exceeded"
	EventAdminReportAttempt     SecurityEventType = "admin_report_attempt"
)

// SecurityEvent is an append-only audit row for rejected report attempts.
// This service writes them and never reads them back.
type SecurityEvent struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventType SecurityEventType `gorm:"not null;size:50;index" json:"event_type"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Details   datatypes.JSON    `gorm:"type:jsonb;default:'{}'" json:"details"`
	CreatedAt time.Time         `json:"created_at"`
}

func (SecurityEvent) TableName() string {
	return "security_events"
}
