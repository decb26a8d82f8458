package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActionType string

const (
	ActionContentRemoved     ActionType = "content_removed"
	ActionContentApproved    ActionType = "content_approved"
	ActionUserWarned         ActionType = "user_warned"
	ActionUserSuspended      ActionType = "user_suspended"
	ActionUserBanned         ActionType = "user_banned"
	ActionRestrictionApplied ActionType = "restriction_applied"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionContentRemoved, ActionContentApproved, ActionUserWarned,
		ActionUserSuspended, ActionUserBanned, ActionRestrictionApplied:
		return true
	}
	return false
}

// ModerationAction is the audit record for every moderator decision.
// Once RevokedAt is set the row is immutable at the application layer:
// no field may be changed and the row is never deleted.
type ModerationAction struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ModeratorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"moderator_id"`
	TargetUserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"target_user_id"`
	ActionType       ActionType     `gorm:"not null;size:30;index" json:"action_type"`
	TargetType       *ReportType    `gorm:"size:20" json:"target_type,omitempty"`
	TargetID         *uuid.UUID     `gorm:"type:uuid;index" json:"target_id,omitempty"`
	Reason           string         `gorm:"not null;size:500" json:"reason"`
	DurationDays     *int           `json:"duration_days,omitempty"`
	ExpiresAt        *time.Time     `json:"expires_at,omitempty"`
	RelatedReportID  *uuid.UUID     `gorm:"type:uuid;index" json:"related_report_id,omitempty"`
	Metadata         datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	NotificationSent bool           `gorm:"default:false" json:"notification_sent"`
	RevokedAt        *time.Time     `gorm:"index" json:"revoked_at,omitempty"`
	RevokedBy        *uuid.UUID     `gorm:"type:uuid" json:"revoked_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (ModerationAction) TableName() string {
	return "moderation_actions"
}

// Revoked reports whether the action has been reversed.
func (a *ModerationAction) Revoked() bool {
	return a.RevokedAt != nil
}
