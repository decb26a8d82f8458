package models

import (
	"time"

	"github.com/google/uuid"
)

type RestrictionType string

const (
	RestrictionPostingDisabled    RestrictionType = "posting_disabled"
	RestrictionCommentingDisabled RestrictionType = "commenting_disabled"
	RestrictionUploadDisabled     RestrictionType = "upload_disabled"
	RestrictionSuspended          RestrictionType = "suspended"
)

func (t RestrictionType) Valid() bool {
	switch t {
	case RestrictionPostingDisabled, RestrictionCommentingDisabled,
		RestrictionUploadDisabled, RestrictionSuspended:
		return true
	}
	return false
}

// UserRestriction limits what an account can do. Restrictions are
// deactivated when their action is reversed, never deleted.
type UserRestriction struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	RestrictionType RestrictionType `gorm:"not null;size:30" json:"restriction_type"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	IsActive        bool            `gorm:"default:true;index" json:"is_active"`
	Reason          string          `gorm:"not null;size:500" json:"reason"`
	AppliedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"applied_by"`
	RelatedActionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"related_action_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (UserRestriction) TableName() string {
	return "user_restrictions"
}
