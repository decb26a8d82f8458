package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User mirrors the platform account row. Identity and credentials are owned
// by the auth service; this subsystem only reads roles and writes suspension
// state.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username         string         `gorm:"not null;size:50;uniqueIndex" json:"username"`
	Email            string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Role             Role           `gorm:"size:20;default:'user';index" json:"role"`
	IsSuspended      bool           `gorm:"default:false" json:"is_suspended"`
	SuspendedUntil   *time.Time     `json:"suspended_until,omitempty"`
	SuspensionReason string         `gorm:"size:500" json:"suspension_reason,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
