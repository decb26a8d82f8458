package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportTypePost    ReportType = "post"
	ReportTypeComment ReportType = "comment"
	ReportTypeTrack   ReportType = "track"
	ReportTypeUser    ReportType = "user"
	ReportTypeAlbum   ReportType = "album"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportTypePost, ReportTypeComment, ReportTypeTrack, ReportTypeUser, ReportTypeAlbum:
		return true
	}
	return false
}

type ReportReason string

const (
	ReasonSpam                 ReportReason = "spam"
	ReasonHarassment           ReportReason = "harassment"
	ReasonCopyright            ReportReason = "copyright"
	ReasonInappropriateContent ReportReason = "inappropriate_content"
	ReasonMisinformation       ReportReason = "misinformation"
	ReasonOther                ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReasonSpam, ReasonHarassment, ReasonCopyright,
		ReasonInappropriateContent, ReasonMisinformation, ReasonOther:
		return true
	}
	return false
}

// Priority returns the review priority derived from the reason.
// 1 is the most urgent queue.
func (r ReportReason) Priority() int {
	switch r {
	case ReasonHarassment, ReasonCopyright:
		return 1
	case ReasonInappropriateContent, ReasonMisinformation:
		return 2
	default:
		return 3
	}
}

type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
)

// Report is a user-submitted complaint about a piece of content or an
// account. Reports are never deleted; moderator actions only mutate the
// status and resolution fields.
type Report struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedUserID *uuid.UUID   `gorm:"type:uuid;index" json:"reported_user_id,omitempty"`
	ReportType     ReportType   `gorm:"not null;size:20;index" json:"report_type"`
	TargetID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"target_id"`
	Reason         ReportReason `gorm:"not null;size:50" json:"reason"`
	Description    string       `gorm:"size:1000" json:"description,omitempty"`
	Status         ReportStatus `gorm:"not null;default:'pending';size:20;index" json:"status"`
	Priority       int          `gorm:"not null;default:3" json:"priority"`
	Resolution     string       `gorm:"size:500" json:"resolution,omitempty"`
	ResolvedBy     *uuid.UUID   `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Reporter       User         `gorm:"foreignKey:ReporterID" json:"-"`
}

func (Report) TableName() string {
	return "moderation_reports"
}
