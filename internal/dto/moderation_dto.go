package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

type SubmitReportRequest struct {
	ReportType  string `json:"report_type" validate:"required"`
	TargetID    string `json:"target_id" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description"`
}

type TakeActionRequest struct {
	ReportID          string `json:"report_id" validate:"required"`
	ActionType        string `json:"action_type" validate:"required"`
	TargetUserID      string `json:"target_user_id" validate:"required"`
	Reason            string `json:"reason"`
	DurationDays      *int   `json:"duration_days,omitempty"`
	TargetType        string `json:"target_type,omitempty"`
	TargetID          string `json:"target_id,omitempty"`
	RestrictionType   string `json:"restriction_type,omitempty"`
	RemoveAlbum       bool   `json:"remove_album,omitempty"`
	RemoveTracks      bool   `json:"remove_tracks,omitempty"`
	VerificationNotes string `json:"verification_notes,omitempty"`
	CustomMessage     string `json:"custom_message,omitempty"`
}

type ReverseActionRequest struct {
	Reason string `json:"reason"`
}

type UpdateVerificationNotesRequest struct {
	VerificationNotes string `json:"verification_notes"`
}

type HistoryEntry struct {
	ActionID       uuid.UUID         `json:"action_id"`
	ActionType     models.ActionType `json:"action_type"`
	ModeratorID    uuid.UUID         `json:"moderator_id"`
	Reason         string            `json:"reason"`
	DurationDays   *int              `json:"duration_days,omitempty"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Revoked        bool              `json:"revoked"`
	RevokedAt      *time.Time        `json:"revoked_at,omitempty"`
	RevokedBy      *uuid.UUID        `json:"revoked_by,omitempty"`
	ReversalReason string            `json:"reversal_reason,omitempty"`
}

type ReversalSummary struct {
	ActionID  uuid.UUID `json:"action_id"`
	RevokedAt time.Time `json:"revoked_at"`
	RevokedBy uuid.UUID `json:"revoked_by"`
	Reason    string    `json:"reason"`
}

type ReversalHistory struct {
	HasPreviousReversals bool             `json:"has_previous_reversals"`
	ReversalCount        int              `json:"reversal_count"`
	MostRecentReversal   *ReversalSummary `json:"most_recent_reversal,omitempty"`
}

type ModeratorStats struct {
	TotalActions    int     `json:"total_actions"`
	ReversedActions int     `json:"reversed_actions"`
	ReversalRate    float64 `json:"reversal_rate"`
}

type ReversalStats struct {
	TotalActions    int                       `json:"total_actions"`
	ReversedActions int                       `json:"reversed_actions"`
	ReversalRate    float64                   `json:"reversal_rate"`
	PerModerator    map[string]ModeratorStats `json:"per_moderator"`
}

type TimeToReversalStats struct {
	AverageSeconds float64 `json:"average_seconds"`
	MedianSeconds  float64 `json:"median_seconds"`
	MinSeconds     float64 `json:"min_seconds"`
	MaxSeconds     float64 `json:"max_seconds"`
}

type ModerationMetrics struct {
	Reversals                 ReversalStats       `json:"reversals"`
	TimeToReversal            TimeToReversalStats `json:"time_to_reversal"`
	AlbumVsTrackPercentage    float64             `json:"album_vs_track_percentage"`
	CascadingActionPercentage float64             `json:"cascading_action_percentage"`
	GeneratedAt               time.Time           `json:"generated_at"`
}

type TrendingEntry struct {
	TrackID   uuid.UUID `json:"track_id"`
	Title     string    `json:"title"`
	PlayCount int64     `json:"play_count"`
	LikeCount int64     `json:"like_count"`
	Score     float64   `json:"score"`
}

type UserSummary struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type AlbumContext struct {
	Album           models.Album   `json:"album"`
	Owner           UserSummary    `json:"owner"`
	Tracks          []models.Track `json:"tracks"`
	TrackCount      int            `json:"track_count"`
	OpenReportCount int64          `json:"open_report_count"`
}

type UserProfileContext struct {
	User               UserSummary              `json:"user"`
	IsSuspended        bool                     `json:"is_suspended"`
	SuspendedUntil     *time.Time               `json:"suspended_until,omitempty"`
	ReportCount        int64                    `json:"report_count"`
	ActiveRestrictions []models.UserRestriction `json:"active_restrictions"`
	History            []HistoryEntry           `json:"history"`
}
