package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

// NotificationContent is the rendered payload of a moderation notification.
type NotificationContent struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
}

// NotificationOptions carries the optional inputs of the generators.
type NotificationOptions struct {
	DurationDays    *int
	ExpiresAt       *time.Time
	CustomMessage   string
	RestrictionType models.RestrictionType
}

const appealMention = "If you believe this decision was made in error, you can submit an appeal from your account settings."

// GenerateActionNotification renders the user-facing notification for a
// moderation action. The message always names the reason and mentions the
// appeal process.
func GenerateActionNotification(actionType models.ActionType, reason string, opts NotificationOptions) NotificationContent {
	var title, lead string
	priority := 1

	switch actionType {
	case models.ActionContentRemoved:
		title = "Your content has been removed"
		lead = "Your content has been removed by the moderation team."
		priority = 2
	case models.ActionContentApproved:
		title = "Your content has been approved"
		lead = "Your content was reviewed and approved by the moderation team."
		priority = 1
	case models.ActionUserWarned:
		title = "You have received a warning"
		lead = "You have received a warning from the moderation team."
		priority = 1
	case models.ActionUserSuspended:
		title = "Your account has been suspended"
		lead = "Your account has been suspended."
		priority = 3
	case models.ActionUserBanned:
		title = "Your account has been banned"
		lead = "Your account has been banned from the platform."
		priority = 3
	case models.ActionRestrictionApplied:
		title = "A restriction has been applied to your account"
		lead = fmt.Sprintf("A %s restriction has been applied to your account.", restrictionLabel(opts.RestrictionType))
		priority = 2
	default:
		title = "Moderation notice"
		lead = "A moderation decision has been applied to your account."
	}

	parts := []string{lead, "Reason: " + reason + "."}
	switch {
	case opts.DurationDays != nil:
		parts = append(parts, fmt.Sprintf("This action lasts %d days.", *opts.DurationDays))
		if opts.ExpiresAt != nil {
			parts = append(parts, fmt.Sprintf("It expires on %s.", opts.ExpiresAt.UTC().Format("January 2, 2006")))
		}
	case actionType == models.ActionUserSuspended:
		parts = append(parts, "This suspension is permanent.")
	case actionType == models.ActionUserBanned:
		parts = append(parts, "This ban is permanent.")
	}
	if opts.CustomMessage != "" {
		parts = append(parts, opts.CustomMessage)
	}
	parts = append(parts, appealMention)

	return NotificationContent{
		Title:    title,
		Message:  strings.Join(parts, " "),
		Type:     models.NotificationTypeModeration,
		Priority: priority,
	}
}

// OriginalActionDetails describes the reversed action inside a reversal
// notification, when available.
type OriginalActionDetails struct {
	Reason       string
	AppliedBy    string
	AppliedAt    time.Time
	DurationDays *int
}

// ReversalTitle maps an action type to its reversal notification title.
func ReversalTitle(actionType models.ActionType) string {
	switch actionType {
	case models.ActionContentRemoved:
		return "Content Restored"
	case models.ActionContentApproved:
		return "Approval Reversed"
	case models.ActionUserWarned:
		return "Warning Retracted"
	case models.ActionUserSuspended:
		return "Suspension Lifted"
	case models.ActionUserBanned:
		return "Ban Removed"
	case models.ActionRestrictionApplied:
		return "Restriction Removed"
	}
	return "Moderation Action Reversed"
}

// GenerateReversalNotification renders the notification sent to the target
// user when an action against them is reversed.
func GenerateReversalNotification(actionType models.ActionType, moderatorName, reason string, orig *OriginalActionDetails) NotificationContent {
	title := ReversalTitle(actionType)
	parts := []string{
		fmt.Sprintf("%s: the %s action against your account has been reversed by %s.", title, actionType, moderatorName),
		"Reason: " + reason + ".",
	}
	if orig != nil {
		detail := fmt.Sprintf("The original action (reason: %s) was applied by %s on %s",
			orig.Reason, orig.AppliedBy, orig.AppliedAt.UTC().Format("January 2, 2006"))
		if orig.DurationDays != nil {
			detail += fmt.Sprintf(" for %d days", *orig.DurationDays)
		}
		parts = append(parts, detail+".")
	}
	parts = append(parts, appealMention)

	return NotificationContent{
		Title:    title,
		Message:  strings.Join(parts, " "),
		Type:     models.NotificationTypeModeration,
		Priority: 2,
	}
}

func restrictionLabel(t models.RestrictionType) string {
	switch t {
	case models.RestrictionPostingDisabled:
		return "posting"
	case models.RestrictionCommentingDisabled:
		return "commenting"
	case models.RestrictionUploadDisabled:
		return "upload"
	case models.RestrictionSuspended:
		return "suspension"
	}
	return "account"
}
