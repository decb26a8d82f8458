package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/actor"
	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/moderr"
	"github.com/soundrift/soundrift-moderation/internal/repository"
)

// NoReversalReason is the fallback when a reversal carries no reason.
const NoReversalReason = "No reason provided"

// AuthorizeReversal decides whether an actor with the given role may
// reverse an action against a target with the given role. The decision is
// deterministic and total; a denial always carries a non-empty reason.
// Self-reversal follows the same matrix. Ban removal is admin-only
// regardless of target role.
func AuthorizeReversal(actorRole, targetRole models.Role, actionType models.ActionType) (bool, string) {
	if actorRole != models.RoleModerator && actorRole != models.RoleAdmin {
		return false, "Only moderators and administrators can reverse moderation actions"
	}
	if actionType == models.ActionUserBanned && actorRole != models.RoleAdmin {
		return false, "Only administrators can remove a ban"
	}
	if actorRole == models.RoleModerator && targetRole == models.RoleAdmin {
		return false, "Moderators cannot reverse actions taken against admin accounts"
	}
	return true, ""
}

// ReversalService revokes moderation actions and serves reversal history.
type ReversalService struct {
	actions      repository.Actions
	restrictions repository.Restrictions
	users        repository.Users
	notifier     *NotificationService
	now          func() time.Time
}

func NewReversalService(store *repository.Store, notifier *NotificationService) *ReversalService {
	return &ReversalService{
		actions:      store.Actions,
		restrictions: store.Restrictions,
		users:        store.Users,
		notifier:     notifier,
		now:          time.Now,
	}
}

// ReverseAction marks the action revoked, deactivates its restriction,
// clears suspension state when applicable and notifies the target user.
// The reversal fields are written once and never altered afterwards.
func (s *ReversalService) ReverseAction(act actor.Context, actionID uuid.UUID, reason string) (*models.ModerationAction, error) {
	action, err := s.actions.ByID(actionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Moderation action not found", map[string]any{"action_id": actionID.String()})
		}
		return nil, moderr.Database("Failed to load moderation action", err)
	}
	if action.Revoked() {
		return nil, moderr.Validation("This action has already been reversed", map[string]any{
			"action_id": actionID.String(),
		})
	}

	target, err := s.users.ByID(action.TargetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Target user not found", map[string]any{
				"user_id": action.TargetUserID.String(),
			})
		}
		return nil, moderr.Database("Failed to load target user", err)
	}

	allowed, denyReason := AuthorizeReversal(act.Role, target.Role, action.ActionType)
	if !allowed {
		return nil, moderr.Unauthorized(denyReason, map[string]any{
			"actor_role":  string(act.Role),
			"target_role": string(target.Role),
			"action_type": string(action.ActionType),
		})
	}

	if reason == "" {
		reason = NoReversalReason
	}
	isSelfReversal := act.ID == action.ModeratorID

	md, err := models.ParseActionMetadata(action.Metadata)
	if err != nil {
		return nil, moderr.Database("Failed to decode action metadata", err)
	}
	md, err = md.WithReversal(reason, isSelfReversal)
	if err != nil {
		return nil, moderr.Validation("This action has already been reversed", map[string]any{
			"action_id": actionID.String(),
		})
	}
	raw, err := md.JSON()
	if err != nil {
		return nil, moderr.Database("Failed to encode action metadata", err)
	}

	revokedAt := s.now()
	if err := s.actions.MarkRevoked(actionID, revokedAt, act.ID, raw); err != nil {
		if errors.Is(err, repository.ErrActionRevoked) {
			return nil, moderr.Validation("This action has already been reversed", map[string]any{
				"action_id": actionID.String(),
			})
		}
		return nil, moderr.Database("Failed to revoke moderation action", err)
	}

	if err := s.restrictions.DeactivateByAction(actionID); err != nil {
		return nil, moderr.Database("Failed to deactivate user restriction", err)
	}
	if action.ActionType == models.ActionUserSuspended || action.ActionType == models.ActionUserBanned {
		if err := s.users.ClearSuspension(action.TargetUserID); err != nil {
			return nil, moderr.Database("Failed to clear user suspension", err)
		}
	}

	action.RevokedAt = &revokedAt
	action.RevokedBy = &act.ID
	action.Metadata = raw

	s.sendReversalNotification(act, action, reason)

	return action, nil
}

func (s *ReversalService) sendReversalNotification(act actor.Context, action *models.ModerationAction, reason string) {
	moderatorName := "the moderation team"
	if mod, err := s.users.ByID(act.ID); err == nil {
		moderatorName = mod.Username
	}

	appliedByName := action.ModeratorID.String()
	if applier, err := s.users.ByID(action.ModeratorID); err == nil {
		appliedByName = applier.Username
	}
	orig := &OriginalActionDetails{
		Reason:       action.Reason,
		AppliedBy:    appliedByName,
		AppliedAt:    action.CreatedAt,
		DurationDays: action.DurationDays,
	}

	content := GenerateReversalNotification(action.ActionType, moderatorName, reason, orig)
	data, err := json.Marshal(action)
	if err != nil {
		slog.Error("failed to marshal action for reversal notification", "action_id", action.ID, "error", err)
		data = []byte("{}")
	}
	if err := s.notifier.Deliver(action.TargetUserID, content, datatypes.JSON(data)); err != nil {
		slog.Error("failed to deliver reversal notification", "action_id", action.ID, "error", err)
	}
}

// CheckPreviousReversals resolves the report to its target key and returns
// the reversal history for that target, most recent first.
func (s *ReversalService) CheckPreviousReversals(report *models.Report) (*dto.ReversalHistory, error) {
	if report == nil || report.ID == uuid.Nil {
		return nil, moderr.Validation("A valid report is required", nil)
	}

	var (
		revoked []models.ModerationAction
		err     error
	)
	if report.ReportType == models.ReportTypeUser {
		revoked, err = s.actions.RevokedByTargetUser(report.TargetID)
	} else {
		revoked, err = s.actions.RevokedByTarget(report.ReportType, report.TargetID)
	}
	if err != nil {
		return nil, moderr.Database("Failed to query reversal history", err)
	}

	history := &dto.ReversalHistory{
		HasPreviousReversals: len(revoked) > 0,
		ReversalCount:        len(revoked),
	}
	if len(revoked) > 0 {
		latest := revoked[0]
		reason := NoReversalReason
		if md, mdErr := models.ParseActionMetadata(latest.Metadata); mdErr == nil && md.ReversalReason != "" {
			reason = md.ReversalReason
		}
		history.MostRecentReversal = &dto.ReversalSummary{
			ActionID:  latest.ID,
			RevokedAt: *latest.RevokedAt,
			RevokedBy: *latest.RevokedBy,
			Reason:    reason,
		}
	}
	return history, nil
}

// GetUserModerationHistory returns the user's action history ordered by
// created_at ascending, optionally filtering out reversed entries.
func (s *ReversalService) GetUserModerationHistory(userID uuid.UUID, includeRevoked bool) ([]dto.HistoryEntry, error) {
	actions, err := s.actions.ByTargetUser(userID)
	if err != nil {
		return nil, moderr.Database("Failed to load moderation history", err)
	}

	entries := make([]dto.HistoryEntry, 0, len(actions))
	for i := range actions {
		a := actions[i]
		if !includeRevoked && a.Revoked() {
			continue
		}
		entries = append(entries, historyEntry(a))
	}
	return entries, nil
}

func historyEntry(a models.ModerationAction) dto.HistoryEntry {
	entry := dto.HistoryEntry{
		ActionID:     a.ID,
		ActionType:   a.ActionType,
		ModeratorID:  a.ModeratorID,
		Reason:       a.Reason,
		DurationDays: a.DurationDays,
		ExpiresAt:    a.ExpiresAt,
		CreatedAt:    a.CreatedAt,
		Revoked:      a.Revoked(),
	}
	if a.Revoked() {
		entry.RevokedAt = a.RevokedAt
		entry.RevokedBy = a.RevokedBy
		if md, err := models.ParseActionMetadata(a.Metadata); err == nil {
			entry.ReversalReason = md.ReversalReason
		}
	}
	return entry
}
