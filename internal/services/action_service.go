package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
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

const (
	maxReasonLength            = 500
	maxVerificationNotesLength = 500
	minDurationDays            = 1
	maxDurationDays            = 365
)

// ActionService executes moderator decisions: content removal (cascading
// or selective for albums), warnings, suspensions, bans and restrictions.
// Every branch writes exactly one audit action record per logical action
// taken; a cascading album removal over N tracks writes N+1.
type ActionService struct {
	reports      repository.Reports
	actions      repository.Actions
	restrictions repository.Restrictions
	albums       repository.Albums
	tracks       repository.Tracks
	users        repository.Users
	notifier     *NotificationService
	now          func() time.Time
}

func NewActionService(store *repository.Store, notifier *NotificationService) *ActionService {
	return &ActionService{
		reports:      store.Reports,
		actions:      store.Actions,
		restrictions: store.Restrictions,
		albums:       store.Albums,
		tracks:       store.Tracks,
		users:        store.Users,
		notifier:     notifier,
		now:          time.Now,
	}
}

// TakeAction validates and executes a moderation action against the target
// of the given report. Notification delivery is best effort: a failure is
// logged and never aborts the action.
func (s *ActionService) TakeAction(act actor.Context, req *dto.TakeActionRequest) (*models.ModerationAction, error) {
	if !act.IsModerator() {
		return nil, moderr.Unauthorized("Moderator role required", map[string]any{
			"actor_role": string(act.Role),
		})
	}
	if verr := validateStruct(req); verr != nil {
		return nil, verr
	}

	actionType := models.ActionType(req.ActionType)
	if !actionType.Valid() {
		return nil, moderr.Validation("Invalid action type", map[string]any{
			"action_type": req.ActionType,
		})
	}
	reportID, verr := parseUUIDField("report_id", req.ReportID)
	if verr != nil {
		return nil, verr
	}
	targetUserID, verr := parseUUIDField("target_user_id", req.TargetUserID)
	if verr != nil {
		return nil, verr
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, moderr.Validation("Reason is required", nil)
	}
	if len(reason) > maxReasonLength {
		return nil, moderr.Validation("Reason must be 500 characters or less", map[string]any{
			"length": len(reason),
			"limit":  maxReasonLength,
		})
	}
	if req.DurationDays != nil && (*req.DurationDays < minDurationDays || *req.DurationDays > maxDurationDays) {
		return nil, moderr.Validation("Duration must be between 1 and 365 days", map[string]any{
			"duration_days": *req.DurationDays,
		})
	}
	if len(req.VerificationNotes) > maxVerificationNotesLength {
		return nil, moderr.Validation("Verification notes must be 500 characters or less", map[string]any{
			"length": len(req.VerificationNotes),
			"limit":  maxVerificationNotesLength,
		})
	}

	report, err := s.reports.ByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Report not found", map[string]any{"report_id": req.ReportID})
		}
		return nil, moderr.Database("Failed to load report", err)
	}

	var targetType *models.ReportType
	if req.TargetType != "" {
		tt := models.ReportType(req.TargetType)
		if !tt.Valid() {
			return nil, moderr.Validation("Invalid target type", map[string]any{
				"target_type": req.TargetType,
			})
		}
		if tt != report.ReportType {
			return nil, moderr.Validation("Target type does not match the reported content type", map[string]any{
				"target_type": req.TargetType,
				"report_type": string(report.ReportType),
			})
		}
		targetType = &tt
	}

	targetID := report.TargetID
	if req.TargetID != "" {
		id, verr := parseUUIDField("target_id", req.TargetID)
		if verr != nil {
			return nil, verr
		}
		targetID = id
	}

	var expiresAt *time.Time
	if req.DurationDays != nil {
		t := s.now().Add(time.Duration(*req.DurationDays) * 24 * time.Hour)
		expiresAt = &t
	}

	base := models.ModerationAction{
		ID:              uuid.New(),
		ModeratorID:     act.ID,
		TargetUserID:    targetUserID,
		ActionType:      actionType,
		TargetType:      targetType,
		TargetID:        &targetID,
		Reason:          reason,
		DurationDays:    req.DurationDays,
		ExpiresAt:       expiresAt,
		RelatedReportID: &report.ID,
		CreatedAt:       s.now(),
	}

	var action *models.ModerationAction
	switch actionType {
	case models.ActionContentRemoved:
		if report.ReportType == models.ReportTypeAlbum {
			action, err = s.removeAlbum(base, targetID, req)
		} else {
			action, err = s.removeContent(base, report.ReportType, targetID, req)
		}
	case models.ActionUserSuspended:
		action, err = s.suspendUser(base, req)
	case models.ActionUserBanned:
		action, err = s.banUser(base, req)
	case models.ActionRestrictionApplied:
		action, err = s.applyRestriction(base, req)
	default:
		// content_approved, user_warned: audit record only.
		action, err = s.createAction(base, req.VerificationNotes)
	}
	if err != nil {
		return nil, err
	}

	status := models.ReportStatusResolved
	if actionType == models.ActionContentApproved {
		status = models.ReportStatusDismissed
	}
	if err := s.reports.Resolve(report.ID, status, string(actionType), act.ID, s.now()); err != nil {
		return nil, moderr.Database("Failed to update report status", err)
	}

	s.sendActionNotification(action, req)

	return action, nil
}

// createAction attaches verification notes when present and persists the
// audit record.
func (s *ActionService) createAction(action models.ModerationAction, verificationNotes string) (*models.ModerationAction, error) {
	md, err := models.ParseActionMetadata(action.Metadata)
	if err != nil {
		return nil, moderr.Database("Failed to decode action metadata", err)
	}
	if verificationNotes != "" {
		md.VerificationNotes = verificationNotes
	}
	raw, err := md.JSON()
	if err != nil {
		return nil, moderr.Database("Failed to encode action metadata", err)
	}
	action.Metadata = raw
	if err := s.actions.Create(&action); err != nil {
		return nil, moderr.Database("Failed to create moderation action", err)
	}
	return &action, nil
}

// removeAlbum handles album removal. Cascading mode deletes the album, its
// junction rows and every linked track, writing one child action per track
// plus the parent record. Selective mode deletes only the album and
// junction rows, preserving the tracks and their history.
func (s *ActionService) removeAlbum(base models.ModerationAction, albumID uuid.UUID, req *dto.TakeActionRequest) (*models.ModerationAction, error) {
	if !req.RemoveAlbum && !req.RemoveTracks {
		return nil, moderr.Validation("At least one of remove_album or remove_tracks must be selected", map[string]any{
			"remove_album":  req.RemoveAlbum,
			"remove_tracks": req.RemoveTracks,
		})
	}

	if _, err := s.albums.ByID(albumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Album not found", map[string]any{"album_id": albumID.String()})
		}
		return nil, moderr.Database("Failed to load album", err)
	}

	if !req.RemoveTracks {
		if err := s.albums.DeleteJunction(albumID); err != nil {
			return nil, moderr.Database("Failed to delete album track links", err)
		}
		if err := s.albums.Delete(albumID); err != nil {
			return nil, moderr.Database("Failed to delete album", err)
		}
		md := models.SelectiveRemovalMetadata()
		md.VerificationNotes = req.VerificationNotes
		raw, err := md.JSON()
		if err != nil {
			return nil, moderr.Database("Failed to encode action metadata", err)
		}
		base.Metadata = raw
		if err := s.actions.Create(&base); err != nil {
			return nil, moderr.Database("Failed to create moderation action", err)
		}
		return &base, nil
	}

	tracks, err := s.tracks.ByAlbum(albumID)
	if err != nil {
		return nil, moderr.Database("Failed to load album tracks", err)
	}
	trackIDs := make([]uuid.UUID, len(tracks))
	for i, t := range tracks {
		trackIDs[i] = t.ID
	}

	if err := s.tracks.DeleteMany(trackIDs); err != nil {
		return nil, moderr.Database("Failed to delete album tracks", err)
	}
	if err := s.albums.DeleteJunction(albumID); err != nil {
		return nil, moderr.Database("Failed to delete album track links", err)
	}
	if err := s.albums.Delete(albumID); err != nil {
		return nil, moderr.Database("Failed to delete album", err)
	}

	parentMD := models.CascadeParentMetadata(trackIDs)
	parentMD.VerificationNotes = req.VerificationNotes
	raw, err := parentMD.JSON()
	if err != nil {
		return nil, moderr.Database("Failed to encode action metadata", err)
	}
	base.Metadata = raw
	if err := s.actions.Create(&base); err != nil {
		return nil, moderr.Database("Failed to create moderation action", err)
	}

	trackType := models.ReportTypeTrack
	for i := range tracks {
		childMD, err := models.CascadeChildMetadata(base.ID, albumID).JSON()
		if err != nil {
			return nil, moderr.Database("Failed to encode action metadata", err)
		}
		trackID := trackIDs[i]
		child := models.ModerationAction{
			ID:              uuid.New(),
			ModeratorID:     base.ModeratorID,
			TargetUserID:    base.TargetUserID,
			ActionType:      models.ActionContentRemoved,
			TargetType:      &trackType,
			TargetID:        &trackID,
			Reason:          base.Reason,
			RelatedReportID: base.RelatedReportID,
			Metadata:        childMD,
			CreatedAt:       s.now(),
		}
		if err := s.actions.Create(&child); err != nil {
			return nil, moderr.Database("Failed to create track removal action", err)
		}
	}

	return &base, nil
}

// removeContent records removal of a non-album target. Tracks are deleted
// here; posts and comments are removed by their owning service on receipt
// of the action record.
func (s *ActionService) removeContent(base models.ModerationAction, reportType models.ReportType, targetID uuid.UUID, req *dto.TakeActionRequest) (*models.ModerationAction, error) {
	if reportType == models.ReportTypeTrack {
		if err := s.tracks.DeleteMany([]uuid.UUID{targetID}); err != nil {
			return nil, moderr.Database("Failed to delete track", err)
		}
	}
	return s.createAction(base, req.VerificationNotes)
}

func (s *ActionService) suspendUser(base models.ModerationAction, req *dto.TakeActionRequest) (*models.ModerationAction, error) {
	action, err := s.createAction(base, req.VerificationNotes)
	if err != nil {
		return nil, err
	}
	restriction := &models.UserRestriction{
		UserID:          action.TargetUserID,
		RestrictionType: models.RestrictionSuspended,
		ExpiresAt:       action.ExpiresAt,
		IsActive:        true,
		Reason:          action.Reason,
		AppliedBy:       action.ModeratorID,
		RelatedActionID: action.ID,
	}
	if err := s.restrictions.Create(restriction); err != nil {
		return nil, moderr.Database("Failed to create user restriction", err)
	}
	if err := s.users.SetSuspension(action.TargetUserID, action.ExpiresAt, action.Reason); err != nil {
		return nil, moderr.Database("Failed to suspend user", err)
	}
	return action, nil
}

func (s *ActionService) banUser(base models.ModerationAction, req *dto.TakeActionRequest) (*models.ModerationAction, error) {
	// Bans are always permanent.
	base.DurationDays = nil
	base.ExpiresAt = nil
	action, err := s.createAction(base, req.VerificationNotes)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetSuspension(action.TargetUserID, nil, action.Reason); err != nil {
		return nil, moderr.Database("Failed to ban user", err)
	}
	return action, nil
}

func (s *ActionService) applyRestriction(base models.ModerationAction, req *dto.TakeActionRequest) (*models.ModerationAction, error) {
	restrictionType := models.RestrictionType(req.RestrictionType)
	if !restrictionType.Valid() {
		return nil, moderr.Validation("Invalid restriction type", map[string]any{
			"restriction_type": req.RestrictionType,
		})
	}
	action, err := s.createAction(base, req.VerificationNotes)
	if err != nil {
		return nil, err
	}
	restriction := &models.UserRestriction{
		UserID:          action.TargetUserID,
		RestrictionType: restrictionType,
		ExpiresAt:       action.ExpiresAt,
		IsActive:        true,
		Reason:          action.Reason,
		AppliedBy:       action.ModeratorID,
		RelatedActionID: action.ID,
	}
	if err := s.restrictions.Create(restriction); err != nil {
		return nil, moderr.Database("Failed to create user restriction", err)
	}
	if restrictionType == models.RestrictionSuspended {
		if err := s.users.SetSuspension(action.TargetUserID, action.ExpiresAt, action.Reason); err != nil {
			return nil, moderr.Database("Failed to suspend user", err)
		}
	}
	return action, nil
}

// UpdateVerificationNotes amends the verification notes on a live action.
// Reversed actions are immutable and reject any modification.
func (s *ActionService) UpdateVerificationNotes(act actor.Context, actionID uuid.UUID, notes string) (*models.ModerationAction, error) {
	if !act.IsModerator() {
		return nil, moderr.Unauthorized("Moderator role required", map[string]any{
			"actor_role": string(act.Role),
		})
	}
	if len(notes) > maxVerificationNotesLength {
		return nil, moderr.Validation("Verification notes must be 500 characters or less", map[string]any{
			"length": len(notes),
			"limit":  maxVerificationNotesLength,
		})
	}

	action, err := s.actions.ByID(actionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Moderation action not found", map[string]any{"action_id": actionID.String()})
		}
		return nil, moderr.Database("Failed to load moderation action", err)
	}
	if action.Revoked() {
		return nil, moderr.Validation("A reversed action cannot be modified", map[string]any{
			"action_id": actionID.String(),
		})
	}

	md, err := models.ParseActionMetadata(action.Metadata)
	if err != nil {
		return nil, moderr.Database("Failed to decode action metadata", err)
	}
	md.VerificationNotes = notes
	raw, err := md.JSON()
	if err != nil {
		return nil, moderr.Database("Failed to encode action metadata", err)
	}

	if err := s.actions.UpdateFields(actionID, map[string]any{"metadata": raw}); err != nil {
		if errors.Is(err, repository.ErrActionRevoked) {
			return nil, moderr.Validation("A reversed action cannot be modified", map[string]any{
				"action_id": actionID.String(),
			})
		}
		return nil, moderr.Database("Failed to update moderation action", err)
	}
	action.Metadata = raw
	return action, nil
}

func (s *ActionService) sendActionNotification(action *models.ModerationAction, req *dto.TakeActionRequest) {
	content := GenerateActionNotification(action.ActionType, action.Reason, NotificationOptions{
		DurationDays:    action.DurationDays,
		ExpiresAt:       action.ExpiresAt,
		CustomMessage:   req.CustomMessage,
		RestrictionType: models.RestrictionType(req.RestrictionType),
	})

	data, err := json.Marshal(action)
	if err != nil {
		slog.Error("failed to marshal action for notification", "action_id", action.ID, "error", err)
		data = []byte("{}")
	}
	if err := s.notifier.Deliver(action.TargetUserID, content, datatypes.JSON(data)); err != nil {
		slog.Error("failed to deliver action notification", "action_id", action.ID, "error", err)
		return
	}
	if err := s.actions.SetNotificationSent(action.ID); err != nil {
		slog.Error("failed to flag notification as sent", "action_id", action.ID, "error", err)
		return
	}
	action.NotificationSent = true
}
