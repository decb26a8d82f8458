package models

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActionMetadata is the typed view of the jsonb metadata column on
// moderation_actions. The populated fields depend on how the action was
// created: cascading parent, cascading child, reversal, or verification.
// Constructors below are the only supported way to build one.
type ActionMetadata struct {
	// Cascading removal (parent record).
	CascadingAction *bool       `json:"cascading_action,omitempty"`
	AffectedTracks  []uuid.UUID `json:"affected_tracks,omitempty"`
	TrackCount      *int        `json:"track_count,omitempty"`

	// Cascading removal (per-track child record).
	ParentAlbumAction *uuid.UUID `json:"parent_album_action,omitempty"`
	ParentAlbumID     *uuid.UUID `json:"parent_album_id,omitempty"`
	CascadedFromAlbum *bool      `json:"cascaded_from_album,omitempty"`

	// Reversal details, written once and never altered.
	ReversalReason string `json:"reversal_reason,omitempty"`
	IsSelfReversal *bool  `json:"is_self_reversal,omitempty"`

	// Moderator verification notes.
	VerificationNotes string `json:"verification_notes,omitempty"`
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

// CascadeParentMetadata describes the album-level record of a cascading
// removal covering the given track ids.
func CascadeParentMetadata(trackIDs []uuid.UUID) ActionMetadata {
	return ActionMetadata{
		CascadingAction: boolPtr(true),
		AffectedTracks:  trackIDs,
		TrackCount:      intPtr(len(trackIDs)),
	}
}

// CascadeChildMetadata describes a per-track record created under a
// cascading album removal.
func CascadeChildMetadata(parentActionID, parentAlbumID uuid.UUID) ActionMetadata {
	return ActionMetadata{
		ParentAlbumAction: &parentActionID,
		ParentAlbumID:     &parentAlbumID,
		CascadedFromAlbum: boolPtr(true),
	}
}

// SelectiveRemovalMetadata marks a single-record album removal that
// preserved the tracks.
func SelectiveRemovalMetadata() ActionMetadata {
	return ActionMetadata{CascadingAction: boolPtr(false)}
}

// VerificationMetadata carries free-form moderator verification notes.
func VerificationMetadata(notes string) ActionMetadata {
	return ActionMetadata{VerificationNotes: notes}
}

// WithReversal returns a copy with the reversal fields set. It refuses to
// overwrite reversal details that are already present.
func (m ActionMetadata) WithReversal(reason string, selfReversal bool) (ActionMetadata, error) {
	if m.ReversalReason != "" || m.IsSelfReversal != nil {
		return m, errors.New("reversal metadata already set")
	}
	m.ReversalReason = reason
	m.IsSelfReversal = boolPtr(selfReversal)
	return m, nil
}

// IsCascading reports the cascading_action flag; ok is false when the
// metadata carries no cascading marker at all.
func (m ActionMetadata) IsCascading() (value, ok bool) {
	if m.CascadingAction == nil {
		return false, false
	}
	return *m.CascadingAction, true
}

// JSON marshals the metadata for storage.
func (m ActionMetadata) JSON() (datatypes.JSON, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// ParseActionMetadata decodes the stored jsonb column. An empty column
// yields a zero metadata value.
func ParseActionMetadata(raw datatypes.JSON) (ActionMetadata, error) {
	var m ActionMetadata
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, err
	}
	return m, nil
}
