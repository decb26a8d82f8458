package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/moderr"
	"github.com/soundrift/soundrift-moderation/internal/repository"
)

// ProfileService assembles the review context a moderator sees before
// acting on a report: the album with its tracks, or the user with their
// restrictions and history.
type ProfileService struct {
	albums       repository.Albums
	tracks       repository.Tracks
	users        repository.Users
	reports      repository.Reports
	restrictions repository.Restrictions
	actions      repository.Actions
}

func NewProfileService(store *repository.Store) *ProfileService {
	return &ProfileService{
		albums:       store.Albums,
		tracks:       store.Tracks,
		users:        store.Users,
		reports:      store.Reports,
		restrictions: store.Restrictions,
		actions:      store.Actions,
	}
}

// FetchAlbumContext loads the album, its owner, its tracks and the open
// report count against it.
func (s *ProfileService) FetchAlbumContext(albumID uuid.UUID) (*dto.AlbumContext, error) {
	album, err := s.albums.ByID(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Album not found", map[string]any{"album_id": albumID.String()})
		}
		return nil, moderr.Database("Failed to load album", err)
	}

	owner, err := s.users.ByID(album.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Album owner not found", map[string]any{"user_id": album.OwnerID.String()})
		}
		return nil, moderr.Database("Failed to load album owner", err)
	}

	tracks, err := s.tracks.ByAlbum(albumID)
	if err != nil {
		return nil, moderr.Database("Failed to load album tracks", err)
	}
	openReports, err := s.reports.CountOpenByTarget(models.ReportTypeAlbum, albumID)
	if err != nil {
		return nil, moderr.Database("Failed to count open reports", err)
	}

	return &dto.AlbumContext{
		Album:           *album,
		Owner:           userSummary(owner),
		Tracks:          tracks,
		TrackCount:      len(tracks),
		OpenReportCount: openReports,
	}, nil
}

// GetUserProfileContext loads the user, their suspension state, report
// volume, active restrictions and full moderation history.
func (s *ProfileService) GetUserProfileContext(userID uuid.UUID) (*dto.UserProfileContext, error) {
	user, err := s.users.ByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("User not found", map[string]any{"user_id": userID.String()})
		}
		return nil, moderr.Database("Failed to load user", err)
	}

	reportCount, err := s.reports.CountByReportedUser(userID)
	if err != nil {
		return nil, moderr.Database("Failed to count reports against user", err)
	}
	restrictions, err := s.restrictions.ActiveByUser(userID)
	if err != nil {
		return nil, moderr.Database("Failed to load active restrictions", err)
	}
	actions, err := s.actions.ByTargetUser(userID)
	if err != nil {
		return nil, moderr.Database("Failed to load moderation history", err)
	}

	history := make([]dto.HistoryEntry, 0, len(actions))
	for i := range actions {
		history = append(history, historyEntry(actions[i]))
	}

	return &dto.UserProfileContext{
		User:               userSummary(user),
		IsSuspended:        user.IsSuspended,
		SuspendedUntil:     user.SuspendedUntil,
		ReportCount:        reportCount,
		ActiveRestrictions: restrictions,
		History:            history,
	}, nil
}

func userSummary(u *models.User) dto.UserSummary {
	return dto.UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}
