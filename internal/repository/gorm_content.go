package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

type GormAlbums struct {
	db *gorm.DB
}

func NewGormAlbums(db *gorm.DB) *GormAlbums {
	return &GormAlbums{db: db}
}

func (r *GormAlbums) ByID(id uuid.UUID) (*models.Album, error) {
	var album models.Album
	if err := r.db.First(&album, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *GormAlbums) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Album{}, "id = ?", id).Error
}

func (r *GormAlbums) DeleteJunction(albumID uuid.UUID) error {
	return r.db.Delete(&models.AlbumTrack{}, "album_id = ?", albumID).Error
}

type GormTracks struct {
	db *gorm.DB
}

func NewGormTracks(db *gorm.DB) *GormTracks {
	return &GormTracks{db: db}
}

func (r *GormTracks) ByAlbum(albumID uuid.UUID) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Joins("JOIN album_tracks ON album_tracks.track_id = tracks.id").
		Where("album_tracks.album_id = ?", albumID).
		Order("album_tracks.position ASC").
		Find(&tracks).Error
	return tracks, err
}

func (r *GormTracks) DeleteMany(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.Track{}, "id IN ?", ids).Error
}

func (r *GormTracks) CreatedSince(since *time.Time) ([]models.Track, error) {
	var tracks []models.Track
	query := r.db.Model(&models.Track{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	err := query.Find(&tracks).Error
	return tracks, err
}

type GormContentOwners struct {
	db *gorm.DB
}

func NewGormContentOwners(db *gorm.DB) *GormContentOwners {
	return &GormContentOwners{db: db}
}

// OwnerOf resolves the owning account for any reportable target type.
func (r *GormContentOwners) OwnerOf(t models.ReportType, targetID uuid.UUID) (uuid.UUID, error) {
	switch t {
	case models.ReportTypeUser:
		return targetID, nil
	case models.ReportTypePost:
		var post models.Post
		if err := r.db.Select("owner_id").First(&post, "id = ?", targetID).Error; err != nil {
			return uuid.Nil, err
		}
		return post.OwnerID, nil
	case models.ReportTypeComment:
		var comment models.Comment
		if err := r.db.Select("owner_id").First(&comment, "id = ?", targetID).Error; err != nil {
			return uuid.Nil, err
		}
		return comment.OwnerID, nil
	case models.ReportTypeTrack:
		var track models.Track
		if err := r.db.Select("owner_id").First(&track, "id = ?", targetID).Error; err != nil {
			return uuid.Nil, err
		}
		return track.OwnerID, nil
	case models.ReportTypeAlbum:
		var album models.Album
		if err := r.db.Select("owner_id").First(&album, "id = ?", targetID).Error; err != nil {
			return uuid.Nil, err
		}
		return album.OwnerID, nil
	}
	return uuid.Nil, fmt.Errorf("unknown report type %q", t)
}
