package models

import (
	"time"

	"github.com/google/uuid"
)

// Album groups tracks published by a single owner. Removal is handled by
// the moderation action executor, either cascading (album plus tracks) or
// selective (album only, tracks preserved).
type Album struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string    `gorm:"not null;size:200" json:"title"`
	Description string    `gorm:"size:2000" json:"description,omitempty"`
	CoverURL    string    `gorm:"size:500" json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"-"`
}

// Track is an uploaded audio piece. Play and like counters feed the
// trending score.
type Track struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title     string    `gorm:"not null;size:200" json:"title"`
	AudioURL  string    `gorm:"not null;size:500" json:"audio_url"`
	Duration  float64   `json:"duration"`
	PlayCount int64     `gorm:"default:0" json:"play_count"`
	LikeCount int64     `gorm:"default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"-"`
}

// AlbumTrack links tracks to albums. Junction rows are deleted together
// with the album under both removal modes.
type AlbumTrack struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AlbumID   uuid.UUID `gorm:"type:uuid;not null;index" json:"album_id"`
	TrackID   uuid.UUID `gorm:"type:uuid;not null;index" json:"track_id"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (AlbumTrack) TableName() string {
	return "album_tracks"
}
