package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a feed entry (text or attached track). Only ownership matters to
// this subsystem; the feed service owns the rest.
type Post struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Body      string     `gorm:"size:2000" json:"body"`
	TrackID   *uuid.UUID `gorm:"type:uuid" json:"track_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Body      string    `gorm:"size:1000" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
