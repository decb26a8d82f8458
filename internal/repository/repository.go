// Package repository defines per-entity persistence interfaces and their
// GORM implementations. Rule logic in the services layer depends only on
// the interfaces so it can be tested against in-memory fakes.
package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

// ErrActionRevoked is returned by mutation methods when the target action
// has already been reversed. Revoked actions are immutable.
var ErrActionRevoked = errors.New("moderation action is revoked and immutable")

type Reports interface {
	Create(r *models.Report) error
	ByID(id uuid.UUID) (*models.Report, error)
	List(status models.ReportStatus, limit, offset int) ([]models.Report, int64, error)
	// RecentByReporterAndTarget returns the newest report the reporter filed
	// against the given target since the cutoff, or nil when there is none.
	RecentByReporterAndTarget(reporterID uuid.UUID, t models.ReportType, targetID uuid.UUID, since time.Time) (*models.Report, error)
	CountByReporterSince(reporterID uuid.UUID, since time.Time) (int64, error)
	CountOpenByTarget(t models.ReportType, targetID uuid.UUID) (int64, error)
	CountByReportedUser(userID uuid.UUID) (int64, error)
	CountByType(t models.ReportType) (int64, error)
	Resolve(id uuid.UUID, status models.ReportStatus, resolution string, resolvedBy uuid.UUID, resolvedAt time.Time) error
}

type Actions interface {
	Create(a *models.ModerationAction) error
	ByID(id uuid.UUID) (*models.ModerationAction, error)
	// ByTargetUser returns actions against the user ordered by created_at
	// ascending.
	ByTargetUser(userID uuid.UUID) ([]models.ModerationAction, error)
	// RevokedByTargetUser and RevokedByTarget return reversed actions
	// ordered by revoked_at descending.
	RevokedByTargetUser(userID uuid.UUID) ([]models.ModerationAction, error)
	RevokedByTarget(t models.ReportType, targetID uuid.UUID) ([]models.ModerationAction, error)
	All() ([]models.ModerationAction, error)
	// MarkRevoked sets the reversal fields exactly once; a second call
	// fails with ErrActionRevoked.
	MarkRevoked(id uuid.UUID, revokedAt time.Time, revokedBy uuid.UUID, metadata datatypes.JSON) error
	// UpdateFields mutates a live action; it fails with ErrActionRevoked
	// for reversed ones.
	UpdateFields(id uuid.UUID, fields map[string]any) error
	SetNotificationSent(id uuid.UUID) error
}

type Restrictions interface {
	Create(r *models.UserRestriction) error
	DeactivateByAction(actionID uuid.UUID) error
	ActiveByUser(userID uuid.UUID) ([]models.UserRestriction, error)
}

type Albums interface {
	ByID(id uuid.UUID) (*models.Album, error)
	Delete(id uuid.UUID) error
	DeleteJunction(albumID uuid.UUID) error
}

type Tracks interface {
	ByAlbum(albumID uuid.UUID) ([]models.Track, error)
	DeleteMany(ids []uuid.UUID) error
	// CreatedSince returns tracks for trending; a nil cutoff means all time.
	CreatedSince(since *time.Time) ([]models.Track, error)
}

type Users interface {
	ByID(id uuid.UUID) (*models.User, error)
	SetSuspension(id uuid.UUID, until *time.Time, reason string) error
	ClearSuspension(id uuid.UUID) error
}

// ContentOwners resolves the owning account of any reportable target.
type ContentOwners interface {
	OwnerOf(t models.ReportType, targetID uuid.UUID) (uuid.UUID, error)
}

type SecurityEvents interface {
	Append(e *models.SecurityEvent) error
}

type Notifications interface {
	Create(n *models.Notification) error
}

// AggregateCounts is produced by a single raw aggregate query.
type AggregateCounts struct {
	PendingReports     int64 `json:"pending_reports"`
	TotalReports       int64 `json:"total_reports"`
	TotalActions       int64 `json:"total_actions"`
	ActiveRestrictions int64 `json:"active_restrictions"`
}

type Aggregates interface {
	ModerationCounts() (AggregateCounts, error)
}

// Store bundles every repository for wiring in cmd/server.
type Store struct {
	Reports       Reports
	Actions       Actions
	Restrictions  Restrictions
	Albums        Albums
	Tracks        Tracks
	Users         Users
	Owners        ContentOwners
	Events        SecurityEvents
	Notifications Notifications
	Aggregates    Aggregates
}

func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Reports:       NewGormReports(db),
		Actions:       NewGormActions(db),
		Restrictions:  NewGormRestrictions(db),
		Albums:        NewGormAlbums(db),
		Tracks:        NewGormTracks(db),
		Users:         NewGormUsers(db),
		Owners:        NewGormContentOwners(db),
		Events:        NewGormSecurityEvents(db),
		Notifications: NewGormNotifications(db),
		Aggregates:    NewGormAggregates(db),
	}
}
