package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

type GormRestrictions struct {
	db *gorm.DB
}

func NewGormRestrictions(db *gorm.DB) *GormRestrictions {
	return &GormRestrictions{db: db}
}

func (r *GormRestrictions) Create(restriction *models.UserRestriction) error {
	return r.db.Create(restriction).Error
}

// DeactivateByAction flips is_active off for every restriction linked to
// the action. Restriction rows are never deleted.
func (r *GormRestrictions) DeactivateByAction(actionID uuid.UUID) error {
	return r.db.Model(&models.UserRestriction{}).
		Where("related_action_id = ?", actionID).
		Update("is_active", false).Error
}

func (r *GormRestrictions) ActiveByUser(userID uuid.UUID) ([]models.UserRestriction, error) {
	var restrictions []models.UserRestriction
	err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&restrictions).Error
	return restrictions, err
}

type GormSecurityEvents struct {
	db *gorm.DB
}

func NewGormSecurityEvents(db *gorm.DB) *GormSecurityEvents {
	return &GormSecurityEvents{db: db}
}

func (r *GormSecurityEvents) Append(e *models.SecurityEvent) error {
	return r.db.Create(e).Error
}

type GormNotifications struct {
	db *gorm.DB
}

func NewGormNotifications(db *gorm.DB) *GormNotifications {
	return &GormNotifications{db: db}
}

func (r *GormNotifications) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

type GormAggregates struct {
	db *gorm.DB
}

func NewGormAggregates(db *gorm.DB) *GormAggregates {
	return &GormAggregates{db: db}
}

// ModerationCounts runs one raw aggregate over the moderation tables for
// the health endpoint.
func (r *GormAggregates) ModerationCounts() (AggregateCounts, error) {
	var counts AggregateCounts
	err := r.db.Raw(`
		SELECT
			(SELECT COUNT(*) FROM moderation_reports WHERE status = 'pending') AS pending_reports,
			(SELECT COUNT(*) FROM moderation_reports) AS total_reports,
			(SELECT COUNT(*) FROM moderation_actions) AS total_actions,
			(SELECT COUNT(*) FROM user_restrictions WHERE is_active) AS active_restrictions
	`).Scan(&counts).Error
	return counts, err
}
