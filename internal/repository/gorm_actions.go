package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

type GormActions struct {
	db *gorm.DB
}

func NewGormActions(db *gorm.DB) *GormActions {
	return &GormActions{db: db}
}

func (r *GormActions) Create(a *models.ModerationAction) error {
	return r.db.Create(a).Error
}

func (r *GormActions) ByID(id uuid.UUID) (*models.ModerationAction, error) {
	var action models.ModerationAction
	if err := r.db.First(&action, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *GormActions) ByTargetUser(userID uuid.UUID) ([]models.ModerationAction, error) {
	var actions []models.ModerationAction
	err := r.db.
		Where("target_user_id = ?", userID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

func (r *GormActions) RevokedByTargetUser(userID uuid.UUID) ([]models.ModerationAction, error) {
	var actions []models.ModerationAction
	err := r.db.
		Where("target_user_id = ? AND revoked_at IS NOT NULL", userID).
		Order("revoked_at DESC").
		Find(&actions).Error
	return actions, err
}

func (r *GormActions) RevokedByTarget(t models.ReportType, targetID uuid.UUID) ([]models.ModerationAction, error) {
	var actions []models.ModerationAction
	err := r.db.
		Where("target_type = ? AND target_id = ? AND revoked_at IS NOT NULL", t, targetID).
		Order("revoked_at DESC").
		Find(&actions).Error
	return actions, err
}

func (r *GormActions) All() ([]models.ModerationAction, error) {
	var actions []models.ModerationAction
	err := r.db.Order("created_at ASC").Find(&actions).Error
	return actions, err
}

// MarkRevoked writes the reversal fields. The revoked_at IS NULL guard
// makes the write first-wins: a reversed action can never be re-reversed.
func (r *GormActions) MarkRevoked(id uuid.UUID, revokedAt time.Time, revokedBy uuid.UUID, metadata datatypes.JSON) error {
	result := r.db.Model(&models.ModerationAction{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]interface{}{
			"revoked_at": revokedAt,
			"revoked_by": revokedBy,
			"metadata":   metadata,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActionRevoked
	}
	return nil
}

func (r *GormActions) UpdateFields(id uuid.UUID, fields map[string]any) error {
	result := r.db.Model(&models.ModerationAction{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActionRevoked
	}
	return nil
}

func (r *GormActions) SetNotificationSent(id uuid.UUID) error {
	result := r.db.Model(&models.ModerationAction{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("notification_sent", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActionRevoked
	}
	return nil
}
