package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

type GormReports struct {
	db *gorm.DB
}

func NewGormReports(db *gorm.DB) *GormReports {
	return &GormReports{db: db}
}

func (r *GormReports) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *GormReports) ByID(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *GormReports) List(status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("priority ASC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *GormReports) RecentByReporterAndTarget(reporterID uuid.UUID, t models.ReportType, targetID uuid.UUID, since time.Time) (*models.Report, error) {
	var report models.Report
	err := r.db.
		Where("reporter_id = ? AND report_type = ? AND target_id = ? AND created_at >= ?",
			reporterID, t, targetID, since).
		Order("created_at DESC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *GormReports) CountByReporterSince(reporterID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).
		Where("reporter_id = ? AND created_at >= ?", reporterID, since).
		Count(&count).Error
	return count, err
}

func (r *GormReports) CountOpenByTarget(t models.ReportType, targetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).
		Where("report_type = ? AND target_id = ? AND status IN ?",
			t, targetID, []models.ReportStatus{models.ReportStatusPending, models.ReportStatusUnderReview}).
		Count(&count).Error
	return count, err
}

func (r *GormReports) CountByReportedUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).
		Where("reported_user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *GormReports) CountByType(t models.ReportType) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).
		Where("report_type = ?", t).
		Count(&count).Error
	return count, err
}

func (r *GormReports) Resolve(id uuid.UUID, status models.ReportStatus, resolution string, resolvedBy uuid.UUID, resolvedAt time.Time) error {
	result := r.db.Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolution":  resolution,
			"resolved_by": resolvedBy,
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
