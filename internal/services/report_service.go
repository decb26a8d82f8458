package services

import (
	"encoding/json"
	"errors"
	"fmt"
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
	// ReportRateLimit is the maximum number of reports a single account may
	// file inside the rolling window.
	ReportRateLimit = 10

	// ReportRateWindow is the rolling lookback for the rate limit.
	ReportRateWindow = 24 * time.Hour

	// DuplicateReportWindow is the lookback used to reject repeat reports
	// of the same target by the same reporter.
	DuplicateReportWindow = 24 * time.Hour

	maxDescriptionLength = 1000
)

// ReportService handles report submission and the duplicate, rate-limit,
// self-report and admin-protection checks that guard it.
type ReportService struct {
	reports   repository.Reports
	users     repository.Users
	owners    repository.ContentOwners
	events    repository.SecurityEvents
	sanitizer *Sanitizer
	now       func() time.Time
}

func NewReportService(store *repository.Store) *ReportService {
	return &ReportService{
		reports:   store.Reports,
		users:     store.Users,
		owners:    store.Owners,
		events:    store.Events,
		sanitizer: NewSanitizer(),
		now:       time.Now,
	}
}

// SubmitReport validates and files a new report for the acting user.
// The duplicate check always runs before the rate-limit check, even when
// both would fail.
func (s *ReportService) SubmitReport(act actor.Context, req *dto.SubmitReportRequest) (*models.Report, error) {
	if verr := validateStruct(req); verr != nil {
		return nil, verr
	}

	reportType := models.ReportType(req.ReportType)
	if !reportType.Valid() {
		return nil, moderr.Validation("Invalid report type", map[string]any{
			"report_type": req.ReportType,
		})
	}
	reason := models.ReportReason(req.Reason)
	if !reason.Valid() {
		return nil, moderr.Validation("Invalid report reason", map[string]any{
			"reason": req.Reason,
		})
	}
	targetID, verr := parseUUIDField("target_id", req.TargetID)
	if verr != nil {
		return nil, verr
	}
	if reason == models.ReasonOther && strings.TrimSpace(req.Description) == "" {
		return nil, moderr.Validation("A description is required when the reason is 'other'", map[string]any{
			"reason": req.Reason,
		})
	}
	if len(req.Description) > maxDescriptionLength {
		return nil, moderr.Validation("Description must be 1000 characters or less", map[string]any{
			"length": len(req.Description),
			"limit":  maxDescriptionLength,
		})
	}

	ownerID, err := s.owners.OwnerOf(reportType, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("The reported content could not be found", map[string]any{
				"report_type": req.ReportType,
				"target_id":   req.TargetID,
			})
		}
		return nil, moderr.Database("Failed to resolve report target", err)
	}
	if ownerID == act.ID {
		return nil, moderr.Validation(fmt.Sprintf("You cannot report your own %s.", reportType), map[string]any{
			"report_type": req.ReportType,
			"target_id":   req.TargetID,
		})
	}

	if reportType == models.ReportTypeUser {
		target, err := s.users.ByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, moderr.NotFound("The reported user could not be found", map[string]any{
					"target_id": req.TargetID,
				})
			}
			return nil, moderr.Database("Failed to load reported user", err)
		}
		if target.Role == models.RoleAdmin {
			s.logSecurityEvent(act.ID, models.EventAdminReportAttempt, map[string]any{
				"target_user_id": targetID.String(),
			})
			return nil, moderr.Validation("You cannot report an administrator account.", map[string]any{
				"target_id": req.TargetID,
			})
		}
	}

	now := s.now()

	existing, err := s.reports.RecentByReporterAndTarget(act.ID, reportType, targetID, now.Add(-DuplicateReportWindow))
	if err != nil {
		return nil, moderr.Database("Failed to check for duplicate reports", err)
	}
	if existing != nil {
		s.logSecurityEvent(act.ID, models.EventDuplicateReportAttempt, map[string]any{
			"report_type":          string(reportType),
			"target_id":            targetID.String(),
			"original_report_date": existing.CreatedAt.UTC().Format(time.RFC3339),
		})
		return nil, moderr.Validation(
			fmt.Sprintf("You have already reported this %s recently. Please wait 24 hours before reporting again.", reportType),
			map[string]any{
				"reportType":         string(reportType),
				"targetId":           targetID.String(),
				"originalReportDate": existing.CreatedAt.UTC().Format(time.RFC3339),
			})
	}

	count, err := s.reports.CountByReporterSince(act.ID, now.Add(-ReportRateWindow))
	if err != nil {
		return nil, moderr.Database("Failed to check report rate limit", err)
	}
	if count >= ReportRateLimit {
		s.logSecurityEvent(act.ID, models.EventRateLimitExceeded, map[string]any{
			"report_count": count,
			"limit":        ReportRateLimit,
			"window_hours": 24,
		})
		return nil, moderr.RateLimit(
			fmt.Sprintf("You have exceeded the report limit of %d reports per 24 hours. Please try again later.", ReportRateLimit),
			map[string]any{
				"reportCount": count,
				"limit":       ReportRateLimit,
			})
	}

	report := &models.Report{
		ID:             uuid.New(),
		ReporterID:     act.ID,
		ReportedUserID: &ownerID,
		ReportType:     reportType,
		TargetID:       targetID,
		Reason:         reason,
		Description:    s.sanitizer.Clean(req.Description),
		Status:         models.ReportStatusPending,
		Priority:       reason.Priority(),
		CreatedAt:      now,
	}
	if err := s.reports.Create(report); err != nil {
		return nil, moderr.Database("Failed to create report", err)
	}
	return report, nil
}

func (s *ReportService) GetReport(id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.ByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderr.NotFound("Report not found", map[string]any{"report_id": id.String()})
		}
		return nil, moderr.Database("Failed to load report", err)
	}
	return report, nil
}

func (s *ReportService) ListReports(status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	reports, total, err := s.reports.List(status, limit, offset)
	if err != nil {
		return nil, 0, moderr.Database("Failed to list reports", err)
	}
	return reports, total, nil
}

// logSecurityEvent appends to the audit log. Failures are logged and
// swallowed: the caller's rejection must still reach the reporter.
func (s *ReportService) logSecurityEvent(userID uuid.UUID, eventType models.SecurityEventType, details map[string]any) {
	raw, err := json.Marshal(details)
	if err != nil {
		slog.Error("failed to marshal security event details", "event_type", eventType, "error", err)
		return
	}
	event := &models.SecurityEvent{
		EventType: eventType,
		UserID:    userID,
		Details:   datatypes.JSON(raw),
	}
	if err := s.events.Append(event); err != nil {
		slog.Error("failed to append security event", "event_type", eventType, "error", err)
	}
}
