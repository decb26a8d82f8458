package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundrift/soundrift-moderation/internal/actor"
	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/moderr"
	"github.com/soundrift/soundrift-moderation/internal/repository/memory"
)

type reportFixture struct {
	store    *memory.Store
	svc      *ReportService
	reporter actor.Context
	ownerID  uuid.UUID
	trackID  uuid.UUID
	now      time.Time
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	store := memory.NewStore()
	ownerID := store.AddUser(models.User{Username: "artist", Email: "artist@example.com", Role: models.RoleUser})
	reporterID := store.AddUser(models.User{Username: "listener", Email: "listener@example.com", Role: models.RoleUser})
	trackID := store.AddTrack(models.Track{OwnerID: ownerID, Title: "Night Drive"}, uuid.Nil)

	svc := NewReportService(store.Repositories())
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &reportFixture{
		store:    store,
		svc:      svc,
		reporter: actor.Context{ID: reporterID, Role: models.RoleUser},
		ownerID:  ownerID,
		trackID:  trackID,
		now:      now,
	}
}

func TestSubmitReport_Success(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType:  "track",
		TargetID:    f.trackID.String(),
		Reason:      "spam",
		Description: "repeated upload of the same ad",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.Equal(t, 3, report.Priority)
	assert.Equal(t, f.reporter.ID, report.ReporterID)
	require.NotNil(t, report.ReportedUserID)
	assert.Equal(t, f.ownerID, *report.ReportedUserID)
	assert.Len(t, f.store.ReportRows, 1)
}

func TestSubmitReport_PriorityByReason(t *testing.T) {
	cases := []struct {
		reason   string
		priority int
	}{
		{"harassment", 1},
		{"copyright", 1},
		{"inappropriate_content", 2},
		{"misinformation", 2},
		{"spam", 3},
	}
	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			f := newReportFixture(t)
			report, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
				ReportType: "track",
				TargetID:   f.trackID.String(),
				Reason:     tc.reason,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.priority, report.Priority)
		})
	}
}

func TestSubmitReport_OtherRequiresDescription(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType:  "track",
		TargetID:    f.trackID.String(),
		Reason:      "other",
		Description: "   ",
	})
	require.Error(t, err)
	assert.Equal(t, moderr.CodeValidation, moderr.CodeOf(err))
}

func TestSubmitReport_InvalidTargetID(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   "not-a-uuid",
		Reason:     "spam",
	})
	require.Error(t, err)
	assert.Equal(t, moderr.CodeValidation, moderr.CodeOf(err))
	assert.Equal(t, "Invalid target_id format", err.Error())
}

func TestSubmitReport_SelfReportRejected(t *testing.T) {
	f := newReportFixture(t)
	owner := actor.Context{ID: f.ownerID, Role: models.RoleUser}

	_, err := f.svc.SubmitReport(owner, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   f.trackID.String(),
		Reason:     "spam",
	})
	require.Error(t, err)
	assert.Equal(t, "You cannot report your own track.", err.Error())
}

func TestSubmitReport_AdminTargetRejected(t *testing.T) {
	f := newReportFixture(t)
	adminID := f.store.AddUser(models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin})

	_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "user",
		TargetID:   adminID.String(),
		Reason:     "harassment",
	})
	require.Error(t, err)
	assert.Equal(t, "You cannot report an administrator account.", err.Error())

	require.Len(t, f.store.Events, 1)
	assert.Equal(t, models.EventAdminReportAttempt, f.store.Events[0].EventType)
	assert.Equal(t, f.reporter.ID, f.store.Events[0].UserID)
}

func TestSubmitReport_DuplicateWithin24Hours(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   f.trackID.String(),
		Reason:     "spam",
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   f.trackID.String(),
		Reason:     "harassment",
	})
	require.Error(t, err)
	assert.Equal(t, moderr.CodeValidation, moderr.CodeOf(err))
	assert.Equal(t,
		"You have already reported this track recently. Please wait 24 hours before reporting again.",
		err.Error())

	require.Len(t, f.store.Events, 1)
	assert.Equal(t, models.EventDuplicateReportAttempt, f.store.Events[0].EventType)
}

func TestSubmitReport_RateLimitOnEleventh(t *testing.T) {
	f := newReportFixture(t)

	for i := 0; i < ReportRateLimit; i++ {
		trackID := f.store.AddTrack(models.Track{OwnerID: f.ownerID, Title: fmt.Sprintf("Track %d", i)}, uuid.Nil)
		_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
			ReportType: "track",
			TargetID:   trackID.String(),
			Reason:     "spam",
		})
		require.NoError(t, err)
	}

	extraID := f.store.AddTrack(models.Track{OwnerID: f.ownerID, Title: "One Too Many"}, uuid.Nil)
	_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   extraID.String(),
		Reason:     "spam",
	})
	require.Error(t, err)
	assert.Equal(t, moderr.CodeRateLimit, moderr.CodeOf(err))
	assert.Equal(t,
		"You have exceeded the report limit of 10 reports per 24 hours. Please try again later.",
		err.Error())

	e, ok := moderr.As(err)
	require.True(t, ok)
	assert.Equal(t, int64(10), e.Details["reportCount"])
	assert.Equal(t, ReportRateLimit, e.Details["limit"])

	require.Len(t, f.store.Events, 1)
	assert.Equal(t, models.EventRateLimitExceeded, f.store.Events[0].EventType)
}

// The duplicate check must fire before the rate limit check when both
// would reject.
func TestSubmitReport_DuplicateCheckedBeforeRateLimit(t *testing.T) {
	f := newReportFixture(t)

	for i := 0; i < ReportRateLimit-1; i++ {
		trackID := f.store.AddTrack(models.Track{OwnerID: f.ownerID, Title: fmt.Sprintf("Track %d", i)}, uuid.Nil)
		_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
			ReportType: "track",
			TargetID:   trackID.String(),
			Reason:     "spam",
		})
		require.NoError(t, err)
	}
	_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   f.trackID.String(),
		Reason:     "spam",
	})
	require.NoError(t, err)

	// Eleventh submission, repeating the last target: both checks would
	// reject, the duplicate message must win.
	_, err = f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   f.trackID.String(),
		Reason:     "spam",
	})
	require.Error(t, err)
	assert.Equal(t, moderr.CodeValidation, moderr.CodeOf(err))
	assert.Contains(t, err.Error(), "already reported")
}

func TestSubmitReport_DescriptionSanitized(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType:  "track",
		TargetID:    f.trackID.String(),
		Reason:      "spam",
		Description: `  <script>alert("x")</script><b>stolen</b> song  `,
	})
	require.NoError(t, err)
	assert.Equal(t, "stolen song", report.Description)
}

func TestSubmitReport_TargetNotFound(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
		ReportType: "track",
		TargetID:   uuid.NewString(),
		Reason:     "spam",
	})
	require.Error(t, err)
	assert.Equal(t, moderr.CodeNotFound, moderr.CodeOf(err))
}

func TestListReports_StatusFilterAndPaging(t *testing.T) {
	f := newReportFixture(t)

	for i := 0; i < 3; i++ {
		trackID := f.store.AddTrack(models.Track{OwnerID: f.ownerID, Title: fmt.Sprintf("T%d", i)}, uuid.Nil)
		_, err := f.svc.SubmitReport(f.reporter, &dto.SubmitReportRequest{
			ReportType: "track",
			TargetID:   trackID.String(),
			Reason:     "spam",
		})
		require.NoError(t, err)
	}

	reports, total, err := f.svc.ListReports(models.ReportStatusPending, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reports, 2)

	reports, total, err = f.svc.ListReports(models.ReportStatusResolved, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, reports)
}
