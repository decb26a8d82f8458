package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/moderr"
	"github.com/soundrift/soundrift-moderation/internal/repository/memory"
	"github.com/soundrift/soundrift-moderation/internal/services"
)

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", moderr.Validation("bad input", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"rate limit", moderr.RateLimit("slow down", nil), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"unauthorized", moderr.Unauthorized("no", nil), http.StatusForbidden, "UNAUTHORIZED"},
		{"not found", moderr.NotFound("missing", nil), http.StatusNotFound, "NOT_FOUND"},
		{"database", moderr.Database("boom", errors.New("pq down")), http.StatusInternalServerError, "DATABASE_ERROR"},
		{"unknown", errors.New("anything"), http.StatusInternalServerError, "DATABASE_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/boom", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.True(t, body.Error)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

// Database failures must never leak internals to the client.
func TestRespondError_HidesDatabaseDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, moderr.Database("Failed to load report", errors.New("dial tcp: refused")))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Message)
	assert.Nil(t, body.Details)
}

func TestAnalyticsHandler_Trending(t *testing.T) {
	store := memory.NewStore()
	now := time.Now()
	store.AddTrack(models.Track{OwnerID: uuid.New(), Title: "Hit", PlayCount: 1000, LikeCount: 500, CreatedAt: now}, uuid.Nil)
	store.AddTrack(models.Track{OwnerID: uuid.New(), Title: "Quiet", PlayCount: 10, LikeCount: 1, CreatedAt: now}, uuid.Nil)

	handler := NewAnalyticsHandler(services.NewAnalyticsService(store.Repositories(), time.Minute))
	app := fiber.New()
	app.Get("/api/trending", handler.Trending)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/trending?window_days=7", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		WindowDays int                 `json:"window_days"`
		Tracks     []dto.TrendingEntry `json:"tracks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7, body.WindowDays)
	require.Len(t, body.Tracks, 2)
	assert.Equal(t, "Hit", body.Tracks[0].Title)
	assert.Equal(t, 850.0, body.Tracks[0].Score)
}

func TestMetricsHandler_GetMetrics(t *testing.T) {
	store := memory.NewStore()
	handler := NewMetricsHandler(services.NewMetricsService(store.Repositories(), time.Minute))
	app := fiber.New()
	app.Get("/api/admin/moderation/metrics", handler.GetMetrics)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/moderation/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ModerationMetrics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Zero(t, body.Reversals.TotalActions)
	assert.Zero(t, body.AlbumVsTrackPercentage)
}
