package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soundrift/soundrift-moderation/internal/services"
)

type MetricsHandler struct {
	metricsService *services.MetricsService
}

func NewMetricsHandler(metricsService *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	metrics, err := h.metricsService.GetMetrics()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(metrics)
}

// AnalyticsHandler serves the public trending chart.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Trending(c *fiber.Ctx) error {
	windowDays, _ := strconv.Atoi(c.Query("window_days", "7"))

	entries, err := h.analyticsService.Trending(windowDays)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"window_days": windowDays,
		"tracks":      entries,
	})
}
