package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soundrift/soundrift-moderation/internal/actor"
	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) SubmitReport(c *fiber.Ctx) error {
	act, err := actor.FromFiber(c)
	if err != nil {
		return respondUnauthorized(c)
	}

	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c)
	}

	report, err := h.reportService.SubmitReport(act, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	status := models.ReportStatus(c.Query("status", ""))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	reports, total, err := h.reportService.ListReports(status, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
