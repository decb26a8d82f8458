package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/soundrift/soundrift-moderation/internal/actor"
	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/services"
)

// ModerationHandler serves the admin moderation panel: taking actions,
// reversing them and inspecting a user's history.
type ModerationHandler struct {
	actionService   *services.ActionService
	reversalService *services.ReversalService
	reportService   *services.ReportService
	profileService  *services.ProfileService
}

func NewModerationHandler(
	actionService *services.ActionService,
	reversalService *services.ReversalService,
	reportService *services.ReportService,
	profileService *services.ProfileService,
) *ModerationHandler {
	return &ModerationHandler{
		actionService:   actionService,
		reversalService: reversalService,
		reportService:   reportService,
		profileService:  profileService,
	}
}

func (h *ModerationHandler) TakeAction(c *fiber.Ctx) error {
	act, err := actor.FromFiber(c)
	if err != nil {
		return respondUnauthorized(c)
	}

	var req dto.TakeActionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c)
	}

	action, err := h.actionService.TakeAction(act, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(action)
}

func (h *ModerationHandler) ReverseAction(c *fiber.Ctx) error {
	act, err := actor.FromFiber(c)
	if err != nil {
		return respondUnauthorized(c)
	}

	actionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid action ID",
		})
	}

	var req dto.ReverseActionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c)
	}

	action, err := h.reversalService.ReverseAction(act, actionID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(action)
}

func (h *ModerationHandler) UpdateVerificationNotes(c *fiber.Ctx) error {
	act, err := actor.FromFiber(c)
	if err != nil {
		return respondUnauthorized(c)
	}

	actionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid action ID",
		})
	}

	var req dto.UpdateVerificationNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c)
	}

	action, err := h.actionService.UpdateVerificationNotes(act, actionID, req.VerificationNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(action)
}

func (h *ModerationHandler) UserHistory(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}
	includeRevoked, _ := strconv.ParseBool(c.Query("include_revoked", "true"))

	entries, err := h.reversalService.GetUserModerationHistory(userID, includeRevoked)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user_id": userID,
		"history": entries,
		"total":   len(entries),
	})
}

func (h *ModerationHandler) ReportReversals(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	report, err := h.reportService.GetReport(reportID)
	if err != nil {
		return respondError(c, err)
	}
	history, err := h.reversalService.CheckPreviousReversals(report)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}

func (h *ModerationHandler) AlbumContext(c *fiber.Ctx) error {
	albumID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid album ID",
		})
	}

	ctx, err := h.profileService.FetchAlbumContext(albumID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ctx)
}

func (h *ModerationHandler) UserProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	profile, err := h.profileService.GetUserProfileContext(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
