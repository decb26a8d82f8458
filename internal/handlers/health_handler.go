package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soundrift/soundrift-moderation/internal/database"
	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/repository"
)

type HealthHandler struct {
	store *repository.Store
}

func NewHealthHandler(store *repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	counts, err := h.store.Aggregates.ModerationCounts()
	if err != nil {
		counts = repository.AggregateCounts{}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Counts:    counts,
	})
}
