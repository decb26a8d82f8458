// Package handlers adapts the HTTP layer to the services. Handlers only
// parse requests, resolve the actor and translate service errors; all rule
// logic lives in the services package.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/moderr"
)

// respondError maps the error taxonomy onto HTTP status codes. Unknown
// errors are treated as database failures and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	e, ok := moderr.As(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    string(moderr.CodeDatabase),
			Message: "Internal server error",
		})
	}

	status := fiber.StatusInternalServerError
	switch e.Code {
	case moderr.CodeValidation:
		status = fiber.StatusBadRequest
	case moderr.CodeRateLimit:
		status = fiber.StatusTooManyRequests
	case moderr.CodeUnauthorized:
		status = fiber.StatusForbidden
	case moderr.CodeNotFound:
		status = fiber.StatusNotFound
	}

	resp := dto.ErrorResponse{
		Error:   true,
		Code:    string(e.Code),
		Message: e.Message,
		Details: e.Details,
	}
	if e.Code == moderr.CodeDatabase {
		resp.Message = "Internal server error"
		resp.Details = nil
	}
	return c.Status(status).JSON(resp)
}

func respondUnauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func respondBadBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    string(moderr.CodeValidation),
		Message: "Invalid request body",
	})
}
