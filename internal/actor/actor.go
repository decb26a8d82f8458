// Package actor resolves the authenticated caller from the request
// context. Every service operation takes an explicit actor.Context rather
// than reading ambient session state.
package actor

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

type Context struct {
	ID   uuid.UUID
	Role models.Role
}

// IsModerator reports whether the actor holds moderator privileges.
// Admins are moderators too.
func (a Context) IsModerator() bool {
	return a.Role == models.RoleModerator || a.Role == models.RoleAdmin
}

func (a Context) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// FromFiber extracts the actor from the JWT the auth middleware stored in
// context locals. Tokens are issued by the platform identity provider; this
// service trusts the sub and role claims after signature verification.
func FromFiber(c *fiber.Ctx) (Context, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Context{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Context{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Context{}, errors.New("missing sub claim")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Context{}, err
	}

	role := models.RoleUser
	if r, ok := claims["role"].(string); ok && models.Role(r).Valid() {
		role = models.Role(r)
	}

	return Context{ID: id, Role: role}, nil
}
