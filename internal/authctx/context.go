package authctx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/models"
)

// Caller is the authenticated identity behind a request. It is passed
// explicitly into every service operation; nothing reads it ambiently.
type Caller struct {
	ID   uuid.UUID
	Role string
}

func (c Caller) Admin() bool {
	return c.Role == models.RoleAdmin
}

// FromFiber extracts the caller from the JWT the auth middleware parsed
// into locals.
func FromFiber(c *fiber.Ctx) (Caller, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Caller{}, apperr.Unauthorized("missing authentication token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, apperr.Unauthorized("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Caller{}, apperr.Unauthorized("missing sub claim")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Caller{}, apperr.Unauthorized("malformed subject identifier")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleUser
	}

	return Caller{ID: id, Role: role}, nil
}
