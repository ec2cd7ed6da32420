package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jellup/jellup-backend/internal/config"
)

// RequestTimeout puts a deadline on the request context so every
// storage and directory call downstream is bounded.
func RequestTimeout(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), cfg.RequestTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
