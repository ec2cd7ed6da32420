package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jellup/jellup-backend/internal/authctx"
	"github.com/jellup/jellup-backend/internal/config"
	"github.com/jellup/jellup-backend/internal/dto"
	"github.com/jellup/jellup-backend/internal/models"
	"gorm.io/gorm"
)

// AdminRequired admits a request when any of these holds:
// 1. the X-Admin-Token header matches the configured token
// 2. the JWT role claim is admin and the DB agrees
// 3. the account's email is on the configured admin list
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		caller, err := authctx.FromFiber(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", caller.ID).Error; err == nil {
			if user.Role == models.RoleAdmin || containsFold(adminEmails, user.Email) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsFold(list []string, val string) bool {
	for _, item := range list {
		if strings.EqualFold(item, val) {
			return true
		}
	}
	return false
}
