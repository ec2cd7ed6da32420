package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jellup/jellup-backend/internal/config"
)

func TestRequestTimeout(t *testing.T) {
	cfg := &config.Config{RequestTimeout: 250 * time.Millisecond}

	app := fiber.New()
	app.Use(RequestTimeout(cfg))

	var deadline time.Time
	var hasDeadline bool
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	if !hasDeadline {
		t.Fatal("request context carries no deadline")
	}
	if remaining := time.Until(deadline); remaining > cfg.RequestTimeout {
		t.Fatalf("deadline %v out, beyond the configured %v", remaining, cfg.RequestTimeout)
	}
}
