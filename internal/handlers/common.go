package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/authctx"
	"github.com/jellup/jellup-backend/internal/dto"
)

// fail maps a service error onto the response. Messages of expected
// business errors go to the client; storage faults are logged and
// masked.
func fail(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if !apperr.Public(err) {
		slog.Error("unhandled service error",
			"method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func caller(c *fiber.Ctx) (authctx.Caller, error) {
	return authctx.FromFiber(c)
}

func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseID(c.Params(name), name)
}

func parseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidRequest("invalid %s", name)
	}
	return id, nil
}
