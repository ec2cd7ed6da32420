package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jellup/jellup-backend/internal/dto"
	"github.com/jellup/jellup-backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	user, err := h.users.Get(c.UserContext(), who.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	user, err := h.users.Update(c.UserContext(), who.ID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SummarizeUser(user))
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	users, err := h.users.List(c.UserContext(), who.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SummarizeUsers(users))
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SummarizeUser(user))
}

func (h *UserHandler) UsernameAvailable(c *fiber.Ctx) error {
	available, err := h.users.UsernameAvailable(c.UserContext(), c.Params("username"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"available": available})
}

// --- admin ---

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	user, err := h.users.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User " + user.Email + " deleted"})
}

func (h *UserHandler) Disable(c *fiber.Ctx) error {
	return h.setDisabled(c, true)
}

func (h *UserHandler) Enable(c *fiber.Ctx) error {
	return h.setDisabled(c, false)
}

func (h *UserHandler) setDisabled(c *fiber.Ctx, disabled bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	user, err := h.users.SetDisabled(c.UserContext(), id, disabled)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}
