package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jellup/jellup-backend/internal/dto"
	"github.com/jellup/jellup-backend/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	user, err := h.auth.SignUp(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sign up successful, check your inbox for the verification code",
		"user":    dto.SummarizeUser(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	token, user, err := h.auth.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.AuthResponse{Token: token, User: dto.SummarizeUser(user)})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	user, err := h.auth.VerifyEmail(c.UserContext(), req.Code)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Email " + user.Email + " verified"})
}

func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset mail sent"})
}

func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Code, req.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset successful"})
}
