package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/dto"
	"github.com/jellup/jellup-backend/internal/models"
	"github.com/jellup/jellup-backend/internal/services"
)

type FriendHandler struct {
	friends *services.FriendService
}

func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

type sendFriendRequest struct {
	To string `json:"to"`
}

func (h *FriendHandler) SendRequest(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	var req sendFriendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	targetID, err := parseID(req.To, "to")
	if err != nil {
		return fail(c, err)
	}

	if err := h.friends.SendRequest(c.UserContext(), who.ID, targetID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request sent"})
}

func (h *FriendHandler) WithdrawRequest(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.friends.WithdrawRequest(c.UserContext(), who.ID, targetID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request withdrawn"})
}

func (h *FriendHandler) AcceptRequest(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	requesterID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	requester, err := h.friends.AcceptRequest(c.UserContext(), who.ID, requesterID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Friend request accepted",
		"new_friend": dto.SummarizeUser(requester),
	})
}

func (h *FriendHandler) DeclineRequest(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	requesterID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.friends.DeclineRequest(c.UserContext(), who.ID, requesterID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request declined"})
}

func (h *FriendHandler) RemoveFriend(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	friendID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.friends.RemoveFriend(c.UserContext(), who.ID, friendID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

func (h *FriendHandler) ListFriends(c *fiber.Ctx) error {
	return h.list(c, h.friends.ListFriends, "friends")
}

func (h *FriendHandler) ListIncoming(c *fiber.Ctx) error {
	return h.list(c, h.friends.ListIncomingRequests, "requests")
}

func (h *FriendHandler) ListSent(c *fiber.Ctx) error {
	return h.list(c, h.friends.ListSentRequests, "requests")
}

func (h *FriendHandler) Repair(c *fiber.Ctx) error {
	ownerID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	report, err := h.friends.Repair(c.UserContext(), ownerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *FriendHandler) list(c *fiber.Ctx, fn func(context.Context, uuid.UUID) ([]models.User, error), key string) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	users, err := fn(c.UserContext(), who.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{key: dto.SummarizeUsers(users)})
}
