package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jellup/jellup-backend/internal/services"
)

type FeedHandler struct {
	feed *services.FeedService
}

func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

func (h *FeedHandler) Feed(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	posts, err := h.feed.ListFeed(c.UserContext(), who)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *FeedHandler) Trending(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	posts, err := h.feed.Trending(c.UserContext(), who)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *FeedHandler) UserPosts(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	posts, err := h.feed.ListUserPosts(c.UserContext(), who, targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
