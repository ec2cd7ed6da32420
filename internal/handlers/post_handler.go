package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jellup/jellup-backend/internal/dto"
	"github.com/jellup/jellup-backend/internal/services"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	post, err := h.posts.CreatePost(c.UserContext(), who.ID, req.MediaURL, req.Caption, req.Visibility)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	post, err := h.posts.GetPost(c.UserContext(), who, postID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	post, err := h.posts.UpdatePost(c.UserContext(), who, postID, services.UpdatePostInput{
		MediaURL:   req.MediaURL,
		Caption:    req.Caption,
		Visibility: req.Visibility,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.posts.DeletePost(c.UserContext(), who, postID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	added, count, err := h.posts.ToggleLike(c.UserContext(), who, postID)
	if err != nil {
		return fail(c, err)
	}

	status := "removed"
	if added {
		status = "added"
	}
	return c.JSON(dto.LikeResponse{Status: status, LikeCount: count})
}

func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	comment, err := h.posts.AddComment(c.UserContext(), who, postID, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *PostHandler) UpdateComment(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return fail(c, err)
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	post, err := h.posts.UpdateComment(c.UserContext(), who, postID, commentID, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment updated", "comments": post.Comments})
}

func (h *PostHandler) RemoveComment(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return fail(c, err)
	}

	post, err := h.posts.RemoveComment(c.UserContext(), who, postID, commentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment removed", "comments": post.Comments})
}

// --- admin moderation ---

func (h *PostHandler) Disable(c *fiber.Ctx) error {
	return h.setDisabled(c, true)
}

func (h *PostHandler) Enable(c *fiber.Ctx) error {
	return h.setDisabled(c, false)
}

func (h *PostHandler) setDisabled(c *fiber.Ctx, disabled bool) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	post, err := h.posts.SetDisabled(c.UserContext(), postID, disabled)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}
