package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/woozysocial/woozy-api/internal/service"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

type PostHandler struct {
	s service.PostService
	a service.ApprovalService
}

func NewPostHandler(postService service.PostService, approvalService service.ApprovalService) *PostHandler {
	return &PostHandler{s: postService, a: approvalService}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	result, err := h.s.CreatePost(c.Context(), userID, &pc)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	workspaceID := int64(c.QueryInt("workspace_id", 0))
	postID := int64(c.QueryInt("id", 0))

	if postID != 0 {
		post, err := h.s.PostInfo(c.Context(), workspaceID, userID, postID)
		if err != nil {
			return ErrorResponse(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(post)
	}

	posts, err := h.s.List(c.Context(), workspaceID, userID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	workspaceID := int64(c.QueryInt("workspace_id", 0))
	postID := int64(c.QueryInt("id", 0))

	if err := h.s.Remove(c.Context(), workspaceID, userID, postID); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) RetryPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	workspaceID := int64(c.QueryInt("workspace_id", 0))
	postID := int64(c.QueryInt("id", 0))

	if err := h.s.Retry(c.Context(), workspaceID, userID, postID); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) HandleApproval(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var action transfer.ApprovalAction
	if err := c.BodyParser(&action); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.a.HandleAction(c.Context(), userID, &action); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var cc transfer.CommentCreation
	if err := c.BodyParser(&cc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.AddComment(c.Context(), userID, &cc); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	userID := GetUserID(c)
	workspaceID := int64(c.QueryInt("workspace_id", 0))
	postID := int64(c.QueryInt("id", 0))

	comments, err := h.s.ListComments(c.Context(), workspaceID, userID, postID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}
