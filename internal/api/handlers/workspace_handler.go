package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/woozysocial/woozy-api/internal/service"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

type WorkspaceHandler struct {
	s service.WorkspaceService
}

func NewWorkspaceHandler(service service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{s: service}
}

func (h *WorkspaceHandler) CreateWorkspace(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var wc transfer.WorkspaceCreation
	if err := c.BodyParser(&wc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	workspaceID, err := h.s.Create(c.Context(), userID, &wc)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"workspace_id": workspaceID})
}

func (h *WorkspaceHandler) ListWorkspaces(c *fiber.Ctx) error {
	userID := GetUserID(c)

	workspaces, err := h.s.ListForUser(c.Context(), userID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(workspaces)
}

func (h *WorkspaceHandler) ListMembers(c *fiber.Ctx) error {
	userID := GetUserID(c)
	workspaceID := int64(c.QueryInt("workspace_id", 0))

	members, err := h.s.ListMembers(c.Context(), workspaceID, userID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(members)
}

func (h *WorkspaceHandler) AddMember(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var ma transfer.MemberAddition
	if err := c.BodyParser(&ma); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.AddMember(c.Context(), userID, &ma); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *WorkspaceHandler) ChangeMember(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var mc transfer.MemberRoleChange
	if err := c.BodyParser(&mc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.ChangeMember(c.Context(), userID, &mc); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *WorkspaceHandler) RemoveMember(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var mr transfer.MemberRemoval
	if err := c.BodyParser(&mr); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.RemoveMember(c.Context(), userID, &mr); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
