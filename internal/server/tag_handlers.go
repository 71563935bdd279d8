package server

import (
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListTags handles GET /api/tags. With assigned_only=1 only tags attached to
// at least one of the user's recipes are returned.
func (s *Server) ListTags(c *fiber.Ctx) error {
	assignedOnly := c.QueryInt("assigned_only", 0) == 1

	tags, err := s.tagService.List(c.Context(), currentUserID(c), assignedOnly)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]nameResponse, 0, len(tags))
	for _, t := range tags {
		items = append(items, nameResponse{ID: t.ID, Name: t.Name})
	}
	return c.JSON(items)
}

// CreateTag handles POST /api/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.Create(c.Context(), currentUserID(c), req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(nameResponse{ID: tag.ID, Name: tag.Name})
}

// UpdateTag handles PUT and PATCH /api/tags/:id
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.Rename(c.Context(), currentUserID(c), id, req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(nameResponse{ID: tag.ID, Name: tag.Name})
}

// DeleteTag handles DELETE /api/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.tagService.Delete(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
