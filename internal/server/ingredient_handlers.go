package server

import (
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListIngredients handles GET /api/ingredients. With assigned_only=1 only
// ingredients attached to at least one of the user's recipes are returned.
func (s *Server) ListIngredients(c *fiber.Ctx) error {
	assignedOnly := c.QueryInt("assigned_only", 0) == 1

	ingredients, err := s.ingredientService.List(c.Context(), currentUserID(c), assignedOnly)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]nameResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		items = append(items, nameResponse{ID: ing.ID, Name: ing.Name})
	}
	return c.JSON(items)
}

// CreateIngredient handles POST /api/ingredients
func (s *Server) CreateIngredient(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ing, err := s.ingredientService.Create(c.Context(), currentUserID(c), req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(nameResponse{ID: ing.ID, Name: ing.Name})
}

// UpdateIngredient handles PUT and PATCH /api/ingredients/:id
func (s *Server) UpdateIngredient(c *fiber.Ctx) error {
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

	ing, err := s.ingredientService.Rename(c.Context(), currentUserID(c), id, req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(nameResponse{ID: ing.ID, Name: ing.Name})
}

// DeleteIngredient handles DELETE /api/ingredients/:id
func (s *Server) DeleteIngredient(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.ingredientService.Delete(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
