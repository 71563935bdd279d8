package server

import (
	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterUser handles POST /api/users
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.RegistrationsTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(user)
}

// CreateToken handles POST /api/token
func (s *Server) CreateToken(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pair, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		observability.AuthAttempts.WithLabelValues("failure").Inc()
		return respondServiceError(c, err)
	}

	observability.AuthAttempts.WithLabelValues("success").Inc()
	return c.JSON(pair)
}

// RefreshToken handles POST /api/token/refresh
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Refresh token is required"))
	}

	access, err := s.authService.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"access": access})
}

// RevokeToken handles POST /api/token/revoke
func (s *Server) RevokeToken(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Refresh token is required"))
	}

	if err := s.authService.Revoke(c.Context(), req.Refresh); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
