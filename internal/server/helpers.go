package server

import (
	"errors"
	"strconv"
	"strings"

	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError translates an application error into an HTTP status code.
// NOT_FOUND covers both absent rows and rows owned by someone else; the two
// must stay indistinguishable on the wire.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "NOT_FOUND":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, mapServiceError(err), err)
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// parseIDParam extracts the :id route parameter as a positive uint.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid ID")
	}
	return uint(id), nil
}

// parseIDList parses a comma-separated query value like "1,5,2" into IDs.
func parseIDList(value string) ([]uint, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || id == 0 {
			return nil, models.NewValidationError("Invalid ID list")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
