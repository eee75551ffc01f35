package handlers

import (
	"errors"

	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var validate = validator.New()

// currentUser loads the authenticated user for the request. The role is
// read from the database rather than trusted from the token.
func currentUser(c *fiber.Ctx) (models.User, error) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Message})
	}

	var authzErr *services.AuthorizationError
	if errors.As(err, &authzErr) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": authzErr.Message})
	}

	var stateErr *services.StateConflictError
	if errors.As(err, &stateErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": stateErr.Message})
	}

	var cooldownErr *services.CooldownError
	if errors.As(err, &cooldownErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":              cooldownErr.Message,
			"cooldown":           true,
			"days_remaining":     cooldownErr.DaysRemaining,
			"can_reapply_date":   cooldownErr.CanReapplyDate,
			"last_approved_date": cooldownErr.LastApprovedDate,
		})
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Error()})
	}

	var renderErr *services.RenderingError
	if errors.As(err, &renderErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate certificate document. Please try again.",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
