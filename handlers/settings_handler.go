package handlers

import (
	"fmt"

	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/gofiber/fiber/v2"
)

type UpdateSettingsRequest struct {
	CooldownPeriod string `json:"cooldown_period" validate:"required"`
}

func GetBonafideSettings(c *fiber.Ctx) error {
	settings, err := services.GetSettings(database.DB)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":               settings.ID,
		"cooldown_period":  settings.CooldownPeriod,
		"cooldown_display": settings.CooldownDisplay(),
		"updated_at":       settings.UpdatedAt,
		"updated_by":       settings.UpdatedByID,
	})
}

func UpdateBonafideSettings(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !models.ValidCooldownPeriod(req.CooldownPeriod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cooldown period"})
	}

	settings, err := services.GetSettings(database.DB)
	if err != nil {
		return respondServiceError(c, err)
	}

	settings.CooldownPeriod = req.CooldownPeriod
	settings.UpdatedByID = &user.ID
	if err := database.DB.Save(settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update settings"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionUpdateBonafideSettings,
		fmt.Sprintf("Updated cooldown period to %s", settings.CooldownDisplay()),
		c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{
		"id":               settings.ID,
		"cooldown_period":  settings.CooldownPeriod,
		"cooldown_display": settings.CooldownDisplay(),
		"updated_at":       settings.UpdatedAt,
		"updated_by":       settings.UpdatedByID,
	})
}

type UpdateAcademicYearRequest struct {
	CurrentYear int `json:"current_year" validate:"required,min=2000,max=2100"`
}

func GetAcademicYear(c *fiber.Ctx) error {
	year, err := services.GetAcademicYear(database.DB)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(year)
}

func UpdateAcademicYear(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateAcademicYearRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	year, err := services.GetAcademicYear(database.DB)
	if err != nil {
		return respondServiceError(c, err)
	}

	year.CurrentYear = req.CurrentYear
	year.UpdatedByID = &user.ID
	if err := database.DB.Save(year).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update academic year"})
	}
	return c.JSON(year)
}
