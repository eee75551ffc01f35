package handlers

import (
	"time"

	config "github.com/aurcc/hostel_bonafide/configs"
	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/logging"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logging.L().Warnw("Failed login attempt", "username", req.Username)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	claims := jwt.MapClaims{
		"user_id":      user.ID.String(),
		"role":         user.Role,
		"is_superuser": user.IsSuperuser,
		"exp":          time.Now().Add(time.Hour * 72).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionLogin,
		"User logged in", c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{
		"token":                t,
		"role":                 user.Role,
		"must_change_password": user.MustChangePassword,
	})
}

func ChangePassword(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Current password is incorrect"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash new password"})
	}

	user.Password = string(hashedPassword)
	user.MustChangePassword = false
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update password"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionPasswordChange,
		"Password changed", c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{"message": "Password has been changed successfully."})
}

// GetMe returns the authenticated user plus the role-specific profile.
func GetMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	response := fiber.Map{"user": user}

	switch user.Role {
	case models.RoleStudent:
		var student models.Student
		if err := database.DB.Preload("Department").Preload("Hostel").
			First(&student, "user_id = ?", user.ID).Error; err == nil {
			response["student_profile"] = student
		}
	case models.RoleWarden:
		var warden models.Warden
		if err := database.DB.Preload("Hostel").
			First(&warden, "user_id = ?", user.ID).Error; err == nil {
			response["warden_profile"] = warden
		}
	case models.RoleDean:
		var dean models.DeanProfile
		if err := database.DB.First(&dean, "user_id = ?", user.ID).Error; err == nil {
			response["dean_profile"] = dean
		}
	}

	return c.JSON(response)
}
