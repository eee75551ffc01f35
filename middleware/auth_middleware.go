package middleware

import (
	config "github.com/aurcc/hostel_bonafide/configs"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func claimsFromContext(c *fiber.Ctx) jwt.MapClaims {
	token := c.Locals("user").(*jwt.Token)
	return token.Claims.(jwt.MapClaims)
}

func StudentRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFromContext(c)
		if claims["role"].(string) != models.RoleStudent {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Student access required",
			})
		}
		return c.Next()
	}
}

func WardenRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFromContext(c)
		if claims["role"].(string) != models.RoleWarden {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Warden access required",
			})
		}
		return c.Next()
	}
}

// DeanRequired admits deans and superusers.
func DeanRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFromContext(c)
		role := claims["role"].(string)
		isSuperuser, _ := claims["is_superuser"].(bool)
		if role != models.RoleDean && !isSuperuser {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Dean access required",
			})
		}
		return c.Next()
	}
}
