package handlers

import (
	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/gofiber/fiber/v2"
)

// VerifyBonafide is the public certificate-authenticity check behind the QR
// code. Unknown codes return {valid:false} with 200; the endpoint never
// reveals whether a code almost matched.
func VerifyBonafide(c *fiber.Ctx) error {
	result, err := services.VerifyCertificate(database.DB, c.Params("code"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(result)
}
