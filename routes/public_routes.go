package routes

import (
	"github.com/aurcc/hostel_bonafide/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	// Certificate verification is the QR-code landing endpoint and stays
	// unauthenticated.
	app.Get("/verify/:code", handlers.VerifyBonafide)
}
