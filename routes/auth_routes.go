package routes

import (
	"github.com/aurcc/hostel_bonafide/handlers"
	"github.com/aurcc/hostel_bonafide/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", handlers.Login)
	auth.Post("/change-password", middleware.Protected(), handlers.ChangePassword)
	auth.Get("/me", middleware.Protected(), handlers.GetMe)
}
