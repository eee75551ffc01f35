package routes

import (
	"github.com/aurcc/hostel_bonafide/handlers"
	"github.com/aurcc/hostel_bonafide/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected(), middleware.StudentRequired())
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
