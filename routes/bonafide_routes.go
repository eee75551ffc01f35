package routes

import (
	"github.com/aurcc/hostel_bonafide/handlers"
	"github.com/aurcc/hostel_bonafide/middleware"
	"github.com/gofiber/fiber/v2"
)

func BonafideRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	bonafide := api.Group("/bonafide", middleware.Protected())

	bonafide.Post("/request", middleware.StudentRequired(), handlers.CreateBonafideRequest)
	bonafide.Get("/requests/my", middleware.StudentRequired(), handlers.GetMyRequests)

	bonafide.Get("/requests/warden/pending", middleware.WardenRequired(), handlers.WardenPendingRequests)
	bonafide.Post("/review/warden/:requestId", middleware.WardenRequired(), handlers.WardenReviewRequest)

	bonafide.Get("/requests/dean/pending", middleware.DeanRequired(), handlers.DeanPendingRequests)
	bonafide.Post("/review/dean/:requestId", middleware.DeanRequired(), handlers.DeanReviewRequest)

	bonafide.Get("/requests", handlers.AllBonafideRequests)
	bonafide.Get("/download/:requestId", handlers.DownloadCertificate)

	bonafide.Get("/settings", handlers.GetBonafideSettings)
	bonafide.Put("/settings", middleware.DeanRequired(), handlers.UpdateBonafideSettings)
}
