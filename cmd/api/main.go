package main

import (
	"time"

	config "github.com/aurcc/hostel_bonafide/configs"
	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/handlers"
	"github.com/aurcc/hostel_bonafide/jobs"
	"github.com/aurcc/hostel_bonafide/logging"
	"github.com/aurcc/hostel_bonafide/notifications"
	"github.com/aurcc/hostel_bonafide/routes"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := logging.Init(config.Config("APP_ENV")); err != nil {
		panic(err)
	}

	database.ConnectDB()
	database.Migrate()
	database.SeedDean()
	notifications.InitEmailService()

	// Configuration singletons are created on first access; doing it here
	// surfaces a broken database before the server accepts traffic.
	if _, err := services.GetSettings(database.DB); err != nil {
		logging.L().Fatalf("Failed to initialize bonafide settings: %v", err)
	}
	if _, err := services.GetAcademicYear(database.DB); err != nil {
		logging.L().Fatalf("Failed to initialize academic year: %v", err)
	}

	handlers.SetCertificateRenderer(services.NewChromeRenderer())

	c := cron.New()
	c.AddFunc("0 8 * * *", jobs.RemindWardensOfPendingRequests)
	go c.Start()

	app := fiber.New(fiber.Config{
		AppName:       "Hostel Bonafide",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			logging.L().Errorw("Unhandled request error",
				"error", err, "path", c.Path(), "method", c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.PublicRoutes(app)
	routes.AuthRoutes(app)
	routes.BonafideRoutes(app)
	routes.AdminRoutes(app)
	routes.UploadRoutes(app)

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	logging.L().Infow("Server starting", "port", port)
	if err := app.Listen(":" + port); err != nil {
		logging.L().Fatalf("Server failed to start: %v", err)
	}
}
