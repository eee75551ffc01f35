package routes

import (
	"github.com/aurcc/hostel_bonafide/handlers"
	"github.com/aurcc/hostel_bonafide/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.DeanRequired())

	students := admin.Group("/students")
	students.Get("", handlers.ListStudents)
	students.Post("", handlers.CreateStudent)
	students.Post("/bulk-import", handlers.BulkImportStudents)
	students.Get("/:studentId", handlers.GetStudent)
	students.Put("/:studentId", handlers.UpdateStudent)
	students.Delete("/:studentId", handlers.DeleteStudent)

	hostels := admin.Group("/hostels")
	hostels.Get("", handlers.ListHostels)
	hostels.Post("", handlers.CreateHostel)
	hostels.Put("/:hostelId", handlers.UpdateHostel)
	hostels.Get("/:hostelId/bank-accounts", handlers.ListBankAccounts)
	hostels.Put("/:hostelId/bank-accounts", handlers.UpsertBankAccount)

	wardens := admin.Group("/wardens")
	wardens.Get("", handlers.ListWardens)
	wardens.Post("", handlers.CreateWarden)

	departments := admin.Group("/departments")
	departments.Get("", handlers.ListDepartments)
	departments.Post("", handlers.CreateDepartment)

	admin.Get("/academic-year", handlers.GetAcademicYear)
	admin.Put("/academic-year", handlers.UpdateAcademicYear)

	admin.Get("/audit/logs", handlers.ListAuditLogs)
}
