package handlers

import (
	"hr_records/middleware"
	"hr_records/models"
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	svc *services.Services
}

func New(svc *services.Services) *Handler {
	return &Handler{svc: svc}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(h.svc.Auth)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Authentication is attached per resource so unknown paths still 404.
	auth := app.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", requireAuth, h.Me)

	employees := app.Group("/employees", requireAuth)
	employees.Get("", h.GetAllEmployees)
	employees.Post("", adminOnly, h.AddEmployee)
	employees.Get("/:id", h.GetEmployee)
	employees.Put("/:id", adminOnly, h.UpdateEmployee)
	employees.Delete("/:id", adminOnly, h.DeleteEmployee)

	departments := app.Group("/departments", requireAuth)
	departments.Get("", h.GetDepartments)
	departments.Post("", adminOnly, h.AddDepartment)
	departments.Put("/:id", adminOnly, h.UpdateDepartment)
	departments.Delete("/:id", adminOnly, h.DeleteDepartment)

	contracts := app.Group("/contracts", requireAuth)
	contracts.Get("", h.GetContracts)
	contracts.Post("", adminOnly, h.AddContract)
	contracts.Put("/:id", adminOnly, h.UpdateContract)
	contracts.Delete("/:id", adminOnly, h.DeleteContract)

	educations := app.Group("/educations", requireAuth)
	educations.Get("", h.GetEducations)
	educations.Post("", adminOnly, h.AddEducation)
	educations.Put("/:id", adminOnly, h.UpdateEducation)
	educations.Delete("/:id", adminOnly, h.DeleteEducation)

	certifications := app.Group("/certifications", requireAuth)
	certifications.Get("", h.GetCertifications)
	certifications.Post("", adminOnly, h.AddCertification)
	certifications.Put("/:id", adminOnly, h.UpdateCertification)
	certifications.Delete("/:id", adminOnly, h.DeleteCertification)

	leaves := app.Group("/leaves", requireAuth)
	leaves.Get("", h.GetLeaves)
	leaves.Post("", h.SubmitLeave)
	leaves.Get("/calendar.ics", h.ExportLeaveCalendar)
	leaves.Get("/:id", h.GetLeave)
	leaves.Post("/:id/approve", h.ApproveLeave)
	leaves.Post("/:id/reject", h.RejectLeave)

	attendances := app.Group("/attendances", requireAuth)
	attendances.Get("", h.GetAttendances)
	attendances.Post("", adminOnly, h.RecordAttendance)
	attendances.Post("/check-in", h.CheckIn)
	attendances.Post("/check-out", h.CheckOut)
	attendances.Get("/export.xlsx", h.ExportAttendance)
	attendances.Put("/:id", adminOnly, h.UpdateAttendance)
	attendances.Delete("/:id", adminOnly, h.DeleteAttendance)

	users := app.Group("/users", requireAuth)
	users.Get("", h.GetUsers)
	users.Post("", adminOnly, h.CreateUser)
	users.Post("/:id/deactivate", adminOnly, h.DeactivateUser)

	app.Get("/dashboard", requireAuth, h.GetDashboard)

	// Pages are opened by a browser, so they also accept the session cookie.
	ui := app.Group("/ui", middleware.RequireSession(h.svc.Auth))
	ui.Get("/dashboard", h.DashboardPage)
}
