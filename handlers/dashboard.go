package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetDashboard returns the counters for the caller's role.
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.svc.Dashboard.Stats(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, err)
	}
	return success(c, stats)
}

// DashboardPage renders the same counters as HTML.
func (h *Handler) DashboardPage(c *fiber.Ctx) error {
	id := identity(c)
	stats, err := h.svc.Dashboard.Stats(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.Render("dashboard", fiber.Map{
		"Title":    "Dashboard - HR Records",
		"Identity": id,
		"Stats":    stats,
		"IsAdmin":  id.IsAdmin(),
	})
}
