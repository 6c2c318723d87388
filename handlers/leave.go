package handlers

import (
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

// GetLeaves lists leave submissions visible to the caller.
// Query: scope=mine|department|all, status, type, start_date, end_date.
func (h *Handler) GetLeaves(c *fiber.Ctx) error {
	filter := services.LeaveFilter{
		Scope:     c.Query("scope"),
		Status:    c.Query("status"),
		LeaveType: c.Query("type"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	leaves, err := h.svc.Leaves.List(c.UserContext(), identity(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return success(c, leaves)
}

func (h *Handler) GetLeave(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	leave, err := h.svc.Leaves.Get(c.UserContext(), identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, leave)
}

func (h *Handler) SubmitLeave(c *fiber.Ctx) error {
	var req services.LeaveDraft
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	leave, err := h.svc.Leaves.Create(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Leave submitted", leave)
}

func (h *Handler) ApproveLeave(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	leave, err := h.svc.Leaves.Approve(c.UserContext(), identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, leave)
}

func (h *Handler) RejectLeave(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	leave, err := h.svc.Leaves.Reject(c.UserContext(), identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, leave)
}
