package handlers

import (
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.svc.Departments.List(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, err)
	}
	return success(c, departments)
}

func (h *Handler) AddDepartment(c *fiber.Ctx) error {
	var req services.DepartmentInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	dept, err := h.svc.Departments.Create(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Department created", dept)
}

func (h *Handler) UpdateDepartment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req services.DepartmentInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	dept, err := h.svc.Departments.Update(c.UserContext(), identity(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, dept)
}

func (h *Handler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Departments.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, err)
	}
	return message(c, "Department deleted")
}
