package handlers

import (
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

// EmployeeFilters represents the available filter options
type EmployeeFilters struct {
	DepartmentID uint   `query:"department_id"`
	Status       string `query:"status"`
	Search       string `query:"q"`
}

func (h *Handler) GetAllEmployees(c *fiber.Ctx) error {
	var filters EmployeeFilters
	if err := c.QueryParser(&filters); err != nil {
		return badRequest(c, "Invalid filter parameters")
	}

	employees, err := h.svc.Employees.List(c.UserContext(), identity(c), services.EmployeeFilter{
		DepartmentID:     filters.DepartmentID,
		EmploymentStatus: filters.Status,
		Search:           filters.Search,
	})
	if err != nil {
		return fail(c, err)
	}
	return success(c, employees)
}

func (h *Handler) GetEmployee(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	employee, err := h.svc.Employees.Get(c.UserContext(), identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, employee)
}

func (h *Handler) AddEmployee(c *fiber.Ctx) error {
	var req services.EmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	employee, err := h.svc.Employees.Create(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Employee created", employee)
}

func (h *Handler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req services.EmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	employee, err := h.svc.Employees.Update(c.UserContext(), identity(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, employee)
}

func (h *Handler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Employees.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, err)
	}
	return message(c, "Employee deleted")
}
