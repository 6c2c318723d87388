package handlers

import (
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetContracts(c *fiber.Ctx) error {
	employeeID, err := queryUint(c, "employee_id")
	if err != nil {
		return fail(c, err)
	}
	contracts, err := h.svc.Contracts.List(c.UserContext(), identity(c), services.ContractFilter{
		EmployeeID: employeeID,
		Status:     c.Query("status"),
	})
	if err != nil {
		return fail(c, err)
	}
	return success(c, contracts)
}

func (h *Handler) AddContract(c *fiber.Ctx) error {
	var req services.ContractInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	contract, err := h.svc.Contracts.Create(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Contract created", contract)
}

func (h *Handler) UpdateContract(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req services.ContractInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	contract, err := h.svc.Contracts.Update(c.UserContext(), identity(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, contract)
}

func (h *Handler) DeleteContract(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Contracts.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, err)
	}
	return message(c, "Contract deleted")
}
