package handlers

import (
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetUsers(c *fiber.Ctx) error {
	users, err := h.svc.Users.List(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, err)
	}
	return success(c, users)
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req services.UserInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	user, err := h.svc.Users.Create(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "User created", user)
}

func (h *Handler) DeactivateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	user, err := h.svc.Users.Deactivate(c.UserContext(), identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, user)
}
