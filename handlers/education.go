package handlers

import (
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetEducations(c *fiber.Ctx) error {
	employeeID, err := queryUint(c, "employee_id")
	if err != nil {
		return fail(c, err)
	}
	rows, err := h.svc.Educations.List(c.UserContext(), identity(c), employeeID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, rows)
}

func (h *Handler) AddEducation(c *fiber.Ctx) error {
	var req services.EducationInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	row, err := h.svc.Educations.Create(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Education added", row)
}

func (h *Handler) UpdateEducation(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req services.EducationInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	row, err := h.svc.Educations.Update(c.UserContext(), identity(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, row)
}

func (h *Handler) DeleteEducation(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Educations.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, err)
	}
	return message(c, "Education deleted")
}

func (h *Handler) GetCertifications(c *fiber.Ctx) error {
	employeeID, err := queryUint(c, "employee_id")
	if err != nil {
		return fail(c, err)
	}
	rows, err := h.svc.Certifications.List(c.UserContext(), identity(c), employeeID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, rows)
}

func (h *Handler) AddCertification(c *fiber.Ctx) error {
	var req services.CertificationInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	row, err := h.svc.Certifications.Create(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Certification added", row)
}

func (h *Handler) UpdateCertification(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req services.CertificationInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	row, err := h.svc.Certifications.Update(c.UserContext(), identity(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, row)
}

func (h *Handler) DeleteCertification(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Certifications.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, err)
	}
	return message(c, "Certification deleted")
}
