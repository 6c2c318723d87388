package handlers

import (
	"hr_records/services"

	"github.com/gofiber/fiber/v2"
)

func attendanceFilter(c *fiber.Ctx) (services.AttendanceFilter, error) {
	employeeID, err := queryUint(c, "employee_id")
	if err != nil {
		return services.AttendanceFilter{}, err
	}
	return services.AttendanceFilter{
		EmployeeID: employeeID,
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		Status:     c.Query("status"),
	}, nil
}

func (h *Handler) GetAttendances(c *fiber.Ctx) error {
	filter, err := attendanceFilter(c)
	if err != nil {
		return fail(c, err)
	}
	rows, err := h.svc.Attendances.List(c.UserContext(), identity(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return success(c, rows)
}

func (h *Handler) RecordAttendance(c *fiber.Ctx) error {
	var req services.AttendanceInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	row, err := h.svc.Attendances.Record(c.UserContext(), identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Attendance recorded", row)
}

// CheckIn records the caller's arrival for today.
func (h *Handler) CheckIn(c *fiber.Ctx) error {
	row, err := h.svc.Attendances.CheckIn(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Checked in", row)
}

// CheckOut closes the caller's attendance for today.
func (h *Handler) CheckOut(c *fiber.Ctx) error {
	row, err := h.svc.Attendances.CheckOut(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, err)
	}
	return success(c, row)
}

func (h *Handler) UpdateAttendance(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req services.AttendanceInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	row, err := h.svc.Attendances.Update(c.UserContext(), identity(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, row)
}

func (h *Handler) DeleteAttendance(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Attendances.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, err)
	}
	return message(c, "Attendance deleted")
}
