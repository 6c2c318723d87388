package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
)

// ExportAttendance downloads the caller's visible attendance as XLSX.
func (h *Handler) ExportAttendance(c *fiber.Ctx) error {
	filter, err := attendanceFilter(c)
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if err := h.svc.Reports.AttendanceXLSX(c.UserContext(), identity(c), filter, &buf); err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance.xlsx"`)
	return c.Send(buf.Bytes())
}

// ExportLeaveCalendar serves approved leave as an iCalendar feed.
func (h *Handler) ExportLeaveCalendar(c *fiber.Ctx) error {
	cal, err := h.svc.Reports.LeaveCalendar(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="leave.ics"`)
	return c.SendString(cal)
}
