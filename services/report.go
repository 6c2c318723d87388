package services

import (
	"context"
	"fmt"
	"io"

	"hr_records/models"
	"hr_records/policy"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const attendanceSheet = "Attendance"

var attendanceHeader = []interface{}{"Date", "Employee ID", "Employee", "Check in", "Check out", "Status", "Notes"}

// ReportService renders scoped record lists into export formats.
type ReportService struct {
	attendances *AttendanceService
	leaves      *LeaveService
	employees   *EmployeeService
	logger      *zap.Logger
	now         Clock
}

// employeeNames maps the employees identity may see to their names.
func (s *ReportService) employeeNames(ctx context.Context, identity policy.Identity) (map[uint]string, error) {
	names := map[uint]string{}
	for employee, err := range s.employees.Each(ctx, identity, EmployeeFilter{}) {
		if err != nil {
			return nil, err
		}
		names[employee.ID] = employee.FullName
	}
	return names, nil
}

// AttendanceXLSX writes the attendance rows identity may see as a workbook.
func (s *ReportService) AttendanceXLSX(ctx context.Context, identity policy.Identity, filter AttendanceFilter, w io.Writer) error {
	names, err := s.employeeNames(ctx, identity)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	f.SetColWidth(attendanceSheet, "A", "A", 12)
	f.SetColWidth(attendanceSheet, "C", "C", 28)
	f.SetColWidth(attendanceSheet, "G", "G", 40)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetSheetRow(attendanceSheet, "A1", &attendanceHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	f.SetCellStyle(attendanceSheet, "A1", "G1", headerStyle)

	row := 2
	for a, err := range s.attendances.Each(ctx, identity, filter) {
		if err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			a.Date.Format(dateLayout),
			a.EmployeeID,
			names[a.EmployeeID],
			deref(a.CheckIn),
			deref(a.CheckOut),
			a.Status,
			a.Notes,
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("Attendance exported", zap.Int("rows", row-2), zap.Uint("user_id", identity.UserID))
	return nil
}

// LeaveCalendar renders approved leave identity may see as an iCalendar feed.
func (s *ReportService) LeaveCalendar(ctx context.Context, identity policy.Identity) (string, error) {
	names, err := s.employeeNames(ctx, identity)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//hr-records//leave calendar//EN")
	cal.SetXWRCalName("Approved leave")

	stamp := s.now()
	filter := LeaveFilter{Status: string(models.LeaveApproved)}
	for sub, err := range s.leaves.Each(ctx, identity, filter) {
		if err != nil {
			return "", err
		}
		event := cal.AddEvent(fmt.Sprintf("leave-%d@hr-records", sub.ID))
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(sub.CreatedAt)
		event.SetAllDayStartAt(sub.StartDate)
		// DTEND is exclusive for all-day events.
		event.SetAllDayEndAt(sub.EndDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s: %s leave", employeeLabel(names, sub.EmployeeID), sub.LeaveType))
		if sub.Reason != "" {
			event.SetDescription(sub.Reason)
		}
		event.SetStatus(ics.ObjectStatusConfirmed)
	}
	return cal.Serialize(), nil
}

func employeeLabel(names map[uint]string, id uint) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Employee #%d", id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
