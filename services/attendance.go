package services

import (
	"context"
	"iter"
	"time"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"
	"hr_records/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Check-ins after this time of day are recorded as late.
const (
	workStartHour   = 9
	workStartMinute = 0
)

var attendanceStatuses = []string{
	models.AttendancePresent,
	models.AttendanceLate,
	models.AttendanceAbsent,
	models.AttendanceSick,
	models.AttendanceLeave,
}

type AttendanceFilter struct {
	EmployeeID uint
	StartDate  string
	EndDate    string
	Status     string
}

type AttendanceInput struct {
	EmployeeID        uint   `json:"employee_id"`
	Date              string `json:"date"`
	CheckIn           string `json:"check_in"`
	CheckOut          string `json:"check_out"`
	Status            string `json:"status"`
	Notes             string `json:"notes"`
	LeaveSubmissionID *uint  `json:"leave_submission_id"`
}

type AttendanceService struct {
	base
}

func (in AttendanceInput) apply(a *models.DailyAttendance) error {
	if in.EmployeeID == 0 {
		return types.Validation("employee_id is required")
	}
	a.EmployeeID = in.EmployeeID

	date, err := parseDate("date", in.Date)
	if err != nil {
		return err
	}
	a.Date = date

	if a.CheckIn, err = parseClock("check_in", in.CheckIn); err != nil {
		return err
	}
	if a.CheckOut, err = parseClock("check_out", in.CheckOut); err != nil {
		return err
	}
	if a.CheckOut != nil && a.CheckIn == nil {
		return types.Validation("check_out requires check_in")
	}
	if a.CheckIn != nil && a.CheckOut != nil && *a.CheckOut < *a.CheckIn {
		return types.Validation("check_out must not be before check_in")
	}

	if err := oneOf("status", in.Status, attendanceStatuses...); err != nil {
		return err
	}
	a.Status = in.Status

	if a.Notes, err = optional("notes", in.Notes, 1000); err != nil {
		return err
	}
	a.LeaveSubmissionID = in.LeaveSubmissionID
	if a.LeaveSubmissionID != nil && *a.LeaveSubmissionID == 0 {
		a.LeaveSubmissionID = nil
	}
	return nil
}

// checkLeaveLink requires a linked submission to be an approved leave of the
// same employee.
func checkLeaveLink(tx *gorm.DB, a *models.DailyAttendance) error {
	if a.LeaveSubmissionID == nil {
		return nil
	}
	var sub models.LeaveSubmission
	err := tx.Select("id", "employee_id", "status").First(&sub, *a.LeaveSubmissionID).Error
	if err != nil {
		if store.IsNotFound(err) {
			return types.Validation("leave_submission_id must reference an approved leave of the same employee")
		}
		return store.TranslateError("check leave submission", err)
	}
	if sub.EmployeeID != a.EmployeeID || sub.Status != models.LeaveApproved {
		return types.Validation("leave_submission_id must reference an approved leave of the same employee")
	}
	return nil
}

func (s *AttendanceService) query(ctx context.Context, identity policy.Identity, filter AttendanceFilter) (*gorm.DB, error) {
	q, err := s.scoped(ctx, identity, policy.ResourceAttendance, &models.DailyAttendance{})
	if err != nil {
		return nil, err
	}
	if filter.EmployeeID != 0 {
		q = q.Where("daily_attendances.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		if err := oneOf("status", filter.Status, attendanceStatuses...); err != nil {
			return nil, err
		}
		q = q.Where("daily_attendances.status = ?", filter.Status)
	}
	from, err := parseOptionalDate("start_date", filter.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("end_date", filter.EndDate)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, types.Validation("start_date must not be after end_date")
	}
	if from != nil {
		q = q.Where("daily_attendances.date >= ?", *from)
	}
	if to != nil {
		q = q.Where("daily_attendances.date <= ?", *to)
	}
	return q.Order("daily_attendances.date DESC").Order("daily_attendances.id DESC"), nil
}

// Each streams attendance rows identity may see, most recent day first.
func (s *AttendanceService) Each(ctx context.Context, identity policy.Identity, filter AttendanceFilter) iter.Seq2[models.DailyAttendance, error] {
	return each[models.DailyAttendance](func() (*gorm.DB, error) {
		return s.query(ctx, identity, filter)
	}, defaultPageSize)
}

func (s *AttendanceService) List(ctx context.Context, identity policy.Identity, filter AttendanceFilter) ([]models.DailyAttendance, error) {
	rows, err := collect(s.Each(ctx, identity, filter))
	s.logStoreError("list attendance", err)
	return rows, err
}

// Record writes one day of attendance for any employee. Admin only: everyone
// else goes through CheckIn and CheckOut, and leave days come from approvals.
func (s *AttendanceService) Record(ctx context.Context, identity policy.Identity, input AttendanceInput) (*models.DailyAttendance, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	row := models.DailyAttendance{CreatedAt: s.now()}
	if err := input.apply(&row); err != nil {
		return nil, err
	}

	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.ensureEmployee(tx, row.EmployeeID); err != nil {
			return err
		}
		if err := checkLeaveLink(tx, &row); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.DailyAttendance{}).
			Where("employee_id = ? AND date = ?", row.EmployeeID, row.Date).
			Count(&count).Error; err != nil {
			return store.TranslateError("check attendance", err)
		}
		if count > 0 {
			return types.Validation("attendance for %s is already recorded", row.Date.Format(dateLayout))
		}
		return store.TranslateError("record attendance", tx.Omit(clause.Associations).Create(&row).Error)
	})
	if err != nil {
		s.logStoreError("record attendance", err)
		return nil, err
	}
	return &row, nil
}

// CheckIn records today's arrival for the caller's linked employee.
func (s *AttendanceService) CheckIn(ctx context.Context, identity policy.Identity) (*models.DailyAttendance, error) {
	empID, ok := identity.LinkedEmployee()
	if !ok {
		return nil, types.Forbidden()
	}

	now := s.now()
	today := truncateDay(now)
	clock := now.UTC().Format(timeLayout)
	expected := today.Add(time.Duration(workStartHour)*time.Hour + time.Duration(workStartMinute)*time.Minute)

	status := models.AttendancePresent
	if now.After(expected) {
		status = models.AttendanceLate
	}

	var row models.DailyAttendance
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		err := tx.Where("employee_id = ? AND date = ?", empID, today).First(&row).Error
		switch {
		case err == nil:
			if row.Status == models.AttendanceLeave {
				return types.InvalidState("today is recorded as approved leave")
			}
			if row.CheckIn != nil {
				return types.InvalidState("already checked in today")
			}
			row.CheckIn = &clock
			row.Status = status
			return store.TranslateError("check in", tx.Omit(clause.Associations).Save(&row).Error)
		case store.IsNotFound(err):
			row = models.DailyAttendance{
				EmployeeID: empID,
				Date:       today,
				CheckIn:    &clock,
				Status:     status,
				CreatedAt:  now,
			}
			return store.TranslateError("check in", tx.Omit(clause.Associations).Create(&row).Error)
		default:
			return store.TranslateError("load attendance", err)
		}
	})
	if err != nil {
		s.logStoreError("check in", err)
		return nil, err
	}

	s.logger.Info("Checked in",
		zap.Uint("employee_id", empID),
		zap.String("status", status),
		zap.String("time", clock))
	return &row, nil
}

// CheckOut closes today's attendance for the caller's linked employee.
func (s *AttendanceService) CheckOut(ctx context.Context, identity policy.Identity) (*models.DailyAttendance, error) {
	empID, ok := identity.LinkedEmployee()
	if !ok {
		return nil, types.Forbidden()
	}

	now := s.now()
	today := truncateDay(now)
	clock := now.UTC().Format(timeLayout)

	var row models.DailyAttendance
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		err := tx.Where("employee_id = ? AND date = ?", empID, today).First(&row).Error
		if store.IsNotFound(err) || (err == nil && row.CheckIn == nil) {
			return types.InvalidState("no check-in found for today")
		}
		if err != nil {
			return store.TranslateError("load attendance", err)
		}
		if row.CheckOut != nil {
			return types.InvalidState("already checked out today")
		}
		row.CheckOut = &clock
		return store.TranslateError("check out", tx.Model(&row).Update("check_out", clock).Error)
	})
	if err != nil {
		s.logStoreError("check out", err)
		return nil, err
	}

	s.logger.Info("Checked out", zap.Uint("employee_id", empID), zap.String("time", clock))
	return &row, nil
}

// Update replaces an attendance row. Admin only.
func (s *AttendanceService) Update(ctx context.Context, identity policy.Identity, id uint, input AttendanceInput) (*models.DailyAttendance, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var row models.DailyAttendance
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.findByID(tx, "attendance", id, &row); err != nil {
			return err
		}
		if err := input.apply(&row); err != nil {
			return err
		}
		if err := s.ensureEmployee(tx, row.EmployeeID); err != nil {
			return err
		}
		if err := checkLeaveLink(tx, &row); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.DailyAttendance{}).
			Where("employee_id = ? AND date = ? AND id <> ?", row.EmployeeID, row.Date, row.ID).
			Count(&count).Error; err != nil {
			return store.TranslateError("check attendance", err)
		}
		if count > 0 {
			return types.Validation("attendance for %s is already recorded", row.Date.Format(dateLayout))
		}
		return store.TranslateError("update attendance", tx.Omit(clause.Associations).Save(&row).Error)
	})
	if err != nil {
		s.logStoreError("update attendance", err)
		return nil, err
	}
	return &row, nil
}

func (s *AttendanceService) Delete(ctx context.Context, identity policy.Identity, id uint) error {
	return s.deleteByID(ctx, identity, "attendance", &models.DailyAttendance{}, id)
}

