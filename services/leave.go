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

// maxLeaveDays bounds one submission so approval writes a bounded number of
// attendance rows.
const maxLeaveDays = 366

// Leave list scopes requested by the caller. They only narrow the policy scope.
const (
	LeaveScopeMine       = "mine"
	LeaveScopeDepartment = "department"
	LeaveScopeAll        = "all"
)

type LeaveFilter struct {
	Scope     string
	Status    string
	LeaveType string
	StartDate string
	EndDate   string
}

type LeaveDraft struct {
	EmployeeID uint   `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	LeaveType  string `json:"leave_type"`
	Reason     string `json:"reason"`
}

type LeaveService struct {
	base
}

func (s *LeaveService) query(ctx context.Context, identity policy.Identity, filter LeaveFilter) (*gorm.DB, error) {
	q, err := s.scoped(ctx, identity, policy.ResourceLeaveSubmission, &models.LeaveSubmission{})
	if err != nil {
		return nil, err
	}

	switch filter.Scope {
	case "", LeaveScopeAll:
	case LeaveScopeMine:
		empID, ok := identity.LinkedEmployee()
		if !ok {
			return q.Where("1 = 0"), nil
		}
		q = policy.EmployeeScope(empID).Apply(q, policy.ResourceLeaveSubmission)
	case LeaveScopeDepartment:
		deptID, ok, err := s.policy.DepartmentOf(ctx, identity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return q.Where("1 = 0"), nil
		}
		q = policy.DepartmentScope(deptID).Apply(q, policy.ResourceLeaveSubmission)
	default:
		return nil, types.Validation("scope must be one of: mine, department, all")
	}

	if filter.Status != "" {
		if err := oneOf("status", filter.Status, string(models.LeavePending), string(models.LeaveApproved), string(models.LeaveRejected)); err != nil {
			return nil, err
		}
		q = q.Where("leave_submissions.status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		if err := oneOf("leave_type", filter.LeaveType, leaveTypes...); err != nil {
			return nil, err
		}
		q = q.Where("leave_submissions.leave_type = ?", filter.LeaveType)
	}

	// Date range selects submissions overlapping [start_date, end_date].
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
		q = q.Where("leave_submissions.end_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("leave_submissions.start_date <= ?", *to)
	}

	return q.Order("leave_submissions.created_at DESC").Order("leave_submissions.id DESC"), nil
}

var leaveTypes = []string{models.LeaveAnnual, models.LeaveSick, models.LeaveMaternity, models.LeaveOther}

// Each streams the submissions identity may see, newest first.
func (s *LeaveService) Each(ctx context.Context, identity policy.Identity, filter LeaveFilter) iter.Seq2[models.LeaveSubmission, error] {
	return each[models.LeaveSubmission](func() (*gorm.DB, error) {
		return s.query(ctx, identity, filter)
	}, defaultPageSize)
}

func (s *LeaveService) List(ctx context.Context, identity policy.Identity, filter LeaveFilter) ([]models.LeaveSubmission, error) {
	leaves, err := collect(s.Each(ctx, identity, filter))
	s.logStoreError("list leave submissions", err)
	return leaves, err
}

func (s *LeaveService) Get(ctx context.Context, identity policy.Identity, id uint) (*models.LeaveSubmission, error) {
	var sub models.LeaveSubmission
	if err := s.findScoped(ctx, identity, policy.ResourceLeaveSubmission, "leave submission", id, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create files a pending submission. Non-admins may only file for their own
// linked employee.
func (s *LeaveService) Create(ctx context.Context, identity policy.Identity, draft LeaveDraft) (*models.LeaveSubmission, error) {
	employeeID := draft.EmployeeID
	if !identity.IsAdmin() {
		linked, ok := identity.LinkedEmployee()
		if !ok {
			return nil, types.Forbidden()
		}
		if employeeID == 0 {
			employeeID = linked
		}
		if employeeID != linked {
			return nil, types.Forbidden()
		}
	} else if employeeID == 0 {
		if linked, ok := identity.LinkedEmployee(); ok {
			employeeID = linked
		}
	}

	start, err := parseDate("start_date", draft.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", draft.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, types.Validation("start_date must not be after end_date")
	}
	if int(end.Sub(start).Hours()/24)+1 > maxLeaveDays {
		return nil, types.Validation("a leave submission may span at most %d days", maxLeaveDays)
	}
	if err := oneOf("leave_type", draft.LeaveType, leaveTypes...); err != nil {
		return nil, err
	}
	reason, err := optional("reason", draft.Reason, 1000)
	if err != nil {
		return nil, err
	}

	sub := models.LeaveSubmission{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		LeaveType:  draft.LeaveType,
		Reason:     reason,
		Status:     models.LeavePending,
		CreatedAt:  s.now(),
	}
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.ensureEmployee(tx, employeeID); err != nil {
			return err
		}
		return store.TranslateError("create leave submission", tx.Create(&sub).Error)
	})
	if err != nil {
		s.logStoreError("create leave submission", err)
		return nil, err
	}

	s.logger.Info("Leave submitted",
		zap.Uint("leave_id", sub.ID),
		zap.Uint("employee_id", sub.EmployeeID),
		zap.Uint("user_id", identity.UserID))
	return &sub, nil
}

func (s *LeaveService) Approve(ctx context.Context, identity policy.Identity, id uint) (*models.LeaveSubmission, error) {
	return s.decide(ctx, identity, id, models.LeaveApproved)
}

func (s *LeaveService) Reject(ctx context.Context, identity policy.Identity, id uint) (*models.LeaveSubmission, error) {
	return s.decide(ctx, identity, id, models.LeaveRejected)
}

// decide moves a pending submission to next. The status write is conditional
// on the row still being pending, so of two concurrent deciders exactly one
// wins and the other gets InvalidState.
func (s *LeaveService) decide(ctx context.Context, identity policy.Identity, id uint, next models.LeaveStatus) (*models.LeaveSubmission, error) {
	if identity.Role == models.RoleEmployee {
		return nil, types.Forbidden()
	}

	var sub models.LeaveSubmission
	if err := s.findScoped(ctx, identity, policy.ResourceLeaveSubmission, "leave submission", id, &sub); err != nil {
		return nil, err
	}
	if err := s.policy.CanTransition(ctx, identity, sub, next); err != nil {
		return nil, err
	}

	now := s.now()
	today := truncateDay(now)
	var approver interface{} = gorm.Expr("NULL")
	if empID, ok := identity.LinkedEmployee(); ok {
		approver = empID
	}

	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.LeaveSubmission{}).
			Where("id = ? AND status = ?", id, models.LeavePending).
			Updates(map[string]interface{}{
				"status":               next,
				"approver_employee_id": approver,
				"approved_date":        today,
			})
		if res.Error != nil {
			return store.TranslateError("update leave status", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.InvalidState("leave submission has already been decided")
		}

		if next == models.LeaveApproved {
			if err := markLeaveDays(tx, sub, now); err != nil {
				return err
			}
		}
		return store.TranslateError("reload leave submission", tx.First(&sub, id).Error)
	})
	if err != nil {
		s.logStoreError("decide leave submission", err)
		return nil, err
	}

	s.logger.Info("Leave decided",
		zap.Uint("leave_id", sub.ID),
		zap.String("status", string(sub.Status)),
		zap.Uint("user_id", identity.UserID))
	return &sub, nil
}

// markLeaveDays writes one leave attendance row per day of sub, replacing the
// status of rows already recorded for those days.
func markLeaveDays(tx *gorm.DB, sub models.LeaveSubmission, now time.Time) error {
	var rows []models.DailyAttendance
	for d := truncateDay(sub.StartDate); !d.After(truncateDay(sub.EndDate)); d = d.AddDate(0, 0, 1) {
		rows = append(rows, models.DailyAttendance{
			EmployeeID:        sub.EmployeeID,
			Date:              d,
			Status:            models.AttendanceLeave,
			Notes:             "leave: " + sub.LeaveType,
			LeaveSubmissionID: &sub.ID,
			CreatedAt:         now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "leave_submission_id"}),
	}).Create(&rows).Error
	return store.TranslateError("mark leave days", err)
}
