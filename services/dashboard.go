package services

import (
	"context"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"

	"gorm.io/gorm"
)

// DashboardStats are the counters shown on the landing page. Each one is
// computed inside the caller's scope, so an admin sees company totals, a
// manager department totals and an employee personal totals.
type DashboardStats struct {
	Role              models.Role              `json:"role"`
	Department        string                   `json:"department,omitempty"`
	Employees         int64                    `json:"employees"`
	ActiveEmployees   int64                    `json:"active_employees"`
	Departments       int64                    `json:"departments"`
	PendingLeaves     int64                    `json:"pending_leaves"`
	ApprovedLeaves    int64                    `json:"approved_leaves"`
	ActiveContracts   int64                    `json:"active_contracts"`
	AttendanceDays    int64                    `json:"attendance_days"`
	RecentSubmissions []models.LeaveSubmission `json:"recent_submissions"`
}

type DashboardService struct {
	base
}

const recentSubmissions = 5

func (s *DashboardService) Stats(ctx context.Context, identity policy.Identity) (*DashboardStats, error) {
	stats := &DashboardStats{Role: identity.Role}

	counters := []struct {
		resource policy.Resource
		model    interface{}
		where    func(*gorm.DB) *gorm.DB
		dest     *int64
	}{
		{policy.ResourceEmployee, &models.Employee{}, nil, &stats.Employees},
		{policy.ResourceEmployee, &models.Employee{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("employees.employment_status = ?", models.EmploymentActive)
		}, &stats.ActiveEmployees},
		{policy.ResourceDepartment, &models.Department{}, nil, &stats.Departments},
		{policy.ResourceLeaveSubmission, &models.LeaveSubmission{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("leave_submissions.status = ?", models.LeavePending)
		}, &stats.PendingLeaves},
		{policy.ResourceLeaveSubmission, &models.LeaveSubmission{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("leave_submissions.status = ?", models.LeaveApproved)
		}, &stats.ApprovedLeaves},
		{policy.ResourceContract, &models.Contract{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("contracts.status = ?", models.ContractActive)
		}, &stats.ActiveContracts},
		{policy.ResourceAttendance, &models.DailyAttendance{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("daily_attendances.status IN ?", []string{models.AttendancePresent, models.AttendanceLate})
		}, &stats.AttendanceDays},
	}

	for _, c := range counters {
		q, err := s.scoped(ctx, identity, c.resource, c.model)
		if err != nil {
			return nil, err
		}
		if c.where != nil {
			q = c.where(q)
		}
		if err := q.Count(c.dest).Error; err != nil {
			err = store.TranslateError("count "+string(c.resource), err)
			s.logStoreError("dashboard", err)
			return nil, err
		}
	}

	if deptID, ok, err := s.policy.DepartmentOf(ctx, identity); err != nil {
		return nil, err
	} else if ok {
		var dept models.Department
		if err := s.db.WithContext(ctx).Select("name").First(&dept, deptID).Error; err == nil {
			stats.Department = dept.Name
		}
	}

	q, err := s.scoped(ctx, identity, policy.ResourceLeaveSubmission, &models.LeaveSubmission{})
	if err != nil {
		return nil, err
	}
	stats.RecentSubmissions = []models.LeaveSubmission{}
	err = q.Order("leave_submissions.created_at DESC").
		Order("leave_submissions.id DESC").
		Limit(recentSubmissions).
		Find(&stats.RecentSubmissions).Error
	if err != nil {
		err = store.TranslateError("recent leave submissions", err)
		s.logStoreError("dashboard", err)
		return nil, err
	}
	return stats, nil
}
