// Package policy decides which rows a session may see or change.
//
// Every record service asks ScopeFilter for a Scope and applies it to its
// query; no service builds role-dependent WHERE clauses on its own.
package policy

import (
	"context"

	"hr_records/models"
	"hr_records/store"
	"hr_records/types"

	"gorm.io/gorm"
)

// Identity is the authenticated caller, passed explicitly into every service call.
type Identity struct {
	UserID     uint        `json:"user_id"`
	Role       models.Role `json:"role"`
	EmployeeID *uint       `json:"employee_id,omitempty"`
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// LinkedEmployee returns the caller's employee id, if any.
func (id Identity) LinkedEmployee() (uint, bool) {
	if id.EmployeeID == nil || *id.EmployeeID == 0 {
		return 0, false
	}
	return *id.EmployeeID, true
}

type Resource string

const (
	ResourceEmployee        Resource = "employees"
	ResourceDepartment      Resource = "departments"
	ResourceContract        Resource = "contracts"
	ResourceEducation       Resource = "educations"
	ResourceCertification   Resource = "certifications"
	ResourceLeaveSubmission Resource = "leave_submissions"
	ResourceAttendance      Resource = "daily_attendances"
	ResourceUser            Resource = "users"
)

// childOfEmployee reports whether rows of r carry an employee_id column.
func (r Resource) childOfEmployee() bool {
	switch r {
	case ResourceContract, ResourceEducation, ResourceCertification,
		ResourceLeaveSubmission, ResourceAttendance:
		return true
	}
	return false
}

type Policy struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Policy {
	return &Policy{db: db}
}

// ScopeFilter returns the row predicate for identity on resource.
// Unknown roles and unresolvable links yield a scope that matches nothing.
func (p *Policy) ScopeFilter(ctx context.Context, identity Identity, resource Resource) (Scope, error) {
	switch identity.Role {
	case models.RoleAdmin:
		return Scope{kind: scopeAll}, nil

	case models.RoleManager:
		if resource == ResourceUser {
			return Scope{kind: scopeUser, id: identity.UserID}, nil
		}
		deptID, ok, err := p.DepartmentOf(ctx, identity)
		if err != nil {
			return Scope{}, err
		}
		if !ok {
			return Scope{kind: scopeNone}, nil
		}
		return Scope{kind: scopeDepartment, id: deptID}, nil

	case models.RoleEmployee:
		if resource == ResourceUser {
			return Scope{kind: scopeUser, id: identity.UserID}, nil
		}
		empID, ok := identity.LinkedEmployee()
		if !ok {
			return Scope{kind: scopeNone}, nil
		}
		if resource == ResourceDepartment {
			deptID, ok, err := p.DepartmentOf(ctx, identity)
			if err != nil {
				return Scope{}, err
			}
			if !ok {
				return Scope{kind: scopeNone}, nil
			}
			return Scope{kind: scopeDepartment, id: deptID}, nil
		}
		return Scope{kind: scopeEmployee, id: empID}, nil
	}

	return Scope{kind: scopeNone}, nil
}

// CanTransition checks that identity may move submission to next.
// Authorization is checked before state so a denied caller learns nothing
// about the submission.
func (p *Policy) CanTransition(ctx context.Context, identity Identity, submission models.LeaveSubmission, next models.LeaveStatus) error {
	switch identity.Role {
	case models.RoleAdmin:
	case models.RoleManager:
		scope, err := p.ScopeFilter(ctx, identity, ResourceLeaveSubmission)
		if err != nil {
			return err
		}
		var employee models.Employee
		err = p.db.WithContext(ctx).Select("id", "department_id").First(&employee, submission.EmployeeID).Error
		if err != nil {
			if store.IsNotFound(err) {
				return types.Forbidden()
			}
			return store.TranslateError("load submission employee", err)
		}
		if !scope.Permits(employee) {
			return types.Forbidden()
		}
	default:
		return types.Forbidden()
	}

	if next != models.LeaveApproved && next != models.LeaveRejected {
		return types.Validation("status must be approved or rejected")
	}
	if submission.Status != models.LeavePending {
		return types.InvalidState("leave submission has already been %s", submission.Status)
	}
	return nil
}

// RequireAdmin is the mutation guard for admin-only resources.
func RequireAdmin(identity Identity) error {
	if !identity.IsAdmin() {
		return types.Forbidden()
	}
	return nil
}

// DepartmentOf resolves the department of identity's linked employee.
func (p *Policy) DepartmentOf(ctx context.Context, identity Identity) (uint, bool, error) {
	empID, ok := identity.LinkedEmployee()
	if !ok {
		return 0, false, nil
	}
	var employee models.Employee
	err := p.db.WithContext(ctx).Select("id", "department_id").First(&employee, empID).Error
	if err != nil {
		if store.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, store.TranslateError("resolve department", err)
	}
	return employee.DepartmentID, true, nil
}
