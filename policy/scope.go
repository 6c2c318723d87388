package policy

import (
	"fmt"

	"hr_records/models"

	"gorm.io/gorm"
)

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeAll
	scopeDepartment
	scopeEmployee
	scopeUser
)

// Scope is a row predicate. The zero value matches nothing.
type Scope struct {
	kind scopeKind
	id   uint
}

func (s Scope) All() bool {
	return s.kind == scopeAll
}

func (s Scope) None() bool {
	return s.kind == scopeNone
}

// DepartmentID returns the department the scope is restricted to, if any.
func (s Scope) DepartmentID() (uint, bool) {
	return s.id, s.kind == scopeDepartment
}

// EmployeeID returns the employee the scope is restricted to, if any.
func (s Scope) EmployeeID() (uint, bool) {
	return s.id, s.kind == scopeEmployee
}

func (s Scope) String() string {
	switch s.kind {
	case scopeAll:
		return "all"
	case scopeDepartment:
		return fmt.Sprintf("department:%d", s.id)
	case scopeEmployee:
		return fmt.Sprintf("employee:%d", s.id)
	case scopeUser:
		return fmt.Sprintf("user:%d", s.id)
	}
	return "none"
}

// Apply narrows query, which must select from resource's table.
func (s Scope) Apply(query *gorm.DB, resource Resource) *gorm.DB {
	table := string(resource)
	switch s.kind {
	case scopeAll:
		return query
	case scopeNone:
		return query.Where("1 = 0")
	case scopeUser:
		if resource == ResourceUser {
			return query.Where("users.id = ?", s.id)
		}
		return query.Where("1 = 0")
	case scopeEmployee:
		switch {
		case resource == ResourceEmployee:
			return query.Where("employees.id = ?", s.id)
		case resource.childOfEmployee():
			return query.Where(table+".employee_id = ?", s.id)
		case resource == ResourceUser:
			return query.Where("users.employee_id = ?", s.id)
		}
	case scopeDepartment:
		switch {
		case resource == ResourceDepartment:
			return query.Where("departments.id = ?", s.id)
		case resource == ResourceEmployee:
			return query.Where("employees.department_id = ?", s.id)
		case resource.childOfEmployee():
			sub := query.Session(&gorm.Session{NewDB: true}).
				Model(&models.Employee{}).
				Select("id").
				Where("department_id = ?", s.id)
			return query.Where(table+".employee_id IN (?)", sub)
		}
	}
	return query.Where("1 = 0")
}

// Permits reports whether employee, or a row owned by employee, is inside the scope.
func (s Scope) Permits(employee models.Employee) bool {
	switch s.kind {
	case scopeAll:
		return true
	case scopeDepartment:
		return employee.DepartmentID == s.id
	case scopeEmployee:
		return employee.ID == s.id
	}
	return false
}

func DepartmentScope(id uint) Scope {
	return Scope{kind: scopeDepartment, id: id}
}

func EmployeeScope(id uint) Scope {
	return Scope{kind: scopeEmployee, id: id}
}
