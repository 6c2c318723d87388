package services

import (
	"context"
	"iter"
	"strings"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"
	"hr_records/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeFilter struct {
	DepartmentID     uint
	EmploymentStatus string
	Search           string
}

// EmployeeInput is the full set of writable employee fields.
type EmployeeInput struct {
	FullName         string `json:"full_name"`
	NationalID       string `json:"national_id"`
	DepartmentID     uint   `json:"department_id"`
	JobTitle         string `json:"job_title"`
	EmploymentStatus string `json:"employment_status"`
	HireDate         string `json:"hire_date"`
	BirthPlace       string `json:"birth_place"`
	BirthDate        string `json:"birth_date"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	MaritalStatus    string `json:"marital_status"`
	Religion         string `json:"religion"`

	// InitialContract is created with the employee in the same transaction.
	InitialContract *ContractInput `json:"initial_contract,omitempty"`
}

type EmployeeService struct {
	base
}

func (s *EmployeeService) query(ctx context.Context, identity policy.Identity, filter EmployeeFilter) (*gorm.DB, error) {
	q, err := s.scoped(ctx, identity, policy.ResourceEmployee, &models.Employee{})
	if err != nil {
		return nil, err
	}
	if filter.DepartmentID != 0 {
		q = q.Where("employees.department_id = ?", filter.DepartmentID)
	}
	if filter.EmploymentStatus != "" {
		q = q.Where("employees.employment_status = ?", filter.EmploymentStatus)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(employees.full_name) LIKE ? OR LOWER(employees.national_id) LIKE ?)", like, like)
	}
	return q.Preload("Department").Order("employees.id ASC"), nil
}

func (s *EmployeeService) Each(ctx context.Context, identity policy.Identity, filter EmployeeFilter) iter.Seq2[models.Employee, error] {
	return each[models.Employee](func() (*gorm.DB, error) {
		return s.query(ctx, identity, filter)
	}, defaultPageSize)
}

func (s *EmployeeService) List(ctx context.Context, identity policy.Identity, filter EmployeeFilter) ([]models.Employee, error) {
	employees, err := collect(s.Each(ctx, identity, filter))
	s.logStoreError("list employees", err)
	return employees, err
}

func (s *EmployeeService) Get(ctx context.Context, identity policy.Identity, id uint) (*models.Employee, error) {
	query, err := s.scoped(ctx, identity, policy.ResourceEmployee, &models.Employee{})
	if err != nil {
		return nil, err
	}
	var employee models.Employee
	err = query.Preload("Department").Where("employees.id = ?", id).First(&employee).Error
	if err != nil {
		if store.IsNotFound(err) {
			if identity.IsAdmin() {
				return nil, types.NotFound("employee")
			}
			return nil, types.Forbidden()
		}
		s.logStoreError("get employee", err)
		return nil, store.TranslateError("get employee", err)
	}
	return &employee, nil
}

func (in EmployeeInput) apply(employee *models.Employee) error {
	var err error
	if employee.FullName, err = required("full_name", in.FullName, 200); err != nil {
		return err
	}
	if employee.NationalID, err = required("national_id", in.NationalID, 50); err != nil {
		return err
	}
	if in.DepartmentID == 0 {
		return types.Validation("department_id is required")
	}
	employee.DepartmentID = in.DepartmentID
	if employee.JobTitle, err = optional("job_title", in.JobTitle, 200); err != nil {
		return err
	}

	status := strings.TrimSpace(in.EmploymentStatus)
	if status == "" {
		status = models.EmploymentActive
	}
	if err := oneOf("employment_status", status, models.EmploymentActive, models.EmploymentInactive, models.EmploymentResigned); err != nil {
		return err
	}
	employee.EmploymentStatus = status

	if employee.HireDate, err = parseOptionalDate("hire_date", in.HireDate); err != nil {
		return err
	}
	if employee.BirthDate, err = parseOptionalDate("birth_date", in.BirthDate); err != nil {
		return err
	}
	if employee.BirthPlace, err = optional("birth_place", in.BirthPlace, 100); err != nil {
		return err
	}
	if employee.Gender, err = optional("gender", in.Gender, 20); err != nil {
		return err
	}
	if employee.Address, err = optional("address", in.Address, 500); err != nil {
		return err
	}
	if employee.Phone, err = optional("phone", in.Phone, 50); err != nil {
		return err
	}
	if employee.MaritalStatus, err = optional("marital_status", in.MaritalStatus, 50); err != nil {
		return err
	}
	if employee.Religion, err = optional("religion", in.Religion, 50); err != nil {
		return err
	}

	email, err := optional("email", in.Email, 200)
	if err != nil {
		return err
	}
	employee.Email = nil
	if strings.TrimSpace(email) != "" {
		if !strings.Contains(email, "@") {
			return types.Validation("email must be a valid address")
		}
		employee.Email = &email
	}
	return nil
}

func ensureDepartment(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Department{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return store.TranslateError("check department", err)
	}
	if count == 0 {
		return types.NotFound("department")
	}
	return nil
}

// Create adds an employee and, when given, its first contract.
func (s *EmployeeService) Create(ctx context.Context, identity policy.Identity, input EmployeeInput) (*models.Employee, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var employee models.Employee
	if err := input.apply(&employee); err != nil {
		return nil, err
	}
	var contract *models.Contract
	if input.InitialContract != nil {
		c := models.Contract{}
		if err := input.InitialContract.apply(&c, true); err != nil {
			return nil, err
		}
		contract = &c
	}

	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := ensureDepartment(tx, employee.DepartmentID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&employee).Error; err != nil {
			return store.TranslateError("create employee", err)
		}
		if contract != nil {
			contract.EmployeeID = employee.ID
			contract.CreatedAt = s.now()
			if err := tx.Omit(clause.Associations).Create(contract).Error; err != nil {
				return store.TranslateError("create contract", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logStoreError("create employee", err)
		return nil, err
	}

	s.logger.Info("Employee created", zap.Uint("employee_id", employee.ID), zap.Uint("user_id", identity.UserID))
	return &employee, nil
}

// Update replaces every writable field of the employee.
func (s *EmployeeService) Update(ctx context.Context, identity policy.Identity, id uint, input EmployeeInput) (*models.Employee, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var employee models.Employee
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.findByID(tx, "employee", id, &employee); err != nil {
			return err
		}
		if err := input.apply(&employee); err != nil {
			return err
		}
		if err := ensureDepartment(tx, employee.DepartmentID); err != nil {
			return err
		}
		return store.TranslateError("update employee", tx.Omit(clause.Associations).Save(&employee).Error)
	})
	if err != nil {
		s.logStoreError("update employee", err)
		return nil, err
	}
	return &employee, nil
}

// Delete removes the employee with every row that belongs to it. Users linked
// to the employee and approvals it gave are kept with the link cleared.
func (s *EmployeeService) Delete(ctx context.Context, identity policy.Identity, id uint) error {
	if err := policy.RequireAdmin(identity); err != nil {
		return err
	}

	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var employee models.Employee
		if err := s.findByID(tx, "employee", id, &employee); err != nil {
			return err
		}

		for _, model := range []interface{}{
			&models.DailyAttendance{},
			&models.LeaveSubmission{},
			&models.Contract{},
			&models.Education{},
			&models.Certification{},
		} {
			if err := tx.Where("employee_id = ?", id).Delete(model).Error; err != nil {
				return store.TranslateError("delete employee records", err)
			}
		}
		if err := tx.Model(&models.LeaveSubmission{}).
			Where("approver_employee_id = ?", id).
			Update("approver_employee_id", gorm.Expr("NULL")).Error; err != nil {
			return store.TranslateError("clear approver", err)
		}
		if err := tx.Model(&models.User{}).
			Where("employee_id = ?", id).
			Update("employee_id", gorm.Expr("NULL")).Error; err != nil {
			return store.TranslateError("unlink users", err)
		}
		return store.TranslateError("delete employee", tx.Delete(&employee).Error)
	})
	if err != nil {
		s.logStoreError("delete employee", err)
		return err
	}

	s.logger.Info("Employee deleted", zap.Uint("employee_id", id), zap.Uint("user_id", identity.UserID))
	return nil
}
