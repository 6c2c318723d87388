package services

import (
	"context"
	"iter"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"
	"hr_records/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EducationInput struct {
	EmployeeID     uint   `json:"employee_id"`
	Level          string `json:"level"`
	Institution    string `json:"institution"`
	Major          string `json:"major"`
	EntryYear      *int   `json:"entry_year"`
	GraduationYear *int   `json:"graduation_year"`
}

type EducationService struct {
	base
}

func (in EducationInput) apply(e *models.Education) error {
	if in.EmployeeID == 0 {
		return types.Validation("employee_id is required")
	}
	e.EmployeeID = in.EmployeeID

	var err error
	if e.Level, err = required("level", in.Level, 50); err != nil {
		return err
	}
	if e.Institution, err = required("institution", in.Institution, 200); err != nil {
		return err
	}
	if e.Major, err = optional("major", in.Major, 200); err != nil {
		return err
	}
	if err := validYear("entry_year", in.EntryYear); err != nil {
		return err
	}
	if err := validYear("graduation_year", in.GraduationYear); err != nil {
		return err
	}
	if in.EntryYear != nil && in.GraduationYear != nil && *in.EntryYear > *in.GraduationYear {
		return types.Validation("entry_year must not be after graduation_year")
	}
	e.EntryYear, e.GraduationYear = in.EntryYear, in.GraduationYear
	return nil
}

func (s *EducationService) query(ctx context.Context, identity policy.Identity, employeeID uint) (*gorm.DB, error) {
	q, err := s.scoped(ctx, identity, policy.ResourceEducation, &models.Education{})
	if err != nil {
		return nil, err
	}
	if employeeID != 0 {
		q = q.Where("educations.employee_id = ?", employeeID)
	}
	return q.Order("educations.employee_id ASC").Order("educations.id ASC"), nil
}

// Each streams education records, optionally for one employee.
func (s *EducationService) Each(ctx context.Context, identity policy.Identity, employeeID uint) iter.Seq2[models.Education, error] {
	return each[models.Education](func() (*gorm.DB, error) {
		return s.query(ctx, identity, employeeID)
	}, defaultPageSize)
}

func (s *EducationService) List(ctx context.Context, identity policy.Identity, employeeID uint) ([]models.Education, error) {
	rows, err := collect(s.Each(ctx, identity, employeeID))
	s.logStoreError("list educations", err)
	return rows, err
}

func (s *EducationService) Create(ctx context.Context, identity policy.Identity, input EducationInput) (*models.Education, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var education models.Education
	if err := input.apply(&education); err != nil {
		return nil, err
	}
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.ensureEmployee(tx, education.EmployeeID); err != nil {
			return err
		}
		return store.TranslateError("create education", tx.Omit(clause.Associations).Create(&education).Error)
	})
	if err != nil {
		s.logStoreError("create education", err)
		return nil, err
	}
	return &education, nil
}

func (s *EducationService) Update(ctx context.Context, identity policy.Identity, id uint, input EducationInput) (*models.Education, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var education models.Education
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.findByID(tx, "education", id, &education); err != nil {
			return err
		}
		if err := input.apply(&education); err != nil {
			return err
		}
		if err := s.ensureEmployee(tx, education.EmployeeID); err != nil {
			return err
		}
		return store.TranslateError("update education", tx.Omit(clause.Associations).Save(&education).Error)
	})
	if err != nil {
		s.logStoreError("update education", err)
		return nil, err
	}
	return &education, nil
}

func (s *EducationService) Delete(ctx context.Context, identity policy.Identity, id uint) error {
	return s.deleteByID(ctx, identity, "education", &models.Education{}, id)
}
