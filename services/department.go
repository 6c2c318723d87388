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
)

type DepartmentInput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type DepartmentService struct {
	base
}

func (in DepartmentInput) apply(d *models.Department) error {
	var err error
	if d.Code, err = required("code", strings.ToUpper(in.Code), 50); err != nil {
		return err
	}
	d.Name, err = required("name", in.Name, 200)
	return err
}

func (s *DepartmentService) Each(ctx context.Context, identity policy.Identity) iter.Seq2[models.Department, error] {
	return each[models.Department](func() (*gorm.DB, error) {
		q, err := s.scoped(ctx, identity, policy.ResourceDepartment, &models.Department{})
		if err != nil {
			return nil, err
		}
		return q.Order("departments.code ASC").Order("departments.id ASC"), nil
	}, defaultPageSize)
}

func (s *DepartmentService) List(ctx context.Context, identity policy.Identity) ([]models.Department, error) {
	rows, err := collect(s.Each(ctx, identity))
	s.logStoreError("list departments", err)
	return rows, err
}

func (s *DepartmentService) Get(ctx context.Context, identity policy.Identity, id uint) (*models.Department, error) {
	var dept models.Department
	if err := s.findScoped(ctx, identity, policy.ResourceDepartment, "department", id, &dept); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (s *DepartmentService) Create(ctx context.Context, identity policy.Identity, input DepartmentInput) (*models.Department, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	dept := models.Department{CreatedAt: s.now()}
	if err := input.apply(&dept); err != nil {
		return nil, err
	}
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		return store.TranslateError("create department", tx.Create(&dept).Error)
	})
	if err != nil {
		s.logStoreError("create department", err)
		return nil, err
	}
	s.logger.Info("Department created", zap.Uint("department_id", dept.ID), zap.String("code", dept.Code))
	return &dept, nil
}

func (s *DepartmentService) Update(ctx context.Context, identity policy.Identity, id uint, input DepartmentInput) (*models.Department, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var dept models.Department
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.findByID(tx, "department", id, &dept); err != nil {
			return err
		}
		if err := input.apply(&dept); err != nil {
			return err
		}
		return store.TranslateError("update department", tx.Save(&dept).Error)
	})
	if err != nil {
		s.logStoreError("update department", err)
		return nil, err
	}
	return &dept, nil
}

// Delete refuses while any employee still belongs to the department.
func (s *DepartmentService) Delete(ctx context.Context, identity policy.Identity, id uint) error {
	if err := policy.RequireAdmin(identity); err != nil {
		return err
	}
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var dept models.Department
		if err := s.findByID(tx, "department", id, &dept); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Employee{}).Where("department_id = ?", id).Count(&count).Error; err != nil {
			return store.TranslateError("count department employees", err)
		}
		if count > 0 {
			return types.Validation("department still has %d employees", count)
		}
		return store.TranslateError("delete department", tx.Delete(&dept).Error)
	})
	if err != nil {
		s.logStoreError("delete department", err)
		return err
	}
	s.logger.Info("Department deleted", zap.Uint("department_id", id))
	return nil
}
