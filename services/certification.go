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

type CertificationInput struct {
	EmployeeID uint   `json:"employee_id"`
	Name       string `json:"name"`
	Issuer     string `json:"issuer"`
	Year       *int   `json:"year"`
}

type CertificationService struct {
	base
}

func (in CertificationInput) apply(c *models.Certification) error {
	if in.EmployeeID == 0 {
		return types.Validation("employee_id is required")
	}
	c.EmployeeID = in.EmployeeID

	var err error
	if c.Name, err = required("name", in.Name, 200); err != nil {
		return err
	}
	if c.Issuer, err = optional("issuer", in.Issuer, 200); err != nil {
		return err
	}
	if err := validYear("year", in.Year); err != nil {
		return err
	}
	c.Year = in.Year
	return nil
}

func (s *CertificationService) query(ctx context.Context, identity policy.Identity, employeeID uint) (*gorm.DB, error) {
	q, err := s.scoped(ctx, identity, policy.ResourceCertification, &models.Certification{})
	if err != nil {
		return nil, err
	}
	if employeeID != 0 {
		q = q.Where("certifications.employee_id = ?", employeeID)
	}
	return q.Order("certifications.employee_id ASC").Order("certifications.id ASC"), nil
}

func (s *CertificationService) Each(ctx context.Context, identity policy.Identity, employeeID uint) iter.Seq2[models.Certification, error] {
	return each[models.Certification](func() (*gorm.DB, error) {
		return s.query(ctx, identity, employeeID)
	}, defaultPageSize)
}

func (s *CertificationService) List(ctx context.Context, identity policy.Identity, employeeID uint) ([]models.Certification, error) {
	rows, err := collect(s.Each(ctx, identity, employeeID))
	s.logStoreError("list certifications", err)
	return rows, err
}

func (s *CertificationService) Create(ctx context.Context, identity policy.Identity, input CertificationInput) (*models.Certification, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var cert models.Certification
	if err := input.apply(&cert); err != nil {
		return nil, err
	}
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.ensureEmployee(tx, cert.EmployeeID); err != nil {
			return err
		}
		return store.TranslateError("create certification", tx.Omit(clause.Associations).Create(&cert).Error)
	})
	if err != nil {
		s.logStoreError("create certification", err)
		return nil, err
	}
	return &cert, nil
}

func (s *CertificationService) Update(ctx context.Context, identity policy.Identity, id uint, input CertificationInput) (*models.Certification, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var cert models.Certification
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.findByID(tx, "certification", id, &cert); err != nil {
			return err
		}
		if err := input.apply(&cert); err != nil {
			return err
		}
		if err := s.ensureEmployee(tx, cert.EmployeeID); err != nil {
			return err
		}
		return store.TranslateError("update certification", tx.Omit(clause.Associations).Save(&cert).Error)
	})
	if err != nil {
		s.logStoreError("update certification", err)
		return nil, err
	}
	return &cert, nil
}

func (s *CertificationService) Delete(ctx context.Context, identity policy.Identity, id uint) error {
	return s.deleteByID(ctx, identity, "certification", &models.Certification{}, id)
}
