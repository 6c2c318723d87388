package services

import (
	"context"
	"iter"
	"strings"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"
	"hr_records/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var contractTypes = []string{"fixed_term", "permanent", "probation", "internship"}

type ContractFilter struct {
	EmployeeID uint
	Status     string
}

type ContractInput struct {
	EmployeeID   uint   `json:"employee_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	ContractType string `json:"contract_type"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

type ContractService struct {
	base
}

// apply validates in into c. A nested contract takes its employee from the
// enclosing employee create.
func (in ContractInput) apply(c *models.Contract, nested bool) error {
	if !nested {
		if in.EmployeeID == 0 {
			return types.Validation("employee_id is required")
		}
		c.EmployeeID = in.EmployeeID
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	if start.After(end) {
		return types.Validation("start_date must not be after end_date")
	}
	c.StartDate, c.EndDate = start, end

	if err := oneOf("contract_type", in.ContractType, contractTypes...); err != nil {
		return err
	}
	c.ContractType = in.ContractType

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.ContractActive
	}
	if err := oneOf("status", status, models.ContractActive, models.ContractExpired, models.ContractTerminated); err != nil {
		return err
	}
	c.Status = status

	c.Notes, err = optional("notes", in.Notes, 1000)
	return err
}

func (s *ContractService) query(ctx context.Context, identity policy.Identity, filter ContractFilter) (*gorm.DB, error) {
	q, err := s.scoped(ctx, identity, policy.ResourceContract, &models.Contract{})
	if err != nil {
		return nil, err
	}
	if filter.EmployeeID != 0 {
		q = q.Where("contracts.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("contracts.status = ?", filter.Status)
	}
	return q.Order("contracts.start_date DESC").Order("contracts.id DESC"), nil
}

func (s *ContractService) Each(ctx context.Context, identity policy.Identity, filter ContractFilter) iter.Seq2[models.Contract, error] {
	return each[models.Contract](func() (*gorm.DB, error) {
		return s.query(ctx, identity, filter)
	}, defaultPageSize)
}

func (s *ContractService) List(ctx context.Context, identity policy.Identity, filter ContractFilter) ([]models.Contract, error) {
	contracts, err := collect(s.Each(ctx, identity, filter))
	s.logStoreError("list contracts", err)
	return contracts, err
}

func (s *ContractService) Create(ctx context.Context, identity policy.Identity, input ContractInput) (*models.Contract, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var contract models.Contract
	if err := input.apply(&contract, false); err != nil {
		return nil, err
	}
	contract.CreatedAt = s.now()

	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.ensureEmployee(tx, contract.EmployeeID); err != nil {
			return err
		}
		return store.TranslateError("create contract", tx.Omit(clause.Associations).Create(&contract).Error)
	})
	if err != nil {
		s.logStoreError("create contract", err)
		return nil, err
	}
	return &contract, nil
}

func (s *ContractService) Update(ctx context.Context, identity policy.Identity, id uint, input ContractInput) (*models.Contract, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	var contract models.Contract
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.findByID(tx, "contract", id, &contract); err != nil {
			return err
		}
		if err := input.apply(&contract, false); err != nil {
			return err
		}
		if err := s.ensureEmployee(tx, contract.EmployeeID); err != nil {
			return err
		}
		return store.TranslateError("update contract", tx.Omit(clause.Associations).Save(&contract).Error)
	})
	if err != nil {
		s.logStoreError("update contract", err)
		return nil, err
	}
	return &contract, nil
}

func (s *ContractService) Delete(ctx context.Context, identity policy.Identity, id uint) error {
	return s.deleteByID(ctx, identity, "contract", &models.Contract{}, id)
}
