package services

import (
	"context"
	"iter"
	"strings"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"
	"hr_records/types"
	"hr_records/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserInput struct {
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	EmployeeID *uint       `json:"employee_id"`
}

type UserService struct {
	base
}

func (s *UserService) Each(ctx context.Context, identity policy.Identity) iter.Seq2[models.User, error] {
	return each[models.User](func() (*gorm.DB, error) {
		q, err := s.scoped(ctx, identity, policy.ResourceUser, &models.User{})
		if err != nil {
			return nil, err
		}
		return q.Order("users.id ASC"), nil
	}, defaultPageSize)
}

// List returns all users for admins and the caller's own account otherwise.
func (s *UserService) List(ctx context.Context, identity policy.Identity) ([]models.User, error) {
	users, err := collect(s.Each(ctx, identity))
	s.logStoreError("list users", err)
	return users, err
}

func (s *UserService) Get(ctx context.Context, identity policy.Identity, id uint) (*models.User, error) {
	var user models.User
	if err := s.findScoped(ctx, identity, policy.ResourceUser, "user", id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create adds a login. When an employee is given, both sides of the link are
// set and the employee must not already have a user.
func (s *UserService) Create(ctx context.Context, identity policy.Identity, input UserInput) (*models.User, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	username, err := required("username", input.Username, 100)
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(username, " \t") {
		return nil, types.Validation("username must not contain spaces")
	}
	if len(input.Password) < 8 || len(input.Password) > 72 {
		return nil, types.Validation("password length must be in range 8..72")
	}
	email, err := required("email", input.Email, 200)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, types.Validation("email must be a valid address")
	}
	if !input.Role.Valid() {
		return nil, types.Validation("role must be one of: admin, manager, employee")
	}
	if input.EmployeeID != nil && *input.EmployeeID == 0 {
		input.EmployeeID = nil
	}
	if input.EmployeeID == nil && input.Role != models.RoleAdmin {
		return nil, types.Validation("employee_id is required for role %s", input.Role)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, types.Store("hash password", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         input.Role,
		EmployeeID:   input.EmployeeID,
		Active:       true,
		CreatedAt:    s.now(),
	}
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if user.EmployeeID != nil {
			var employee models.Employee
			if err := s.findByID(tx, "employee", *user.EmployeeID, &employee); err != nil {
				return err
			}
			if employee.UserID != nil {
				return types.Validation("employee already has a user account")
			}
		}
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return store.TranslateError("create user", err)
		}
		if user.EmployeeID != nil {
			err := tx.Model(&models.Employee{}).
				Where("id = ?", *user.EmployeeID).
				Update("user_id", user.ID).Error
			return store.TranslateError("link employee", err)
		}
		return nil
	})
	if err != nil {
		s.logStoreError("create user", err)
		return nil, err
	}

	s.logger.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return &user, nil
}

// Deactivate disables a login. Users are never removed so approvals and audit
// references stay meaningful. The caller can't deactivate itself.
func (s *UserService) Deactivate(ctx context.Context, identity policy.Identity, id uint) (*models.User, error) {
	if err := policy.RequireAdmin(identity); err != nil {
		return nil, err
	}
	if id == identity.UserID {
		return nil, types.InvalidState("you cannot deactivate your own account")
	}

	var user models.User
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.findByID(tx, "user", id, &user); err != nil {
			return err
		}
		if !user.Active {
			return types.InvalidState("user is already inactive")
		}
		user.Active = false
		return store.TranslateError("deactivate user", tx.Model(&user).Update("active", false).Error)
	})
	if err != nil {
		s.logStoreError("deactivate user", err)
		return nil, err
	}

	s.logger.Info("User deactivated", zap.Uint("user_id", id), zap.Uint("by_user_id", identity.UserID))
	return &user, nil
}
