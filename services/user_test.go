package services_test

import (
	"context"
	"errors"
	"testing"

	"hr_records/models"
	"hr_records/services"
	"hr_records/test"
	"hr_records/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	f := test.NewFixture(t)
	svc := newServices(f, testNow)
	ctx := context.Background()
	admin := test.Identity(f.Admin)

	t.Run("Non Admin Sees Only Self", func(t *testing.T) {
		rows, err := svc.Users.List(ctx, test.Identity(f.HRManager))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, f.HRManager.ID, rows[0].ID)

		_, err = svc.Users.Get(ctx, test.Identity(f.AliceUser), f.BobUser.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))

		rows, err = svc.Users.List(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, rows, 9)
	})

	t.Run("Create Links Both Sides", func(t *testing.T) {
		emp, err := svc.Employees.Create(ctx, admin, services.EmployeeInput{
			FullName: "Eve Evans", NationalID: "NIK-E", DepartmentID: f.IT.ID,
		})
		require.NoError(t, err)

		user, err := svc.Users.Create(ctx, admin, services.UserInput{
			Username: "eve", Password: "longenough", Email: "eve@example.com",
			Role: models.RoleEmployee, EmployeeID: &emp.ID,
		})
		require.NoError(t, err)
		assert.True(t, user.Active)
		assert.NotEqual(t, "longenough", user.PasswordHash)

		var reloaded models.Employee
		require.NoError(t, f.DB.First(&reloaded, emp.ID).Error)
		require.NotNil(t, reloaded.UserID)
		assert.Equal(t, user.ID, *reloaded.UserID)

		_, err = svc.Auth.Login(ctx, "eve", "longenough")
		require.NoError(t, err)

		_, err = svc.Users.Create(ctx, admin, services.UserInput{
			Username: "eve2", Password: "longenough", Email: "eve2@example.com",
			Role: models.RoleEmployee, EmployeeID: &emp.ID,
		})
		assert.True(t, errors.Is(err, types.ErrValidation), "employee already linked")
	})

	t.Run("Validation", func(t *testing.T) {
		cases := []services.UserInput{
			{Username: "has space", Password: "longenough", Email: "x@example.com", Role: models.RoleAdmin},
			{Username: "short", Password: "short", Email: "x@example.com", Role: models.RoleAdmin},
			{Username: "noat", Password: "longenough", Email: "example.com", Role: models.RoleAdmin},
			{Username: "norole", Password: "longenough", Email: "x@example.com", Role: "owner"},
			{Username: "nolink", Password: "longenough", Email: "x@example.com", Role: models.RoleManager},
			{Username: "alice", Password: "longenough", Email: "other@example.com", Role: models.RoleAdmin},
		}
		for _, in := range cases {
			_, err := svc.Users.Create(ctx, admin, in)
			assert.True(t, errors.Is(err, types.ErrValidation), "%+v", in)
		}
	})

	t.Run("Unknown Employee Is Not Found", func(t *testing.T) {
		missing := uint(999)
		_, err := svc.Users.Create(ctx, admin, services.UserInput{
			Username: "ghost", Password: "longenough", Email: "ghost@example.com",
			Role: models.RoleEmployee, EmployeeID: &missing,
		})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("Deactivate", func(t *testing.T) {
		_, err := svc.Users.Deactivate(ctx, admin, f.Admin.ID)
		assert.True(t, errors.Is(err, types.ErrInvalidState))

		_, err = svc.Users.Deactivate(ctx, test.Identity(f.HRManager), f.AliceUser.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))

		user, err := svc.Users.Deactivate(ctx, admin, f.AliceUser.ID)
		require.NoError(t, err)
		assert.False(t, user.Active)

		_, err = svc.Users.Deactivate(ctx, admin, f.AliceUser.ID)
		assert.True(t, errors.Is(err, types.ErrInvalidState))

		_, err = svc.Users.Deactivate(ctx, admin, 999)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}
