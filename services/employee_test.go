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

func TestEmployeeList(t *testing.T) {
	f := test.NewFixture(t)
	svc := newServices(f, testNow)
	ctx := context.Background()

	names := func(rows []models.Employee) []string {
		out := []string{}
		for _, e := range rows {
			out = append(out, e.FullName)
		}
		return out
	}

	t.Run("Manager Sees Exactly Own Department", func(t *testing.T) {
		rows, err := svc.Employees.List(ctx, test.Identity(f.ITManager), services.EmployeeFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ivan Manager", "Carol Chen", "Dave Diaz"}, names(rows))
		for _, e := range rows {
			require.NotNil(t, e.Department)
			assert.Equal(t, "IT", e.Department.Code)
		}
	})

	t.Run("Filters Narrow The Scope", func(t *testing.T) {
		rows, err := svc.Employees.List(ctx, test.Identity(f.ITManager), services.EmployeeFilter{DepartmentID: f.HR.ID})
		require.NoError(t, err)
		assert.Empty(t, rows)

		rows, err = svc.Employees.List(ctx, test.Identity(f.Admin), services.EmployeeFilter{Search: "carol"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Carol Chen"}, names(rows))
	})

	t.Run("Employee Gets Self But Not Colleague", func(t *testing.T) {
		got, err := svc.Employees.Get(ctx, test.Identity(f.BobUser), f.Bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob Brown", got.FullName)

		_, err = svc.Employees.Get(ctx, test.Identity(f.BobUser), f.Alice.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})
}

func TestEmployeeRoundTrip(t *testing.T) {
	f := test.NewFixture(t)
	svc := newServices(f, testNow)
	ctx := context.Background()
	admin := test.Identity(f.Admin)

	input := services.EmployeeInput{
		FullName:         "Erin Evans",
		NationalID:       "NIK-E",
		DepartmentID:     f.IT.ID,
		JobTitle:         "Engineer",
		EmploymentStatus: models.EmploymentActive,
		HireDate:         "2024-02-01",
		BirthPlace:       "Bandung",
		BirthDate:        "1995-07-14",
		Gender:           "female",
		Address:          "Jl. Merdeka 1",
		Phone:            "+62 812 0000",
		Email:            "erin@example.com",
		MaritalStatus:    "single",
		Religion:         "none",
		InitialContract: &services.ContractInput{
			StartDate:    "2024-02-01",
			EndDate:      "2025-01-31",
			ContractType: "fixed_term",
		},
	}

	created, err := svc.Employees.Create(ctx, admin, input)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	rows, err := svc.Employees.List(ctx, admin, services.EmployeeFilter{Search: "NIK-E"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0]
	assert.Equal(t, input.FullName, got.FullName)
	assert.Equal(t, input.NationalID, got.NationalID)
	assert.Equal(t, f.IT.ID, got.DepartmentID)
	assert.Equal(t, input.JobTitle, got.JobTitle)
	assert.Equal(t, input.EmploymentStatus, got.EmploymentStatus)
	assert.Equal(t, input.HireDate, got.HireDate.Format("2006-01-02"))
	assert.Equal(t, input.BirthDate, got.BirthDate.Format("2006-01-02"))
	assert.Equal(t, input.BirthPlace, got.BirthPlace)
	assert.Equal(t, input.Gender, got.Gender)
	assert.Equal(t, input.Address, got.Address)
	assert.Equal(t, input.Phone, got.Phone)
	require.NotNil(t, got.Email)
	assert.Equal(t, input.Email, *got.Email)
	assert.Equal(t, input.MaritalStatus, got.MaritalStatus)
	assert.Equal(t, input.Religion, got.Religion)

	contracts, err := svc.Contracts.List(ctx, admin, services.ContractFilter{EmployeeID: created.ID})
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, models.ContractActive, contracts[0].Status)

	t.Run("Whitespace Is Kept Byte For Byte", func(t *testing.T) {
		padded := services.EmployeeInput{
			FullName:     "  Erin Evans ",
			NationalID:   "NIK-P ",
			DepartmentID: f.IT.ID,
			JobTitle:     "Engineer\t",
			Address:      "Jl. Merdeka 1\n\tBlok B",
		}
		created, err := svc.Employees.Create(ctx, admin, padded)
		require.NoError(t, err)

		got, err := svc.Employees.Get(ctx, admin, created.ID)
		require.NoError(t, err)
		assert.Equal(t, padded.FullName, got.FullName)
		assert.Equal(t, padded.NationalID, got.NationalID)
		assert.Equal(t, padded.JobTitle, got.JobTitle)
		assert.Equal(t, padded.Address, got.Address)
		assert.Nil(t, got.Email)

		blank := padded
		blank.NationalID = "NIK-Q"
		blank.FullName = " \t "
		_, err = svc.Employees.Create(ctx, admin, blank)
		assert.True(t, errors.Is(err, types.ErrValidation))
	})

	t.Run("Duplicate National ID Is Validation Error", func(t *testing.T) {
		dup := input
		dup.Email = ""
		dup.InitialContract = nil
		_, err := svc.Employees.Create(ctx, admin, dup)
		assert.True(t, errors.Is(err, types.ErrValidation))
	})

	t.Run("Bad Initial Contract Creates Nothing", func(t *testing.T) {
		bad := input
		bad.NationalID = "NIK-F"
		bad.Email = ""
		bad.InitialContract = &services.ContractInput{StartDate: "2024-02-01", EndDate: "2023-01-01", ContractType: "fixed_term"}
		_, err := svc.Employees.Create(ctx, admin, bad)
		assert.True(t, errors.Is(err, types.ErrValidation))

		var n int64
		require.NoError(t, f.DB.Model(&models.Employee{}).Where("national_id = ?", "NIK-F").Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("Unknown Department Is Not Found", func(t *testing.T) {
		other := input
		other.NationalID = "NIK-G"
		other.Email = ""
		other.InitialContract = nil
		other.DepartmentID = 999
		_, err := svc.Employees.Create(ctx, admin, other)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("Update Replaces Fields", func(t *testing.T) {
		upd := input
		upd.JobTitle = "Lead Engineer"
		upd.Phone = ""
		upd.InitialContract = nil
		got, err := svc.Employees.Update(ctx, admin, created.ID, upd)
		require.NoError(t, err)
		assert.Equal(t, "Lead Engineer", got.JobTitle)
		assert.Empty(t, got.Phone)
	})

	t.Run("Non Admin Mutations Are Forbidden", func(t *testing.T) {
		_, err := svc.Employees.Create(ctx, test.Identity(f.HRManager), input)
		assert.True(t, errors.Is(err, types.ErrForbidden))
		_, err = svc.Employees.Update(ctx, test.Identity(f.AliceUser), f.Alice.ID, input)
		assert.True(t, errors.Is(err, types.ErrForbidden))
		err = svc.Employees.Delete(ctx, test.Identity(f.ITManager), f.Carol.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})
}

func TestEmployeeDeleteCascades(t *testing.T) {
	f := test.NewFixture(t)
	svc := newServices(f, testNow)
	ctx := context.Background()
	admin := test.Identity(f.Admin)

	sub := f.AddLeave(t, f.Alice, "2024-05-13", "2024-05-14", models.LeavePending, day(1))
	_, err := svc.Leaves.Approve(ctx, test.Identity(f.HRManager), sub.ID)
	require.NoError(t, err)
	bobLeave := f.AddLeave(t, f.Bob, "2024-05-15", "2024-05-15", models.LeavePending, day(2))
	_, err = svc.Leaves.Approve(ctx, test.Identity(f.HRManager), bobLeave.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Employees.Delete(ctx, admin, f.Alice.ID))

	for _, model := range []interface{}{&models.LeaveSubmission{}, &models.DailyAttendance{}} {
		var n int64
		require.NoError(t, f.DB.Model(model).Where("employee_id = ?", f.Alice.ID).Count(&n).Error)
		assert.Zero(t, n)
	}

	var user models.User
	require.NoError(t, f.DB.First(&user, f.AliceUser.ID).Error)
	assert.Nil(t, user.EmployeeID)

	// Deleting the approver keeps the decision but clears who made it.
	require.NoError(t, svc.Employees.Delete(ctx, admin, f.HRManagerEmployee.ID))
	var stored models.LeaveSubmission
	require.NoError(t, f.DB.First(&stored, bobLeave.ID).Error)
	assert.Equal(t, models.LeaveApproved, stored.Status)
	assert.Nil(t, stored.ApproverEmployeeID)

	err = svc.Employees.Delete(ctx, admin, f.Alice.ID)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}
