// Package test builds throwaway databases populated with a small, known
// organisation for package tests.
package test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the login password of every fixture user.
const Password = "password123"

// Fixture is two departments, HR and IT, each with a manager and two
// employees, plus an admin and a few edge-case accounts.
type Fixture struct {
	DB *gorm.DB

	HR, IT models.Department

	Admin models.User

	// HRManager manages HR through its linked employee HRManagerEmployee.
	HRManager         models.User
	HRManagerEmployee models.Employee
	ITManager         models.User
	ITManagerEmployee models.Employee

	// Alice and Bob work in HR; Carol and Dave in IT.
	Alice, Bob, Carol, Dave                 models.Employee
	AliceUser, BobUser, CarolUser, DaveUser models.User

	// UnlinkedManager and UnlinkedEmployee have no employee record.
	UnlinkedManager  models.User
	UnlinkedEmployee models.User
}

// SetupTestDB opens a migrated SQLite database in a temp directory.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hr_test.db")
	db, err := store.Open("sqlite://"+path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		_ = store.Close(db)
	})
	return db
}

// NewFixture returns a fresh database populated with the fixture organisation.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	db := SetupTestDB(t)
	f := &Fixture{DB: db}

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.HR = models.Department{Code: "HR", Name: "Human Resources", CreatedAt: now}
	f.IT = models.Department{Code: "IT", Name: "Information Technology", CreatedAt: now}
	require.NoError(t, db.Create(&f.HR).Error)
	require.NoError(t, db.Create(&f.IT).Error)

	f.Admin = f.user(t, "admin", string(hash), models.RoleAdmin, nil)

	f.HRManagerEmployee = f.employee(t, "Hana Manager", "HRM-1", f.HR.ID)
	f.HRManager = f.user(t, "hana", string(hash), models.RoleManager, &f.HRManagerEmployee)
	f.ITManagerEmployee = f.employee(t, "Ivan Manager", "ITM-1", f.IT.ID)
	f.ITManager = f.user(t, "ivan", string(hash), models.RoleManager, &f.ITManagerEmployee)

	f.Alice = f.employee(t, "Alice Adams", "NIK-A", f.HR.ID)
	f.AliceUser = f.user(t, "alice", string(hash), models.RoleEmployee, &f.Alice)
	f.Bob = f.employee(t, "Bob Brown", "NIK-B", f.HR.ID)
	f.BobUser = f.user(t, "bob", string(hash), models.RoleEmployee, &f.Bob)
	f.Carol = f.employee(t, "Carol Chen", "NIK-C", f.IT.ID)
	f.CarolUser = f.user(t, "carol", string(hash), models.RoleEmployee, &f.Carol)
	f.Dave = f.employee(t, "Dave Diaz", "NIK-D", f.IT.ID)
	f.DaveUser = f.user(t, "dave", string(hash), models.RoleEmployee, &f.Dave)

	f.UnlinkedManager = f.user(t, "nomad", string(hash), models.RoleManager, nil)
	f.UnlinkedEmployee = f.user(t, "drifter", string(hash), models.RoleEmployee, nil)

	return f
}

func (f *Fixture) employee(t *testing.T, name, nationalID string, deptID uint) models.Employee {
	t.Helper()
	hired := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	e := models.Employee{
		FullName:         name,
		NationalID:       nationalID,
		DepartmentID:     deptID,
		JobTitle:         "Staff",
		EmploymentStatus: models.EmploymentActive,
		HireDate:         &hired,
	}
	require.NoError(t, f.DB.Omit("Department").Create(&e).Error)
	return e
}

func (f *Fixture) user(t *testing.T, username, hash string, role models.Role, emp *models.Employee) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        fmt.Sprintf("%s@example.com", username),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if emp != nil {
		u.EmployeeID = &emp.ID
	}
	require.NoError(t, f.DB.Omit("Employee").Create(&u).Error)
	if emp != nil {
		require.NoError(t, f.DB.Model(&models.Employee{}).Where("id = ?", emp.ID).Update("user_id", u.ID).Error)
		emp.UserID = &u.ID
	}
	return u
}

// Identity returns the session identity of u.
func Identity(u models.User) policy.Identity {
	return policy.Identity{UserID: u.ID, Role: u.Role, EmployeeID: u.EmployeeID}
}

// AddLeave inserts a submission directly, bypassing the service.
func (f *Fixture) AddLeave(t *testing.T, emp models.Employee, start, end string, status models.LeaveStatus, createdAt time.Time) models.LeaveSubmission {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	e, err := time.Parse("2006-01-02", end)
	require.NoError(t, err)
	sub := models.LeaveSubmission{
		EmployeeID: emp.ID,
		StartDate:  s,
		EndDate:    e,
		LeaveType:  models.LeaveAnnual,
		Reason:     "fixture",
		Status:     status,
		CreatedAt:  createdAt,
	}
	require.NoError(t, f.DB.Omit("Employee", "Approver").Create(&sub).Error)
	return sub
}

// FixedClock returns a clock that always reads t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
