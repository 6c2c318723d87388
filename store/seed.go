package store

import (
	"context"
	"fmt"
	"time"

	"hr_records/models"
	"hr_records/utils"

	"gorm.io/gorm"
)

// SeedPasswords are the initial passwords of the seeded accounts.
var SeedPasswords = map[models.Role]string{
	models.RoleAdmin:    "admin123",
	models.RoleManager:  "manager123",
	models.RoleEmployee: "employee123",
}

var seedDepartments = []models.Department{
	{Code: "DEPT001", Name: "HR Department"},
	{Code: "DEPT002", Name: "IT Department"},
	{Code: "DEPT003", Name: "Finance Department"},
	{Code: "DEPT004", Name: "Marketing Department"},
	{Code: "DEPT005", Name: "Operations Department"},
}

var seedManagers = []struct {
	username string
	email    string
	deptIdx  int
}{
	{"manager_hr", "hr_manager@hrsystem.com", 0},
	{"manager_it", "it_manager@hrsystem.com", 1},
	{"manager_fin", "fin_manager@hrsystem.com", 2},
}

// Seed fills an empty database with demo data. It does nothing when any user exists.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashes := make(map[models.Role]string, len(SeedPasswords))
	for role, pw := range SeedPasswords {
		h, err := utils.HashPassword(pw)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		hashes[role] = h
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return Transaction(ctx, db, func(tx *gorm.DB) error {
		depts := make([]models.Department, len(seedDepartments))
		copy(depts, seedDepartments)
		if err := tx.Create(&depts).Error; err != nil {
			return fmt.Errorf("seed departments: %w", err)
		}

		admin := models.User{
			Username:     "admin",
			PasswordHash: hashes[models.RoleAdmin],
			Email:        "admin@hrsystem.com",
			Role:         models.RoleAdmin,
			Active:       true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		hired := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		born := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

		for i, m := range seedManagers {
			dept := depts[m.deptIdx]
			emp := models.Employee{
				FullName:         fmt.Sprintf("%s Manager", dept.Name),
				NationalID:       fmt.Sprintf("MGR%03d", i+1),
				DepartmentID:     dept.ID,
				JobTitle:         "Department Manager",
				EmploymentStatus: models.EmploymentActive,
				HireDate:         &hired,
			}
			if err := linkEmployeeUser(tx, &emp, models.User{
				Username:     m.username,
				PasswordHash: hashes[models.RoleManager],
				Email:        m.email,
				Role:         models.RoleManager,
				Active:       true,
			}); err != nil {
				return err
			}
		}

		titles := []string{"IT", "Finance", "Marketing", "HR", "Operations"}
		var employees []models.Employee
		for i := 1; i <= 20; i++ {
			dept := depts[i%len(depts)]
			gender := "female"
			if i%2 == 0 {
				gender = "male"
			}
			marital := "single"
			if i%3 == 0 {
				marital = "married"
			}
			email := fmt.Sprintf("employee%d@company.com", i)
			emp := models.Employee{
				FullName:         fmt.Sprintf("Employee %d", i),
				NationalID:       fmt.Sprintf("NIK%03d", i),
				DepartmentID:     dept.ID,
				JobTitle:         "Staff " + titles[i%len(titles)],
				EmploymentStatus: models.EmploymentActive,
				HireDate:         &hired,
				BirthPlace:       "Jakarta",
				BirthDate:        &born,
				Gender:           gender,
				Address:          fmt.Sprintf("Jl. Example No.%d", i),
				Phone:            fmt.Sprintf("0812345678%02d", i),
				Email:            &email,
				MaritalStatus:    marital,
				Religion:         "Islam",
			}
			if err := linkEmployeeUser(tx, &emp, models.User{
				Username:     fmt.Sprintf("emp%03d", i),
				PasswordHash: hashes[models.RoleEmployee],
				Email:        fmt.Sprintf("emp%d@company.com", i),
				Role:         models.RoleEmployee,
				Active:       true,
			}); err != nil {
				return err
			}

			if i%2 == 0 {
				entry, grad := 2010, 2014
				if err := tx.Create(&models.Education{
					EmployeeID:     emp.ID,
					Level:          "Bachelor",
					Institution:    "Universitas Indonesia",
					Major:          "Informatics",
					EntryYear:      &entry,
					GraduationYear: &grad,
				}).Error; err != nil {
					return fmt.Errorf("seed education: %w", err)
				}
			}

			start := hired.AddDate(0, 0, i*30)
			if err := tx.Create(&models.Contract{
				EmployeeID:   emp.ID,
				StartDate:    start,
				EndDate:      start.AddDate(0, 0, 365),
				ContractType: "fixed_term",
				Status:       models.ContractActive,
			}).Error; err != nil {
				return fmt.Errorf("seed contract: %w", err)
			}
			employees = append(employees, emp)
		}

		for i := 1; i <= 5; i++ {
			start := today.AddDate(0, 0, i)
			if err := tx.Create(&models.LeaveSubmission{
				EmployeeID: employees[i-1].ID,
				StartDate:  start,
				EndDate:    start.AddDate(0, 0, 2),
				LeaveType:  models.LeaveAnnual,
				Reason:     fmt.Sprintf("Family holiday %d", i),
				Status:     models.LeavePending,
			}).Error; err != nil {
				return fmt.Errorf("seed leave: %w", err)
			}
		}

		in, out := "08:00:00", "17:00:00"
		for _, emp := range employees[:5] {
			for day := 0; day < 7; day++ {
				date := today.AddDate(0, 0, -day)
				if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
					continue
				}
				if err := tx.Create(&models.DailyAttendance{
					EmployeeID: emp.ID,
					Date:       date,
					CheckIn:    &in,
					CheckOut:   &out,
					Status:     models.AttendancePresent,
				}).Error; err != nil {
					return fmt.Errorf("seed attendance: %w", err)
				}
			}
		}
		return nil
	})
}

// linkEmployeeUser inserts the employee and its account and points them at each other.
func linkEmployeeUser(tx *gorm.DB, emp *models.Employee, user models.User) error {
	if err := tx.Create(emp).Error; err != nil {
		return fmt.Errorf("seed employee %s: %w", emp.NationalID, err)
	}
	user.EmployeeID = &emp.ID
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("seed user %s: %w", user.Username, err)
	}
	if err := tx.Model(emp).Update("user_id", user.ID).Error; err != nil {
		return fmt.Errorf("link employee %s: %w", emp.NationalID, err)
	}
	emp.UserID = &user.ID
	return nil
}
