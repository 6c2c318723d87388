package models

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Email        string    `gorm:"size:200;uniqueIndex;not null" json:"email"`
	Role         Role      `gorm:"size:20;not null" json:"role"` // admin, manager, employee
	EmployeeID   *uint     `json:"employee_id"`
	Employee     *Employee `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// Employee statuses
const (
	EmploymentActive   = "active"
	EmploymentInactive = "inactive"
	EmploymentResigned = "resigned"
)

type Employee struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	FullName         string      `gorm:"size:200;not null" json:"full_name"`
	NationalID       string      `gorm:"size:50;uniqueIndex;not null" json:"national_id"`
	DepartmentID     uint        `gorm:"not null;index" json:"department_id"`
	Department       *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	JobTitle         string      `gorm:"size:200" json:"job_title"`
	EmploymentStatus string      `gorm:"size:20;not null;default:'active'" json:"employment_status"`
	HireDate         *time.Time  `gorm:"type:date" json:"hire_date"`
	UserID           *uint       `json:"user_id"`
	BirthPlace       string      `gorm:"size:100" json:"birth_place"`
	BirthDate        *time.Time  `gorm:"type:date" json:"birth_date"`
	Gender           string      `gorm:"size:20" json:"gender"`
	Address          string      `json:"address"`
	Phone            string      `gorm:"size:50" json:"phone"`
	Email            *string     `gorm:"size:200;uniqueIndex" json:"email"`
	MaritalStatus    string      `gorm:"size:50" json:"marital_status"`
	Religion         string      `gorm:"size:50" json:"religion"`
}

// Contract statuses
const (
	ContractActive     = "active"
	ContractExpired    = "expired"
	ContractTerminated = "terminated"
)

type Contract struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmployeeID   uint      `gorm:"not null;index" json:"employee_id"`
	Employee     *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
	StartDate    time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null" json:"end_date"`
	ContractType string    `gorm:"size:30;not null" json:"contract_type"` // fixed_term, permanent, probation, internship
	Status       string    `gorm:"size:20;not null;default:'active'" json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

type Education struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EmployeeID     uint      `gorm:"not null;index" json:"employee_id"`
	Employee       *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
	Level          string    `gorm:"size:50;not null" json:"level"`
	Institution    string    `gorm:"size:200;not null" json:"institution"`
	Major          string    `gorm:"size:200" json:"major"`
	EntryYear      *int      `json:"entry_year"`
	GraduationYear *int      `json:"graduation_year"`
}

type Certification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	Issuer     string    `gorm:"size:200" json:"issuer"`
	Year       *int      `json:"year"`
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Leave types
const (
	LeaveAnnual    = "annual"
	LeaveSick      = "sick"
	LeaveMaternity = "maternity"
	LeaveOther     = "other"
)

type LeaveSubmission struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	EmployeeID         uint        `gorm:"not null;index" json:"employee_id"`
	Employee           *Employee   `gorm:"foreignKey:EmployeeID" json:"-"`
	StartDate          time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time   `gorm:"type:date;not null" json:"end_date"`
	LeaveType          string      `gorm:"size:30;not null" json:"leave_type"`
	Reason             string      `json:"reason"`
	Status             LeaveStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApproverEmployeeID *uint       `json:"approver_employee_id"`
	Approver           *Employee   `gorm:"foreignKey:ApproverEmployeeID;constraint:OnDelete:SET NULL" json:"-"`
	ApprovedDate       *time.Time  `gorm:"type:date" json:"approved_date"`
	CreatedAt          time.Time   `gorm:"not null;index" json:"created_at"`
}

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceAbsent  = "absent"
	AttendanceSick    = "sick"
	AttendanceLeave   = "leave"
)

type DailyAttendance struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	EmployeeID        uint             `gorm:"not null;uniqueIndex:idx_attendance_employee_date" json:"employee_id"`
	Employee          *Employee        `gorm:"foreignKey:EmployeeID" json:"-"`
	Date              time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date" json:"date"`
	CheckIn           *string          `gorm:"size:8" json:"check_in"`  // HH:MM:SS
	CheckOut          *string          `gorm:"size:8" json:"check_out"` // HH:MM:SS
	Status            string           `gorm:"size:20;not null" json:"status"`
	Notes             string           `json:"notes"`
	LeaveSubmissionID *uint            `json:"leave_submission_id"`
	LeaveSubmission   *LeaveSubmission `gorm:"foreignKey:LeaveSubmissionID" json:"-"`
	CreatedAt         time.Time        `gorm:"not null" json:"created_at"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Department{},
		&Employee{},
		&User{},
		&Contract{},
		&Education{},
		&Certification{},
		&LeaveSubmission{},
		&DailyAttendance{},
	}
}
