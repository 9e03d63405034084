package employee

import (
	"time"

	"github.com/nateesoft/management-hrm-service/internal/department"
	"github.com/nateesoft/management-hrm-service/internal/position"

	"github.com/shopspring/decimal"
)

const (
	StatusActive     = "ACTIVE"
	StatusInactive   = "INACTIVE"
	StatusOnLeave    = "ON_LEAVE"
	StatusTerminated = "TERMINATED"
)

const (
	EmploymentFullTime = "FULL_TIME"
	EmploymentPartTime = "PART_TIME"
	EmploymentContract = "CONTRACT"
	EmploymentIntern   = "INTERN"
)

type Employee struct {
	ID                    int64   `gorm:"primaryKey;autoIncrement"`
	EmployeeCode          string  `gorm:"type:varchar(20);uniqueIndex:uq_employees_code"`
	FirstName             string  `gorm:"type:varchar(120);not null"`
	LastName              string  `gorm:"type:varchar(120);not null"`
	Nickname              *string `gorm:"type:varchar(60)"`
	Email                 *string `gorm:"type:varchar(255);uniqueIndex:uq_employees_email"`
	Phone                 *string `gorm:"type:varchar(20)"`
	Address               *string
	DateOfBirth           *time.Time
	Gender                *string `gorm:"type:varchar(10)"`
	NationalID            *string `gorm:"type:varchar(20);uniqueIndex:uq_employees_national_id"`
	DepartmentID          int64   `gorm:"not null;index"`
	PositionID            int64   `gorm:"not null;index"`
	EmploymentType        string  `gorm:"type:varchar(20);not null;default:'FULL_TIME'"`
	StartDate             time.Time
	EndDate               *time.Time
	BaseSalary            decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status                string          `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	BankAccount           *string         `gorm:"type:varchar(30)"`
	BankName              *string         `gorm:"type:varchar(120)"`
	EmergencyContactName  *string
	EmergencyContactPhone *string `gorm:"type:varchar(20)"`
	ImageURL              *string
	FoodOrderingUserID    *int64 `gorm:"uniqueIndex:uq_employees_food_ordering_user_id"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Department *department.Department `gorm:"foreignKey:DepartmentID"`
	Position   *position.Position     `gorm:"foreignKey:PositionID"`
}
