package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeCode          string           `json:"employeeCode" binding:"required"`
	FirstName             string           `json:"firstName" binding:"required"`
	LastName              string           `json:"lastName" binding:"required"`
	Nickname              *string          `json:"nickname"`
	Email                 *string          `json:"email" binding:"omitempty,email"`
	Phone                 *string          `json:"phone"`
	Address               *string          `json:"address"`
	DateOfBirth           *string          `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender                *string          `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	NationalID            *string          `json:"nationalId"`
	DepartmentID          int64            `json:"departmentId" binding:"required"`
	PositionID            int64            `json:"positionId" binding:"required"`
	EmploymentType        *string          `json:"employmentType" binding:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERN"`
	StartDate             *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	BaseSalary            *decimal.Decimal `json:"baseSalary" binding:"required"`
	BankAccount           *string          `json:"bankAccount"`
	BankName              *string          `json:"bankName"`
	EmergencyContactName  *string          `json:"emergencyContactName"`
	EmergencyContactPhone *string          `json:"emergencyContactPhone"`
	ImageURL              *string          `json:"imageUrl"`
	FoodOrderingUserID    *int64           `json:"foodOrderingUserId"`
}

type UpdateEmployeeRequest struct {
	EmployeeCode          *string          `json:"employeeCode"`
	FirstName             *string          `json:"firstName"`
	LastName              *string          `json:"lastName"`
	Nickname              *string          `json:"nickname"`
	Email                 *string          `json:"email" binding:"omitempty,email"`
	Phone                 *string          `json:"phone"`
	Address               *string          `json:"address"`
	DateOfBirth           *string          `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender                *string          `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	NationalID            *string          `json:"nationalId"`
	DepartmentID          *int64           `json:"departmentId"`
	PositionID            *int64           `json:"positionId"`
	EmploymentType        *string          `json:"employmentType" binding:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERN"`
	StartDate             *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate               *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	BaseSalary            *decimal.Decimal `json:"baseSalary"`
	Status                *string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE ON_LEAVE TERMINATED"`
	BankAccount           *string          `json:"bankAccount"`
	BankName              *string          `json:"bankName"`
	EmergencyContactName  *string          `json:"emergencyContactName"`
	EmergencyContactPhone *string          `json:"emergencyContactPhone"`
	ImageURL              *string          `json:"imageUrl"`
}

type QueryEmployeeRequest struct {
	Search         string `form:"search"`
	DepartmentID   *int64 `form:"departmentId"`
	PositionID     *int64 `form:"positionId"`
	Status         string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE ON_LEAVE TERMINATED"`
	EmploymentType string `form:"employmentType" binding:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERN"`
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
}

type LinkUserRequest struct {
	FoodOrderingUserID int64 `json:"foodOrderingUserId" binding:"required"`
}

type CatalogRef struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type EmployeeResponse struct {
	ID                    int64           `json:"id"`
	EmployeeCode          string          `json:"employeeCode"`
	FirstName             string          `json:"firstName"`
	LastName              string          `json:"lastName"`
	Nickname              *string         `json:"nickname,omitempty"`
	Email                 *string         `json:"email,omitempty"`
	Phone                 *string         `json:"phone,omitempty"`
	Address               *string         `json:"address,omitempty"`
	DateOfBirth           *time.Time      `json:"dateOfBirth,omitempty"`
	Gender                *string         `json:"gender,omitempty"`
	NationalID            *string         `json:"nationalId,omitempty"`
	DepartmentID          int64           `json:"departmentId"`
	PositionID            int64           `json:"positionId"`
	Department            *CatalogRef     `json:"department,omitempty"`
	Position              *CatalogRef     `json:"position,omitempty"`
	EmploymentType        string          `json:"employmentType"`
	StartDate             time.Time       `json:"startDate"`
	EndDate               *time.Time      `json:"endDate,omitempty"`
	BaseSalary            decimal.Decimal `json:"baseSalary"`
	Status                string          `json:"status"`
	BankAccount           *string         `json:"bankAccount,omitempty"`
	BankName              *string         `json:"bankName,omitempty"`
	EmergencyContactName  *string         `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone *string         `json:"emergencyContactPhone,omitempty"`
	ImageURL              *string         `json:"imageUrl,omitempty"`
	FoodOrderingUserID    *int64          `json:"foodOrderingUserId,omitempty"`
}

// SalaryHistoryItem is the per-period slice of an employee's payroll records
// surfaced on GET /employees/:id/salary-history.
type SalaryHistoryItem struct {
	ID        int64           `json:"id"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	NetSalary decimal.Decimal `json:"netSalary"`
	Status    string          `json:"status"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
}

// EmployeeBenefitItem joins an active benefit assignment with its catalog row.
type EmployeeBenefitItem struct {
	AssignmentID int64           `json:"assignmentId"`
	BenefitID    int64           `json:"benefitId"`
	BenefitCode  string          `json:"benefitCode"`
	BenefitName  string          `json:"benefitName"`
	Amount       decimal.Decimal `json:"amount"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
}

type GenerateCodeResponse struct {
	EmployeeCode string `json:"employeeCode"`
}
