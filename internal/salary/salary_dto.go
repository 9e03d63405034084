package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSalaryRequest struct {
	EmployeeID      int64            `json:"employeeId" binding:"required"`
	Month           int              `json:"month" binding:"required,min=1,max=12"`
	Year            int              `json:"year" binding:"required,min=2020"`
	BaseSalary      *decimal.Decimal `json:"baseSalary" binding:"required"`
	OvertimeHours   *decimal.Decimal `json:"overtimeHours"`
	OvertimeRate    *decimal.Decimal `json:"overtimeRate"`
	Bonus           *decimal.Decimal `json:"bonus"`
	Allowances      *decimal.Decimal `json:"allowances"`
	Commission      *decimal.Decimal `json:"commission"`
	SocialSecurity  *decimal.Decimal `json:"socialSecurity"`
	Tax             *decimal.Decimal `json:"tax"`
	OtherDeductions *decimal.Decimal `json:"otherDeductions"`
	DeductionNotes  *string          `json:"deductionNotes"`
	Notes           *string          `json:"notes"`
}

type UpdateSalaryRequest struct {
	BaseSalary      *decimal.Decimal `json:"baseSalary"`
	OvertimeHours   *decimal.Decimal `json:"overtimeHours"`
	OvertimeRate    *decimal.Decimal `json:"overtimeRate"`
	Bonus           *decimal.Decimal `json:"bonus"`
	Allowances      *decimal.Decimal `json:"allowances"`
	Commission      *decimal.Decimal `json:"commission"`
	SocialSecurity  *decimal.Decimal `json:"socialSecurity"`
	Tax             *decimal.Decimal `json:"tax"`
	OtherDeductions *decimal.Decimal `json:"otherDeductions"`
	DeductionNotes  *string          `json:"deductionNotes"`
	Notes           *string          `json:"notes"`
}

type GenerateSalaryRequest struct {
	Month       int     `json:"month" binding:"required,min=1,max=12"`
	Year        int     `json:"year" binding:"required,min=2020"`
	EmployeeIDs []int64 `json:"employeeIds"`
}

type QuerySalaryRequest struct {
	EmployeeID *int64 `form:"employeeId"`
	Month      *int   `form:"month" binding:"omitempty,min=1,max=12"`
	Year       *int   `form:"year"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING APPROVED PAID CANCELLED"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type EmployeeRef struct {
	ID             int64  `json:"id"`
	EmployeeCode   string `json:"employeeCode"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PositionName   string `json:"positionName,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
}

type SalaryResponse struct {
	ID              int64           `json:"id"`
	EmployeeID      int64           `json:"employeeId"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	BaseSalary      decimal.Decimal `json:"baseSalary"`
	OvertimeHours   decimal.Decimal `json:"overtimeHours"`
	OvertimeRate    decimal.Decimal `json:"overtimeRate"`
	OvertimeAmount  decimal.Decimal `json:"overtimeAmount"`
	Bonus           decimal.Decimal `json:"bonus"`
	Allowances      decimal.Decimal `json:"allowances"`
	Commission      decimal.Decimal `json:"commission"`
	SocialSecurity  decimal.Decimal `json:"socialSecurity"`
	Tax             decimal.Decimal `json:"tax"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	NetSalary       decimal.Decimal `json:"netSalary"`
	Status          string          `json:"status"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	PaymentMethod   *string         `json:"paymentMethod,omitempty"`
	PaymentRef      *string         `json:"paymentRef,omitempty"`
	DeductionNotes  *string         `json:"deductionNotes,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	Employee        *EmployeeRef    `json:"employee,omitempty"`
}

// GenerateResult tallies one bulk generation run. A failing employee lands
// in Errors without aborting the rest of the batch.
type GenerateResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type MonthSummary struct {
	TotalRecords     int             `json:"totalRecords"`
	TotalGrossSalary decimal.Decimal `json:"totalGrossSalary"`
	TotalNetSalary   decimal.Decimal `json:"totalNetSalary"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	PaidCount        int             `json:"paidCount"`
	PendingCount     int             `json:"pendingCount"`
}

type ByMonthResponse struct {
	Data    []SalaryResponse `json:"data"`
	Summary MonthSummary     `json:"summary"`
}

type StatusCounts struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Paid      int64 `json:"paid"`
	Cancelled int64 `json:"cancelled"`
}

type SummaryResponse struct {
	TotalRecords     int64           `json:"totalRecords"`
	TotalGrossSalary decimal.Decimal `json:"totalGrossSalary"`
	TotalNetSalary   decimal.Decimal `json:"totalNetSalary"`
	TotalBonus       decimal.Decimal `json:"totalBonus"`
	TotalOvertime    decimal.Decimal `json:"totalOvertime"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	ByStatus         StatusCounts    `json:"byStatus"`
}
