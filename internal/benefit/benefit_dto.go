package benefit

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBenefitRequest struct {
	Code          string           `json:"code" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	Description   *string          `json:"description"`
	Type          string           `json:"type" binding:"required,oneof=HEALTH_INSURANCE TRANSPORTATION MEAL_ALLOWANCE PHONE_ALLOWANCE OTHER"`
	DefaultAmount *decimal.Decimal `json:"defaultAmount"`
	IsActive      *bool            `json:"isActive"`
}

type UpdateBenefitRequest struct {
	Code          *string          `json:"code"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Type          *string          `json:"type" binding:"omitempty,oneof=HEALTH_INSURANCE TRANSPORTATION MEAL_ALLOWANCE PHONE_ALLOWANCE OTHER"`
	DefaultAmount *decimal.Decimal `json:"defaultAmount"`
	IsActive      *bool            `json:"isActive"`
}

type AssignBenefitRequest struct {
	EmployeeID int64            `json:"employeeId" binding:"required"`
	BenefitID  int64            `json:"benefitId" binding:"required"`
	Amount     *decimal.Decimal `json:"amount" binding:"required"`
	StartDate  *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate    *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Notes      *string          `json:"notes"`
}

type UpdateAssignmentRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	EndDate  *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	IsActive *bool            `json:"isActive"`
	Notes    *string          `json:"notes"`
}

type QueryAssignmentRequest struct {
	EmployeeID *int64 `form:"employeeId"`
	BenefitID  *int64 `form:"benefitId"`
}

type BenefitResponse struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Type            string          `json:"type"`
	DefaultAmount   decimal.Decimal `json:"defaultAmount"`
	IsActive        bool            `json:"isActive"`
	AssignmentCount int64           `json:"assignmentCount"`
}

type AssignmentResponse struct {
	ID         int64            `json:"id"`
	EmployeeID int64            `json:"employeeId"`
	BenefitID  int64            `json:"benefitId"`
	Amount     decimal.Decimal  `json:"amount"`
	StartDate  time.Time        `json:"startDate"`
	EndDate    *time.Time       `json:"endDate,omitempty"`
	IsActive   bool             `json:"isActive"`
	Notes      *string          `json:"notes,omitempty"`
	Benefit    *BenefitResponse `json:"benefit,omitempty"`
}

// BenefitSummaryItem aggregates one active benefit across its active
// assignments.
type BenefitSummaryItem struct {
	ID               int64           `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	DefaultAmount    decimal.Decimal `json:"defaultAmount"`
	EmployeeCount    int64           `json:"employeeCount"`
	TotalMonthlyCost decimal.Decimal `json:"totalMonthlyCost"`
}
