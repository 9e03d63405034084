package position

import "github.com/shopspring/decimal"

type CreatePositionRequest struct {
	Code         string           `json:"code" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Description  *string          `json:"description"`
	DepartmentID int64            `json:"departmentId" binding:"required"`
	Level        int              `json:"level"`
	BaseSalary   *decimal.Decimal `json:"baseSalary"`
}

type UpdatePositionRequest struct {
	Code         *string          `json:"code"`
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	DepartmentID *int64           `json:"departmentId"`
	Level        *int             `json:"level"`
	BaseSalary   *decimal.Decimal `json:"baseSalary"`
	IsActive     *bool            `json:"isActive"`
}

type QueryPositionRequest struct {
	Search       string `form:"search"`
	DepartmentID *int64 `form:"departmentId"`
	IsActive     *bool  `form:"isActive"`
}

type PositionResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	DepartmentID int64           `json:"departmentId"`
	Level        int             `json:"level"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	IsActive     bool            `json:"isActive"`
}
