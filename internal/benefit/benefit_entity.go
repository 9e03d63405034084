package benefit

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeHealthInsurance = "HEALTH_INSURANCE"
	TypeTransportation  = "TRANSPORTATION"
	TypeMealAllowance   = "MEAL_ALLOWANCE"
	TypePhoneAllowance  = "PHONE_ALLOWANCE"
	TypeOther           = "OTHER"
)

type Benefit struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Code          string `gorm:"type:varchar(30);uniqueIndex:uq_benefits_code"`
	Name          string `gorm:"type:varchar(120);not null"`
	Description   *string
	Type          string          `gorm:"type:varchar(30);not null"`
	DefaultAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmployeeBenefit is a benefit assignment; one row per (employee, benefit)
// pair, deactivated instead of deleted so it can be reactivated later.
type EmployeeBenefit struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	EmployeeID int64           `gorm:"not null;uniqueIndex:uq_employee_benefits_pair,priority:1"`
	BenefitID  int64           `gorm:"not null;uniqueIndex:uq_employee_benefits_pair,priority:2"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StartDate  time.Time
	EndDate    *time.Time
	IsActive   bool `gorm:"not null;default:true;index"`
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Benefit *Benefit `gorm:"foreignKey:BenefitID"`
}
