package salary

import (
	"time"

	"github.com/nateesoft/management-hrm-service/internal/employee"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

// IsTerminalStatus reports whether no further transition (or monetary
// mutation) is allowed for a record in the given status.
func IsTerminalStatus(status string) bool {
	return status == StatusPaid || status == StatusCancelled
}

type SalaryRecord struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	EmployeeID      int64           `gorm:"not null;uniqueIndex:uq_salary_records_period,priority:1"`
	Month           int             `gorm:"not null;uniqueIndex:uq_salary_records_period,priority:2"`
	Year            int             `gorm:"not null;uniqueIndex:uq_salary_records_period,priority:3"`
	BaseSalary      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	OvertimeHours   decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	OvertimeRate    decimal.Decimal `gorm:"type:numeric(4,2);not null;default:1.5"`
	OvertimeAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Bonus           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Allowances      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Commission      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	SocialSecurity  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Tax             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OtherDeductions decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	GrossSalary     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status          string          `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	PaidAt          *time.Time
	PaymentMethod   *string `gorm:"type:varchar(30)"`
	PaymentRef      *string `gorm:"type:varchar(60)"`
	DeductionNotes  *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}
