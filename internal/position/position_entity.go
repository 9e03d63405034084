package position

import (
	"time"

	"github.com/shopspring/decimal"
)

type Position struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Code         string `gorm:"type:varchar(20);uniqueIndex:uq_positions_code"`
	Name         string `gorm:"type:varchar(120);not null"`
	Description  *string
	DepartmentID int64           `gorm:"not null;index"`
	Level        int             `gorm:"not null;default:1"`
	BaseSalary   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
