package department

import "time"

type Department struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Code        string `gorm:"type:varchar(20);uniqueIndex:uq_departments_code"`
	Name        string `gorm:"type:varchar(120);not null"`
	Description *string
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
