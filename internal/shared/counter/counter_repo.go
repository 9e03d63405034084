package counter

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// EmployeeCode is the counter backing EMPnnn code allocation.
const EmployeeCode = "employee_code"

type Counter struct {
	Name      string `gorm:"primaryKey"`
	LastValue int64
	UpdatedAt time.Time
}

func (Counter) TableName() string {
	return "counters"
}

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	GetNextValue(ctx context.Context, name string) (int64, error)
	EnsureAtLeast(ctx context.Context, name string, min int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetNextValue reserves the next value with an atomic upsert so concurrent
// callers never observe the same number.
func (r *repository) GetNextValue(ctx context.Context, name string) (int64, error) {
	var nextValue int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (name, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (name) DO UPDATE
		SET last_value = counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, name).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// EnsureAtLeast advances the counter to min when it is behind, for catching
// up with rows created before the counter existed. It never moves backwards.
func (r *repository) EnsureAtLeast(ctx context.Context, name string, min int64) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO counters (name, last_value, updated_at)
		VALUES (?, ?, now())
		ON CONFLICT (name) DO UPDATE
		SET last_value = GREATEST(counters.last_value, EXCLUDED.last_value), updated_at = now()
	`, name, min).Error
}
