package position

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=position_repo.go -destination=mock/position_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pos *Position) error
	FindAll(ctx context.Context, query QueryPositionRequest) ([]Position, error)
	FindByID(ctx context.Context, id int64) (*Position, error)
	FindByCode(ctx context.Context, code string) (*Position, error)
	DepartmentExists(ctx context.Context, departmentID int64) (bool, error)
	Update(ctx context.Context, pos *Position) error
	Delete(ctx context.Context, id int64) error
	CountEmployees(ctx context.Context, id int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pos *Position) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

func (r *repository) FindAll(ctx context.Context, query QueryPositionRequest) ([]Position, error) {
	var positions []Position
	db := r.db.WithContext(ctx)

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if query.DepartmentID != nil {
		db = db.Where("department_id = ?", *query.DepartmentID)
	}
	if query.IsActive != nil {
		db = db.Where("is_active = ?", *query.IsActive)
	}

	err := db.Order("department_id ASC, level ASC").Find(&positions).Error
	return positions, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Position, error) {
	var pos Position
	err := r.db.WithContext(ctx).First(&pos, "id = ?", id).Error
	return &pos, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Position, error) {
	var pos Position
	err := r.db.WithContext(ctx).First(&pos, "code = ?", code).Error
	return &pos, err
}

func (r *repository) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, pos *Position) error {
	return r.db.WithContext(ctx).Save(pos).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Position{}, "id = ?", id).Error
}

func (r *repository) CountEmployees(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("position_id = ?", id).
		Count(&count).Error
	return count, err
}
