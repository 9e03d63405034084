package benefit

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=benefit_repo.go -destination=mock/benefit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateBenefit(ctx context.Context, b *Benefit) error
	FindAllBenefits(ctx context.Context, isActive *bool) ([]Benefit, error)
	FindBenefitByID(ctx context.Context, id int64) (*Benefit, error)
	FindBenefitByCode(ctx context.Context, code string) (*Benefit, error)
	UpdateBenefit(ctx context.Context, b *Benefit) error
	DeleteBenefit(ctx context.Context, id int64) error
	CountActiveAssignments(ctx context.Context, benefitID int64) (int64, error)

	CreateAssignment(ctx context.Context, eb *EmployeeBenefit) error
	FindAssignments(ctx context.Context, query QueryAssignmentRequest) ([]EmployeeBenefit, error)
	FindAssignmentByID(ctx context.Context, id int64) (*EmployeeBenefit, error)
	FindAssignmentByPair(ctx context.Context, employeeID, benefitID int64) (*EmployeeBenefit, error)
	UpdateAssignment(ctx context.Context, eb *EmployeeBenefit) error

	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	Summary(ctx context.Context) ([]BenefitSummaryItem, error)
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

func (r *repository) CreateBenefit(ctx context.Context, b *Benefit) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindAllBenefits(ctx context.Context, isActive *bool) ([]Benefit, error) {
	var benefits []Benefit
	db := r.db.WithContext(ctx)
	if isActive != nil {
		db = db.Where("is_active = ?", *isActive)
	}
	err := db.Order("name ASC").Find(&benefits).Error
	return benefits, err
}

func (r *repository) FindBenefitByID(ctx context.Context, id int64) (*Benefit, error) {
	var b Benefit
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) FindBenefitByCode(ctx context.Context, code string) (*Benefit, error) {
	var b Benefit
	err := r.db.WithContext(ctx).First(&b, "code = ?", code).Error
	return &b, err
}

func (r *repository) UpdateBenefit(ctx context.Context, b *Benefit) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) DeleteBenefit(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Benefit{}, "id = ?", id).Error
}

func (r *repository) CountActiveAssignments(ctx context.Context, benefitID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&EmployeeBenefit{}).
		Where("benefit_id = ? AND is_active = true", benefitID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateAssignment(ctx context.Context, eb *EmployeeBenefit) error {
	return r.db.WithContext(ctx).Create(eb).Error
}

func (r *repository) FindAssignments(ctx context.Context, query QueryAssignmentRequest) ([]EmployeeBenefit, error) {
	var assignments []EmployeeBenefit
	db := r.db.WithContext(ctx).Where("is_active = true")

	if query.EmployeeID != nil {
		db = db.Where("employee_id = ?", *query.EmployeeID)
	}
	if query.BenefitID != nil {
		db = db.Where("benefit_id = ?", *query.BenefitID)
	}

	err := db.Preload("Benefit").Order("employee_id ASC, benefit_id ASC").Find(&assignments).Error
	return assignments, err
}

func (r *repository) FindAssignmentByID(ctx context.Context, id int64) (*EmployeeBenefit, error) {
	var eb EmployeeBenefit
	err := r.db.WithContext(ctx).Preload("Benefit").First(&eb, "id = ?", id).Error
	return &eb, err
}

func (r *repository) FindAssignmentByPair(ctx context.Context, employeeID, benefitID int64) (*EmployeeBenefit, error) {
	var eb EmployeeBenefit
	err := r.db.WithContext(ctx).
		First(&eb, "employee_id = ? AND benefit_id = ?", employeeID, benefitID).Error
	return &eb, err
}

func (r *repository) UpdateAssignment(ctx context.Context, eb *EmployeeBenefit) error {
	return r.db.WithContext(ctx).Omit("Benefit").Save(eb).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Summary(ctx context.Context) ([]BenefitSummaryItem, error) {
	var items []BenefitSummaryItem
	err := r.db.WithContext(ctx).
		Table("benefits b").
		Select(`b.id, b.code, b.name, b.type, b.default_amount,
			COUNT(eb.id) AS employee_count,
			COALESCE(SUM(eb.amount), 0) AS total_monthly_cost`).
		Joins("LEFT JOIN employee_benefits eb ON eb.benefit_id = b.id AND eb.is_active = true").
		Where("b.is_active = true").
		Group("b.id, b.code, b.name, b.type, b.default_amount").
		Order("b.code ASC").
		Scan(&items).Error
	return items, err
}
