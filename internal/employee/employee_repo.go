package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, emp *Employee) error
	FindAll(ctx context.Context, query QueryEmployeeRequest) ([]Employee, int64, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByNationalID(ctx context.Context, nationalID string) (*Employee, error)
	FindByFoodOrderingUserID(ctx context.Context, userID int64) (*Employee, error)
	Update(ctx context.Context, emp *Employee) error
	DepartmentExists(ctx context.Context, departmentID int64) (bool, error)
	PositionExists(ctx context.Context, positionID int64) (bool, error)
	LastEmployeeCode(ctx context.Context) (string, error)
	LinkedUserIDs(ctx context.Context) ([]int64, error)
	SalaryHistory(ctx context.Context, employeeID int64) ([]SalaryHistoryItem, error)
	ActiveBenefits(ctx context.Context, employeeID int64) ([]EmployeeBenefitItem, error)
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

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *repository) FindAll(ctx context.Context, query QueryEmployeeRequest) ([]Employee, int64, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	db := r.db.WithContext(ctx).Model(&Employee{})

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR employee_code ILIKE ? OR email ILIKE ? OR nickname ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	if query.DepartmentID != nil {
		db = db.Where("department_id = ?", *query.DepartmentID)
	}
	if query.PositionID != nil {
		db = db.Where("position_id = ?", *query.PositionID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.EmploymentType != "" {
		db = db.Where("employment_type = ?", query.EmploymentType)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []Employee
	err := db.
		Preload("Department").
		Preload("Position").
		Order("first_name ASC, last_name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&employees).Error
	return employees, total, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Position").
		First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "employee_code = ?", code).Error
	return &emp, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "email = ?", email).Error
	return &emp, err
}

func (r *repository) FindByNationalID(ctx context.Context, nationalID string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "national_id = ?", nationalID).Error
	return &emp, err
}

func (r *repository) FindByFoodOrderingUserID(ctx context.Context, userID int64) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "food_ordering_user_id = ?", userID).Error
	return &emp, err
}

func (r *repository) Update(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).
		Omit("Department", "Position").
		Save(emp).Error
}

func (r *repository) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) PositionExists(ctx context.Context, positionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("positions").
		Where("id = ?", positionID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LastEmployeeCode(ctx context.Context) (string, error) {
	var code string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("employee_code").
		Order("id DESC").
		Limit(1).
		Scan(&code).Error
	return code, err
}

// LinkedUserIDs lists every food-ordering user id already attached to an
// employee record.
func (r *repository) LinkedUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("food_ordering_user_id IS NOT NULL").
		Pluck("food_ordering_user_id", &ids).Error
	return ids, err
}

func (r *repository) SalaryHistory(ctx context.Context, employeeID int64) ([]SalaryHistoryItem, error) {
	var items []SalaryHistoryItem
	err := r.db.WithContext(ctx).
		Table("salary_records").
		Select("id, month, year, net_salary, status, paid_at").
		Where("employee_id = ?", employeeID).
		Order("year DESC, month DESC").
		Scan(&items).Error
	return items, err
}

func (r *repository) ActiveBenefits(ctx context.Context, employeeID int64) ([]EmployeeBenefitItem, error) {
	var items []EmployeeBenefitItem
	err := r.db.WithContext(ctx).
		Table("employee_benefits eb").
		Select(`eb.id AS assignment_id, b.id AS benefit_id, b.code AS benefit_code,
			b.name AS benefit_name, eb.amount, eb.start_date, eb.end_date`).
		Joins("JOIN benefits b ON b.id = eb.benefit_id").
		Where("eb.employee_id = ? AND eb.is_active = true", employeeID).
		Order("b.code ASC").
		Scan(&items).Error
	return items, err
}
