package salary

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EligibleEmployee is the slice of an employee row that bulk generation
// needs.
type EligibleEmployee struct {
	ID           int64
	EmployeeCode string
	BaseSalary   decimal.Decimal
}

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *SalaryRecord) error
	FindAll(ctx context.Context, query QuerySalaryRequest) ([]SalaryRecord, int64, error)
	FindByID(ctx context.Context, id int64) (*SalaryRecord, error)
	FindByPeriod(ctx context.Context, employeeID int64, month, year int) (*SalaryRecord, error)
	FindByMonth(ctx context.Context, year, month int) ([]SalaryRecord, error)
	Update(ctx context.Context, record *SalaryRecord) error
	Delete(ctx context.Context, id int64) error
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	FindEligibleEmployees(ctx context.Context, employeeIDs []int64) ([]EligibleEmployee, error)
	SumActiveBenefitAmounts(ctx context.Context, employeeID int64) (decimal.Decimal, error)
	Summary(ctx context.Context, year, month *int) (SummaryResponse, error)
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

func (r *repository) Create(ctx context.Context, record *SalaryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindAll(ctx context.Context, query QuerySalaryRequest) ([]SalaryRecord, int64, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	db := r.db.WithContext(ctx).Model(&SalaryRecord{})

	if query.EmployeeID != nil {
		db = db.Where("employee_id = ?", *query.EmployeeID)
	}
	if query.Month != nil {
		db = db.Where("month = ?", *query.Month)
	}
	if query.Year != nil {
		db = db.Where("year = ?", *query.Year)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []SalaryRecord
	err := db.
		Preload("Employee").
		Preload("Employee.Department").
		Preload("Employee.Position").
		Order("year DESC, month DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*SalaryRecord, error) {
	var record SalaryRecord
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Department").
		Preload("Employee.Position").
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindByPeriod(ctx context.Context, employeeID int64, month, year int) (*SalaryRecord, error) {
	var record SalaryRecord
	err := r.db.WithContext(ctx).
		First(&record, "employee_id = ? AND month = ? AND year = ?", employeeID, month, year).Error
	return &record, err
}

func (r *repository) FindByMonth(ctx context.Context, year, month int) ([]SalaryRecord, error) {
	var records []SalaryRecord
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Department").
		Preload("Employee.Position").
		Where("year = ? AND month = ?", year, month).
		Order("employee_id ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) Update(ctx context.Context, record *SalaryRecord) error {
	return r.db.WithContext(ctx).Omit("Employee").Save(record).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&SalaryRecord{}, "id = ?", id).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

// FindEligibleEmployees returns the ACTIVE employees generation may cover,
// optionally restricted to the given ids.
func (r *repository) FindEligibleEmployees(ctx context.Context, employeeIDs []int64) ([]EligibleEmployee, error) {
	db := r.db.WithContext(ctx).
		Table("employees").
		Select("id, employee_code, base_salary").
		Where("status = ?", "ACTIVE")

	if len(employeeIDs) > 0 {
		db = db.Where("id IN ?", employeeIDs)
	}

	var employees []EligibleEmployee
	err := db.Order("id ASC").Scan(&employees).Error
	return employees, err
}

func (r *repository) SumActiveBenefitAmounts(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("employee_benefits").
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("employee_id = ? AND is_active = true", employeeID).
		Scan(&row).Error
	return row.Total, err
}

func (r *repository) Summary(ctx context.Context, year, month *int) (SummaryResponse, error) {
	db := r.db.WithContext(ctx).Model(&SalaryRecord{})

	if year != nil {
		db = db.Where("year = ?", *year)
	}
	if month != nil {
		db = db.Where("month = ?", *month)
	}

	var row struct {
		TotalRecords     int64
		TotalGrossSalary decimal.Decimal
		TotalNetSalary   decimal.Decimal
		TotalBonus       decimal.Decimal
		TotalOvertime    decimal.Decimal
		TotalDeductions  decimal.Decimal
		PendingCount     int64
		ApprovedCount    int64
		PaidCount        int64
		CancelledCount   int64
	}

	err := db.Select(`COUNT(*) AS total_records,
		COALESCE(SUM(gross_salary), 0) AS total_gross_salary,
		COALESCE(SUM(net_salary), 0) AS total_net_salary,
		COALESCE(SUM(bonus), 0) AS total_bonus,
		COALESCE(SUM(overtime_amount), 0) AS total_overtime,
		COALESCE(SUM(social_security + tax + other_deductions), 0) AS total_deductions,
		COUNT(*) FILTER (WHERE status = 'PENDING') AS pending_count,
		COUNT(*) FILTER (WHERE status = 'APPROVED') AS approved_count,
		COUNT(*) FILTER (WHERE status = 'PAID') AS paid_count,
		COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled_count`).
		Scan(&row).Error
	if err != nil {
		return SummaryResponse{}, err
	}

	return SummaryResponse{
		TotalRecords:     row.TotalRecords,
		TotalGrossSalary: row.TotalGrossSalary,
		TotalNetSalary:   row.TotalNetSalary,
		TotalBonus:       row.TotalBonus,
		TotalOvertime:    row.TotalOvertime,
		TotalDeductions:  row.TotalDeductions,
		ByStatus: StatusCounts{
			Pending:   row.PendingCount,
			Approved:  row.ApprovedCount,
			Paid:      row.PaidCount,
			Cancelled: row.CancelledCount,
		},
	}, nil
}
