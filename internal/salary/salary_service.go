package salary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nateesoft/management-hrm-service/internal/events"
	"github.com/nateesoft/management-hrm-service/internal/messaging/kafka"
	salaryerrors "github.com/nateesoft/management-hrm-service/internal/salary/errors"
	"github.com/nateesoft/management-hrm-service/internal/shared/contextutil"
	"github.com/nateesoft/management-hrm-service/internal/shared/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error)
	GetAll(ctx context.Context, query QuerySalaryRequest) ([]SalaryResponse, *response.PaginationMeta, error)
	GetByID(ctx context.Context, id int64) (SalaryResponse, error)
	ByMonth(ctx context.Context, year, month int) (ByMonthResponse, error)
	Summary(ctx context.Context, year, month *int) (SummaryResponse, error)
	Update(ctx context.Context, id int64, req UpdateSalaryRequest) (SalaryResponse, error)
	Generate(ctx context.Context, req GenerateSalaryRequest) (GenerateResult, error)
	Approve(ctx context.Context, id int64) (SalaryResponse, error)
	MarkAsPaid(ctx context.Context, id int64, paymentMethod, paymentRef string) (SalaryResponse, error)
	Cancel(ctx context.Context, id int64) (SalaryResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository) Service {
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		logger: zap.L().Named("salary"),
	}
}

func (s *service) Create(
	ctx context.Context,
	req CreateSalaryRequest,
) (SalaryResponse, error) {
	if err := validateAmounts(monetaryFields(
		req.BaseSalary, req.OvertimeHours, req.Bonus, req.Allowances,
		req.Commission, req.SocialSecurity, req.Tax, req.OtherDeductions,
	), req.OvertimeRate); err != nil {
		return SalaryResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SalaryResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, err
	}
	if !exists {
		return SalaryResponse{}, salaryerrors.ErrEmployeeNotFound
	}

	if _, err := qtx.FindByPeriod(ctx, req.EmployeeID, req.Month, req.Year); err == nil {
		return SalaryResponse{}, salaryerrors.ErrPeriodExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SalaryResponse{}, err
	}

	record := &SalaryRecord{
		EmployeeID:      req.EmployeeID,
		Month:           req.Month,
		Year:            req.Year,
		BaseSalary:      *req.BaseSalary,
		OvertimeHours:   valueOrZero(req.OvertimeHours),
		OvertimeRate:    rateOrDefault(req.OvertimeRate),
		Bonus:           valueOrZero(req.Bonus),
		Allowances:      valueOrZero(req.Allowances),
		Commission:      valueOrZero(req.Commission),
		SocialSecurity:  valueOrZero(req.SocialSecurity),
		Tax:             valueOrZero(req.Tax),
		OtherDeductions: valueOrZero(req.OtherDeductions),
		Status:          StatusPending,
		DeductionNotes:  req.DeductionNotes,
		Notes:           req.Notes,
	}
	applyCalculation(record)

	if err := qtx.Create(ctx, record); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return SalaryResponse{}, err
	}

	return s.reload(ctx, record.ID)
}

func (s *service) GetAll(
	ctx context.Context,
	query QuerySalaryRequest,
) ([]SalaryResponse, *response.PaginationMeta, error) {
	records, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, nil, mapRepositoryError(err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	meta := response.NewPaginationMeta(total, page, limit)

	return mapToListResponse(records), &meta, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (SalaryResponse, error) {
	return s.reload(ctx, id)
}

func (s *service) ByMonth(ctx context.Context, year, month int) (ByMonthResponse, error) {
	if month < 1 || month > 12 || year < 2020 {
		return ByMonthResponse{}, salaryerrors.ErrInvalidPeriod
	}

	records, err := s.repo.FindByMonth(ctx, year, month)
	if err != nil {
		return ByMonthResponse{}, mapRepositoryError(err)
	}

	summary := MonthSummary{
		TotalRecords:     len(records),
		TotalGrossSalary: decimal.Zero,
		TotalNetSalary:   decimal.Zero,
		TotalDeductions:  decimal.Zero,
	}
	for _, r := range records {
		summary.TotalGrossSalary = summary.TotalGrossSalary.Add(r.GrossSalary)
		summary.TotalNetSalary = summary.TotalNetSalary.Add(r.NetSalary)
		summary.TotalDeductions = summary.TotalDeductions.
			Add(r.SocialSecurity).Add(r.Tax).Add(r.OtherDeductions)
		switch r.Status {
		case StatusPaid:
			summary.PaidCount++
		case StatusPending:
			summary.PendingCount++
		}
	}

	return ByMonthResponse{
		Data:    mapToListResponse(records),
		Summary: summary,
	}, nil
}

func (s *service) Summary(ctx context.Context, year, month *int) (SummaryResponse, error) {
	return s.repo.Summary(ctx, year, month)
}

// Update merges the supplied fields over the stored record and recomputes
// every derived amount. Terminal records are locked: a PAID or CANCELLED
// record's monetary fields cannot change.
func (s *service) Update(
	ctx context.Context,
	id int64,
	req UpdateSalaryRequest,
) (SalaryResponse, error) {
	if err := validateAmounts(monetaryFields(
		req.BaseSalary, req.OvertimeHours, req.Bonus, req.Allowances,
		req.Commission, req.SocialSecurity, req.Tax, req.OtherDeductions,
	), req.OvertimeRate); err != nil {
		return SalaryResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SalaryResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if IsTerminalStatus(record.Status) {
		return SalaryResponse{}, salaryerrors.ErrRecordLocked(record.Status)
	}

	if req.BaseSalary != nil {
		record.BaseSalary = *req.BaseSalary
	}
	if req.OvertimeHours != nil {
		record.OvertimeHours = *req.OvertimeHours
	}
	if req.OvertimeRate != nil {
		record.OvertimeRate = *req.OvertimeRate
	}
	if req.Bonus != nil {
		record.Bonus = *req.Bonus
	}
	if req.Allowances != nil {
		record.Allowances = *req.Allowances
	}
	if req.Commission != nil {
		record.Commission = *req.Commission
	}
	if req.SocialSecurity != nil {
		record.SocialSecurity = *req.SocialSecurity
	}
	if req.Tax != nil {
		record.Tax = *req.Tax
	}
	if req.OtherDeductions != nil {
		record.OtherDeductions = *req.OtherDeductions
	}
	if req.DeductionNotes != nil {
		record.DeductionNotes = req.DeductionNotes
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	applyCalculation(record)

	if err := qtx.Update(ctx, record); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return SalaryResponse{}, err
	}

	return s.reload(ctx, id)
}

// Generate creates PENDING records for every eligible employee that does not
// already have one for the period. Each record commits on its own, so one
// failing employee is reported in the tally without aborting the batch.
func (s *service) Generate(
	ctx context.Context,
	req GenerateSalaryRequest,
) (GenerateResult, error) {
	employees, err := s.repo.FindEligibleEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return GenerateResult{}, err
	}

	result := GenerateResult{Errors: []string{}}

	for _, emp := range employees {
		if _, perr := s.repo.FindByPeriod(ctx, emp.ID, req.Month, req.Year); perr == nil {
			result.Skipped++
			continue
		} else if !errors.Is(perr, gorm.ErrRecordNotFound) {
			result.Errors = append(result.Errors, generateFailure(emp.EmployeeCode, perr))
			continue
		}

		allowances, aerr := s.repo.SumActiveBenefitAmounts(ctx, emp.ID)
		if aerr != nil {
			result.Errors = append(result.Errors, generateFailure(emp.EmployeeCode, aerr))
			continue
		}

		record := &SalaryRecord{
			EmployeeID:     emp.ID,
			Month:          req.Month,
			Year:           req.Year,
			BaseSalary:     emp.BaseSalary,
			OvertimeRate:   DefaultOvertimeRate,
			Allowances:     allowances,
			SocialSecurity: DefaultSocialSecurity(emp.BaseSalary),
			Status:         StatusPending,
		}
		applyCalculation(record)

		if cerr := s.repo.Create(ctx, record); cerr != nil {
			if isUniqueViolation(cerr) {
				// Lost a race against a concurrent generation call.
				result.Errors = append(result.Errors,
					generateFailure(emp.EmployeeCode, salaryerrors.ErrPeriodExists))
			} else {
				result.Errors = append(result.Errors, generateFailure(emp.EmployeeCode, cerr))
			}
			s.logger.Warn("salary generation failed for employee",
				zap.String("employee_code", emp.EmployeeCode),
				zap.Int("month", req.Month),
				zap.Int("year", req.Year),
				zap.Error(cerr),
			)
			continue
		}

		result.Created++
	}

	s.logger.Info("salary generation finished",
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)

	return result, nil
}

func generateFailure(employeeCode string, err error) string {
	return fmt.Sprintf("Failed to create record for employee %s: %v", employeeCode, err)
}

func (s *service) Approve(ctx context.Context, id int64) (SalaryResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SalaryResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if record.Status != StatusPending {
		return SalaryResponse{}, salaryerrors.ErrNotApprovable(record.Status)
	}

	record.Status = StatusApproved

	if err := qtx.Update(ctx, record); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return SalaryResponse{}, err
	}

	return s.reload(ctx, id)
}

// MarkAsPaid moves a PENDING or APPROVED record to PAID, stamps paidAt and
// stores the optional payment metadata. The salary.paid event rides the same
// transaction through the outbox.
func (s *service) MarkAsPaid(
	ctx context.Context,
	id int64,
	paymentMethod, paymentRef string,
) (SalaryResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SalaryResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if IsTerminalStatus(record.Status) {
		return SalaryResponse{}, salaryerrors.ErrNotPayable(record.Status)
	}

	now := time.Now()
	record.Status = StatusPaid
	record.PaidAt = &now
	if paymentMethod != "" {
		record.PaymentMethod = &paymentMethod
	}
	if paymentRef != "" {
		record.PaymentRef = &paymentRef
	}

	if err := qtx.Update(ctx, record); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := s.writePaidEvent(ctx, tx, record); err != nil {
		return SalaryResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return SalaryResponse{}, err
	}

	return s.reload(ctx, id)
}

func (s *service) writePaidEvent(ctx context.Context, tx *gorm.DB, record *SalaryRecord) error {
	evt := events.SalaryPaidEvent{
		EventType:      "salary.paid",
		SalaryRecordID: record.ID,
		EmployeeID:     record.EmployeeID,
		Month:          record.Month,
		Year:           record.Year,
		NetSalary:      record.NetSalary.StringFixed(2),
		PaidAt:         record.PaidAt.UTC(),
	}
	if record.PaymentMethod != nil {
		evt.PaymentMethod = *record.PaymentMethod
	}
	if record.PaymentRef != nil {
		evt.PaymentRef = *record.PaymentRef
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "salary_record",
		AggregateID:   strconv.FormatInt(record.ID, 10),
		EventType:     "salary.paid",
		Topic:         events.SalaryLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) Cancel(ctx context.Context, id int64) (SalaryResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SalaryResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if IsTerminalStatus(record.Status) {
		return SalaryResponse{}, salaryerrors.ErrNotCancellable(record.Status)
	}

	record.Status = StatusCancelled

	if err := qtx.Update(ctx, record); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return SalaryResponse{}, err
	}

	return s.reload(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit().Error
}

func (s *service) reload(ctx context.Context, id int64) (SalaryResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*record), nil
}

// applyCalculation recomputes the derived columns in place.
func applyCalculation(record *SalaryRecord) {
	result := Calculate(CalculationInput{
		BaseSalary:      record.BaseSalary,
		OvertimeHours:   record.OvertimeHours,
		OvertimeRate:    record.OvertimeRate,
		Bonus:           record.Bonus,
		Allowances:      record.Allowances,
		Commission:      record.Commission,
		SocialSecurity:  record.SocialSecurity,
		Tax:             record.Tax,
		OtherDeductions: record.OtherDeductions,
	})
	record.OvertimeAmount = result.OvertimeAmount
	record.GrossSalary = result.GrossSalary
	record.NetSalary = result.NetSalary
}

type monetaryField struct {
	name  string
	value *decimal.Decimal
}

// monetaryFields pairs the amount inputs shared by create and update with
// their display names, in DTO order.
func monetaryFields(base, hours, bonus, allowances, commission, socialSecurity, tax, otherDeductions *decimal.Decimal) []monetaryField {
	return []monetaryField{
		{"Base salary", base},
		{"Overtime hours", hours},
		{"Bonus", bonus},
		{"Allowances", allowances},
		{"Commission", commission},
		{"Social security", socialSecurity},
		{"Tax", tax},
		{"Other deductions", otherDeductions},
	}
}

// validateAmounts guards the monetary inputs: no component may be negative,
// and an overtime rate below straight time is rejected. An absent or zero
// rate still falls through to the 1.5 default.
func validateAmounts(fields []monetaryField, overtimeRate *decimal.Decimal) error {
	for _, f := range fields {
		if f.value != nil && f.value.IsNegative() {
			return salaryerrors.ErrNegativeAmount(f.name)
		}
	}
	if overtimeRate != nil && !overtimeRate.IsZero() &&
		overtimeRate.LessThan(decimal.NewFromInt(1)) {
		return salaryerrors.ErrOvertimeRateTooLow
	}
	return nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func rateOrDefault(d *decimal.Decimal) decimal.Decimal {
	if d == nil || d.IsZero() {
		return DefaultOvertimeRate
	}
	return *d
}

func mapToResponse(record SalaryRecord) SalaryResponse {
	res := SalaryResponse{
		ID:              record.ID,
		EmployeeID:      record.EmployeeID,
		Month:           record.Month,
		Year:            record.Year,
		BaseSalary:      record.BaseSalary,
		OvertimeHours:   record.OvertimeHours,
		OvertimeRate:    record.OvertimeRate,
		OvertimeAmount:  record.OvertimeAmount,
		Bonus:           record.Bonus,
		Allowances:      record.Allowances,
		Commission:      record.Commission,
		SocialSecurity:  record.SocialSecurity,
		Tax:             record.Tax,
		OtherDeductions: record.OtherDeductions,
		GrossSalary:     record.GrossSalary,
		NetSalary:       record.NetSalary,
		Status:          record.Status,
		PaidAt:          record.PaidAt,
		PaymentMethod:   record.PaymentMethod,
		PaymentRef:      record.PaymentRef,
		DeductionNotes:  record.DeductionNotes,
		Notes:           record.Notes,
	}

	if record.Employee != nil {
		ref := &EmployeeRef{
			ID:           record.Employee.ID,
			EmployeeCode: record.Employee.EmployeeCode,
			FirstName:    record.Employee.FirstName,
			LastName:     record.Employee.LastName,
		}
		if record.Employee.Position != nil {
			ref.PositionName = record.Employee.Position.Name
		}
		if record.Employee.Department != nil {
			ref.DepartmentName = record.Employee.Department.Name
		}
		res.Employee = ref
	}

	return res
}

func mapToListResponse(records []SalaryRecord) []SalaryResponse {
	res := make([]SalaryResponse, len(records))
	for i, r := range records {
		res[i] = mapToResponse(r)
	}
	return res
}
