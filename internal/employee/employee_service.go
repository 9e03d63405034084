package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	employeeerrors "github.com/nateesoft/management-hrm-service/internal/employee/errors"
	"github.com/nateesoft/management-hrm-service/internal/events"
	"github.com/nateesoft/management-hrm-service/internal/messaging/kafka"
	"github.com/nateesoft/management-hrm-service/internal/shared/contextutil"
	"github.com/nateesoft/management-hrm-service/internal/shared/counter"
	"github.com/nateesoft/management-hrm-service/internal/shared/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, query QueryEmployeeRequest) ([]EmployeeResponse, *response.PaginationMeta, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Terminate(ctx context.Context, id int64) (EmployeeResponse, error)
	LinkUser(ctx context.Context, id int64, req LinkUserRequest) (EmployeeResponse, error)
	UnlinkUser(ctx context.Context, id int64) (EmployeeResponse, error)
	SalaryHistory(ctx context.Context, id int64) ([]SalaryHistoryItem, error)
	Benefits(ctx context.Context, id int64) ([]EmployeeBenefitItem, error)
	GenerateCode(ctx context.Context) (string, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	counters counter.Repository
}

func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, counters counter.Repository) Service {
	return &service{db: db, repo: repo, outbox: outbox, counters: counters}
}

func (s *service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.checkUnique(ctx, qtx, nil, req.EmployeeCode, req.Email, req.NationalID, req.FoodOrderingUserID); err != nil {
		return EmployeeResponse{}, err
	}

	if err := s.checkReferences(ctx, qtx, &req.DepartmentID, &req.PositionID); err != nil {
		return EmployeeResponse{}, err
	}

	startDate := time.Now()
	if req.StartDate != nil {
		parsed, err := time.Parse(dateLayout, *req.StartDate)
		if err == nil {
			startDate = parsed
		}
	}

	employmentType := EmploymentFullTime
	if req.EmploymentType != nil {
		employmentType = *req.EmploymentType
	}

	baseSalary := decimal.Zero
	if req.BaseSalary != nil {
		baseSalary = *req.BaseSalary
	}

	emp := &Employee{
		EmployeeCode:          req.EmployeeCode,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Nickname:              req.Nickname,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		DateOfBirth:           parseDatePtr(req.DateOfBirth),
		Gender:                req.Gender,
		NationalID:            req.NationalID,
		DepartmentID:          req.DepartmentID,
		PositionID:            req.PositionID,
		EmploymentType:        employmentType,
		StartDate:             startDate,
		BaseSalary:            baseSalary,
		Status:                StatusActive,
		BankAccount:           req.BankAccount,
		BankName:              req.BankName,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		ImageURL:              req.ImageURL,
		FoodOrderingUserID:    req.FoodOrderingUserID,
	}

	if err := qtx.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.writeCreatedEvent(ctx, tx, emp); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return EmployeeResponse{}, err
	}

	created, err := s.repo.FindByID(ctx, emp.ID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*created), nil
}

// writeCreatedEvent stores the employee.created event in the outbox within
// the same transaction as the insert; the relay worker publishes it later.
func (s *service) writeCreatedEvent(ctx context.Context, tx *gorm.DB, emp *Employee) error {
	payload, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:    "employee.created",
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "employee",
		AggregateID:   strconv.FormatInt(emp.ID, 10),
		EventType:     "employee.created",
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(
	ctx context.Context,
	query QueryEmployeeRequest,
) ([]EmployeeResponse, *response.PaginationMeta, error) {
	employees, total, err := s.repo.FindAll(ctx, query)
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

	res := make([]EmployeeResponse, len(employees))
	for i, emp := range employees {
		res[i] = mapToResponse(emp)
	}
	return res, &meta, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*emp), nil
}

func (s *service) Update(
	ctx context.Context,
	id int64,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.EmployeeCode != nil && *req.EmployeeCode != emp.EmployeeCode {
		if err := s.checkUnique(ctx, qtx, &id, *req.EmployeeCode, nil, nil, nil); err != nil {
			return EmployeeResponse{}, err
		}
		emp.EmployeeCode = *req.EmployeeCode
	}
	if req.Email != nil && (emp.Email == nil || *req.Email != *emp.Email) {
		if err := s.checkUnique(ctx, qtx, &id, "", req.Email, nil, nil); err != nil {
			return EmployeeResponse{}, err
		}
		emp.Email = req.Email
	}
	if req.NationalID != nil && (emp.NationalID == nil || *req.NationalID != *emp.NationalID) {
		if err := s.checkUnique(ctx, qtx, &id, "", nil, req.NationalID, nil); err != nil {
			return EmployeeResponse{}, err
		}
		emp.NationalID = req.NationalID
	}

	if err := s.checkReferences(ctx, qtx, req.DepartmentID, req.PositionID); err != nil {
		return EmployeeResponse{}, err
	}
	if req.DepartmentID != nil {
		emp.DepartmentID = *req.DepartmentID
	}
	if req.PositionID != nil {
		emp.PositionID = *req.PositionID
	}

	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.Nickname != nil {
		emp.Nickname = req.Nickname
	}
	if req.Phone != nil {
		emp.Phone = req.Phone
	}
	if req.Address != nil {
		emp.Address = req.Address
	}
	if req.DateOfBirth != nil {
		emp.DateOfBirth = parseDatePtr(req.DateOfBirth)
	}
	if req.Gender != nil {
		emp.Gender = req.Gender
	}
	if req.EmploymentType != nil {
		emp.EmploymentType = *req.EmploymentType
	}
	if req.StartDate != nil {
		if parsed, perr := time.Parse(dateLayout, *req.StartDate); perr == nil {
			emp.StartDate = parsed
		}
	}
	if req.EndDate != nil {
		emp.EndDate = parseDatePtr(req.EndDate)
	}
	if req.BaseSalary != nil {
		emp.BaseSalary = *req.BaseSalary
	}
	if req.Status != nil {
		emp.Status = *req.Status
	}
	if req.BankAccount != nil {
		emp.BankAccount = req.BankAccount
	}
	if req.BankName != nil {
		emp.BankName = req.BankName
	}
	if req.EmergencyContactName != nil {
		emp.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		emp.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.ImageURL != nil {
		emp.ImageURL = req.ImageURL
	}

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

// Terminate retires the employee record instead of deleting it: status goes
// to TERMINATED and endDate is stamped with the current time.
func (s *service) Terminate(ctx context.Context, id int64) (EmployeeResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	now := time.Now()
	emp.Status = StatusTerminated
	emp.EndDate = &now

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) LinkUser(
	ctx context.Context,
	id int64,
	req LinkUserRequest,
) (EmployeeResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if linked, lerr := qtx.FindByFoodOrderingUserID(ctx, req.FoodOrderingUserID); lerr == nil {
		if linked.ID != id {
			return EmployeeResponse{}, employeeerrors.ErrUserAlreadyLinked
		}
	} else if !errors.Is(lerr, gorm.ErrRecordNotFound) {
		return EmployeeResponse{}, lerr
	}

	emp.FoodOrderingUserID = &req.FoodOrderingUserID

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) UnlinkUser(ctx context.Context, id int64) (EmployeeResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	emp.FoodOrderingUserID = nil

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) SalaryHistory(ctx context.Context, id int64) ([]SalaryHistoryItem, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	items, err := s.repo.SalaryHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Benefits(ctx context.Context, id int64) ([]EmployeeBenefitItem, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	items, err := s.repo.ActiveBenefits(ctx, id)
	if err != nil {
		return nil, err
	}
	return items, nil
}

var employeeCodePattern = regexp.MustCompile(`^EMP(\d+)$`)

// GenerateCode reserves the next sequential EMPnnn code.
func (s *service) GenerateCode(ctx context.Context) (string, error) {
	return AllocateEmployeeCode(ctx, s.counters, s.repo)
}

// AllocateEmployeeCode reserves the next free EMPnnn code through the atomic
// counter, so concurrent callers (webhooks, sync, the consumer) never receive
// the same number. When the counter trails codes inserted outside it, it is
// advanced past the highest EMPnnn code seen and allocation retries; codes
// outside the pattern fall back to a timestamp suffix so the result is still
// unique enough to insert.
func AllocateEmployeeCode(ctx context.Context, counters counter.Repository, repo Repository) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		n, err := counters.GetNextValue(ctx, counter.EmployeeCode)
		if err != nil {
			return "", err
		}
		code := FormatEmployeeCode(n)

		if _, err := repo.FindByCode(ctx, code); errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		} else if err != nil {
			return "", err
		}

		// The counter is behind existing rows; catch up before retrying.
		last, lerr := repo.LastEmployeeCode(ctx)
		if lerr != nil && !errors.Is(lerr, gorm.ErrRecordNotFound) {
			return "", lerr
		}
		if m := employeeCodePattern.FindStringSubmatch(last); m != nil {
			hi, _ := strconv.ParseInt(m[1], 10, 64)
			if cerr := counters.EnsureAtLeast(ctx, counter.EmployeeCode, hi); cerr != nil {
				return "", cerr
			}
		}
	}

	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "EMP" + ts[len(ts)-6:], nil
}

// FormatEmployeeCode renders the sequential EMPnnn form. The width grows
// naturally past EMP999.
func FormatEmployeeCode(n int64) string {
	return fmt.Sprintf("EMP%03d", n)
}

func (s *service) checkUnique(
	ctx context.Context,
	repo Repository,
	selfID *int64,
	code string,
	email *string,
	nationalID *string,
	foodOrderingUserID *int64,
) error {
	isSelf := func(emp *Employee) bool {
		return selfID != nil && emp.ID == *selfID
	}

	if code != "" {
		if existing, err := repo.FindByCode(ctx, code); err == nil {
			if !isSelf(existing) {
				return employeeerrors.ErrEmployeeCodeExists
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if email != nil && *email != "" {
		if existing, err := repo.FindByEmail(ctx, *email); err == nil {
			if !isSelf(existing) {
				return employeeerrors.ErrEmailExists
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if nationalID != nil && *nationalID != "" {
		if existing, err := repo.FindByNationalID(ctx, *nationalID); err == nil {
			if !isSelf(existing) {
				return employeeerrors.ErrNationalIDExists
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if foodOrderingUserID != nil {
		if existing, err := repo.FindByFoodOrderingUserID(ctx, *foodOrderingUserID); err == nil {
			if !isSelf(existing) {
				return employeeerrors.ErrUserAlreadyLinked
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	return nil
}

func (s *service) checkReferences(
	ctx context.Context,
	repo Repository,
	departmentID *int64,
	positionID *int64,
) error {
	if departmentID != nil {
		exists, err := repo.DepartmentExists(ctx, *departmentID)
		if err != nil {
			return err
		}
		if !exists {
			return employeeerrors.ErrDepartmentNotFound
		}
	}
	if positionID != nil {
		exists, err := repo.PositionExists(ctx, *positionID)
		if err != nil {
			return err
		}
		if !exists {
			return employeeerrors.ErrPositionNotFound
		}
	}
	return nil
}

func parseDatePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &parsed
}

func mapToResponse(emp Employee) EmployeeResponse {
	res := EmployeeResponse{
		ID:                    emp.ID,
		EmployeeCode:          emp.EmployeeCode,
		FirstName:             emp.FirstName,
		LastName:              emp.LastName,
		Nickname:              emp.Nickname,
		Email:                 emp.Email,
		Phone:                 emp.Phone,
		Address:               emp.Address,
		DateOfBirth:           emp.DateOfBirth,
		Gender:                emp.Gender,
		NationalID:            emp.NationalID,
		DepartmentID:          emp.DepartmentID,
		PositionID:            emp.PositionID,
		EmploymentType:        emp.EmploymentType,
		StartDate:             emp.StartDate,
		EndDate:               emp.EndDate,
		BaseSalary:            emp.BaseSalary,
		Status:                emp.Status,
		BankAccount:           emp.BankAccount,
		BankName:              emp.BankName,
		EmergencyContactName:  emp.EmergencyContactName,
		EmergencyContactPhone: emp.EmergencyContactPhone,
		ImageURL:              emp.ImageURL,
		FoodOrderingUserID:    emp.FoodOrderingUserID,
	}

	if emp.Department != nil {
		res.Department = &CatalogRef{
			ID:   emp.Department.ID,
			Code: emp.Department.Code,
			Name: emp.Department.Name,
		}
	}
	if emp.Position != nil {
		res.Position = &CatalogRef{
			ID:   emp.Position.ID,
			Code: emp.Position.Code,
			Name: emp.Position.Name,
		}
	}

	return res
}
