package benefit

import (
	"context"
	"errors"
	"net/http"
	"time"

	benefiterrors "github.com/nateesoft/management-hrm-service/internal/benefit/errors"
	"github.com/nateesoft/management-hrm-service/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=benefit_service.go -destination=mock/benefit_service_mock.go -package=mock
type Service interface {
	CreateBenefit(ctx context.Context, req CreateBenefitRequest) (BenefitResponse, error)
	GetAllBenefits(ctx context.Context, isActive *bool) ([]BenefitResponse, error)
	GetBenefitByID(ctx context.Context, id int64) (BenefitResponse, error)
	UpdateBenefit(ctx context.Context, id int64, req UpdateBenefitRequest) (BenefitResponse, error)
	DeleteBenefit(ctx context.Context, id int64) error
	Summary(ctx context.Context) ([]BenefitSummaryItem, error)

	Assign(ctx context.Context, req AssignBenefitRequest) (AssignmentResponse, error)
	GetAssignments(ctx context.Context, query QueryAssignmentRequest) ([]AssignmentResponse, error)
	GetAssignmentByID(ctx context.Context, id int64) (AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, id int64, req UpdateAssignmentRequest) (AssignmentResponse, error)
	Deactivate(ctx context.Context, id int64) (AssignmentResponse, error)
}

type service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) CreateBenefit(
	ctx context.Context,
	req CreateBenefitRequest,
) (BenefitResponse, error) {
	if req.DefaultAmount != nil && req.DefaultAmount.IsNegative() {
		return BenefitResponse{}, benefiterrors.ErrNegativeAmount
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BenefitResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindBenefitByCode(ctx, req.Code); err == nil {
		return BenefitResponse{}, benefiterrors.ErrBenefitCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BenefitResponse{}, err
	}

	defaultAmount := decimal.Zero
	if req.DefaultAmount != nil {
		defaultAmount = *req.DefaultAmount
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	b := &Benefit{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		DefaultAmount: defaultAmount,
		IsActive:      isActive,
	}

	if err := qtx.CreateBenefit(ctx, b); err != nil {
		return BenefitResponse{}, mapBenefitError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return BenefitResponse{}, err
	}

	return mapBenefitResponse(*b, 0), nil
}

func (s *service) GetAllBenefits(ctx context.Context, isActive *bool) ([]BenefitResponse, error) {
	benefits, err := s.repo.FindAllBenefits(ctx, isActive)
	if err != nil {
		return nil, mapBenefitError(err)
	}

	res := make([]BenefitResponse, len(benefits))
	for i, b := range benefits {
		count, cerr := s.repo.CountActiveAssignments(ctx, b.ID)
		if cerr != nil {
			return nil, cerr
		}
		res[i] = mapBenefitResponse(b, count)
	}
	return res, nil
}

func (s *service) GetBenefitByID(ctx context.Context, id int64) (BenefitResponse, error) {
	b, err := s.repo.FindBenefitByID(ctx, id)
	if err != nil {
		return BenefitResponse{}, mapBenefitError(err)
	}

	count, err := s.repo.CountActiveAssignments(ctx, id)
	if err != nil {
		return BenefitResponse{}, err
	}

	return mapBenefitResponse(*b, count), nil
}

func (s *service) UpdateBenefit(
	ctx context.Context,
	id int64,
	req UpdateBenefitRequest,
) (BenefitResponse, error) {
	if req.DefaultAmount != nil && req.DefaultAmount.IsNegative() {
		return BenefitResponse{}, benefiterrors.ErrNegativeAmount
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BenefitResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindBenefitByID(ctx, id)
	if err != nil {
		return BenefitResponse{}, mapBenefitError(err)
	}

	if req.Code != nil && *req.Code != b.Code {
		if _, cerr := qtx.FindBenefitByCode(ctx, *req.Code); cerr == nil {
			return BenefitResponse{}, benefiterrors.ErrBenefitCodeExists
		} else if !errors.Is(cerr, gorm.ErrRecordNotFound) {
			return BenefitResponse{}, cerr
		}
		b.Code = *req.Code
	}
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Type != nil {
		b.Type = *req.Type
	}
	if req.DefaultAmount != nil {
		b.DefaultAmount = *req.DefaultAmount
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	if err := qtx.UpdateBenefit(ctx, b); err != nil {
		return BenefitResponse{}, mapBenefitError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return BenefitResponse{}, err
	}

	count, err := s.repo.CountActiveAssignments(ctx, id)
	if err != nil {
		return BenefitResponse{}, err
	}

	return mapBenefitResponse(*b, count), nil
}

func (s *service) DeleteBenefit(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindBenefitByID(ctx, id); err != nil {
		return mapBenefitError(err)
	}

	count, err := qtx.CountActiveAssignments(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Newf(apperror.CodeConflict, http.StatusConflict,
			"Cannot delete benefit with %d active assignments", count)
	}

	if err := qtx.DeleteBenefit(ctx, id); err != nil {
		return mapBenefitError(err)
	}

	return tx.Commit().Error
}

func (s *service) Summary(ctx context.Context) ([]BenefitSummaryItem, error) {
	return s.repo.Summary(ctx)
}

// Assign attaches a benefit to an employee. An inactive assignment for the
// same pair is reactivated with the new terms instead of inserting a
// duplicate row.
func (s *service) Assign(
	ctx context.Context,
	req AssignBenefitRequest,
) (AssignmentResponse, error) {
	if req.Amount.IsNegative() {
		return AssignmentResponse{}, benefiterrors.ErrNegativeAmount
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AssignmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if !exists {
		return AssignmentResponse{}, benefiterrors.ErrEmployeeNotFound
	}

	if _, err := qtx.FindBenefitByID(ctx, req.BenefitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, apperror.New(
				apperror.CodeInvalidInput,
				"Referenced benefit does not exist",
				http.StatusBadRequest,
			)
		}
		return AssignmentResponse{}, err
	}

	startDate := time.Now()
	if req.StartDate != nil {
		if parsed, perr := time.Parse(dateLayout, *req.StartDate); perr == nil {
			startDate = parsed
		}
	}

	existing, err := qtx.FindAssignmentByPair(ctx, req.EmployeeID, req.BenefitID)
	switch {
	case err == nil && existing.IsActive:
		return AssignmentResponse{}, benefiterrors.ErrAlreadyAssigned

	case err == nil:
		existing.Amount = *req.Amount
		existing.StartDate = startDate
		existing.EndDate = parseDatePtr(req.EndDate)
		existing.IsActive = true
		existing.Notes = req.Notes
		if uerr := qtx.UpdateAssignment(ctx, existing); uerr != nil {
			return AssignmentResponse{}, mapAssignmentError(uerr)
		}
		if cerr := tx.Commit().Error; cerr != nil {
			return AssignmentResponse{}, cerr
		}
		return s.reloadAssignment(ctx, existing.ID)

	case errors.Is(err, gorm.ErrRecordNotFound):
		eb := &EmployeeBenefit{
			EmployeeID: req.EmployeeID,
			BenefitID:  req.BenefitID,
			Amount:     *req.Amount,
			StartDate:  startDate,
			EndDate:    parseDatePtr(req.EndDate),
			IsActive:   true,
			Notes:      req.Notes,
		}
		if cerr := qtx.CreateAssignment(ctx, eb); cerr != nil {
			return AssignmentResponse{}, mapAssignmentError(cerr)
		}
		if cerr := tx.Commit().Error; cerr != nil {
			return AssignmentResponse{}, cerr
		}
		return s.reloadAssignment(ctx, eb.ID)

	default:
		return AssignmentResponse{}, err
	}
}

func (s *service) reloadAssignment(ctx context.Context, id int64) (AssignmentResponse, error) {
	eb, err := s.repo.FindAssignmentByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, mapAssignmentError(err)
	}
	return mapAssignmentResponse(*eb), nil
}

func (s *service) GetAssignments(
	ctx context.Context,
	query QueryAssignmentRequest,
) ([]AssignmentResponse, error) {
	assignments, err := s.repo.FindAssignments(ctx, query)
	if err != nil {
		return nil, err
	}

	res := make([]AssignmentResponse, len(assignments))
	for i, eb := range assignments {
		res[i] = mapAssignmentResponse(eb)
	}
	return res, nil
}

func (s *service) GetAssignmentByID(ctx context.Context, id int64) (AssignmentResponse, error) {
	return s.reloadAssignment(ctx, id)
}

func (s *service) UpdateAssignment(
	ctx context.Context,
	id int64,
	req UpdateAssignmentRequest,
) (AssignmentResponse, error) {
	if req.Amount != nil && req.Amount.IsNegative() {
		return AssignmentResponse{}, benefiterrors.ErrNegativeAmount
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AssignmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	eb, err := qtx.FindAssignmentByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, mapAssignmentError(err)
	}

	if req.Amount != nil {
		eb.Amount = *req.Amount
	}
	if req.EndDate != nil {
		eb.EndDate = parseDatePtr(req.EndDate)
	}
	if req.IsActive != nil {
		eb.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		eb.Notes = req.Notes
	}

	if err := qtx.UpdateAssignment(ctx, eb); err != nil {
		return AssignmentResponse{}, mapAssignmentError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return AssignmentResponse{}, err
	}

	return s.reloadAssignment(ctx, id)
}

// Deactivate is the assignment's soft delete: the row stays for reactivation
// but stops contributing to payroll allowances.
func (s *service) Deactivate(ctx context.Context, id int64) (AssignmentResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AssignmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	eb, err := qtx.FindAssignmentByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, mapAssignmentError(err)
	}

	now := time.Now()
	eb.IsActive = false
	eb.EndDate = &now

	if err := qtx.UpdateAssignment(ctx, eb); err != nil {
		return AssignmentResponse{}, mapAssignmentError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return AssignmentResponse{}, err
	}

	return mapAssignmentResponse(*eb), nil
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

func mapBenefitResponse(b Benefit, assignmentCount int64) BenefitResponse {
	return BenefitResponse{
		ID:              b.ID,
		Code:            b.Code,
		Name:            b.Name,
		Description:     b.Description,
		Type:            b.Type,
		DefaultAmount:   b.DefaultAmount,
		IsActive:        b.IsActive,
		AssignmentCount: assignmentCount,
	}
}

func mapAssignmentResponse(eb EmployeeBenefit) AssignmentResponse {
	res := AssignmentResponse{
		ID:         eb.ID,
		EmployeeID: eb.EmployeeID,
		BenefitID:  eb.BenefitID,
		Amount:     eb.Amount,
		StartDate:  eb.StartDate,
		EndDate:    eb.EndDate,
		IsActive:   eb.IsActive,
		Notes:      eb.Notes,
	}
	if eb.Benefit != nil {
		b := mapBenefitResponse(*eb.Benefit, 0)
		res.Benefit = &b
	}
	return res
}
