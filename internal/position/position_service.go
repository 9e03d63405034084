package position

import (
	"context"
	"errors"
	"net/http"

	positionerrors "github.com/nateesoft/management-hrm-service/internal/position/errors"
	"github.com/nateesoft/management-hrm-service/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=position_service.go -destination=mock/position_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context, query QueryPositionRequest) ([]PositionResponse, error)
	GetByID(ctx context.Context, id int64) (PositionResponse, error)
	Update(ctx context.Context, id int64, req UpdatePositionRequest) (PositionResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	req CreatePositionRequest,
) (PositionResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return PositionResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByCode(ctx, req.Code); err == nil {
		return PositionResponse{}, positionerrors.ErrPositionCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PositionResponse{}, err
	}

	exists, err := qtx.DepartmentExists(ctx, req.DepartmentID)
	if err != nil {
		return PositionResponse{}, err
	}
	if !exists {
		return PositionResponse{}, positionerrors.ErrDepartmentNotFound
	}

	level := req.Level
	if level <= 0 {
		level = 1
	}
	baseSalary := decimal.Zero
	if req.BaseSalary != nil {
		baseSalary = *req.BaseSalary
	}

	pos := &Position{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		Level:        level,
		BaseSalary:   baseSalary,
		IsActive:     true,
	}

	if err := qtx.Create(ctx, pos); err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return PositionResponse{}, err
	}

	return mapToResponse(*pos), nil
}

func (s *service) GetAll(
	ctx context.Context,
	query QueryPositionRequest,
) ([]PositionResponse, error) {
	positions, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(positions), nil
}

func (s *service) GetByID(
	ctx context.Context,
	id int64,
) (PositionResponse, error) {
	pos, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*pos), nil
}

func (s *service) Update(
	ctx context.Context,
	id int64,
	req UpdatePositionRequest,
) (PositionResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return PositionResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pos, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	if req.Code != nil && *req.Code != pos.Code {
		if _, err := qtx.FindByCode(ctx, *req.Code); err == nil {
			return PositionResponse{}, positionerrors.ErrPositionCodeExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return PositionResponse{}, err
		}
		pos.Code = *req.Code
	}
	if req.DepartmentID != nil {
		exists, err := qtx.DepartmentExists(ctx, *req.DepartmentID)
		if err != nil {
			return PositionResponse{}, err
		}
		if !exists {
			return PositionResponse{}, positionerrors.ErrDepartmentNotFound
		}
		pos.DepartmentID = *req.DepartmentID
	}
	if req.Name != nil {
		pos.Name = *req.Name
	}
	if req.Description != nil {
		pos.Description = req.Description
	}
	if req.Level != nil {
		pos.Level = *req.Level
	}
	if req.BaseSalary != nil {
		pos.BaseSalary = *req.BaseSalary
	}
	if req.IsActive != nil {
		pos.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, pos); err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return PositionResponse{}, err
	}

	return mapToResponse(*pos), nil
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

	employeeCount, err := qtx.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if employeeCount > 0 {
		return apperror.Newf(apperror.CodeConflict, http.StatusConflict,
			"Cannot delete position with %d employees. Please reassign employees first.", employeeCount)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit().Error
}

func mapToResponse(pos Position) PositionResponse {
	return PositionResponse{
		ID:           pos.ID,
		Code:         pos.Code,
		Name:         pos.Name,
		Description:  pos.Description,
		DepartmentID: pos.DepartmentID,
		Level:        pos.Level,
		BaseSalary:   pos.BaseSalary,
		IsActive:     pos.IsActive,
	}
}

func mapToListResponse(positions []Position) []PositionResponse {
	res := make([]PositionResponse, len(positions))
	for i, p := range positions {
		res[i] = mapToResponse(p)
	}
	return res
}
