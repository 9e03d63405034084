package benefit_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nateesoft/management-hrm-service/internal/benefit"
	benefiterrors "github.com/nateesoft/management-hrm-service/internal/benefit/errors"
	"github.com/nateesoft/management-hrm-service/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type repoStub struct {
	createBenefitFn          func(ctx context.Context, b *benefit.Benefit) error
	findAllBenefitsFn        func(ctx context.Context, isActive *bool) ([]benefit.Benefit, error)
	findBenefitByIDFn        func(ctx context.Context, id int64) (*benefit.Benefit, error)
	findBenefitByCodeFn      func(ctx context.Context, code string) (*benefit.Benefit, error)
	updateBenefitFn          func(ctx context.Context, b *benefit.Benefit) error
	deleteBenefitFn          func(ctx context.Context, id int64) error
	countActiveAssignmentsFn func(ctx context.Context, benefitID int64) (int64, error)
	createAssignmentFn       func(ctx context.Context, eb *benefit.EmployeeBenefit) error
	findAssignmentsFn        func(ctx context.Context, query benefit.QueryAssignmentRequest) ([]benefit.EmployeeBenefit, error)
	findAssignmentByIDFn     func(ctx context.Context, id int64) (*benefit.EmployeeBenefit, error)
	findAssignmentByPairFn   func(ctx context.Context, employeeID, benefitID int64) (*benefit.EmployeeBenefit, error)
	updateAssignmentFn       func(ctx context.Context, eb *benefit.EmployeeBenefit) error
	employeeExistsFn         func(ctx context.Context, employeeID int64) (bool, error)
	summaryFn                func(ctx context.Context) ([]benefit.BenefitSummaryItem, error)
}

func (r *repoStub) WithTx(tx *gorm.DB) benefit.Repository { return r }

func (r *repoStub) CreateBenefit(ctx context.Context, b *benefit.Benefit) error {
	if r.createBenefitFn == nil {
		return nil
	}
	return r.createBenefitFn(ctx, b)
}

func (r *repoStub) FindAllBenefits(ctx context.Context, isActive *bool) ([]benefit.Benefit, error) {
	if r.findAllBenefitsFn == nil {
		return nil, nil
	}
	return r.findAllBenefitsFn(ctx, isActive)
}

func (r *repoStub) FindBenefitByID(ctx context.Context, id int64) (*benefit.Benefit, error) {
	if r.findBenefitByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findBenefitByIDFn(ctx, id)
}

func (r *repoStub) FindBenefitByCode(ctx context.Context, code string) (*benefit.Benefit, error) {
	if r.findBenefitByCodeFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findBenefitByCodeFn(ctx, code)
}

func (r *repoStub) UpdateBenefit(ctx context.Context, b *benefit.Benefit) error {
	if r.updateBenefitFn == nil {
		return nil
	}
	return r.updateBenefitFn(ctx, b)
}

func (r *repoStub) DeleteBenefit(ctx context.Context, id int64) error {
	if r.deleteBenefitFn == nil {
		return nil
	}
	return r.deleteBenefitFn(ctx, id)
}

func (r *repoStub) CountActiveAssignments(ctx context.Context, benefitID int64) (int64, error) {
	if r.countActiveAssignmentsFn == nil {
		return 0, nil
	}
	return r.countActiveAssignmentsFn(ctx, benefitID)
}

func (r *repoStub) CreateAssignment(ctx context.Context, eb *benefit.EmployeeBenefit) error {
	if r.createAssignmentFn == nil {
		return nil
	}
	return r.createAssignmentFn(ctx, eb)
}

func (r *repoStub) FindAssignments(ctx context.Context, query benefit.QueryAssignmentRequest) ([]benefit.EmployeeBenefit, error) {
	if r.findAssignmentsFn == nil {
		return nil, nil
	}
	return r.findAssignmentsFn(ctx, query)
}

func (r *repoStub) FindAssignmentByID(ctx context.Context, id int64) (*benefit.EmployeeBenefit, error) {
	if r.findAssignmentByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findAssignmentByIDFn(ctx, id)
}

func (r *repoStub) FindAssignmentByPair(ctx context.Context, employeeID, benefitID int64) (*benefit.EmployeeBenefit, error) {
	if r.findAssignmentByPairFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findAssignmentByPairFn(ctx, employeeID, benefitID)
}

func (r *repoStub) UpdateAssignment(ctx context.Context, eb *benefit.EmployeeBenefit) error {
	if r.updateAssignmentFn == nil {
		return nil
	}
	return r.updateAssignmentFn(ctx, eb)
}

func (r *repoStub) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	if r.employeeExistsFn == nil {
		return true, nil
	}
	return r.employeeExistsFn(ctx, employeeID)
}

func (r *repoStub) Summary(ctx context.Context) ([]benefit.BenefitSummaryItem, error) {
	if r.summaryFn == nil {
		return nil, nil
	}
	return r.summaryFn(ctx)
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *repoStub
	service benefit.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	repo := &repoStub{}

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		service: benefit.NewService(gormDB, repo),
	}
}

func mealAllowance(id int64) *benefit.Benefit {
	return &benefit.Benefit{
		ID:            id,
		Code:          "MEAL",
		Name:          "Meal Allowance",
		Type:          benefit.TypeMealAllowance,
		DefaultAmount: dec("1000"),
		IsActive:      true,
	}
}

func TestBenefitService_CreateBenefit(t *testing.T) {
	ctx := context.Background()

	t.Run("success with defaults", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.createBenefitFn = func(ctx context.Context, b *benefit.Benefit) error {
			b.ID = 3
			return nil
		}

		resp, err := deps.service.CreateBenefit(ctx, benefit.CreateBenefitRequest{
			Code: "PHONE",
			Name: "Phone Allowance",
			Type: benefit.TypePhoneAllowance,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.ID)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.DefaultAmount.IsZero())
	})

	t.Run("negative default amount is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)

		negative := dec("-500")
		_, err := deps.service.CreateBenefit(ctx, benefit.CreateBenefitRequest{
			Code:          "PHONE",
			Name:          "Phone Allowance",
			Type:          benefit.TypePhoneAllowance,
			DefaultAmount: &negative,
		})

		assert.ErrorIs(t, err, benefiterrors.ErrNegativeAmount)
	})

	t.Run("duplicate code", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findBenefitByCodeFn = func(ctx context.Context, code string) (*benefit.Benefit, error) {
			return mealAllowance(1), nil
		}

		_, err := deps.service.CreateBenefit(ctx, benefit.CreateBenefitRequest{
			Code: "MEAL",
			Name: "Meal Allowance",
			Type: benefit.TypeMealAllowance,
		})

		assert.ErrorIs(t, err, benefiterrors.ErrBenefitCodeExists)
	})
}

func TestBenefitService_DeleteBenefit(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked by active assignments", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findBenefitByIDFn = func(ctx context.Context, id int64) (*benefit.Benefit, error) {
			return mealAllowance(id), nil
		}
		deps.repo.countActiveAssignmentsFn = func(ctx context.Context, benefitID int64) (int64, error) {
			return 4, nil
		}

		err := deps.service.DeleteBenefit(ctx, 1)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeConflict, appErr.Code)
		assert.Contains(t, appErr.Message, "4 active assignments")
	})

	t.Run("deletes when unassigned", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findBenefitByIDFn = func(ctx context.Context, id int64) (*benefit.Benefit, error) {
			return mealAllowance(id), nil
		}

		deleted := false
		deps.repo.deleteBenefitFn = func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		}

		require.NoError(t, deps.service.DeleteBenefit(ctx, 1))
		assert.True(t, deleted)
	})
}

func TestBenefitService_Assign(t *testing.T) {
	ctx := context.Background()

	amount := dec("1500")
	validReq := benefit.AssignBenefitRequest{
		EmployeeID: 7,
		BenefitID:  1,
		Amount:     &amount,
	}

	t.Run("creates a fresh assignment", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findBenefitByIDFn = func(ctx context.Context, id int64) (*benefit.Benefit, error) {
			return mealAllowance(id), nil
		}

		var created *benefit.EmployeeBenefit
		deps.repo.createAssignmentFn = func(ctx context.Context, eb *benefit.EmployeeBenefit) error {
			eb.ID = 11
			created = eb
			return nil
		}
		deps.repo.findAssignmentByIDFn = func(ctx context.Context, id int64) (*benefit.EmployeeBenefit, error) {
			return created, nil
		}

		resp, err := deps.service.Assign(ctx, validReq)

		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.ID)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.Amount.Equal(dec("1500")))
	})

	t.Run("active duplicate is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findBenefitByIDFn = func(ctx context.Context, id int64) (*benefit.Benefit, error) {
			return mealAllowance(id), nil
		}
		deps.repo.findAssignmentByPairFn = func(ctx context.Context, employeeID, benefitID int64) (*benefit.EmployeeBenefit, error) {
			return &benefit.EmployeeBenefit{ID: 11, EmployeeID: employeeID, BenefitID: benefitID, IsActive: true}, nil
		}

		_, err := deps.service.Assign(ctx, validReq)

		assert.ErrorIs(t, err, benefiterrors.ErrAlreadyAssigned)
	})

	t.Run("inactive assignment is reactivated", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		stale := &benefit.EmployeeBenefit{
			ID:         11,
			EmployeeID: 7,
			BenefitID:  1,
			Amount:     dec("900"),
			IsActive:   false,
		}
		deps.repo.findBenefitByIDFn = func(ctx context.Context, id int64) (*benefit.Benefit, error) {
			return mealAllowance(id), nil
		}
		deps.repo.findAssignmentByPairFn = func(ctx context.Context, employeeID, benefitID int64) (*benefit.EmployeeBenefit, error) {
			return stale, nil
		}
		deps.repo.findAssignmentByIDFn = func(ctx context.Context, id int64) (*benefit.EmployeeBenefit, error) {
			return stale, nil
		}

		createCalled := false
		deps.repo.createAssignmentFn = func(ctx context.Context, eb *benefit.EmployeeBenefit) error {
			createCalled = true
			return nil
		}

		resp, err := deps.service.Assign(ctx, validReq)

		require.NoError(t, err)
		assert.False(t, createCalled, "reactivation must not insert a second row")
		assert.True(t, resp.IsActive)
		assert.True(t, resp.Amount.Equal(dec("1500")), "amount %s", resp.Amount)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.employeeExistsFn = func(ctx context.Context, employeeID int64) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Assign(ctx, validReq)

		assert.ErrorIs(t, err, benefiterrors.ErrEmployeeNotFound)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)

		negative := dec("-100")
		_, err := deps.service.Assign(ctx, benefit.AssignBenefitRequest{
			EmployeeID: 7,
			BenefitID:  1,
			Amount:     &negative,
		})

		assert.ErrorIs(t, err, benefiterrors.ErrNegativeAmount)
	})
}

func TestBenefitService_UpdateAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("negative amount is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)

		negative := dec("-1")
		_, err := deps.service.UpdateAssignment(ctx, 11, benefit.UpdateAssignmentRequest{
			Amount: &negative,
		})

		assert.ErrorIs(t, err, benefiterrors.ErrNegativeAmount)
	})
}

func TestBenefitService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps end date and clears active flag", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findAssignmentByIDFn = func(ctx context.Context, id int64) (*benefit.EmployeeBenefit, error) {
			return &benefit.EmployeeBenefit{ID: id, EmployeeID: 7, BenefitID: 1, Amount: dec("1500"), IsActive: true}, nil
		}

		resp, err := deps.service.Deactivate(ctx, 11)

		require.NoError(t, err)
		assert.False(t, resp.IsActive)
		require.NotNil(t, resp.EndDate)
		assert.WithinDuration(t, time.Now(), *resp.EndDate, 5*time.Second)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Deactivate(ctx, 404)

		assert.ErrorIs(t, err, benefiterrors.ErrAssignmentNotFound)
	})
}

func TestBenefitService_Summary(t *testing.T) {
	deps := setupServiceTest(t)

	deps.repo.summaryFn = func(ctx context.Context) ([]benefit.BenefitSummaryItem, error) {
		return []benefit.BenefitSummaryItem{
			{ID: 1, Code: "MEAL", EmployeeCount: 3, TotalMonthlyCost: dec("4500")},
		}, nil
	}

	items, err := deps.service.Summary(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].EmployeeCount)
	assert.True(t, items[0].TotalMonthlyCost.Equal(dec("4500")))
}
