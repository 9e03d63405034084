package employee_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/nateesoft/management-hrm-service/internal/employee"
	employeeerrors "github.com/nateesoft/management-hrm-service/internal/employee/errors"
	"github.com/nateesoft/management-hrm-service/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type repoStub struct {
	createFn           func(ctx context.Context, emp *employee.Employee) error
	findAllFn          func(ctx context.Context, query employee.QueryEmployeeRequest) ([]employee.Employee, int64, error)
	findByIDFn         func(ctx context.Context, id int64) (*employee.Employee, error)
	findByCodeFn       func(ctx context.Context, code string) (*employee.Employee, error)
	findByEmailFn      func(ctx context.Context, email string) (*employee.Employee, error)
	findByNationalIDFn func(ctx context.Context, nationalID string) (*employee.Employee, error)
	findByUserIDFn     func(ctx context.Context, userID int64) (*employee.Employee, error)
	updateFn           func(ctx context.Context, emp *employee.Employee) error
	departmentExistsFn func(ctx context.Context, departmentID int64) (bool, error)
	positionExistsFn   func(ctx context.Context, positionID int64) (bool, error)
	lastCodeFn         func(ctx context.Context) (string, error)
	linkedUserIDsFn    func(ctx context.Context) ([]int64, error)
	salaryHistoryFn    func(ctx context.Context, employeeID int64) ([]employee.SalaryHistoryItem, error)
	activeBenefitsFn   func(ctx context.Context, employeeID int64) ([]employee.EmployeeBenefitItem, error)
}

func (r *repoStub) WithTx(tx *gorm.DB) employee.Repository { return r }

func (r *repoStub) Create(ctx context.Context, emp *employee.Employee) error {
	if r.createFn == nil {
		return nil
	}
	return r.createFn(ctx, emp)
}

func (r *repoStub) FindAll(ctx context.Context, query employee.QueryEmployeeRequest) ([]employee.Employee, int64, error) {
	if r.findAllFn == nil {
		return nil, 0, nil
	}
	return r.findAllFn(ctx, query)
}

func (r *repoStub) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	if r.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findByIDFn(ctx, id)
}

func (r *repoStub) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	if r.findByCodeFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findByCodeFn(ctx, code)
}

func (r *repoStub) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	if r.findByEmailFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findByEmailFn(ctx, email)
}

func (r *repoStub) FindByNationalID(ctx context.Context, nationalID string) (*employee.Employee, error) {
	if r.findByNationalIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findByNationalIDFn(ctx, nationalID)
}

func (r *repoStub) FindByFoodOrderingUserID(ctx context.Context, userID int64) (*employee.Employee, error) {
	if r.findByUserIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findByUserIDFn(ctx, userID)
}

func (r *repoStub) Update(ctx context.Context, emp *employee.Employee) error {
	if r.updateFn == nil {
		return nil
	}
	return r.updateFn(ctx, emp)
}

func (r *repoStub) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	if r.departmentExistsFn == nil {
		return true, nil
	}
	return r.departmentExistsFn(ctx, departmentID)
}

func (r *repoStub) PositionExists(ctx context.Context, positionID int64) (bool, error) {
	if r.positionExistsFn == nil {
		return true, nil
	}
	return r.positionExistsFn(ctx, positionID)
}

func (r *repoStub) LastEmployeeCode(ctx context.Context) (string, error) {
	if r.lastCodeFn == nil {
		return "", nil
	}
	return r.lastCodeFn(ctx)
}

func (r *repoStub) LinkedUserIDs(ctx context.Context) ([]int64, error) {
	if r.linkedUserIDsFn == nil {
		return nil, nil
	}
	return r.linkedUserIDsFn(ctx)
}

func (r *repoStub) SalaryHistory(ctx context.Context, employeeID int64) ([]employee.SalaryHistoryItem, error) {
	if r.salaryHistoryFn == nil {
		return nil, nil
	}
	return r.salaryHistoryFn(ctx, employeeID)
}

func (r *repoStub) ActiveBenefits(ctx context.Context, employeeID int64) ([]employee.EmployeeBenefitItem, error) {
	if r.activeBenefitsFn == nil {
		return nil, nil
	}
	return r.activeBenefitsFn(ctx, employeeID)
}

type outboxStub struct {
	events []kafka.OutboxEvent
}

func (o *outboxStub) WithTx(tx *gorm.DB) kafka.OutboxRepository { return o }

func (o *outboxStub) Create(ctx context.Context, event kafka.OutboxEvent) error {
	o.events = append(o.events, event)
	return nil
}

func (o *outboxStub) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (o *outboxStub) MarkSent(ctx context.Context, id string) error { return nil }

func (o *outboxStub) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type counterStub struct {
	next          int64
	getNextFn     func(ctx context.Context, name string) (int64, error)
	ensureAtLeast func(ctx context.Context, name string, min int64) error
}

func (c *counterStub) GetNextValue(ctx context.Context, name string) (int64, error) {
	if c.getNextFn == nil {
		c.next++
		return c.next, nil
	}
	return c.getNextFn(ctx, name)
}

func (c *counterStub) EnsureAtLeast(ctx context.Context, name string, min int64) error {
	if c.ensureAtLeast == nil {
		if min > c.next {
			c.next = min
		}
		return nil
	}
	return c.ensureAtLeast(ctx, name, min)
}

type serviceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	repo     *repoStub
	outbox   *outboxStub
	counters *counterStub
	service  employee.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	repo := &repoStub{}
	outbox := &outboxStub{}
	counters := &counterStub{}

	return &serviceDeps{
		db:       db,
		sqlMock:  sqlMock,
		repo:     repo,
		outbox:   outbox,
		counters: counters,
		service:  employee.NewService(gormDB, repo, outbox, counters),
	}
}

func activeEmployee(id int64) *employee.Employee {
	return &employee.Employee{
		ID:             id,
		EmployeeCode:   "EMP001",
		FirstName:      "Somchai",
		LastName:       "Jaidee",
		DepartmentID:   1,
		PositionID:     1,
		EmploymentType: employee.EmploymentFullTime,
		StartDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		BaseSalary:     decimal.RequireFromString("18000"),
		Status:         employee.StatusActive,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	validReq := func() employee.CreateEmployeeRequest {
		return employee.CreateEmployeeRequest{
			EmployeeCode: "EMP002",
			FirstName:    "Malee",
			LastName:     "Srisuk",
			DepartmentID: 1,
			PositionID:   1,
		}
	}

	t.Run("success writes outbox event in the same transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		var created *employee.Employee
		deps.repo.createFn = func(ctx context.Context, emp *employee.Employee) error {
			emp.ID = 42
			created = emp
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return created, nil
		}

		resp, err := deps.service.Create(ctx, validReq())

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, employee.StatusActive, resp.Status)
		assert.Equal(t, employee.EmploymentFullTime, resp.EmploymentType)

		require.Len(t, deps.outbox.events, 1)
		evt := deps.outbox.events[0]
		assert.Equal(t, "employee.created", evt.EventType)
		assert.Equal(t, "employee", evt.AggregateType)
		assert.Equal(t, "42", evt.AggregateID)
		assert.Contains(t, string(evt.Payload), "EMP002")
	})

	t.Run("duplicate code", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByCodeFn = func(ctx context.Context, code string) (*employee.Employee, error) {
			return activeEmployee(1), nil
		}

		_, err := deps.service.Create(ctx, validReq())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeExists)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByEmailFn = func(ctx context.Context, email string) (*employee.Employee, error) {
			return activeEmployee(1), nil
		}

		email := "malee@example.com"
		req := validReq()
		req.Email = &email

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmailExists)
	})

	t.Run("unknown department", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.departmentExistsFn = func(ctx context.Context, departmentID int64) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, validReq())

		assert.ErrorIs(t, err, employeeerrors.ErrDepartmentNotFound)
	})

	t.Run("food ordering user already linked", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByUserIDFn = func(ctx context.Context, userID int64) (*employee.Employee, error) {
			return activeEmployee(1), nil
		}

		userID := int64(77)
		req := validReq()
		req.FoodOrderingUserID = &userID

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrUserAlreadyLinked)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changing code to an occupied one", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return activeEmployee(id), nil
		}
		deps.repo.findByCodeFn = func(ctx context.Context, code string) (*employee.Employee, error) {
			return activeEmployee(99), nil
		}

		code := "EMP099"
		_, err := deps.service.Update(ctx, 1, employee.UpdateEmployeeRequest{EmployeeCode: &code})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeExists)
	})

	t.Run("keeping own code is not a conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return activeEmployee(id), nil
		}

		name := "Somsak"
		resp, err := deps.service.Update(ctx, 1, employee.UpdateEmployeeRequest{FirstName: &name})

		require.NoError(t, err)
		assert.Equal(t, "Somsak", resp.FirstName)
	})
}

func TestEmployeeService_Terminate(t *testing.T) {
	ctx := context.Background()

	t.Run("sets status and end date", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return activeEmployee(id), nil
		}

		var updated *employee.Employee
		deps.repo.updateFn = func(ctx context.Context, emp *employee.Employee) error {
			updated = emp
			return nil
		}

		resp, err := deps.service.Terminate(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, employee.StatusTerminated, resp.Status)
		require.NotNil(t, updated.EndDate)
		assert.WithinDuration(t, time.Now(), *updated.EndDate, 5*time.Second)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Terminate(ctx, 404)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_LinkUser(t *testing.T) {
	ctx := context.Background()

	t.Run("links a free user id", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return activeEmployee(id), nil
		}

		resp, err := deps.service.LinkUser(ctx, 1, employee.LinkUserRequest{FoodOrderingUserID: 55})

		require.NoError(t, err)
		require.NotNil(t, resp.FoodOrderingUserID)
		assert.Equal(t, int64(55), *resp.FoodOrderingUserID)
	})

	t.Run("user id taken by another employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return activeEmployee(id), nil
		}
		deps.repo.findByUserIDFn = func(ctx context.Context, userID int64) (*employee.Employee, error) {
			return activeEmployee(2), nil
		}

		_, err := deps.service.LinkUser(ctx, 1, employee.LinkUserRequest{FoodOrderingUserID: 55})

		assert.ErrorIs(t, err, employeeerrors.ErrUserAlreadyLinked)
	})

	t.Run("relinking the same pair is a no-op", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return activeEmployee(id), nil
		}
		deps.repo.findByUserIDFn = func(ctx context.Context, userID int64) (*employee.Employee, error) {
			return activeEmployee(1), nil
		}

		_, err := deps.service.LinkUser(ctx, 1, employee.LinkUserRequest{FoodOrderingUserID: 55})

		assert.NoError(t, err)
	})
}

func TestFormatEmployeeCode(t *testing.T) {
	assert.Equal(t, "EMP001", employee.FormatEmployeeCode(1))
	assert.Equal(t, "EMP042", employee.FormatEmployeeCode(42))
	assert.Equal(t, "EMP100", employee.FormatEmployeeCode(100))
	assert.Equal(t, "EMP1000", employee.FormatEmployeeCode(1000))
}

func TestAllocateEmployeeCode(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh counter starts at EMP001", func(t *testing.T) {
		repo := &repoStub{}
		counters := &counterStub{}

		code, err := employee.AllocateEmployeeCode(ctx, counters, repo)

		require.NoError(t, err)
		assert.Equal(t, "EMP001", code)
	})

	t.Run("each allocation takes a distinct code", func(t *testing.T) {
		repo := &repoStub{}
		counters := &counterStub{}

		first, err := employee.AllocateEmployeeCode(ctx, counters, repo)
		require.NoError(t, err)
		second, err := employee.AllocateEmployeeCode(ctx, counters, repo)
		require.NoError(t, err)

		assert.Equal(t, "EMP001", first)
		assert.Equal(t, "EMP002", second)
	})

	t.Run("counter behind existing rows catches up and retries", func(t *testing.T) {
		taken := map[string]bool{"EMP001": true, "EMP002": true, "EMP003": true}
		repo := &repoStub{
			findByCodeFn: func(ctx context.Context, code string) (*employee.Employee, error) {
				if taken[code] {
					return activeEmployee(1), nil
				}
				return nil, gorm.ErrRecordNotFound
			},
			lastCodeFn: func(ctx context.Context) (string, error) {
				return "EMP003", nil
			},
		}
		counters := &counterStub{}

		code, err := employee.AllocateEmployeeCode(ctx, counters, repo)

		require.NoError(t, err)
		assert.Equal(t, "EMP004", code)
	})

	t.Run("foreign last code falls back to timestamp suffix", func(t *testing.T) {
		repo := &repoStub{
			findByCodeFn: func(ctx context.Context, code string) (*employee.Employee, error) {
				return activeEmployee(1), nil
			},
			lastCodeFn: func(ctx context.Context) (string, error) {
				return "STAFF-7", nil
			},
		}
		counters := &counterStub{}

		code, err := employee.AllocateEmployeeCode(ctx, counters, repo)

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^EMP\d{6}$`), code)
	})

	t.Run("counter failure surfaces", func(t *testing.T) {
		repo := &repoStub{}
		counters := &counterStub{
			getNextFn: func(ctx context.Context, name string) (int64, error) {
				return 0, assert.AnError
			},
		}

		_, err := employee.AllocateEmployeeCode(ctx, counters, repo)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
