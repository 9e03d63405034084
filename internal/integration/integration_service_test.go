package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nateesoft/management-hrm-service/internal/department"
	"github.com/nateesoft/management-hrm-service/internal/employee"
	"github.com/nateesoft/management-hrm-service/internal/identity"
	"github.com/nateesoft/management-hrm-service/internal/integration"
	"github.com/nateesoft/management-hrm-service/internal/position"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const unlinkedUsersCacheKey = "integration:unlinked-users"

type providerStub struct {
	validateFn  func(ctx context.Context, userID int64) (identity.User, error)
	listUsersFn func(ctx context.Context) ([]identity.User, error)
}

func (p *providerStub) Validate(ctx context.Context, userID int64) (identity.User, error) {
	if p.validateFn == nil {
		return identity.User{}, identity.ErrUserNotFound
	}
	return p.validateFn(ctx, userID)
}

func (p *providerStub) ListUsers(ctx context.Context) ([]identity.User, error) {
	if p.listUsersFn == nil {
		return nil, nil
	}
	return p.listUsersFn(ctx)
}

type employeeRepoStub struct {
	createFn       func(ctx context.Context, emp *employee.Employee) error
	findByUserIDFn func(ctx context.Context, userID int64) (*employee.Employee, error)
	updateFn       func(ctx context.Context, emp *employee.Employee) error
	lastCodeFn     func(ctx context.Context) (string, error)
	linkedIDsFn    func(ctx context.Context) ([]int64, error)
}

func (r *employeeRepoStub) WithTx(tx *gorm.DB) employee.Repository { return r }

func (r *employeeRepoStub) Create(ctx context.Context, emp *employee.Employee) error {
	if r.createFn == nil {
		return nil
	}
	return r.createFn(ctx, emp)
}

func (r *employeeRepoStub) FindAll(ctx context.Context, query employee.QueryEmployeeRequest) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (r *employeeRepoStub) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *employeeRepoStub) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *employeeRepoStub) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *employeeRepoStub) FindByNationalID(ctx context.Context, nationalID string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *employeeRepoStub) FindByFoodOrderingUserID(ctx context.Context, userID int64) (*employee.Employee, error) {
	if r.findByUserIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findByUserIDFn(ctx, userID)
}

func (r *employeeRepoStub) Update(ctx context.Context, emp *employee.Employee) error {
	if r.updateFn == nil {
		return nil
	}
	return r.updateFn(ctx, emp)
}

func (r *employeeRepoStub) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	return true, nil
}

func (r *employeeRepoStub) PositionExists(ctx context.Context, positionID int64) (bool, error) {
	return true, nil
}

func (r *employeeRepoStub) LastEmployeeCode(ctx context.Context) (string, error) {
	if r.lastCodeFn == nil {
		return "", nil
	}
	return r.lastCodeFn(ctx)
}

func (r *employeeRepoStub) LinkedUserIDs(ctx context.Context) ([]int64, error) {
	if r.linkedIDsFn == nil {
		return nil, nil
	}
	return r.linkedIDsFn(ctx)
}

func (r *employeeRepoStub) SalaryHistory(ctx context.Context, employeeID int64) ([]employee.SalaryHistoryItem, error) {
	return nil, nil
}

func (r *employeeRepoStub) ActiveBenefits(ctx context.Context, employeeID int64) ([]employee.EmployeeBenefitItem, error) {
	return nil, nil
}

type deptRepoStub struct {
	findByCodeFn func(ctx context.Context, code string) (*department.Department, error)
	createFn     func(ctx context.Context, dept *department.Department) error
}

func (r *deptRepoStub) WithTx(tx *gorm.DB) department.Repository { return r }

func (r *deptRepoStub) Create(ctx context.Context, dept *department.Department) error {
	if r.createFn == nil {
		dept.ID = 1
		return nil
	}
	return r.createFn(ctx, dept)
}

func (r *deptRepoStub) FindAll(ctx context.Context, query department.QueryDepartmentRequest) ([]department.Department, error) {
	return nil, nil
}

func (r *deptRepoStub) FindByID(ctx context.Context, id int64) (*department.Department, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *deptRepoStub) FindByCode(ctx context.Context, code string) (*department.Department, error) {
	if r.findByCodeFn == nil {
		return &department.Department{ID: 1, Code: code, Name: "General", IsActive: true}, nil
	}
	return r.findByCodeFn(ctx, code)
}

func (r *deptRepoStub) Update(ctx context.Context, dept *department.Department) error { return nil }

func (r *deptRepoStub) Delete(ctx context.Context, id int64) error { return nil }

func (r *deptRepoStub) CountEmployees(ctx context.Context, id int64) (int64, error) { return 0, nil }

func (r *deptRepoStub) CountPositions(ctx context.Context, id int64) (int64, error) { return 0, nil }

type posRepoStub struct {
	findByCodeFn func(ctx context.Context, code string) (*position.Position, error)
	createFn     func(ctx context.Context, pos *position.Position) error
}

func (r *posRepoStub) WithTx(tx *gorm.DB) position.Repository { return r }

func (r *posRepoStub) Create(ctx context.Context, pos *position.Position) error {
	if r.createFn == nil {
		pos.ID = 1
		return nil
	}
	return r.createFn(ctx, pos)
}

func (r *posRepoStub) FindAll(ctx context.Context, query position.QueryPositionRequest) ([]position.Position, error) {
	return nil, nil
}

func (r *posRepoStub) FindByID(ctx context.Context, id int64) (*position.Position, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *posRepoStub) FindByCode(ctx context.Context, code string) (*position.Position, error) {
	if r.findByCodeFn == nil {
		return &position.Position{ID: 1, Code: code, Name: "Staff", DepartmentID: 1, Level: 1, IsActive: true}, nil
	}
	return r.findByCodeFn(ctx, code)
}

func (r *posRepoStub) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	return true, nil
}

func (r *posRepoStub) Update(ctx context.Context, pos *position.Position) error { return nil }

func (r *posRepoStub) Delete(ctx context.Context, id int64) error { return nil }

func (r *posRepoStub) CountEmployees(ctx context.Context, id int64) (int64, error) { return 0, nil }

type counterStub struct {
	next int64
}

func (c *counterStub) GetNextValue(ctx context.Context, name string) (int64, error) {
	c.next++
	return c.next, nil
}

func (c *counterStub) EnsureAtLeast(ctx context.Context, name string, min int64) error {
	if min > c.next {
		c.next = min
	}
	return nil
}

type serviceDeps struct {
	provider  *providerStub
	employees *employeeRepoStub
	depts     *deptRepoStub
	positions *posRepoStub
	counters  *counterStub
	redisMock redismock.ClientMock
	service   integration.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	rdb, redisMock := redismock.NewClientMock()
	provider := &providerStub{}
	employees := &employeeRepoStub{}
	depts := &deptRepoStub{}
	positions := &posRepoStub{}
	counters := &counterStub{}

	return &serviceDeps{
		provider:  provider,
		employees: employees,
		depts:     depts,
		positions: positions,
		counters:  counters,
		redisMock: redisMock,
		service:   integration.NewService(provider, employees, depts, positions, counters, rdb),
	}
}

func activeUser(id int64, name string) identity.User {
	return identity.User{ID: id, Username: fmt.Sprintf("user%d", id), Name: name, Role: "STAFF", IsActive: true}
}

func TestIntegrationService_SyncAllUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("creates employees for unlinked users", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			return []identity.User{activeUser(10, "Somchai Jaidee"), activeUser(11, "Malee Srisuk")}, nil
		}

		var created []*employee.Employee
		deps.employees.createFn = func(ctx context.Context, emp *employee.Employee) error {
			emp.ID = int64(len(created) + 1)
			created = append(created, emp)
			return nil
		}

		result := deps.service.SyncAllUsers(ctx)

		assert.Equal(t, 2, result.Synced)
		assert.Equal(t, 2, result.Created)
		assert.Empty(t, result.Errors)

		require.Len(t, created, 2)
		first := created[0]
		assert.Equal(t, "EMP001", first.EmployeeCode)
		assert.Equal(t, "Somchai", first.FirstName)
		assert.Equal(t, "Jaidee", first.LastName)
		assert.Equal(t, employee.StatusActive, first.Status)
		require.NotNil(t, first.FoodOrderingUserID)
		assert.Equal(t, int64(10), *first.FoodOrderingUserID)
		assert.True(t, first.BaseSalary.Equal(decimal.NewFromInt(15000)), "base salary was %s", first.BaseSalary)
	})

	t.Run("refreshes status of linked users", func(t *testing.T) {
		deps := setupServiceTest(t)

		inactive := activeUser(10, "Somchai Jaidee")
		inactive.IsActive = false
		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			return []identity.User{inactive}, nil
		}
		deps.employees.findByUserIDFn = func(ctx context.Context, userID int64) (*employee.Employee, error) {
			return &employee.Employee{ID: 1, EmployeeCode: "EMP001", Status: employee.StatusActive}, nil
		}

		var updated *employee.Employee
		deps.employees.updateFn = func(ctx context.Context, emp *employee.Employee) error {
			updated = emp
			return nil
		}

		result := deps.service.SyncAllUsers(ctx)

		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 0, result.Created)
		require.NotNil(t, updated)
		assert.Equal(t, employee.StatusInactive, updated.Status)
	})

	t.Run("unchanged linked user is skipped", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			return []identity.User{activeUser(10, "Somchai Jaidee")}, nil
		}
		deps.employees.findByUserIDFn = func(ctx context.Context, userID int64) (*employee.Employee, error) {
			return &employee.Employee{ID: 1, EmployeeCode: "EMP001", Status: employee.StatusActive}, nil
		}

		result := deps.service.SyncAllUsers(ctx)

		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Updated)
	})

	t.Run("provider outage is reported, not fatal", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			return nil, identity.ErrUpstreamUnavailable
		}

		result := deps.service.SyncAllUsers(ctx)

		assert.Equal(t, 0, result.Synced)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Failed to fetch users")
	})

	t.Run("one bad user does not stop the rest", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			return []identity.User{activeUser(10, "Somchai Jaidee"), activeUser(11, "Malee Srisuk")}, nil
		}
		deps.employees.createFn = func(ctx context.Context, emp *employee.Employee) error {
			if *emp.FoodOrderingUserID == 10 {
				return errors.New("insert failed")
			}
			emp.ID = 2
			return nil
		}

		result := deps.service.SyncAllUsers(ctx)

		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Synced)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Failed to sync user user10")
	})
}

func TestIntegrationService_UnlinkedUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss computes the set difference", func(t *testing.T) {
		deps := setupServiceTest(t)

		users := []identity.User{activeUser(10, "A"), activeUser(11, "B"), activeUser(12, "C")}
		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			return users, nil
		}
		deps.employees.linkedIDsFn = func(ctx context.Context) ([]int64, error) {
			return []int64{11}, nil
		}

		expected := []identity.User{users[0], users[2]}
		payload, err := json.Marshal(expected)
		require.NoError(t, err)

		deps.redisMock.ExpectGet(unlinkedUsersCacheKey).RedisNil()
		deps.redisMock.ExpectSet(unlinkedUsersCacheKey, payload, time.Minute).SetVal("OK")

		got, err := deps.service.UnlinkedUsers(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, got)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the provider", func(t *testing.T) {
		deps := setupServiceTest(t)

		cached := []identity.User{activeUser(10, "A")}
		payload, err := json.Marshal(cached)
		require.NoError(t, err)

		deps.redisMock.ExpectGet(unlinkedUsersCacheKey).SetVal(string(payload))
		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			t.Fatal("provider must not be called on cache hit")
			return nil, nil
		}

		got, err := deps.service.UnlinkedUsers(ctx)

		require.NoError(t, err)
		assert.Equal(t, cached, got)
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redisMock.ExpectGet(unlinkedUsersCacheKey).RedisNil()
		deps.provider.listUsersFn = func(ctx context.Context) ([]identity.User, error) {
			return nil, identity.ErrUpstreamUnavailable
		}

		_, err := deps.service.UnlinkedUsers(ctx)

		assert.ErrorIs(t, err, identity.ErrUpstreamUnavailable)
	})
}

func TestIntegrationService_HandleUserCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and links an employee", func(t *testing.T) {
		deps := setupServiceTest(t)

		var created *employee.Employee
		deps.employees.createFn = func(ctx context.Context, emp *employee.Employee) error {
			emp.ID = 5
			created = emp
			return nil
		}

		result, err := deps.service.HandleUserCreated(ctx, integration.UserWebhookPayload{
			ID:       33,
			Username: "chef1",
			Name:     "Prasert Thongdee",
			Role:     "CHEF",
		})

		require.NoError(t, err)
		assert.Equal(t, "created", result.Status)
		require.NotNil(t, result.Employee)
		assert.Equal(t, int64(5), result.Employee.ID)

		require.NotNil(t, created)
		assert.Equal(t, "Prasert", created.FirstName)
		assert.Equal(t, "Thongdee", created.LastName)
		require.NotNil(t, created.FoodOrderingUserID)
		assert.Equal(t, int64(33), *created.FoodOrderingUserID)
	})

	t.Run("already linked user is skipped", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.employees.findByUserIDFn = func(ctx context.Context, userID int64) (*employee.Employee, error) {
			return &employee.Employee{ID: 5, EmployeeCode: "EMP005"}, nil
		}

		result, err := deps.service.HandleUserCreated(ctx, integration.UserWebhookPayload{ID: 33, Username: "chef1"})

		require.NoError(t, err)
		assert.Equal(t, "skipped", result.Status)
		assert.Contains(t, result.Message, "EMP005")
	})

	t.Run("username is the fallback when name is empty", func(t *testing.T) {
		deps := setupServiceTest(t)

		var created *employee.Employee
		deps.employees.createFn = func(ctx context.Context, emp *employee.Employee) error {
			created = emp
			return nil
		}

		_, err := deps.service.HandleUserCreated(ctx, integration.UserWebhookPayload{ID: 34, Username: "rider9"})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "rider9", created.FirstName)
		assert.Empty(t, created.LastName)
	})
}

func TestIntegrationService_HandleUserUpdated(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivation propagates to the employee", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.employees.findByUserIDFn = func(ctx context.Context, userID int64) (*employee.Employee, error) {
			return &employee.Employee{ID: 5, EmployeeCode: "EMP005", Status: employee.StatusActive}, nil
		}

		var updated *employee.Employee
		deps.employees.updateFn = func(ctx context.Context, emp *employee.Employee) error {
			updated = emp
			return nil
		}

		inactive := false
		result, err := deps.service.HandleUserUpdated(ctx, integration.UserWebhookPayload{
			ID:       33,
			Username: "chef1",
			IsActive: &inactive,
		})

		require.NoError(t, err)
		assert.Equal(t, "updated", result.Status)
		require.NotNil(t, updated)
		assert.Equal(t, employee.StatusInactive, updated.Status)
	})

	t.Run("unlinked user is skipped", func(t *testing.T) {
		deps := setupServiceTest(t)

		result, err := deps.service.HandleUserUpdated(ctx, integration.UserWebhookPayload{ID: 99, Username: "ghost"})

		require.NoError(t, err)
		assert.Equal(t, "skipped", result.Status)
	})
}
