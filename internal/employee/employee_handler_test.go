package employee_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nateesoft/management-hrm-service/internal/employee"
	employeeerrors "github.com/nateesoft/management-hrm-service/internal/employee/errors"
	"github.com/nateesoft/management-hrm-service/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	CreateFn        func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn        func(ctx context.Context, query employee.QueryEmployeeRequest) ([]employee.EmployeeResponse, *response.PaginationMeta, error)
	GetByIDFn       func(ctx context.Context, id int64) (employee.EmployeeResponse, error)
	UpdateFn        func(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	TerminateFn     func(ctx context.Context, id int64) (employee.EmployeeResponse, error)
	LinkUserFn      func(ctx context.Context, id int64, req employee.LinkUserRequest) (employee.EmployeeResponse, error)
	UnlinkUserFn    func(ctx context.Context, id int64) (employee.EmployeeResponse, error)
	SalaryHistoryFn func(ctx context.Context, id int64) ([]employee.SalaryHistoryItem, error)
	BenefitsFn      func(ctx context.Context, id int64) ([]employee.EmployeeBenefitItem, error)
	GenerateCodeFn  func(ctx context.Context) (string, error)
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, query employee.QueryEmployeeRequest) ([]employee.EmployeeResponse, *response.PaginationMeta, error) {
	return f.GetAllFn(ctx, query)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeEmployeeService) Terminate(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	return f.TerminateFn(ctx, id)
}
func (f *fakeEmployeeService) LinkUser(ctx context.Context, id int64, req employee.LinkUserRequest) (employee.EmployeeResponse, error) {
	return f.LinkUserFn(ctx, id, req)
}
func (f *fakeEmployeeService) UnlinkUser(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	return f.UnlinkUserFn(ctx, id)
}
func (f *fakeEmployeeService) SalaryHistory(ctx context.Context, id int64) ([]employee.SalaryHistoryItem, error) {
	return f.SalaryHistoryFn(ctx, id)
}
func (f *fakeEmployeeService) Benefits(ctx context.Context, id int64) ([]employee.EmployeeBenefitItem, error) {
	return f.BenefitsFn(ctx, id)
}
func (f *fakeEmployeeService) GenerateCode(ctx context.Context) (string, error) {
	return f.GenerateCodeFn(ctx)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestEmployeeHandler_Create(t *testing.T) {
	validBody := `{
		"employeeCode": "EMP010",
		"firstName": "Somchai",
		"lastName": "Jaidee",
		"departmentId": 1,
		"positionId": 2,
		"baseSalary": "18000"
	}`

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "EMP010", req.EmployeeCode)
				assert.Equal(t, int64(1), req.DepartmentID)
				return employee.EmployeeResponse{ID: 10, EmployeeCode: req.EmployeeCode}, nil
			},
		}

		h := employee.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(validBody))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid gender value", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newTestContext(t)

		body := strings.Replace(validBody, `"firstName": "Somchai",`, `"firstName": "Somchai", "gender": "UNKNOWN",`, 1)
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeCodeExists
			},
		}

		h := employee.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(validBody))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEmployeeHandler_LinkUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			LinkUserFn: func(ctx context.Context, id int64, req employee.LinkUserRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, int64(7), id)
				assert.Equal(t, int64(33), req.FoodOrderingUserID)
				userID := req.FoodOrderingUserID
				return employee.EmployeeResponse{ID: id, FoodOrderingUserID: &userID}, nil
			},
		}

		h := employee.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodPost, "/employees/7/link-user", strings.NewReader(`{"foodOrderingUserId":33}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "7"}}

		h.LinkUser(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("already linked elsewhere", func(t *testing.T) {
		svc := &fakeEmployeeService{
			LinkUserFn: func(ctx context.Context, id int64, req employee.LinkUserRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrUserAlreadyLinked
			},
		}

		h := employee.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodPost, "/employees/7/link-user", strings.NewReader(`{"foodOrderingUserId":33}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "7"}}

		h.LinkUser(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEmployeeHandler_Terminate(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			TerminateFn: func(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}

		h := employee.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodPatch, "/employees/404/terminate", nil)
		c.Params = gin.Params{{Key: "id", Value: "404"}}

		h.Terminate(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEmployeeHandler_GenerateCode(t *testing.T) {
	t.Run("returns the next free code", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GenerateCodeFn: func(ctx context.Context) (string, error) {
				return "EMP042", nil
			},
		}

		h := employee.NewHandler(svc)
		c, w := newTestContext(t)

		c.Request = httptest.NewRequest(http.MethodGet, "/employees/generate-code", nil)

		h.GenerateCode(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "EMP042")
	})
}
