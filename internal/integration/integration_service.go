package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nateesoft/management-hrm-service/internal/department"
	"github.com/nateesoft/management-hrm-service/internal/employee"
	"github.com/nateesoft/management-hrm-service/internal/identity"
	"github.com/nateesoft/management-hrm-service/internal/position"
	"github.com/nateesoft/management-hrm-service/internal/shared/counter"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultDepartmentCode = "GENERAL"
	defaultPositionCode   = "STAFF"

	unlinkedUsersCacheKey = "integration:unlinked-users"
	unlinkedUsersCacheTTL = time.Minute
)

var defaultBaseSalary = decimal.NewFromInt(15000)

//go:generate mockgen -source=integration_service.go -destination=mock/integration_service_mock.go -package=mock
type Service interface {
	SyncAllUsers(ctx context.Context) SyncResult
	UnlinkedUsers(ctx context.Context) ([]identity.User, error)
	HandleUserCreated(ctx context.Context, payload UserWebhookPayload) (WebhookResult, error)
	HandleUserUpdated(ctx context.Context, payload UserWebhookPayload) (WebhookResult, error)
}

type service struct {
	provider  identity.Provider
	employees employee.Repository
	depts     department.Repository
	positions position.Repository
	counters  counter.Repository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewService(
	provider identity.Provider,
	employees employee.Repository,
	depts department.Repository,
	positions position.Repository,
	counters counter.Repository,
	rdb *redis.Client,
) Service {
	return &service{
		provider:  provider,
		employees: employees,
		depts:     depts,
		positions: positions,
		counters:  counters,
		rdb:       rdb,
		logger:    zap.L().Named("integration"),
	}
}

// SyncAllUsers mirrors the food-ordering user base into employee records:
// unlinked users get a fresh employee under the GENERAL/STAFF defaults,
// linked ones get their status refreshed. Failures are tallied, never fatal.
func (s *service) SyncAllUsers(ctx context.Context) SyncResult {
	result := SyncResult{Errors: []string{}}

	users, err := s.provider.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to fetch users from identity provider", zap.Error(err))
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to fetch users: %v", err))
		return result
	}

	deptID, posID, err := s.ensureDefaults(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to prepare defaults: %v", err))
		return result
	}

	for _, user := range users {
		action, serr := s.syncSingleUser(ctx, user, deptID, posID)
		if serr != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Failed to sync user %s: %v", user.Username, serr))
			continue
		}

		switch action {
		case "created":
			result.Created++
		case "updated":
			result.Updated++
		default:
			result.Skipped++
		}
		result.Synced++
	}

	s.logger.Info("user sync finished",
		zap.Int("synced", result.Synced),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)

	return result
}

func (s *service) syncSingleUser(
	ctx context.Context,
	user identity.User,
	defaultDeptID, defaultPosID int64,
) (string, error) {
	existing, err := s.employees.FindByFoodOrderingUserID(ctx, user.ID)
	switch {
	case err == nil:
		newStatus := employee.StatusActive
		if !user.IsActive {
			newStatus = employee.StatusInactive
		}
		if existing.Status == newStatus {
			return "skipped", nil
		}
		existing.Status = newStatus
		if uerr := s.employees.Update(ctx, existing); uerr != nil {
			return "", uerr
		}
		return "updated", nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, cerr := s.createEmployeeForUser(ctx, user, defaultDeptID, defaultPosID); cerr != nil {
			return "", cerr
		}
		return "created", nil

	default:
		return "", err
	}
}

func (s *service) createEmployeeForUser(
	ctx context.Context,
	user identity.User,
	deptID, posID int64,
) (*employee.Employee, error) {
	firstName, lastName := splitName(user.Name, user.Username)

	code, err := employee.AllocateEmployeeCode(ctx, s.counters, s.employees)
	if err != nil {
		return nil, err
	}

	status := employee.StatusActive
	if !user.IsActive {
		status = employee.StatusInactive
	}

	userID := user.ID
	emp := &employee.Employee{
		EmployeeCode:       code,
		FirstName:          firstName,
		LastName:           lastName,
		DepartmentID:       deptID,
		PositionID:         posID,
		EmploymentType:     employee.EmploymentFullTime,
		StartDate:          time.Now(),
		BaseSalary:         defaultBaseSalary,
		Status:             status,
		FoodOrderingUserID: &userID,
	}

	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// ensureDefaults guarantees the GENERAL department and STAFF position exist
// so synced users always have a place to land.
func (s *service) ensureDefaults(ctx context.Context) (int64, int64, error) {
	dept, err := s.depts.FindByCode(ctx, defaultDepartmentCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		desc := "General department (auto-created by user sync)"
		dept = &department.Department{
			Code:        defaultDepartmentCode,
			Name:        "General",
			Description: &desc,
			IsActive:    true,
		}
		if cerr := s.depts.Create(ctx, dept); cerr != nil {
			return 0, 0, cerr
		}
	} else if err != nil {
		return 0, 0, err
	}

	pos, err := s.positions.FindByCode(ctx, defaultPositionCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		desc := "General staff position (auto-created by user sync)"
		pos = &position.Position{
			Code:         defaultPositionCode,
			Name:         "Staff",
			Description:  &desc,
			DepartmentID: dept.ID,
			Level:        1,
			BaseSalary:   defaultBaseSalary,
			IsActive:     true,
		}
		if cerr := s.positions.Create(ctx, pos); cerr != nil {
			return 0, 0, cerr
		}
	} else if err != nil {
		return 0, 0, err
	}

	return dept.ID, pos.ID, nil
}

// UnlinkedUsers lists provider users with no employee record yet. The result
// is cached briefly in Redis since the admin UI polls it.
func (s *service) UnlinkedUsers(ctx context.Context) ([]identity.User, error) {
	if cached, err := s.rdb.Get(ctx, unlinkedUsersCacheKey).Bytes(); err == nil {
		var users []identity.User
		if jerr := json.Unmarshal(cached, &users); jerr == nil {
			return users, nil
		}
	}

	users, err := s.provider.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	linkedIDs, err := s.employees.LinkedUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	linked := make(map[int64]struct{}, len(linkedIDs))
	for _, id := range linkedIDs {
		linked[id] = struct{}{}
	}

	unlinked := make([]identity.User, 0, len(users))
	for _, user := range users {
		if _, ok := linked[user.ID]; !ok {
			unlinked = append(unlinked, user)
		}
	}

	if payload, jerr := json.Marshal(unlinked); jerr == nil {
		if cerr := s.rdb.Set(ctx, unlinkedUsersCacheKey, payload, unlinkedUsersCacheTTL).Err(); cerr != nil {
			s.logger.Warn("failed to cache unlinked users", zap.Error(cerr))
		}
	}

	return unlinked, nil
}

func (s *service) HandleUserCreated(
	ctx context.Context,
	payload UserWebhookPayload,
) (WebhookResult, error) {
	s.logger.Info("user created event received", zap.String("username", payload.Username))

	if existing, err := s.employees.FindByFoodOrderingUserID(ctx, payload.ID); err == nil {
		return WebhookResult{
			Status:  "skipped",
			Message: fmt.Sprintf("User already linked to employee %s", existing.EmployeeCode),
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return WebhookResult{}, err
	}

	deptID, posID, err := s.ensureDefaults(ctx)
	if err != nil {
		return WebhookResult{}, err
	}

	emp, err := s.createEmployeeForUser(ctx, payload.toUser(), deptID, posID)
	if err != nil {
		return WebhookResult{}, err
	}

	s.logger.Info("employee created from user event",
		zap.String("employee_code", emp.EmployeeCode),
		zap.String("username", payload.Username),
	)

	return WebhookResult{
		Status:   "created",
		Employee: &EmployeeStub{ID: emp.ID, EmployeeCode: emp.EmployeeCode},
	}, nil
}

func (s *service) HandleUserUpdated(
	ctx context.Context,
	payload UserWebhookPayload,
) (WebhookResult, error) {
	s.logger.Info("user updated event received", zap.String("username", payload.Username))

	emp, err := s.employees.FindByFoodOrderingUserID(ctx, payload.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return WebhookResult{Status: "skipped", Message: "User not linked"}, nil
	}
	if err != nil {
		return WebhookResult{}, err
	}

	newStatus := employee.StatusActive
	if payload.IsActive != nil && !*payload.IsActive {
		newStatus = employee.StatusInactive
	}

	emp.Status = newStatus
	if err := s.employees.Update(ctx, emp); err != nil {
		return WebhookResult{}, err
	}

	return WebhookResult{
		Status:   "updated",
		Message:  fmt.Sprintf("Employee %s status set to %s", emp.EmployeeCode, newStatus),
		Employee: &EmployeeStub{ID: emp.ID, EmployeeCode: emp.EmployeeCode},
	}, nil
}

func (p UserWebhookPayload) toUser() identity.User {
	return identity.User{
		ID:       p.ID,
		Username: p.Username,
		Name:     p.Name,
		Role:     p.Role,
		IsActive: p.IsActive == nil || *p.IsActive,
	}
}

func splitName(fullName, fallback string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return fallback, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
