package app

import (
	"os"

	"github.com/nateesoft/management-hrm-service/internal/benefit"
	"github.com/nateesoft/management-hrm-service/internal/department"
	"github.com/nateesoft/management-hrm-service/internal/employee"
	"github.com/nateesoft/management-hrm-service/internal/identity"
	"github.com/nateesoft/management-hrm-service/internal/messaging/kafka"
	"github.com/nateesoft/management-hrm-service/internal/position"
	"github.com/nateesoft/management-hrm-service/internal/rbac"
	"github.com/nateesoft/management-hrm-service/internal/salary"
	"github.com/nateesoft/management-hrm-service/internal/shared/connection"
	"github.com/nateesoft/management-hrm-service/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	if err := autoMigrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	provider := buildIdentityProvider()

	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	return registerModules(router, gormDB, redisClient, provider, enforcer)
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&department.Department{},
		&position.Position{},
		&employee.Employee{},
		&benefit.Benefit{},
		&benefit.EmployeeBenefit{},
		&salary.SalaryRecord{},
		&kafka.OutboxEvent{},
		&counter.Counter{},
	)
}

// buildIdentityProvider selects the identity backend from configuration.
// The stub only ever serves when explicitly configured — either as the
// provider itself (dev mode) or as a declared degraded-mode fallback.
func buildIdentityProvider() identity.Provider {
	if os.Getenv("IDENTITY_PROVIDER") == "stub" {
		zap.L().Warn("using stub identity provider; do not run this in production")
		return identity.NewStubProvider()
	}

	baseURL := os.Getenv("FOOD_ORDERING_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}

	var fallback identity.Provider
	if os.Getenv("IDENTITY_FALLBACK_STUB") == "true" {
		fallback = identity.NewStubProvider()
	}

	return identity.NewHTTPProvider(baseURL, fallback)
}
