package app

import (
	"net/http"

	"github.com/nateesoft/management-hrm-service/internal/benefit"
	"github.com/nateesoft/management-hrm-service/internal/department"
	"github.com/nateesoft/management-hrm-service/internal/employee"
	"github.com/nateesoft/management-hrm-service/internal/identity"
	"github.com/nateesoft/management-hrm-service/internal/integration"
	"github.com/nateesoft/management-hrm-service/internal/messaging/kafka"
	"github.com/nateesoft/management-hrm-service/internal/middleware"
	"github.com/nateesoft/management-hrm-service/internal/position"
	"github.com/nateesoft/management-hrm-service/internal/salary"
	"github.com/nateesoft/management-hrm-service/internal/shared/counter"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(router *gin.Engine, gormDB *gorm.DB, rdb *redis.Client, provider identity.Provider, enforcer *casbin.Enforcer) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	departmentRepo := department.NewRepository(gormDB)
	positionRepo := position.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	benefitRepo := benefit.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)

	departmentService := department.NewService(gormDB, departmentRepo)
	positionService := position.NewService(gormDB, positionRepo)
	employeeService := employee.NewService(gormDB, employeeRepo, outboxRepo, counterRepo)
	benefitService := benefit.NewService(gormDB, benefitRepo)
	salaryService := salary.NewService(gormDB, salaryRepo, outboxRepo)
	integrationService := integration.NewService(provider, employeeRepo, departmentRepo, positionRepo, counterRepo, rdb)

	departmentHandler := department.NewHandler(departmentService)
	positionHandler := position.NewHandler(positionService)
	employeeHandler := employee.NewHandler(employeeService)
	benefitHandler := benefit.NewHandler(benefitService)
	salaryHandler := salary.NewHandler(salaryService, rdb)
	integrationHandler := integration.NewHandler(integrationService)

	api := router.Group("/api/v1")
	department.RegisterRoutes(api, departmentHandler, provider, enforcer)
	position.RegisterRoutes(api, positionHandler, provider, enforcer)
	employee.RegisterRoutes(api, employeeHandler, provider, enforcer)
	benefit.RegisterRoutes(api, benefitHandler, provider, enforcer)
	salary.RegisterRoutes(api, salaryHandler, provider, enforcer, rdb)
	integration.RegisterRoutes(api, integrationHandler, provider, enforcer)

	return nil
}
