package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nateesoft/management-hrm-service/internal/department"
	"github.com/nateesoft/management-hrm-service/internal/employee"
	"github.com/nateesoft/management-hrm-service/internal/integration"
	"github.com/nateesoft/management-hrm-service/internal/messaging/kafka/consumer"
	"github.com/nateesoft/management-hrm-service/internal/position"
	"github.com/nateesoft/management-hrm-service/internal/shared/connection"
	"github.com/nateesoft/management-hrm-service/internal/shared/counter"

	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	provider := buildIdentityProvider()

	employeeRepo := employee.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	positionRepo := position.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	integrationService := integration.NewService(provider, employeeRepo, departmentRepo, positionRepo, counterRepo, redisClient)

	lifecycleConsumer := consumer.NewUserLifecycleConsumer([]string{kafkaBroker}, integrationService, logger)
	defer lifecycleConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- lifecycleConsumer.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("consumer shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	return nil
}
