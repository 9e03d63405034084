package consumer

import (
	"context"
	"encoding/json"

	"github.com/nateesoft/management-hrm-service/internal/events"
	"github.com/nateesoft/management-hrm-service/internal/integration"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const groupID = "hrm-user-lifecycle"

// UserLifecycleConsumer mirrors food-ordering user events into employee
// records through the integration service, the same path the webhooks use.
type UserLifecycleConsumer struct {
	reader  *kafkago.Reader
	service integration.Service
	logger  *zap.Logger
}

func NewUserLifecycleConsumer(brokers []string, service integration.Service, logger *zap.Logger) *UserLifecycleConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    events.UserLifecycleTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &UserLifecycleConsumer{
		reader:  reader,
		service: service,
		logger:  logger.Named("kafka.consumer.user-lifecycle"),
	}
}

// Run blocks until ctx is cancelled. A malformed or failing message is
// logged and committed anyway; the sync endpoint can always reconcile later.
func (c *UserLifecycleConsumer) Run(ctx context.Context) error {
	c.logger.Info("user lifecycle consumer started",
		zap.String("topic", events.UserLifecycleTopic),
		zap.String("group_id", groupID),
	)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("user lifecycle consumer stopped")
				return nil
			}
			return err
		}

		c.handleMessage(ctx, msg)
	}
}

func (c *UserLifecycleConsumer) handleMessage(ctx context.Context, msg kafkago.Message) {
	var event events.UserLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("malformed user lifecycle event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	payload := integration.UserWebhookPayload{
		ID:       event.UserID,
		Username: event.Username,
		Name:     event.Name,
		Role:     event.Role,
		IsActive: &event.IsActive,
	}

	var result integration.WebhookResult
	var err error

	switch event.EventType {
	case "user.created":
		result, err = c.service.HandleUserCreated(ctx, payload)
	case "user.updated":
		result, err = c.service.HandleUserUpdated(ctx, payload)
	default:
		c.logger.Warn("unhandled user lifecycle event type",
			zap.String("event_type", event.EventType),
		)
		return
	}

	if err != nil {
		c.logger.Error("user lifecycle event handling failed",
			zap.String("event_type", event.EventType),
			zap.Int64("user_id", event.UserID),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("user lifecycle event handled",
		zap.String("event_type", event.EventType),
		zap.Int64("user_id", event.UserID),
		zap.String("status", result.Status),
	)
}

func (c *UserLifecycleConsumer) Close() error {
	return c.reader.Close()
}
