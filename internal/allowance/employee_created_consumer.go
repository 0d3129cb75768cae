package allowance

import (
	"context"
	"encoding/json"
	"time"

	"go-rateb/internal/events"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeCreatedConsumer seeds default allowance policies when a new
// employee lands in the system.
type EmployeeCreatedConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewEmployeeCreatedConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *EmployeeCreatedConsumer {
	l := zap.L().Named("allowance.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allowance.consumer")
	}

	return &EmployeeCreatedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.EmployeeCreatedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *EmployeeCreatedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume employee_created failed", zap.Error(err))
				continue
			}

			var event events.EmployeeCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode employee_created event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid employee_created event failed", zap.Error(commitErr))
				}
				continue
			}

			// SeedDefaultPolicies is idempotent, so a redelivered event
			// is harmless.
			if err := c.service.SeedDefaultPolicies(ctx, event.CompanyID, event.EmployeeID); err != nil {
				c.logger.Error("seed default allowance policies failed",
					zap.String("employee_id", event.EmployeeID),
					zap.String("company_id", event.CompanyID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit employee_created event failed", zap.Error(err))
				continue
			}

			c.logger.Info("default allowance policies ensured from employee_created event",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
			)
		}
	}()
}
