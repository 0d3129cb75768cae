package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-rateb/internal/connector"
	"go-rateb/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeRunApproved notifies the government connector that a payroll run was
// approved. The connector call is idempotent (keyed by run id) and its failure
// is logged, never retried into the payroll core.
func ConsumeRunApproved(
	ctx context.Context,
	reader *kafkago.Reader,
	client connector.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.run_approved")
	log.Info("run approved consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("run approved consumer stopped")
				return
			}
			log.Error("fetch run approved message failed", zap.Error(err))
			continue
		}

		var event events.RunApprovedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode run approved event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		result := client.Sync(ctx, connector.SyncRequest{
			TenantID:       event.CompanyID,
			Provider:       connector.ProviderMudad,
			Operation:      "payroll_run_approved",
			EntityType:     "payroll_run",
			EntityID:       event.RunID,
			PayloadJSON:    string(msg.Value),
			IdempotencyKey: fmt.Sprintf("run-approved-%s", event.RunID),
		})

		if !result.Success {
			log.Warn("government sync degraded",
				zap.String("run_id", event.RunID),
				zap.String("company_id", event.CompanyID),
				zap.String("error_message", result.ErrorMessage),
			)
		} else {
			log.Info("government sync completed",
				zap.String("run_id", event.RunID),
				zap.String("external_reference", result.ExternalReference),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit run approved message failed", zap.Error(err))
		}
	}
}
