package consumer

import (
	"context"
	"encoding/json"

	"go-rateb/internal/events"
	"go-rateb/internal/export"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeExportRequested turns queued export artifacts into generated files.
// Generation failures are recorded on the artifact itself, so the message is
// committed either way; redelivery would only produce a duplicate attempt on
// an artifact that is no longer PENDING.
func ConsumeExportRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	generator export.Generator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.export_artifact")
	log.Info("export artifact consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("export artifact consumer stopped")
				return
			}
			log.Error("fetch export message failed", zap.Error(err))
			continue
		}

		var event events.ExportRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode export requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := generator.Generate(ctx, event.CompanyID, event.ArtifactID); err != nil {
			log.Error("generate export artifact failed",
				zap.String("artifact_id", event.ArtifactID),
				zap.String("company_id", event.CompanyID),
				zap.String("kind", event.Kind),
				zap.Error(err),
			)
		} else {
			log.Info("export artifact generated",
				zap.String("artifact_id", event.ArtifactID),
				zap.String("company_id", event.CompanyID),
				zap.String("kind", event.Kind),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit export message failed", zap.Error(err))
		}
	}
}
