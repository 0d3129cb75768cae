package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-rateb/internal/allowance"
	"go-rateb/internal/connector"
	"go-rateb/internal/events"
	"go-rateb/internal/export"
	"go-rateb/internal/messaging/kafka"
	"go-rateb/internal/messaging/kafka/consumer"
	"go-rateb/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer hosts every kafka consumer: allowance seeding on employee
// creation, export artifact generation and government sync on run approval.
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

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	allowanceRepo := allowance.NewRepository(gormDB)
	allowanceService := allowance.NewService(sqlDB, allowanceRepo)

	exportRepo := export.NewRepository(gormDB)
	exportService := export.NewService(sqlDB, exportRepo, outboxRepo)

	govClient := connector.NewHTTPClient(connector.Config{
		BaseURL: os.Getenv("CONNECTOR_BASE_URL"),
		APIKey:  os.Getenv("CONNECTOR_API_KEY"),
		Timeout: 15 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	allowanceConsumer := allowance.NewEmployeeCreatedConsumer(
		kafkaBroker,
		"go-rateb-allowance-seed",
		allowanceService,
	)
	allowanceConsumer.Start(ctx)

	exportReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.ExportRequestedTopic,
		GroupID:        "go-rateb-export-generator",
		CommitInterval: time.Second,
		StartOffset:    kafkago.FirstOffset,
	})
	defer exportReader.Close()
	go consumer.ConsumeExportRequested(ctx, exportReader, exportService, logger)

	runApprovedReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.RunApprovedTopic,
		GroupID:        "go-rateb-government-sync",
		CommitInterval: time.Second,
		StartOffset:    kafkago.FirstOffset,
	})
	defer runApprovedReader.Close()
	go consumer.ConsumeRunApproved(ctx, runApprovedReader, govClient, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
