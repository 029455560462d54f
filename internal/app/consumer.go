package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-payroll/internal/bank"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/notify"
	"go-payroll/internal/tax"
	"go-payroll/internal/tax/taxapi"
	"go-payroll/internal/timesheet"
)

// RunConsumer executes payroll runs requested over Kafka until interrupted.
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

	timeRules, err := loadTimesheetRules()
	if err != nil {
		return err
	}
	taxRules, err := loadTaxRules()
	if err != nil {
		return err
	}

	var taxClient taxapi.Client
	if base := os.Getenv("TAX_API_BASE_URL"); base != "" {
		taxClient = taxapi.NewHTTPClient(base, os.Getenv("TAX_API_KEY"))
	}

	notifier := notify.NewZapNotifier(logger.Named("notify"))

	employeeRepo := employee.NewRepository(gormDB)
	runRepo := payrollrun.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	timeCalc := timesheet.NewCalculator(timeRules, notifier)
	taxResolver := tax.NewResolver(taxRules, taxClient, notifier)
	taxCalc := tax.NewCalculator(taxResolver, taxClient, notifier)
	bankValidator := bank.NewValidator(nil, notifier)
	dispatcher := payrollrun.NewOutboxDispatcher(sqlDB, outboxRepo)

	runService := payrollrun.NewService(
		sqlDB,
		runRepo,
		outboxRepo,
		employeeRepo,
		timeCalc,
		taxCalc,
		bankValidator,
		dispatcher,
		notifier,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollRunRequestedTopic,
		GroupID:        "go-payroll-run",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollRunRequested(ctx, reader, runService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
