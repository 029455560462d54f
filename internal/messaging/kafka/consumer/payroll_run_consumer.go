package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-payroll/internal/events"
	"go-payroll/internal/payrollrun"
)

// ConsumePayrollRunRequested executes payroll runs requested through the
// event stream. Run failures are not retried here: the run itself records
// a Failed history row, so redelivery would only duplicate it.
func ConsumePayrollRunRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	runService payrollrun.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll run requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		result, err := runService.Run(ctx, payrollrun.RunPayrollRequest{
			PayPeriod:            event.PayPeriod,
			PayDate:              event.PayDate,
			PayFrequency:         event.PayFrequency,
			EmployeeType:         event.EmployeeType,
			DepartmentFilter:     event.Department,
			Country:              event.Country,
			IndividualEmployeeID: event.IndividualEmployeeID,
			UseDynamicTaxRates:   event.UseDynamicTaxRates,
			VerifyCompliance:     event.VerifyCompliance,
			BlockOnCompliance:    event.BlockOnCompliance,
		})
		if err != nil {
			log.Error("payroll run from event failed",
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		log.Info("payroll run completed from event",
			zap.String("request_id", event.RequestID),
			zap.String("run_id", result.RunID),
			zap.String("status", result.Status),
		)
	}
}
