package payrollrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/contextutil"
)

// PayrollBatchItem is one net-pay disbursement queued for dispatch.
type PayrollBatchItem struct {
	EmployeeID    uuid.UUID
	EmployeeName  string
	Amount        float64
	PaymentMethod string
	BankInfo      *employee.BankAccount
}

type BatchResult struct {
	Successful int
	Failed     int
}

//go:generate mockgen -source=payment.go -destination=mock/payment_mock.go -package=mock

// PaymentDispatcher hands a batch of disbursements to the payment rail.
type PaymentDispatcher interface {
	DispatchBatch(ctx context.Context, runID string, items []PayrollBatchItem) (BatchResult, error)
}

// outboxDispatcher records the batch as an outbox event inside its own
// transaction; the relay worker moves it to Kafka. Items without bank info
// are counted as failed and excluded from the event.
type outboxDispatcher struct {
	db     *sql.DB
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxDispatcher(db *sql.DB, outbox kafka.OutboxRepository, logger ...*zap.Logger) PaymentDispatcher {
	lg := zap.L().Named("payrollrun.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		lg = logger[0].Named("payrollrun.dispatcher")
	}
	return &outboxDispatcher{db: db, outbox: outbox, logger: lg}
}

func (d *outboxDispatcher) DispatchBatch(ctx context.Context, runID string, items []PayrollBatchItem) (BatchResult, error) {
	var result BatchResult
	payloadItems := make([]events.PaymentBatchItemPayload, 0, len(items))

	for _, item := range items {
		if item.BankInfo == nil || item.BankInfo.AccountNumber == "" {
			d.logger.Warn("payment item missing bank info, marking failed",
				zap.String("employee_id", item.EmployeeID.String()))
			result.Failed++
			continue
		}
		payloadItems = append(payloadItems, events.PaymentBatchItemPayload{
			EmployeeID:    item.EmployeeID.String(),
			Amount:        item.Amount,
			PaymentMethod: item.PaymentMethod,
			AccountLast4:  last4(item.BankInfo.AccountNumber),
		})
	}

	if len(payloadItems) == 0 {
		return result, nil
	}

	event := events.PaymentBatchCreatedEvent{
		EventType:  "payroll.payment.batch.created",
		RunID:      runID,
		Items:      payloadItems,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		result.Failed += len(payloadItems)
		return result, err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		result.Failed += len(payloadItems)
		return result, err
	}
	defer tx.Rollback()

	err = d.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   runID,
		EventType:     event.EventType,
		Topic:         events.PaymentBatchCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		result.Failed += len(payloadItems)
		return result, err
	}
	if err := tx.Commit(); err != nil {
		result.Failed += len(payloadItems)
		return result, err
	}

	result.Successful = len(payloadItems)
	return result, nil
}

func last4(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return accountNumber[len(accountNumber)-4:]
}
