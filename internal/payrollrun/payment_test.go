package payrollrun_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payrollrun"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOutboxDispatcher_DispatchBatch(t *testing.T) {
	ctx := context.Background()
	runID := uuid.NewString()

	t.Run("valid items land in one outbox event", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		var created *kafka.OutboxEvent
		outbox := &fakeOutboxRepository{
			createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
				created = &event
				return nil
			},
		}
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		d := payrollrun.NewOutboxDispatcher(db, outbox)
		items := []payrollrun.PayrollBatchItem{
			{
				EmployeeID:    uuid.New(),
				EmployeeName:  "Ana Rivera",
				Amount:        1407.50,
				PaymentMethod: "direct-deposit",
				BankInfo:      &employee.BankAccount{RoutingNumber: "021000021", AccountNumber: "123456789"},
			},
			{
				EmployeeID:    uuid.New(),
				EmployeeName:  "Ben Ortiz",
				Amount:        2100.00,
				PaymentMethod: "direct-deposit",
				BankInfo:      &employee.BankAccount{RoutingNumber: "026009593", AccountNumber: "9876"},
			},
		}

		result, err := d.DispatchBatch(ctx, runID, items)

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Successful)
		assert.Equal(t, 0, result.Failed)

		if assert.NotNil(t, created) {
			assert.Equal(t, events.PaymentBatchCreatedTopic, created.Topic)
			assert.Equal(t, runID, created.AggregateID)
			assert.Equal(t, kafka.OutboxStatusPending, created.Status)

			var event events.PaymentBatchCreatedEvent
			assert.NoError(t, json.Unmarshal(created.Payload, &event))
			assert.Len(t, event.Items, 2)
			// Full account numbers must never ride on the event bus.
			assert.Equal(t, "6789", event.Items[0].AccountLast4)
			assert.Equal(t, "9876", event.Items[1].AccountLast4)
		}
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("items without bank info are failed and excluded", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		var created *kafka.OutboxEvent
		outbox := &fakeOutboxRepository{
			createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
				created = &event
				return nil
			},
		}
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		d := payrollrun.NewOutboxDispatcher(db, outbox)
		items := []payrollrun.PayrollBatchItem{
			{EmployeeID: uuid.New(), Amount: 900, PaymentMethod: "check"},
			{
				EmployeeID:    uuid.New(),
				Amount:        1200,
				PaymentMethod: "direct-deposit",
				BankInfo:      &employee.BankAccount{RoutingNumber: "021000021", AccountNumber: "55554444"},
			},
		}

		result, err := d.DispatchBatch(ctx, runID, items)

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Successful)
		assert.Equal(t, 1, result.Failed)

		if assert.NotNil(t, created) {
			var event events.PaymentBatchCreatedEvent
			assert.NoError(t, json.Unmarshal(created.Payload, &event))
			assert.Len(t, event.Items, 1)
		}
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("empty batch writes nothing", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		d := payrollrun.NewOutboxDispatcher(db, &fakeOutboxRepository{})

		result, err := d.DispatchBatch(ctx, runID, nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, result.Successful)
		assert.Equal(t, 0, result.Failed)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}
