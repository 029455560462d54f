package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	event := kafka.OutboxEvent{
		ID:            "4a0f4f9a-0000-0000-0000-000000000001",
		RequestID:     "req-1",
		AggregateType: "payroll_run",
		AggregateID:   "4a0f4f9a-0000-0000-0000-000000000002",
		EventType:     "payroll.run.completed",
		Topic:         "payroll.run.completed.v1",
		Payload:       []byte(`{"status":"Complete"}`),
		Status:        kafka.OutboxStatusPending,
	}

	t.Run("inside a transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO outbox_events").
			WithArgs(event.ID, event.RequestID, event.AggregateType,
				event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)
		assert.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow(
		"4a0f4f9a-0000-0000-0000-000000000001", "payroll_run",
		"4a0f4f9a-0000-0000-0000-000000000002", "payroll.payment.batch.created",
		"payroll.payment.batch.v1", []byte(`{}`), kafka.OutboxStatusPending, 2, now,
	)

	// Rows past the retry cap stay behind for operator review.
	mock.ExpectQuery("SELECT(.|\n)+FROM outbox_events").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.MaxRetries, 50).
		WillReturnRows(rows)

	events, err := repo.ListPending(context.Background(), 50)

	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "payroll.payment.batch.created", events[0].EventType)
		assert.Equal(t, 2, events[0].RetryCount)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	id := "4a0f4f9a-0000-0000-0000-000000000001"

	t.Run("sent", func(t *testing.T) {
		mock.ExpectExec("UPDATE outbox_events").
			WithArgs(id, kafka.OutboxStatusSent).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkSent(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed records the reason", func(t *testing.T) {
		mock.ExpectExec("UPDATE outbox_events").
			WithArgs(id, kafka.OutboxStatusFailed, "broker unreachable").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkFailed(context.Background(), id, "broker unreachable"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:      "4a0f4f9a-0000-0000-0000-000000000001",
		Topic:   "payroll.run.completed.v1",
		Payload: []byte(`{}`),
		Status:  kafka.OutboxStatusPending,
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, kafka.ValidateOutboxEvent(valid))
	})

	t.Run("missing payload", func(t *testing.T) {
		event := valid
		event.Payload = nil
		assert.Error(t, kafka.ValidateOutboxEvent(event))
	})

	t.Run("unknown status", func(t *testing.T) {
		event := valid
		event.Status = "queued"
		assert.Error(t, kafka.ValidateOutboxEvent(event))
	})
}
