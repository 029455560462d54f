package events

import "time"

const PaymentBatchCreatedTopic = "payroll.payment.batch.v1"

// PaymentBatchItemPayload carries one direct-deposit instruction. Account
// numbers are reduced to their last four digits before leaving the service.
type PaymentBatchItemPayload struct {
	EmployeeID    string  `json:"employee_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	AccountLast4  string  `json:"account_last4,omitempty"`
}

type PaymentBatchCreatedEvent struct {
	EventType  string                    `json:"event_type"`
	RunID      string                    `json:"run_id"`
	Items      []PaymentBatchItemPayload `json:"items"`
	OccurredAt time.Time                 `json:"occurred_at"`
}
