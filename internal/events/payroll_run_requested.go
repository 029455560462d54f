package events

import "time"

const PayrollRunRequestedTopic = "payroll.run.requested.v1"

// PayrollRunRequestedEvent asks the consumer to execute a payroll run
// asynchronously. The payload mirrors the synchronous run request.
type PayrollRunRequestedEvent struct {
	EventType            string    `json:"event_type"`
	RequestID            string    `json:"request_id"`
	PayPeriod            string    `json:"pay_period"`
	PayDate              string    `json:"pay_date"`
	PayFrequency         string    `json:"pay_frequency"`
	EmployeeType         string    `json:"employee_type,omitempty"`
	Department           string    `json:"department,omitempty"`
	Country              string    `json:"country,omitempty"`
	IndividualEmployeeID string    `json:"individual_employee_id,omitempty"`
	UseDynamicTaxRates   bool      `json:"use_dynamic_tax_rates,omitempty"`
	VerifyCompliance     bool      `json:"verify_compliance,omitempty"`
	BlockOnCompliance    bool      `json:"block_on_compliance,omitempty"`
	OccurredAt           time.Time `json:"occurred_at"`
}
