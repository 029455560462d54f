package events

import "time"

const PayrollRunCompletedTopic = "payroll.run.completed.v1"

type PayrollRunCompletedEvent struct {
	EventType          string    `json:"event_type"`
	RunID              string    `json:"run_id"`
	Status             string    `json:"status"`
	TotalEmployees     int       `json:"total_employees"`
	ProcessedEmployees int       `json:"processed_employees"`
	TotalGrossPay      float64   `json:"total_gross_pay"`
	TotalNetPay        float64   `json:"total_net_pay"`
	TotalTaxes         float64   `json:"total_taxes"`
	SuccessfulPayments int       `json:"successful_payments"`
	FailedPayments     int       `json:"failed_payments"`
	TaxRateSource      string    `json:"tax_rate_source"`
	OccurredAt         time.Time `json:"occurred_at"`
}
