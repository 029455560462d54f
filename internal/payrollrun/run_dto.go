package payrollrun

// RunPayrollRequest starts a payroll run. PayFrequency drives both the
// standard hours fallback and tax annualization.
type RunPayrollRequest struct {
	PayPeriod            string `json:"pay_period" binding:"required"`
	PayDate              string `json:"pay_date" binding:"required"`
	PayFrequency         string `json:"pay_frequency" binding:"required"`
	EmployeeType         string `json:"employee_type,omitempty"`
	DepartmentFilter     string `json:"department_filter,omitempty"`
	Country              string `json:"country,omitempty"`
	IndividualEmployeeID string `json:"individual_employee_id,omitempty"`
	UseDynamicTaxRates   bool   `json:"use_dynamic_tax_rates,omitempty"`
	VerifyCompliance     bool   `json:"verify_compliance,omitempty"`
	BlockOnCompliance    bool   `json:"block_on_compliance,omitempty"`
}

type ListRunsRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// RunResult is the aggregate outcome of one run.
type RunResult struct {
	RunID              string  `json:"run_id,omitempty"`
	TotalEmployees     int     `json:"total_employees"`
	ProcessedEmployees int     `json:"processed_employees"`
	TotalGrossPay      float64 `json:"total_gross_pay"`
	TotalNetPay        float64 `json:"total_net_pay"`
	TotalTaxes         float64 `json:"total_taxes"`
	SuccessfulPayments int     `json:"successful_payments"`
	FailedPayments     int     `json:"failed_payments"`
	PayDate            string  `json:"pay_date"`
	ProcessingTime     float64 `json:"processing_time"`
	Status             string  `json:"status"`
	TaxRateSource      string  `json:"tax_rate_source,omitempty"`
}

type RunRecordResponse struct {
	ID                 string  `json:"id"`
	RunDate            string  `json:"run_date"`
	PayPeriod          string  `json:"pay_period"`
	PayDate            string  `json:"pay_date"`
	PayFrequency       string  `json:"pay_frequency"`
	TotalAmount        float64 `json:"total_amount"`
	TotalEmployees     int     `json:"total_employees"`
	ProcessedEmployees int     `json:"processed_employees"`
	SuccessfulPayments int     `json:"successful_payments"`
	FailedPayments     int     `json:"failed_payments"`
	Status             string  `json:"status"`
	TaxRateSource      string  `json:"tax_rate_source"`
	ProcessingTime     float64 `json:"processing_time"`
}
