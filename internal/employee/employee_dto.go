package employee

import (
	"encoding/json"
)

type CreateEmployeeRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Department     string `json:"department"`
	EmploymentType string `json:"employment_type" binding:"required,oneof=full-time part-time contractor"`
	PayRate        string `json:"pay_rate" binding:"required"`

	// Address accepts either a legacy string or a structured object; it is
	// normalized into Address before anything downstream sees it.
	Address json.RawMessage `json:"address"`

	Salary           *float64          `json:"salary"`
	TaxInfo          *TaxInfo          `json:"tax_info"`
	TaxWithholdings  *TaxWithholdings  `json:"tax_withholdings"`
	PreTaxDeductions []PreTaxDeduction `json:"pre_tax_deductions"`
	BankAccount      *BankAccount      `json:"bank_account"`
	PaymentAccounts  []PaymentAccount  `json:"payment_accounts"`
	TimeTracking     *TimeTracking     `json:"time_tracking"`
}

type GetEmployeesFilterRequest struct {
	EmploymentType string `form:"employment_type" binding:"omitempty,oneof=full-time part-time contractor"`
	Department     string `form:"department"`
	Country        string `form:"country"`
}

type EmployeeResponse struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Department     string   `json:"department,omitempty"`
	EmploymentType string   `json:"employment_type"`
	PayRate        string   `json:"pay_rate"`
	Salary         *float64 `json:"salary,omitempty"`
	Address        Address  `json:"address"`
	HasBankAccount bool     `json:"has_bank_account"`
}
