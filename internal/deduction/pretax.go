package deduction

import (
	"go-payroll/internal/employee"
)

// Detail is one line of the audit trail of subtractions from gross pay.
type Detail struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate,omitempty"`
}

type PreTaxResult struct {
	// Total is the employee-side amount only; employer match lines are
	// informational and never reduce net pay.
	Total   float64  `json:"total"`
	Details []Detail `json:"details"`
}

// matchedTypes are deduction types eligible for an employer match.
var matchedTypes = map[string]bool{
	"401k": true,
}

// CalculatePreTax resolves each configured deduction against gross pay.
// Fixed amounts win over percentages; annual limits clamp (never below
// zero); an employer-match line follows its parent deduction in order.
func CalculatePreTax(deductions []employee.PreTaxDeduction, grossPay float64) PreTaxResult {
	result := PreTaxResult{Details: []Detail{}}

	for _, d := range deductions {
		var amount float64
		switch {
		case d.Amount > 0:
			amount = d.Amount
		case d.Percentage > 0:
			amount = grossPay * (d.Percentage / 100)
		}

		if d.Limit != nil && d.Limit.Annual > 0 {
			remaining := d.Limit.Annual
			if d.Limit.Remaining != nil {
				remaining = *d.Limit.Remaining
			}
			if remaining < 0 {
				remaining = 0
			}
			if amount > remaining {
				amount = remaining
			}
		}

		var employerMatch float64
		if matchedTypes[d.Type] && d.EmployerMatch != nil {
			matchPct := d.EmployerMatch.Percentage / 100
			matchCap := d.EmployerMatch.UpTo / 100 * grossPay
			employerMatch = amount * matchPct
			if employerMatch > matchCap {
				employerMatch = matchCap
			}
		}

		result.Total += amount
		result.Details = append(result.Details, Detail{
			Name:   d.Name,
			Amount: amount,
		})

		if employerMatch > 0 {
			result.Details = append(result.Details, Detail{
				Name:   d.Name + " (Employer Match)",
				Amount: employerMatch,
			})
		}
	}

	return result
}
