package deduction_test

import (
	"testing"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePreTax(t *testing.T) {
	t.Run("fixed amount wins over percentage", func(t *testing.T) {
		res := deduction.CalculatePreTax([]employee.PreTaxDeduction{
			{Name: "Health Insurance", Type: "health", Amount: 150, Percentage: 10},
		}, 4000)

		assert.InDelta(t, 150.0, res.Total, 0.001)
		if assert.Len(t, res.Details, 1) {
			assert.Equal(t, "Health Insurance", res.Details[0].Name)
			assert.InDelta(t, 150.0, res.Details[0].Amount, 0.001)
		}
	})

	t.Run("percentage of gross when no fixed amount", func(t *testing.T) {
		res := deduction.CalculatePreTax([]employee.PreTaxDeduction{
			{Name: "401k", Type: "401k", Percentage: 6},
		}, 5000)

		assert.InDelta(t, 300.0, res.Total, 0.001)
	})

	t.Run("remaining annual limit clamps the amount", func(t *testing.T) {
		remaining := 200.0
		res := deduction.CalculatePreTax([]employee.PreTaxDeduction{
			{
				Name:       "401k",
				Type:       "401k",
				Percentage: 10,
				Limit:      &employee.DeductionLimit{Annual: 22500, Remaining: &remaining},
			},
		}, 5000)

		assert.InDelta(t, 200.0, res.Total, 0.001)
	})

	t.Run("negative remaining clamps to zero", func(t *testing.T) {
		remaining := -50.0
		res := deduction.CalculatePreTax([]employee.PreTaxDeduction{
			{
				Name:   "HSA",
				Type:   "hsa",
				Amount: 100,
				Limit:  &employee.DeductionLimit{Annual: 3850, Remaining: &remaining},
			},
		}, 5000)

		assert.InDelta(t, 0.0, res.Total, 0.001)
	})

	t.Run("employer match is a line item but not part of the total", func(t *testing.T) {
		res := deduction.CalculatePreTax([]employee.PreTaxDeduction{
			{
				Name:          "401k",
				Type:          "401k",
				Percentage:    6,
				EmployerMatch: &employee.EmployerMatch{Percentage: 50, UpTo: 6},
			},
		}, 5000)

		// Employee side: 300. Match: 50% of 300 = 150, under the 6% cap.
		assert.InDelta(t, 300.0, res.Total, 0.001)
		if assert.Len(t, res.Details, 2) {
			assert.Equal(t, "401k (Employer Match)", res.Details[1].Name)
			assert.InDelta(t, 150.0, res.Details[1].Amount, 0.001)
		}
	})

	t.Run("employer match is capped by the up-to percentage", func(t *testing.T) {
		res := deduction.CalculatePreTax([]employee.PreTaxDeduction{
			{
				Name:          "401k",
				Type:          "401k",
				Percentage:    20,
				EmployerMatch: &employee.EmployerMatch{Percentage: 100, UpTo: 3},
			},
		}, 5000)

		// Contribution 1000 matched at 100% would be 1000, capped at 3% of gross.
		if assert.Len(t, res.Details, 2) {
			assert.InDelta(t, 150.0, res.Details[1].Amount, 0.001)
		}
	})

	t.Run("non matched types never get an employer match line", func(t *testing.T) {
		res := deduction.CalculatePreTax([]employee.PreTaxDeduction{
			{
				Name:          "Health Insurance",
				Type:          "health",
				Amount:        100,
				EmployerMatch: &employee.EmployerMatch{Percentage: 50, UpTo: 6},
			},
		}, 5000)

		assert.Len(t, res.Details, 1)
	})

	t.Run("empty configuration yields zero with empty details", func(t *testing.T) {
		res := deduction.CalculatePreTax(nil, 5000)

		assert.Zero(t, res.Total)
		assert.NotNil(t, res.Details)
		assert.Empty(t, res.Details)
	})
}
