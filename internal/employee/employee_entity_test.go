package employee_test

import (
	"testing"

	"go-payroll/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestPayRateValue(t *testing.T) {
	emp := &employee.Employee{PayRate: "42.50"}
	rate, ok := emp.PayRateValue()
	assert.True(t, ok)
	assert.InDelta(t, 42.5, rate, 0.0001)

	emp.PayRate = "-1"
	_, ok = emp.PayRateValue()
	assert.False(t, ok)

	emp.PayRate = "abc"
	_, ok = emp.PayRateValue()
	assert.False(t, ok)
}

func TestFilingStatusPrecedence(t *testing.T) {
	emp := &employee.Employee{}
	assert.Equal(t, "Single", emp.FilingStatus())

	emp.TaxInfo = &employee.TaxInfo{FederalFilingStatus: "Married"}
	assert.Equal(t, "Married", emp.FilingStatus())

	emp.TaxWithholdings = &employee.TaxWithholdings{FederalFilingStatus: "Head of Household"}
	assert.Equal(t, "Head of Household", emp.FilingStatus())
}

func TestAnnualIncome(t *testing.T) {
	salary := 90000.0

	t.Run("salary wins", func(t *testing.T) {
		emp := &employee.Employee{PayRate: "50", Salary: &salary}
		assert.InDelta(t, 90000.0, emp.AnnualIncome(), 0.001)
	})

	t.Run("hourly full time", func(t *testing.T) {
		emp := &employee.Employee{PayRate: "50", EmploymentType: employee.EmploymentFullTime}
		assert.InDelta(t, 50*40*52, emp.AnnualIncome(), 0.001)
	})

	t.Run("hourly part time", func(t *testing.T) {
		emp := &employee.Employee{PayRate: "50", EmploymentType: employee.EmploymentPartTime}
		assert.InDelta(t, 50*20*52, emp.AnnualIncome(), 0.001)
	})
}

func TestTimeTracking(t *testing.T) {
	tr := employee.TimeTracking{DailyHours: []float64{8, 8}}
	assert.False(t, tr.HasBuckets())

	tr.RegularHours = 40
	tr.OvertimeHours = 5
	tr.PaidTimeOff = 8
	assert.True(t, tr.HasBuckets())
	assert.InDelta(t, 53.0, tr.TotalHours(), 0.001)
}
