package timesheet_test

import (
	"context"
	"testing"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/notify"
	"go-payroll/internal/timesheet"

	"github.com/stretchr/testify/assert"
)

type captureNotifier struct {
	notices []notify.Notice
}

func (c *captureNotifier) Notify(_ context.Context, notice notify.Notice) {
	c.notices = append(c.notices, notice)
}

func californiaEmployee() *employee.Employee {
	return &employee.Employee{
		FirstName: "Alice",
		LastName:  "Nguyen",
		Address:   employee.Address{City: "Los Angeles", State: "California", Country: "USA"},
		PayRate:   "25",
	}
}

func texasEmployee() *employee.Employee {
	return &employee.Employee{
		FirstName: "Bob",
		LastName:  "Diaz",
		Address:   employee.Address{City: "Austin", State: "TX", Country: "USA"},
		PayRate:   "20",
	}
}

func TestCalculatePay_CaliforniaDailyOvertime(t *testing.T) {
	ctx := context.Background()
	calc := timesheet.NewCalculator(timesheet.DefaultRuleset(), notify.Nop())

	t.Run("two hours over threshold each day", func(t *testing.T) {
		tracking := employee.TimeTracking{DailyHours: []float64{10, 10, 10, 10, 0}}

		res, degraded := calc.CalculatePay(ctx, californiaEmployee(), tracking, 25)

		assert.False(t, degraded)
		assert.Equal(t, 32.0, res.RegularHours)
		assert.Equal(t, 8.0, res.OvertimeHours)
		assert.Equal(t, 0.0, res.DoubleTimeHours)
		assert.InDelta(t, 32*25.0, res.RegularPay, 0.001)
		assert.InDelta(t, 8*25*1.5, res.OvertimePay, 0.001)
		assert.InDelta(t, res.RegularPay+res.OvertimePay, res.TotalPay, 0.001)
	})

	t.Run("day past the double time threshold splits three ways", func(t *testing.T) {
		tracking := employee.TimeTracking{DailyHours: []float64{13}}

		res, degraded := calc.CalculatePay(ctx, californiaEmployee(), tracking, 25)

		assert.False(t, degraded)
		assert.Equal(t, 8.0, res.RegularHours)
		assert.Equal(t, 4.0, res.OvertimeHours)
		assert.Equal(t, 1.0, res.DoubleTimeHours)
		assert.InDelta(t, 1*25*2.0, res.DoubleTimePay, 0.001)
	})
}

func TestCalculatePay_TexasWeeklyBasis(t *testing.T) {
	ctx := context.Background()
	calc := timesheet.NewCalculator(timesheet.DefaultRuleset(), notify.Nop())

	tracking := employee.TimeTracking{DailyHours: []float64{9, 9, 9, 9, 9}}

	res, degraded := calc.CalculatePay(ctx, texasEmployee(), tracking, 20)

	assert.False(t, degraded)
	assert.Equal(t, 40.0, res.RegularHours)
	assert.Equal(t, 5.0, res.OvertimeHours)
	assert.Equal(t, 0.0, res.DoubleTimeHours)
	assert.InDelta(t, 40*20+5*20*1.5, res.TotalPay, 0.001)
}

func TestCalculatePay_PreSuppliedBucketsWin(t *testing.T) {
	ctx := context.Background()
	calc := timesheet.NewCalculator(timesheet.DefaultRuleset(), notify.Nop())

	// Buckets are present, so the daily entries must be ignored.
	tracking := employee.TimeTracking{
		RegularHours:  40,
		OvertimeHours: 2,
		DailyHours:    []float64{16, 16, 16},
	}

	res, degraded := calc.CalculatePay(ctx, texasEmployee(), tracking, 20)

	assert.False(t, degraded)
	assert.Equal(t, 40.0, res.RegularHours)
	assert.Equal(t, 2.0, res.OvertimeHours)
}

func TestCalculatePay_UnusableRulesFallBackToRegularOnly(t *testing.T) {
	ctx := context.Background()
	notifier := &captureNotifier{}
	broken := timesheet.NewRuleset(map[string]timesheet.OvertimeRules{
		"USA": {Country: "USA", StandardHoursPerWeek: 40, OvertimeRate: 0},
	})
	calc := timesheet.NewCalculator(broken, notifier)

	emp := &employee.Employee{Address: employee.Address{Country: "USA"}, PayRate: "30"}
	tracking := employee.TimeTracking{DailyHours: []float64{8, 8, 8}}

	res, degraded := calc.CalculatePay(ctx, emp, tracking, 30)

	assert.True(t, degraded)
	assert.Equal(t, 24.0, res.RegularHours)
	assert.Equal(t, 0.0, res.OvertimeHours)
	assert.InDelta(t, 24*30.0, res.TotalPay, 0.001)
	if assert.Len(t, notifier.notices, 1) {
		assert.Equal(t, "Time Calculation Error", notifier.notices[0].Title)
		assert.Equal(t, notify.SeverityError, notifier.notices[0].Severity)
	}
}

func TestRuleset_ResolveFallsThrough(t *testing.T) {
	rs := timesheet.DefaultRuleset()

	t.Run("unknown state uses country entry", func(t *testing.T) {
		rules := rs.Resolve("USA", "Montana")
		assert.False(t, rules.RequiresDailyOvertime)
		assert.Equal(t, 40.0, rules.StandardHoursPerWeek)
	})

	t.Run("empty country defaults to USA", func(t *testing.T) {
		rules := rs.Resolve("", "California")
		assert.True(t, rules.RequiresDailyOvertime)
		assert.Equal(t, 8.0, rules.DailyOvertimeThreshold)
	})

	t.Run("unknown country falls back to the federal floor", func(t *testing.T) {
		rules := rs.Resolve("Atlantis", "")
		assert.Equal(t, 1.5, rules.OvertimeRate)
	})
}

func TestValidate(t *testing.T) {
	t.Run("negative hours are rejected with reasons", func(t *testing.T) {
		err := timesheet.Validate(employee.TimeTracking{RegularHours: -1, SickTime: -2}, 0)

		var verr *timesheet.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Reasons, 2)
	})

	t.Run("total above the realistic ceiling is rejected", func(t *testing.T) {
		err := timesheet.Validate(employee.TimeTracking{RegularHours: 300}, 14)
		assert.Error(t, err)
	})

	t.Run("daily entries count toward the ceiling when buckets are empty", func(t *testing.T) {
		daily := make([]float64, 20)
		for i := range daily {
			daily[i] = 16
		}
		err := timesheet.Validate(employee.TimeTracking{DailyHours: daily}, 14)
		assert.Error(t, err)
	})

	t.Run("ordinary bi-weekly record passes", func(t *testing.T) {
		err := timesheet.Validate(employee.TimeTracking{RegularHours: 80, OvertimeHours: 5}, 0)
		assert.NoError(t, err)
	})
}
