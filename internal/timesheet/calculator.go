package timesheet

import (
	"context"
	"fmt"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/notify"

	"go.uber.org/zap"
)

const (
	defaultPeriodDays = 14 // bi-weekly
	maxHoursPerDay    = 16
	defaultDoubleRate = 2.0
)

// Result is the hour and pay breakdown for one employee and one period.
type Result struct {
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	DoubleTimeHours float64 `json:"double_time_hours"`
	RegularPay      float64 `json:"regular_pay"`
	OvertimePay     float64 `json:"overtime_pay"`
	DoubleTimePay   float64 `json:"double_time_pay"`
	TotalPay        float64 `json:"total_pay"`
}

// ValidationError carries every reason a time record was rejected, so the
// caller can surface them all at once.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "invalid time tracking: " + fmt.Sprint(e.Reasons)
}

type Calculator struct {
	rules    *Ruleset
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewCalculator(rules *Ruleset, notifier notify.Notifier, logger ...*zap.Logger) *Calculator {
	l := zap.L().Named("timesheet.calculator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.calculator")
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &Calculator{rules: rules, notifier: notifier, logger: l}
}

// CalculatePay turns a time record into pay amounts under the employee's
// jurisdiction rules. Pre-supplied buckets win; otherwise buckets are
// derived from the daily entries. The second return value reports
// degradation: when the rule set is unusable the result falls back to
// regular-hours-only pay instead of propagating a corrupted breakdown.
func (c *Calculator) CalculatePay(
	ctx context.Context,
	emp *employee.Employee,
	tracking employee.TimeTracking,
	payRate float64,
) (Result, bool) {
	country, state := emp.Jurisdiction()
	rules := c.rules.Resolve(country, state)

	if rules.OvertimeRate <= 0 || rules.StandardHoursPerWeek <= 0 {
		c.logger.Warn("unusable overtime rules, falling back to regular hours only",
			zap.String("country", country),
			zap.String("state", state),
		)
		c.notifier.Notify(ctx, notify.Notice{
			Severity: notify.SeverityError,
			Title:    "Time Calculation Error",
			Message:  "Error calculating hours and pay. Using regular hours only.",
		})

		regular := tracking.RegularHours
		if !tracking.HasBuckets() {
			regular = sum(tracking.DailyHours)
		}
		regularPay := regular * payRate
		return Result{
			RegularHours: regular,
			RegularPay:   regularPay,
			TotalPay:     regularPay,
		}, true
	}

	regular := tracking.RegularHours
	overtime := tracking.OvertimeHours
	doubleTime := tracking.DoubleTimeHours

	if !tracking.HasBuckets() && len(tracking.DailyHours) > 0 {
		regular, overtime, doubleTime = bucketDailyEntries(tracking.DailyHours, rules)
	}

	doubleRate := rules.DoubleTimeRate
	if doubleRate == 0 {
		doubleRate = defaultDoubleRate
	}

	res := Result{
		RegularHours:    regular,
		OvertimeHours:   overtime,
		DoubleTimeHours: doubleTime,
		RegularPay:      regular * payRate,
		OvertimePay:     overtime * payRate * rules.OvertimeRate,
		DoubleTimePay:   doubleTime * payRate * doubleRate,
	}
	res.TotalPay = res.RegularPay + res.OvertimePay + res.DoubleTimePay

	return res, false
}

// BucketsFromDailyEntries exposes the daily-entry split for callers that
// track raw per-day hours (e.g. attendance imports).
func (c *Calculator) BucketsFromDailyEntries(
	emp *employee.Employee,
	dailyHours []float64,
) (regular, overtime, doubleTime float64) {
	country, state := emp.Jurisdiction()
	return bucketDailyEntries(dailyHours, c.rules.Resolve(country, state))
}

func bucketDailyEntries(dailyHours []float64, rules OvertimeRules) (regular, overtime, doubleTime float64) {
	if rules.RequiresDailyOvertime {
		for _, worked := range dailyHours {
			switch {
			case worked <= rules.DailyOvertimeThreshold:
				regular += worked
			case rules.DoubleTimeThreshold > 0 && worked > rules.DoubleTimeThreshold:
				regular += rules.DailyOvertimeThreshold
				overtime += rules.DoubleTimeThreshold - rules.DailyOvertimeThreshold
				doubleTime += worked - rules.DoubleTimeThreshold
			default:
				regular += rules.DailyOvertimeThreshold
				overtime += worked - rules.DailyOvertimeThreshold
			}
		}
		return regular, overtime, doubleTime
	}

	// Weekly basis: no double time.
	total := sum(dailyHours)
	if total <= rules.StandardHoursPerWeek {
		return total, 0, 0
	}
	return rules.StandardHoursPerWeek, total - rules.StandardHoursPerWeek, 0
}

// Validate rejects a time record before any pay computation is attempted.
// periodDays parameterizes the realistic ceiling; zero means bi-weekly.
func Validate(tracking employee.TimeTracking, periodDays int) error {
	var reasons []string

	if tracking.RegularHours < 0 {
		reasons = append(reasons, "regular hours cannot be negative")
	}
	if tracking.OvertimeHours < 0 {
		reasons = append(reasons, "overtime hours cannot be negative")
	}
	if tracking.DoubleTimeHours < 0 {
		reasons = append(reasons, "double time hours cannot be negative")
	}
	if tracking.PaidTimeOff < 0 {
		reasons = append(reasons, "paid time off cannot be negative")
	}
	if tracking.SickTime < 0 {
		reasons = append(reasons, "sick time cannot be negative")
	}
	if tracking.HolidayHours < 0 {
		reasons = append(reasons, "holiday hours cannot be negative")
	}
	for _, h := range tracking.DailyHours {
		if h < 0 {
			reasons = append(reasons, "daily hours cannot be negative")
			break
		}
	}

	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}
	maxRealisticHours := float64(periodDays * maxHoursPerDay)

	total := tracking.TotalHours()
	if !tracking.HasBuckets() {
		total += sum(tracking.DailyHours)
	}
	if total > maxRealisticHours {
		reasons = append(reasons, fmt.Sprintf(
			"total hours (%.2f) exceeds realistic maximum (%.0f) for the pay period",
			total, maxRealisticHours,
		))
	}

	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
