package tax

// PayPeriod is the payroll frequency used to annualize per-period amounts.
type PayPeriod string

const (
	Weekly      PayPeriod = "Weekly"
	BiWeekly    PayPeriod = "Bi-Weekly"
	SemiMonthly PayPeriod = "Semi-Monthly"
	Monthly     PayPeriod = "Monthly"
)

// PeriodsPerYear returns how many pay periods the frequency yields per year.
// Unknown frequencies fall back to bi-weekly, the platform default.
func (p PayPeriod) PeriodsPerYear() float64 {
	switch p {
	case Weekly:
		return 52
	case BiWeekly:
		return 26
	case SemiMonthly:
		return 24
	case Monthly:
		return 12
	default:
		return 26
	}
}

// HoursPerPeriod is the standard full-time hours in one period of this
// frequency, used when a timesheet only records total hours.
func (p PayPeriod) HoursPerPeriod() float64 {
	switch p {
	case Weekly:
		return 40
	case BiWeekly:
		return 80
	case SemiMonthly:
		return 86.67
	case Monthly:
		return 173.33
	default:
		return 80
	}
}

func (p PayPeriod) Valid() bool {
	switch p {
	case Weekly, BiWeekly, SemiMonthly, Monthly:
		return true
	}
	return false
}
