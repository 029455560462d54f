package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EmploymentFullTime   = "full-time"
	EmploymentPartTime   = "part-time"
	EmploymentContractor = "contractor"
)

// Employee is the payroll view of a directory record. The nested payroll
// documents (withholdings, deductions, accounts, time tracking) are stored
// as JSONB so the directory schema stays flat.
type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName      string    `gorm:"type:varchar(120);not null"`
	LastName       string    `gorm:"type:varchar(120);not null"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Department     string    `gorm:"type:varchar(120);index"`
	EmploymentType string    `gorm:"type:varchar(20);not null;default:'full-time';index"`

	// PayRate disimpan sebagai string desimal agar tidak kena floating error
	// saat persist; parsing dilakukan lewat shopspring/decimal.
	PayRate string   `gorm:"type:varchar(32);not null"`
	Salary  *float64 `gorm:"type:numeric(14,2)"`

	Address          Address           `gorm:"type:jsonb;serializer:json"`
	TaxInfo          *TaxInfo          `gorm:"type:jsonb;serializer:json"`
	TaxWithholdings  *TaxWithholdings  `gorm:"type:jsonb;serializer:json"`
	PreTaxDeductions []PreTaxDeduction `gorm:"type:jsonb;serializer:json"`
	BankAccount      *BankAccount      `gorm:"type:jsonb;serializer:json"`
	PaymentAccounts  []PaymentAccount  `gorm:"type:jsonb;serializer:json"`
	YTDTaxes         *YTDTaxes         `gorm:"type:jsonb;serializer:json"`
	TimeTracking     *TimeTracking     `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type TaxInfo struct {
	SSN                 string `json:"ssn,omitempty"`
	FederalFilingStatus string `json:"federal_filing_status,omitempty"`
	FederalExemptions   int    `json:"federal_exemptions,omitempty"`
}

type TaxWithholdings struct {
	FederalFilingStatus          string  `json:"federal_filing_status,omitempty"`
	FederalAllowances            int     `json:"federal_allowances,omitempty"`
	AdditionalFederalWithholding float64 `json:"additional_federal_withholding,omitempty"`
	State                        string  `json:"state,omitempty"`
}

type DeductionLimit struct {
	Annual    float64  `json:"annual"`
	Remaining *float64 `json:"remaining,omitempty"`
}

type EmployerMatch struct {
	// Percentage of the employee contribution matched, e.g. 50 for 50%.
	Percentage float64 `json:"percentage"`
	// UpTo caps the match at this percentage of gross pay, e.g. 6 for 6%.
	UpTo float64 `json:"up_to"`
}

type PreTaxDeduction struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"` // e.g. 401k, health, hsa
	Amount        float64         `json:"amount,omitempty"`
	Percentage    float64         `json:"percentage,omitempty"`
	Limit         *DeductionLimit `json:"limit,omitempty"`
	EmployerMatch *EmployerMatch  `json:"employer_match,omitempty"`
}

type BankAccount struct {
	BankName      string `json:"bank_name,omitempty"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type,omitempty"` // checking / savings
}

type PaymentAccount struct {
	BankAccount BankAccount `json:"bank_account"`
	Primary     bool        `json:"primary"`
	// SplitPercent is how much of net pay lands in this account.
	SplitPercent float64 `json:"split_percent,omitempty"`
}

type YTDTaxes struct {
	// FICA is the year-to-date Social-Security-taxable wages, used to cap
	// withholding at the annual wage base.
	FICA float64 `json:"fica"`
}

type TimeTracking struct {
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	DoubleTimeHours float64 `json:"double_time_hours,omitempty"`
	PaidTimeOff     float64 `json:"paid_time_off,omitempty"`
	SickTime        float64 `json:"sick_time,omitempty"`
	HolidayHours    float64 `json:"holiday_hours,omitempty"`
	// DailyHours is the raw per-day entry path; buckets are derived from it
	// by the time calculator when the bucket fields above are all zero.
	DailyHours []float64 `json:"daily_hours,omitempty"`
}

func (t TimeTracking) HasBuckets() bool {
	return t.RegularHours != 0 || t.OvertimeHours != 0 || t.DoubleTimeHours != 0
}

func (t TimeTracking) TotalHours() float64 {
	return t.RegularHours + t.OvertimeHours + t.DoubleTimeHours +
		t.PaidTimeOff + t.SickTime + t.HolidayHours
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// PayRateValue parses the stored decimal string. A zero rate with ok=false
// means the record is not payable as-is.
func (e *Employee) PayRateValue() (float64, bool) {
	d, err := decimal.NewFromString(e.PayRate)
	if err != nil || d.IsNegative() {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// FilingStatus resolves the federal filing status with the same precedence
// everywhere: withholdings first, then tax info, then Single.
func (e *Employee) FilingStatus() string {
	if e.TaxWithholdings != nil && e.TaxWithholdings.FederalFilingStatus != "" {
		return e.TaxWithholdings.FederalFilingStatus
	}
	if e.TaxInfo != nil && e.TaxInfo.FederalFilingStatus != "" {
		return e.TaxInfo.FederalFilingStatus
	}
	return "Single"
}

func (e *Employee) FederalAllowances() int {
	if e.TaxWithholdings != nil && e.TaxWithholdings.FederalAllowances > 0 {
		return e.TaxWithholdings.FederalAllowances
	}
	if e.TaxInfo != nil && e.TaxInfo.FederalExemptions > 0 {
		return e.TaxInfo.FederalExemptions
	}
	return 0
}

func (e *Employee) AdditionalWithholding() float64 {
	if e.TaxWithholdings != nil {
		return e.TaxWithholdings.AdditionalFederalWithholding
	}
	return 0
}

// AnnualIncome estimates yearly earnings: the salary when present, else the
// hourly rate over standard weekly hours for the employment type.
func (e *Employee) AnnualIncome() float64 {
	if e.Salary != nil && *e.Salary > 0 {
		return *e.Salary
	}

	rate, ok := e.PayRateValue()
	if !ok {
		return 0
	}

	hoursPerWeek := 40.0
	if e.EmploymentType == EmploymentPartTime {
		hoursPerWeek = 20.0
	}
	return rate * hoursPerWeek * 52
}
