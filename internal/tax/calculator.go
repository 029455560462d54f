package tax

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/shared/notify"
	"go-payroll/internal/tax/taxapi"
)

// Result is the full withholding breakdown for one employee and period.
// Degraded means the calculation could not be performed and net pay was
// passed through untaxed; downstream must not book it as a clean run.
type Result struct {
	GrossPay         float64            `json:"gross_pay"`
	NetPay           float64            `json:"net_pay"`
	TaxableIncome    float64            `json:"taxable_income"`
	TotalTaxes       float64            `json:"total_taxes"`
	Deductions       []deduction.Detail `json:"deductions"`
	PreTaxDeductions []deduction.Detail `json:"pre_tax_deductions,omitempty"`
	Source           Source             `json:"source"`
	Degraded         bool               `json:"degraded,omitempty"`
}

// Calculator menghitung potongan pajak per periode. Semua jalur gagal
// berakhir di hasil degraded, bukan error, supaya satu karyawan bermasalah
// tidak menghentikan seluruh run.
type Calculator struct {
	resolver *Resolver
	api      taxapi.Client
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewCalculator(resolver *Resolver, api taxapi.Client, notifier notify.Notifier, logger ...*zap.Logger) *Calculator {
	lg := zap.L().Named("tax.calculator")
	if len(logger) > 0 && logger[0] != nil {
		lg = logger[0]
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &Calculator{resolver: resolver, api: api, notifier: notifier, logger: lg}
}

// Calculate produces the tax breakdown for one gross pay amount.
func (c *Calculator) Calculate(
	ctx context.Context,
	emp *employee.Employee,
	grossPay float64,
	payPeriod PayPeriod,
	useDynamicRates bool,
	additionalDeductions []deduction.Detail,
) Result {
	if emp == nil || grossPay < 0 || math.IsNaN(grossPay) || math.IsInf(grossPay, 0) {
		return c.degraded(ctx, grossPay)
	}

	preTax := deduction.CalculatePreTax(emp.PreTaxDeductions, grossPay)
	taxableIncome := grossPay - preTax.Total
	if taxableIncome < 0 {
		taxableIncome = 0
	}

	if useDynamicRates && c.api != nil {
		if res, ok := c.calculateDynamic(ctx, emp, grossPay, taxableIncome, payPeriod, preTax, additionalDeductions); ok {
			return res
		}
	}

	return c.calculateStatic(ctx, emp, grossPay, taxableIncome, preTax, additionalDeductions)
}

func (c *Calculator) calculateDynamic(
	ctx context.Context,
	emp *employee.Employee,
	grossPay, taxableIncome float64,
	payPeriod PayPeriod,
	preTax deduction.PreTaxResult,
	additionalDeductions []deduction.Detail,
) (Result, bool) {
	country, state := c.resolver.Jurisdiction(emp)

	apiRes, err := c.api.Calculate(ctx, country, state, taxapi.Request{
		Income:                grossPay,
		PayPeriod:             string(payPeriod),
		FilingStatus:          emp.FilingStatus(),
		State:                 state,
		Allowances:            emp.FederalAllowances(),
		AdditionalWithholding: emp.AdditionalWithholding(),
		PreTaxDeductions:      preTax.Total,
		Year:                  time.Now().Year(),
	})
	if err != nil || apiRes == nil || apiRes.Federal == nil {
		if err != nil {
			c.logger.Warn("dynamic tax calculation failed, using static rates", zap.Error(err))
		}
		return Result{}, false
	}

	fed := apiRes.Federal
	deductions := []deduction.Detail{
		{Name: "Federal Income Tax", Amount: fed.FederalIncomeTax, Rate: fed.FederalTaxRate},
		{Name: "Social Security", Amount: fed.SocialSecurityTax, Rate: 0.062},
		{Name: "Medicare", Amount: fed.MedicareTax, Rate: 0.0145},
	}
	if fed.AdditionalMedicareTax > 0 {
		deductions = append(deductions, deduction.Detail{
			Name: "Additional Medicare Tax", Amount: fed.AdditionalMedicareTax, Rate: 0.009,
		})
	}

	if st := apiRes.State; st != nil && st.StateTax > 0 {
		deductions = append(deductions, deduction.Detail{
			Name: state + " State Income Tax", Amount: st.StateTax, Rate: st.StateTaxRate,
		})
		if st.LocalTax > 0 {
			deductions = append(deductions, deduction.Detail{Name: "Local Income Tax", Amount: st.LocalTax})
		}
		if st.DisabilityInsurance > 0 {
			name := "Disability Insurance"
			if state == "California" {
				name = "CA SDI"
			}
			deductions = append(deductions, deduction.Detail{Name: name, Amount: st.DisabilityInsurance})
		}
	}

	deductions = append(deductions, additionalDeductions...)

	var totalTaxes float64
	for _, d := range deductions {
		totalTaxes += d.Amount
	}

	return Result{
		GrossPay:         grossPay,
		NetPay:           grossPay - totalTaxes - preTax.Total,
		TaxableIncome:    taxableIncome,
		TotalTaxes:       totalTaxes,
		Deductions:       deductions,
		PreTaxDeductions: preTax.Details,
		Source:           SourceDynamic,
	}, true
}

func (c *Calculator) calculateStatic(
	ctx context.Context,
	emp *employee.Employee,
	grossPay, taxableIncome float64,
	preTax deduction.PreTaxResult,
	additionalDeductions []deduction.Detail,
) Result {
	resolved := c.resolver.Resolve(ctx, emp, false)
	rules := resolved.Rules

	federalTax := taxableIncome * rules.FederalTaxRate
	stateTax := taxableIncome * rules.StateTaxRate
	medicare := taxableIncome * rules.MedicareRate

	// Social Security berhenti dipotong begitu upah YTD melewati wage base.
	ytd := 0.0
	if emp.YTDTaxes != nil {
		ytd = emp.YTDTaxes.FICA
	}
	remainingWage := math.Max(0, SocialSecurityWageBase-ytd)
	socialSecurity := math.Min(
		taxableIncome*rules.SocialSecurityRate,
		remainingWage*rules.SocialSecurityRate,
	)

	var additionalTotal float64
	additionalDetails := make([]deduction.Detail, 0, len(rules.AdditionalTaxes))
	for _, t := range rules.AdditionalTaxes {
		amount := taxableIncome * t.Rate
		if t.MaxAmount > 0 && amount > t.MaxAmount {
			amount = t.MaxAmount
		}
		additionalTotal += amount
		additionalDetails = append(additionalDetails, deduction.Detail{
			Name: t.Name, Amount: amount, Rate: t.Rate,
		})
	}

	totalTaxes := federalTax + stateTax + medicare + socialSecurity + additionalTotal

	deductions := []deduction.Detail{
		{Name: "Federal Income Tax", Amount: federalTax, Rate: rules.FederalTaxRate},
		{Name: "State Income Tax", Amount: stateTax, Rate: rules.StateTaxRate},
		{Name: "Medicare", Amount: medicare, Rate: rules.MedicareRate},
		{Name: "Social Security", Amount: socialSecurity, Rate: rules.SocialSecurityRate},
	}
	deductions = append(deductions, additionalDetails...)
	deductions = append(deductions, additionalDeductions...)

	var extra float64
	for _, d := range additionalDeductions {
		extra += d.Amount
	}
	totalTaxes += extra

	c.logger.Debug("calculated taxes with static rates",
		zap.String("employee", emp.FullName()),
		zap.String("country", rules.Country),
		zap.String("state", rules.State),
	)

	return Result{
		GrossPay:         grossPay,
		NetPay:           grossPay - totalTaxes - preTax.Total,
		TaxableIncome:    taxableIncome,
		TotalTaxes:       totalTaxes,
		Deductions:       deductions,
		PreTaxDeductions: preTax.Details,
		Source:           resolved.Source,
	}
}

// degraded passes gross pay through untouched and flags the result so the
// orchestrator can count the employee as failed.
func (c *Calculator) degraded(ctx context.Context, grossPay float64) Result {
	c.notifier.Notify(ctx, notify.Notice{
		Severity: notify.SeverityError,
		Title:    "Tax Calculation Error",
		Message:  "There was an error calculating taxes. Please check employee information.",
	})
	if grossPay < 0 || math.IsNaN(grossPay) || math.IsInf(grossPay, 0) {
		grossPay = 0
	}
	return Result{
		GrossPay:      grossPay,
		NetPay:        grossPay,
		TaxableIncome: grossPay,
		Deductions:    []deduction.Detail{},
		Source:        SourceStatic,
		Degraded:      true,
	}
}
