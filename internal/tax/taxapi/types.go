package taxapi

// Availability reports which components of the external tax source can
// serve a jurisdiction.
type Availability struct {
	Federal bool `json:"federal"`
	State   bool `json:"state"`
}

// Request is the calculation contract with the external tax source. The
// service is best-effort, never authoritative: every consumer must be
// prepared for a nil response.
type Request struct {
	Income                float64 `json:"income"`
	PayPeriod             string  `json:"pay_period"`
	FilingStatus          string  `json:"filing_status"`
	State                 string  `json:"state,omitempty"`
	Allowances            int     `json:"allowances,omitempty"`
	AdditionalWithholding float64 `json:"additional_withholding,omitempty"`
	PreTaxDeductions      float64 `json:"pre_tax_deductions,omitempty"`
	Year                  int     `json:"year"`
}

type AdditionalTax struct {
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	MaxAmount float64 `json:"max_amount,omitempty"`
}

// RateResult carries period-independent rates for a jurisdiction.
type RateResult struct {
	FederalTaxRate     float64         `json:"federal_tax_rate,omitempty"`
	StateTaxRate       float64         `json:"state_tax_rate,omitempty"`
	MedicareRate       float64         `json:"medicare_rate,omitempty"`
	SocialSecurityRate float64         `json:"social_security_rate,omitempty"`
	AdditionalTaxes    []AdditionalTax `json:"additional_taxes,omitempty"`
	EffectiveDate      string          `json:"effective_date,omitempty"`
}

// FederalResult is a per-period federal withholding computed remotely.
type FederalResult struct {
	FederalIncomeTax      float64 `json:"federal_income_tax"`
	FederalTaxRate        float64 `json:"federal_tax_rate"`
	SocialSecurityTax     float64 `json:"social_security_tax"`
	MedicareTax           float64 `json:"medicare_tax"`
	AdditionalMedicareTax float64 `json:"additional_medicare_tax,omitempty"`
	FICATotal             float64 `json:"fica_total"`
	EffectiveDate         string  `json:"effective_date"`
}

type StateResult struct {
	StateTax              float64 `json:"state_tax"`
	StateTaxRate          float64 `json:"state_tax_rate"`
	LocalTax              float64 `json:"local_tax,omitempty"`
	UnemploymentInsurance float64 `json:"unemployment_insurance,omitempty"`
	DisabilityInsurance   float64 `json:"disability_insurance,omitempty"`
	EffectiveDate         string  `json:"effective_date"`
}

type CalculationResult struct {
	Federal *FederalResult `json:"federal"`
	State   *StateResult   `json:"state"`
}
