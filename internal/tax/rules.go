package tax

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"go-payroll/internal/shared/apperror"
)

// Source menandai asal tarif pajak yang dipakai dalam satu perhitungan.
type Source string

const (
	SourceDynamic Source = "dynamic"
	SourceStatic  Source = "static"
)

// AdditionalTax is a jurisdiction surcharge on taxable income, optionally
// capped per period (e.g. CA SDI).
type AdditionalTax struct {
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	MaxAmount float64 `json:"max_amount,omitempty"`
}

// Rules holds the flat withholding rates for one jurisdiction.
type Rules struct {
	Country            string          `json:"country"`
	State              string          `json:"state,omitempty"`
	FederalTaxRate     float64         `json:"federal_tax_rate"`
	StateTaxRate       float64         `json:"state_tax_rate"`
	MedicareRate       float64         `json:"medicare_rate"`
	SocialSecurityRate float64         `json:"social_security_rate"`
	AdditionalTaxes    []AdditionalTax `json:"additional_taxes,omitempty"`
}

// ResolvedRules is what the resolver hands to the calculator: the rates plus
// a tag saying whether they came from the live provider or the static tables.
type ResolvedRules struct {
	Rules
	Source      Source
	LastUpdated time.Time
}

// SocialSecurityWageBase is the annual wage ceiling for Social Security
// withholding (2023 value).
const SocialSecurityWageBase = 160200.0

const defaultKey = "DEFAULT"

// Ruleset maps country -> state -> Rules. Every country entry must carry a
// DEFAULT state. The set is immutable after construction.
type Ruleset struct {
	byCountry map[string]map[string]Rules
}

func NewRuleset(byCountry map[string]map[string]Rules) *Ruleset {
	cp := make(map[string]map[string]Rules, len(byCountry))
	for country, states := range byCountry {
		inner := make(map[string]Rules, len(states))
		for state, r := range states {
			inner[state] = r
		}
		cp[country] = inner
	}
	return &Ruleset{byCountry: cp}
}

// DefaultRuleset returns the built-in tables.
func DefaultRuleset() *Ruleset {
	return NewRuleset(map[string]map[string]Rules{
		"USA": {
			"California": {
				Country:            "USA",
				State:              "California",
				FederalTaxRate:     0.22,
				StateTaxRate:       0.093,
				MedicareRate:       0.0145,
				SocialSecurityRate: 0.062,
				AdditionalTaxes: []AdditionalTax{
					{Name: "CA SDI", Rate: 0.009, MaxAmount: 1578.31},
				},
			},
			"New York": {
				Country:            "USA",
				State:              "New York",
				FederalTaxRate:     0.22,
				StateTaxRate:       0.065,
				MedicareRate:       0.0145,
				SocialSecurityRate: 0.062,
			},
			"Texas": {
				Country:            "USA",
				State:              "Texas",
				FederalTaxRate:     0.22,
				StateTaxRate:       0, // Texas has no state income tax
				MedicareRate:       0.0145,
				SocialSecurityRate: 0.062,
			},
			defaultKey: {
				Country:            "USA",
				FederalTaxRate:     0.22,
				StateTaxRate:       0.05,
				MedicareRate:       0.0145,
				SocialSecurityRate: 0.062,
			},
		},
		"India": {
			defaultKey: {
				Country:            "India",
				FederalTaxRate:     0.1,
				StateTaxRate:       0,
				MedicareRate:       0,
				SocialSecurityRate: 0.12, // PF contribution
				AdditionalTaxes: []AdditionalTax{
					{Name: "Professional Tax", Rate: 0.002, MaxAmount: 2500},
				},
			},
		},
	})
}

// LoadRuleset reads rate tables from a JSON file so deployments can override
// the built-ins without a rebuild.
func LoadRuleset(path string) (*Ruleset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to read tax ruleset file", http.StatusInternalServerError)
	}
	var byCountry map[string]map[string]Rules
	if err := json.Unmarshal(raw, &byCountry); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidInput, "invalid tax ruleset file", http.StatusInternalServerError)
	}
	for country, states := range byCountry {
		if _, ok := states[defaultKey]; !ok {
			return nil, apperror.New(apperror.CodeInvalidInput, "tax ruleset for "+country+" is missing a DEFAULT entry", http.StatusInternalServerError)
		}
	}
	// Lookup sends unknown countries to the USA table, so it must exist.
	if _, ok := byCountry["USA"]; !ok {
		return nil, apperror.New(apperror.CodeInvalidInput, "tax ruleset is missing the USA country table", http.StatusInternalServerError)
	}
	return NewRuleset(byCountry), nil
}

// Lookup resolves the static rules for a jurisdiction. An unknown state falls
// back to the country default, an unknown country to USA's default.
func (rs *Ruleset) Lookup(country, state string) Rules {
	states, ok := rs.byCountry[country]
	if !ok {
		states = rs.byCountry["USA"]
	}
	if state != "" {
		if r, ok := states[state]; ok {
			return r
		}
	}
	return states[defaultKey]
}

// KnownState reports whether the ruleset carries a dedicated entry for the
// state in that country.
func (rs *Ruleset) KnownState(country, state string) bool {
	states, ok := rs.byCountry[country]
	if !ok {
		return false
	}
	_, ok = states[state]
	return ok && state != defaultKey
}
