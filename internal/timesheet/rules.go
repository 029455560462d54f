package timesheet

import (
	"encoding/json"
	"fmt"
	"os"
)

// OvertimeRules describe how a jurisdiction splits worked hours into
// regular, overtime and double-time buckets.
type OvertimeRules struct {
	Country              string  `json:"country"`
	State                string  `json:"state,omitempty"`
	StandardHoursPerWeek float64 `json:"standard_hours_per_week"`
	OvertimeRate         float64 `json:"overtime_rate"`
	DoubleTimeRate       float64 `json:"double_time_rate,omitempty"`
	// DoubleTimeThreshold is the daily hour mark past which double time
	// starts (e.g. 12 in California). Zero means the jurisdiction has none.
	DoubleTimeThreshold float64 `json:"double_time_threshold,omitempty"`
	// RequiresDailyOvertime switches the bucketing basis from weekly totals
	// to per-day thresholds.
	RequiresDailyOvertime  bool    `json:"requires_daily_overtime,omitempty"`
	DailyOvertimeThreshold float64 `json:"daily_overtime_threshold,omitempty"`
}

// federalDefault is the built-in floor every lookup can fall back to.
var federalDefault = OvertimeRules{
	Country:              "USA",
	StandardHoursPerWeek: 40,
	OvertimeRate:         1.5,
}

// Ruleset is an immutable, injected rule table keyed by "country" or
// "country:state". It replaces the module-level constant table of the
// legacy system so tests and tenants can swap it wholesale.
type Ruleset struct {
	rules map[string]OvertimeRules
}

func NewRuleset(rules map[string]OvertimeRules) *Ruleset {
	copied := make(map[string]OvertimeRules, len(rules))
	for k, v := range rules {
		copied[k] = v
	}
	return &Ruleset{rules: copied}
}

func DefaultRuleset() *Ruleset {
	return NewRuleset(map[string]OvertimeRules{
		"USA": federalDefault,
		"USA:California": {
			Country:                "USA",
			State:                  "California",
			StandardHoursPerWeek:   40,
			OvertimeRate:           1.5,
			DoubleTimeRate:         2.0,
			DoubleTimeThreshold:    12,
			RequiresDailyOvertime:  true,
			DailyOvertimeThreshold: 8,
		},
		// Texas follows federal overtime rules.
		"USA:Texas": {
			Country:              "USA",
			State:                "Texas",
			StandardHoursPerWeek: 40,
			OvertimeRate:         1.5,
		},
	})
}

// LoadRuleset reads a JSON rule table, for per-tenant overrides.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overtime ruleset: %w", err)
	}

	var rules map[string]OvertimeRules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode overtime ruleset: %w", err)
	}

	return NewRuleset(rules), nil
}

// Resolve returns exactly one rule set for the jurisdiction: state entry
// first, then country entry, then the built-in federal default.
func (rs *Ruleset) Resolve(country, state string) OvertimeRules {
	if country == "" {
		country = "USA"
	}

	if state != "" {
		if rules, ok := rs.rules[country+":"+state]; ok {
			return rules
		}
	}
	if rules, ok := rs.rules[country]; ok {
		return rules
	}
	return federalDefault
}
