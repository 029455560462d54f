package employee

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Address is the single structured form carried through the calculators.
// Free-string addresses are normalized into it at ingestion and never
// travel further.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

var stateAliases = map[string]string{
	"CA": "California",
	"NY": "New York",
	"TX": "Texas",
}

var titleCaser = cases.Title(language.English)

// NormalizeState maps postal abbreviations and loose casing onto the
// canonical state names the rule tables are keyed by.
func NormalizeState(state string) string {
	s := strings.TrimSpace(state)
	if s == "" {
		return ""
	}
	if full, ok := stateAliases[strings.ToUpper(s)]; ok {
		return full
	}
	return titleCaser.String(strings.ToLower(s))
}

// ParseAddress converts a legacy comma-separated address string into the
// structured form, recognizing the country and state markers the payroll
// rules care about.
func ParseAddress(raw string) Address {
	addr := Address{Country: "USA"}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 0 {
		addr.Street = parts[0]
	}
	if len(parts) > 2 {
		addr.City = parts[1]
	}

	for _, part := range parts {
		if strings.EqualFold(part, "India") {
			addr.Country = "India"
		}
	}

	// The state usually rides in the last segment, possibly glued to a zip
	// ("Austin, TX 78701").
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		for _, token := range strings.Fields(last) {
			if full, ok := stateAliases[strings.ToUpper(token)]; ok {
				addr.State = full
				break
			}
		}
		if addr.State == "" {
			for alias, full := range stateAliases {
				if strings.Contains(last, full) || strings.Contains(last, alias) {
					addr.State = full
					break
				}
			}
		}
	}

	return addr
}

// Normalize canonicalizes country and state in place.
func (a Address) Normalize() Address {
	if a.Country == "" {
		a.Country = "USA"
	}
	a.State = NormalizeState(a.State)
	return a
}

// Jurisdiction returns the (country, state) pair the rule tables are
// keyed by. Unrecognized states resolve to the country default.
func (e *Employee) Jurisdiction() (country, state string) {
	addr := e.Address.Normalize()
	return addr.Country, addr.State
}
