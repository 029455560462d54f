package tax_test

import (
	"os"
	"path/filepath"
	"testing"

	"go-payroll/internal/tax"

	"github.com/stretchr/testify/assert"
)

func writeRulesetFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tax_rules.json")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadRuleset(t *testing.T) {
	t.Run("loads override tables", func(t *testing.T) {
		path := writeRulesetFile(t, `{
			"USA": {
				"Texas": {"country": "USA", "state": "Texas", "federal_tax_rate": 0.2},
				"DEFAULT": {"country": "USA", "federal_tax_rate": 0.21, "state_tax_rate": 0.04}
			}
		}`)

		rs, err := tax.LoadRuleset(path)
		assert.NoError(t, err)
		assert.Equal(t, 0.2, rs.Lookup("USA", "Texas").FederalTaxRate)
		assert.Equal(t, 0.21, rs.Lookup("USA", "Ohio").FederalTaxRate)
	})

	t.Run("rejects a country without a DEFAULT entry", func(t *testing.T) {
		path := writeRulesetFile(t, `{
			"USA": {"DEFAULT": {"country": "USA", "federal_tax_rate": 0.21}},
			"India": {"Karnataka": {"country": "India", "federal_tax_rate": 0.1}}
		}`)

		_, err := tax.LoadRuleset(path)
		assert.ErrorContains(t, err, "missing a DEFAULT entry")
	})

	t.Run("rejects a file without a USA table", func(t *testing.T) {
		// Unknown countries fall back to the USA table in Lookup, so a
		// ruleset without one would silently resolve zero rates.
		path := writeRulesetFile(t, `{
			"India": {"DEFAULT": {"country": "India", "federal_tax_rate": 0.1}}
		}`)

		_, err := tax.LoadRuleset(path)
		assert.ErrorContains(t, err, "missing the USA country table")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		path := writeRulesetFile(t, `{"USA": [`)

		_, err := tax.LoadRuleset(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := tax.LoadRuleset(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
