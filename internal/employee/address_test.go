package employee_test

import (
	"testing"

	"go-payroll/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "California", employee.NormalizeState("CA"))
	assert.Equal(t, "California", employee.NormalizeState("ca"))
	assert.Equal(t, "New York", employee.NormalizeState("ny"))
	assert.Equal(t, "Texas", employee.NormalizeState(" TX "))
	assert.Equal(t, "California", employee.NormalizeState("CALIFORNIA"))
	assert.Equal(t, "Karnataka", employee.NormalizeState("karnataka"))
	assert.Equal(t, "", employee.NormalizeState("  "))
}

func TestParseAddress(t *testing.T) {
	t.Run("state glued to the zip", func(t *testing.T) {
		addr := employee.ParseAddress("500 Main St, Austin, TX 78701")

		assert.Equal(t, "500 Main St", addr.Street)
		assert.Equal(t, "Austin", addr.City)
		assert.Equal(t, "Texas", addr.State)
		assert.Equal(t, "USA", addr.Country)
	})

	t.Run("full state name in the last segment", func(t *testing.T) {
		addr := employee.ParseAddress("12 Ocean Ave, San Diego, California")

		assert.Equal(t, "California", addr.State)
		assert.Equal(t, "USA", addr.Country)
	})

	t.Run("india address", func(t *testing.T) {
		addr := employee.ParseAddress("4 MG Road, Bengaluru, India")

		assert.Equal(t, "India", addr.Country)
		assert.Equal(t, "Bengaluru", addr.City)
	})

	t.Run("street only", func(t *testing.T) {
		addr := employee.ParseAddress("1 Elm St")

		assert.Equal(t, "1 Elm St", addr.Street)
		assert.Empty(t, addr.City)
		assert.Equal(t, "USA", addr.Country)
	})
}

func TestAddressNormalize(t *testing.T) {
	addr := employee.Address{State: "ny"}.Normalize()

	assert.Equal(t, "New York", addr.State)
	assert.Equal(t, "USA", addr.Country)
}

func TestEmployeeJurisdiction(t *testing.T) {
	emp := &employee.Employee{
		Address: employee.Address{City: "Brooklyn", State: "NY"},
	}

	country, state := emp.Jurisdiction()

	assert.Equal(t, "USA", country)
	assert.Equal(t, "New York", state)
}
