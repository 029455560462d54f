package bank_test

import (
	"context"
	"errors"
	"testing"

	"go-payroll/internal/bank"
	"go-payroll/internal/employee"
	"go-payroll/internal/shared/notify"

	"github.com/stretchr/testify/assert"
)

type captureNotifier struct {
	notices []notify.Notice
}

func (c *captureNotifier) Notify(_ context.Context, notice notify.Notice) {
	c.notices = append(c.notices, notice)
}

type fakeDirectory struct {
	lookupBankFn func(ctx context.Context, routingNumber string) (string, error)
}

func (f *fakeDirectory) LookupBank(ctx context.Context, routingNumber string) (string, error) {
	if f.lookupBankFn != nil {
		return f.lookupBankFn(ctx, routingNumber)
	}
	return "", errors.New("not configured")
}

func TestValidRoutingChecksum(t *testing.T) {
	assert.True(t, bank.ValidRoutingChecksum("021000021"))
	assert.True(t, bank.ValidRoutingChecksum("121000248"))
	assert.False(t, bank.ValidRoutingChecksum("123456789"))
	assert.False(t, bank.ValidRoutingChecksum("02100002"))
	assert.False(t, bank.ValidRoutingChecksum("02100002a"))
}

func TestValidateAccount(t *testing.T) {
	ctx := context.Background()
	v := bank.NewValidator(nil, notify.Nop())

	t.Run("known routing number resolves the bank name", func(t *testing.T) {
		res := v.ValidateAccount(ctx, employee.BankAccount{
			RoutingNumber: "021000021",
			AccountNumber: "123456789",
			AccountType:   "checking",
		})

		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
		assert.Equal(t, "JPMorgan Chase", res.BankName)
		assert.Equal(t, "checking", res.AccountType)
	})

	t.Run("bad checksum", func(t *testing.T) {
		res := v.ValidateAccount(ctx, employee.BankAccount{
			RoutingNumber: "123456789",
			AccountNumber: "1234",
		})

		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "Invalid routing number checksum")
	})

	t.Run("routing number length", func(t *testing.T) {
		res := v.ValidateAccount(ctx, employee.BankAccount{
			RoutingNumber: "12345",
			AccountNumber: "1234",
		})

		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "Routing number must be 9 digits")
	})

	t.Run("account number length", func(t *testing.T) {
		res := v.ValidateAccount(ctx, employee.BankAccount{
			RoutingNumber: "021000021",
			AccountNumber: "123",
		})

		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "Account number must be between 4 and 17 digits")

		res = v.ValidateAccount(ctx, employee.BankAccount{
			RoutingNumber: "021000021",
			AccountNumber: "123456789012345678",
		})
		assert.False(t, res.Valid)
	})

	t.Run("stored bank name wins over unknown routing", func(t *testing.T) {
		res := v.ValidateAccount(ctx, employee.BankAccount{
			BankName:      "Community Credit Union",
			RoutingNumber: "000000000", // checksum-valid but not in the table
			AccountNumber: "55554444",
		})

		assert.True(t, res.Valid)
		assert.Equal(t, "Community Credit Union", res.BankName)
	})

	t.Run("directory fills the gap for unknown valid accounts", func(t *testing.T) {
		dir := &fakeDirectory{
			lookupBankFn: func(ctx context.Context, routingNumber string) (string, error) {
				return "First Regional", nil
			},
		}
		v := bank.NewValidator(dir, notify.Nop())

		res := v.ValidateAccount(ctx, employee.BankAccount{
			RoutingNumber: "000000000",
			AccountNumber: "55554444",
		})

		assert.True(t, res.Valid)
		assert.Equal(t, "First Regional", res.BankName)
	})

	t.Run("directory failure never invalidates the account", func(t *testing.T) {
		dir := &fakeDirectory{
			lookupBankFn: func(ctx context.Context, routingNumber string) (string, error) {
				return "", errors.New("directory down")
			},
		}
		v := bank.NewValidator(dir, notify.Nop())

		res := v.ValidateAccount(ctx, employee.BankAccount{
			RoutingNumber: "000000000",
			AccountNumber: "55554444",
		})

		assert.True(t, res.Valid)
		assert.Empty(t, res.BankName)
	})
}

func TestValidateEmployee(t *testing.T) {
	ctx := context.Background()

	validAccount := employee.BankAccount{
		RoutingNumber: "021000021",
		AccountNumber: "987654321",
	}
	invalidAccount := employee.BankAccount{
		RoutingNumber: "123456789",
		AccountNumber: "987654321",
	}

	t.Run("missing bank information", func(t *testing.T) {
		notifier := &captureNotifier{}
		v := bank.NewValidator(nil, notifier)
		emp := &employee.Employee{FirstName: "Dana", LastName: "Lee"}

		ok := v.ValidateEmployee(ctx, emp)

		assert.False(t, ok)
		if assert.Len(t, notifier.notices, 1) {
			assert.Equal(t, "Bank Information Required", notifier.notices[0].Title)
			assert.Contains(t, notifier.notices[0].Message, "Dana Lee")
		}
	})

	t.Run("legacy single account wins", func(t *testing.T) {
		notifier := &captureNotifier{}
		v := bank.NewValidator(nil, notifier)
		emp := &employee.Employee{
			FirstName:   "Dana",
			LastName:    "Lee",
			BankAccount: &validAccount,
			PaymentAccounts: []employee.PaymentAccount{
				{BankAccount: invalidAccount, Primary: true},
			},
		}

		ok := v.ValidateEmployee(ctx, emp)

		assert.True(t, ok)
		assert.Empty(t, notifier.notices)
	})

	t.Run("invalid legacy account is reported with reasons", func(t *testing.T) {
		notifier := &captureNotifier{}
		v := bank.NewValidator(nil, notifier)
		emp := &employee.Employee{FirstName: "Dana", LastName: "Lee", BankAccount: &invalidAccount}

		ok := v.ValidateEmployee(ctx, emp)

		assert.False(t, ok)
		if assert.Len(t, notifier.notices, 1) {
			assert.Equal(t, "Invalid Bank Information", notifier.notices[0].Title)
			assert.Contains(t, notifier.notices[0].Message, "Invalid routing number checksum")
		}
	})

	t.Run("payment accounts need a primary", func(t *testing.T) {
		notifier := &captureNotifier{}
		v := bank.NewValidator(nil, notifier)
		emp := &employee.Employee{
			FirstName: "Dana",
			LastName:  "Lee",
			PaymentAccounts: []employee.PaymentAccount{
				{BankAccount: validAccount, Primary: false},
			},
		}

		ok := v.ValidateEmployee(ctx, emp)

		assert.False(t, ok)
		if assert.Len(t, notifier.notices, 1) {
			assert.Equal(t, "No Primary Bank Account", notifier.notices[0].Title)
		}
	})

	t.Run("every payment account must validate", func(t *testing.T) {
		notifier := &captureNotifier{}
		v := bank.NewValidator(nil, notifier)
		emp := &employee.Employee{
			FirstName: "Dana",
			LastName:  "Lee",
			PaymentAccounts: []employee.PaymentAccount{
				{BankAccount: validAccount, Primary: true},
				{BankAccount: invalidAccount},
			},
		}

		ok := v.ValidateEmployee(ctx, emp)

		assert.False(t, ok)
		if assert.Len(t, notifier.notices, 1) {
			assert.Contains(t, notifier.notices[0].Message, "4321")
		}
	})

	t.Run("all valid payment accounts pass", func(t *testing.T) {
		notifier := &captureNotifier{}
		v := bank.NewValidator(nil, notifier)
		emp := &employee.Employee{
			FirstName: "Dana",
			LastName:  "Lee",
			PaymentAccounts: []employee.PaymentAccount{
				{BankAccount: validAccount, Primary: true},
				{BankAccount: employee.BankAccount{RoutingNumber: "026009593", AccountNumber: "1111222233"}},
			},
		}

		ok := v.ValidateEmployee(ctx, emp)

		assert.True(t, ok)
		assert.Empty(t, notifier.notices)
	})
}
