package bank

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/notify"
)

var (
	routingNumberRe = regexp.MustCompile(`^\d{9}$`)
	accountNumberRe = regexp.MustCompile(`^\d{4,17}$`)
)

// knownRoutingNumbers is a small built-in routing table. Produksi
// sebaiknya memakai Directory yang terhubung ke database routing bank.
var knownRoutingNumbers = map[string]string{
	"021000021": "JPMorgan Chase",
	"026009593": "Bank of America",
	"011401533": "Bank of America",
	"121000248": "Wells Fargo",
	"122105155": "Wells Fargo",
	"031302955": "Citibank",
	"036001808": "Capital One",
	"021001088": "HSBC",
	"111000614": "PNC Bank",
	"061000052": "US Bank",
	"091000019": "Goldman Sachs",
	"103100195": "USAA",
	"253177049": "Frost Bank",
}

//go:generate mockgen -source=validator.go -destination=mock/validator_mock.go -package=bankmock

// Directory resolves a routing number to a bank name. Lookups are
// best-effort: a lookup failure never invalidates an account.
type Directory interface {
	LookupBank(ctx context.Context, routingNumber string) (string, error)
}

// ValidationResult reports whether one account can receive direct deposit.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
	BankName    string   `json:"bank_name,omitempty"`
	AccountType string   `json:"account_type,omitempty"`
}

// Validator checks bank accounts ahead of payment dispatch.
type Validator struct {
	directory Directory
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewValidator(directory Directory, notifier notify.Notifier, logger ...*zap.Logger) *Validator {
	lg := zap.L().Named("bank.validator")
	if len(logger) > 0 && logger[0] != nil {
		lg = logger[0]
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &Validator{directory: directory, notifier: notifier, logger: lg}
}

// ValidateAccount checks routing format, ABA checksum, and account number
// format, and resolves the bank name where it can.
func (v *Validator) ValidateAccount(ctx context.Context, account employee.BankAccount) ValidationResult {
	errs := []string{}

	if !routingNumberRe.MatchString(account.RoutingNumber) {
		errs = append(errs, "Routing number must be 9 digits")
	}
	if !ValidRoutingChecksum(account.RoutingNumber) {
		errs = append(errs, "Invalid routing number checksum")
	}
	if !accountNumberRe.MatchString(account.AccountNumber) {
		errs = append(errs, "Account number must be between 4 and 17 digits")
	}

	bankName := knownRoutingNumbers[account.RoutingNumber]
	if bankName == "" {
		bankName = account.BankName
	}
	if bankName == "" && len(errs) == 0 && v.directory != nil {
		name, err := v.directory.LookupBank(ctx, account.RoutingNumber)
		if err != nil {
			v.logger.Warn("bank directory lookup failed",
				zap.String("routing_number", account.RoutingNumber), zap.Error(err))
		} else {
			bankName = name
		}
	}

	return ValidationResult{
		Valid:       len(errs) == 0,
		Errors:      errs,
		BankName:    bankName,
		AccountType: account.AccountType,
	}
}

// ValidRoutingChecksum runs the ABA checksum: digits weighted 3,7,1
// repeating, sum divisible by 10.
func ValidRoutingChecksum(routing string) bool {
	if !routingNumberRe.MatchString(routing) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		digit := int(routing[i] - '0')
		switch i % 3 {
		case 0:
			sum += digit * 3
		case 1:
			sum += digit * 7
		default:
			sum += digit
		}
	}
	return sum%10 == 0
}

// ValidateEmployee checks everything the employee record offers for direct
// deposit. The legacy single account wins when present; otherwise every
// payment account must be valid and exactly one must be primary.
func (v *Validator) ValidateEmployee(ctx context.Context, emp *employee.Employee) bool {
	if emp.BankAccount == nil && len(emp.PaymentAccounts) == 0 {
		v.notifier.Notify(ctx, notify.Notice{
			Severity: notify.SeverityError,
			Title:    "Bank Information Required",
			Message:  fmt.Sprintf("Employee %s is missing bank account information for direct deposit.", emp.FullName()),
		})
		return false
	}

	if emp.BankAccount != nil {
		result := v.ValidateAccount(ctx, *emp.BankAccount)
		if !result.Valid {
			v.notifier.Notify(ctx, notify.Notice{
				Severity: notify.SeverityError,
				Title:    "Invalid Bank Information",
				Message:  fmt.Sprintf("Employee %s's bank information has errors: %s", emp.FullName(), strings.Join(result.Errors, ", ")),
			})
			return false
		}
		return true
	}

	hasPrimary := false
	for _, acct := range emp.PaymentAccounts {
		if acct.Primary {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		v.notifier.Notify(ctx, notify.Notice{
			Severity: notify.SeverityError,
			Title:    "No Primary Bank Account",
			Message:  fmt.Sprintf("Employee %s must have a primary bank account for direct deposit.", emp.FullName()),
		})
		return false
	}

	allValid := true
	for _, acct := range emp.PaymentAccounts {
		result := v.ValidateAccount(ctx, acct.BankAccount)
		if !result.Valid {
			v.notifier.Notify(ctx, notify.Notice{
				Severity: notify.SeverityError,
				Title:    "Invalid Bank Information",
				Message: fmt.Sprintf("Employee %s's bank account (%s) has errors: %s",
					emp.FullName(), lastFour(acct.BankAccount.AccountNumber), strings.Join(result.Errors, ", ")),
			})
			allValid = false
		}
	}
	return allValid
}

func lastFour(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return accountNumber[len(accountNumber)-4:]
}
