package tax

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/notify"
	"go-payroll/internal/tax/taxapi"
)

// Resolver picks the tax rates for one employee: live rates from the
// external provider when allowed and reachable, static tables otherwise.
// Resolve never fails outward; the worst case is a static fallback plus
// a notification.
type Resolver struct {
	rules    *Ruleset
	api      taxapi.Client
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewResolver(rules *Ruleset, api taxapi.Client, notifier notify.Notifier, logger ...*zap.Logger) *Resolver {
	lg := zap.L().Named("tax.resolver")
	if len(logger) > 0 && logger[0] != nil {
		lg = logger[0]
	}
	if rules == nil {
		rules = DefaultRuleset()
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &Resolver{rules: rules, api: api, notifier: notifier, logger: lg}
}

// Jurisdiction returns the (country, state) pair taxes are computed under.
// A state set in tax withholdings overrides the address.
func (r *Resolver) Jurisdiction(emp *employee.Employee) (country, state string) {
	country, state = emp.Jurisdiction()
	if emp.TaxWithholdings != nil && emp.TaxWithholdings.State != "" {
		state = employee.NormalizeState(emp.TaxWithholdings.State)
	}
	return country, state
}

// Resolve returns the rates for the employee's jurisdiction, tagged with
// their source.
func (r *Resolver) Resolve(ctx context.Context, emp *employee.Employee, useDynamicRates bool) ResolvedRules {
	country, state := r.Jurisdiction(emp)

	if useDynamicRates && r.api != nil {
		if resolved, ok := r.resolveDynamic(ctx, emp, country, state); ok {
			return resolved
		}
	}

	return ResolvedRules{
		Rules:  r.rules.Lookup(country, state),
		Source: SourceStatic,
	}
}

func (r *Resolver) resolveDynamic(ctx context.Context, emp *employee.Employee, country, state string) (ResolvedRules, bool) {
	avail, err := r.api.CheckAvailability(ctx, country, state)
	if err != nil {
		r.fallbackNotice(ctx, err)
		return ResolvedRules{}, false
	}
	if !avail.Federal && !avail.State {
		return ResolvedRules{}, false
	}

	annualIncome := emp.AnnualIncome()
	filingStatus := emp.FilingStatus()

	var federal, stateRates *taxapi.RateResult
	if avail.Federal {
		federal, err = r.api.FederalRates(ctx, country, annualIncome, filingStatus)
		if err != nil {
			r.fallbackNotice(ctx, err)
			return ResolvedRules{}, false
		}
	}
	if avail.State && state != "" {
		stateRates, err = r.api.StateRates(ctx, country, state, annualIncome, filingStatus)
		if err != nil {
			r.fallbackNotice(ctx, err)
			return ResolvedRules{}, false
		}
	}
	if federal == nil && stateRates == nil {
		return ResolvedRules{}, false
	}

	// Rate apa pun yang tidak dikembalikan provider ditambal dari tabel
	// statis, supaya hasil gabungan selalu lengkap.
	static := r.rules.Lookup(country, state)
	merged := Rules{
		Country:            country,
		State:              state,
		FederalTaxRate:     static.FederalTaxRate,
		StateTaxRate:       static.StateTaxRate,
		MedicareRate:       static.MedicareRate,
		SocialSecurityRate: static.SocialSecurityRate,
	}
	if federal != nil {
		if federal.FederalTaxRate > 0 {
			merged.FederalTaxRate = federal.FederalTaxRate
		}
		if federal.MedicareRate > 0 {
			merged.MedicareRate = federal.MedicareRate
		}
		if federal.SocialSecurityRate > 0 {
			merged.SocialSecurityRate = federal.SocialSecurityRate
		}
		merged.AdditionalTaxes = append(merged.AdditionalTaxes, convertAdditional(federal.AdditionalTaxes)...)
	}
	if stateRates != nil {
		if stateRates.StateTaxRate > 0 {
			merged.StateTaxRate = stateRates.StateTaxRate
		}
		merged.AdditionalTaxes = append(merged.AdditionalTaxes, convertAdditional(stateRates.AdditionalTaxes)...)
	}
	if state == "" {
		merged.StateTaxRate = 0
	}

	r.logger.Debug("resolved dynamic tax rules",
		zap.String("country", country),
		zap.String("state", state),
		zap.Float64("federal_rate", merged.FederalTaxRate),
		zap.Float64("state_rate", merged.StateTaxRate),
	)

	return ResolvedRules{
		Rules:       merged,
		Source:      SourceDynamic,
		LastUpdated: time.Now(),
	}, true
}

func (r *Resolver) fallbackNotice(ctx context.Context, err error) {
	r.logger.Warn("tax provider unavailable, falling back to static rates", zap.Error(err))
	r.notifier.Notify(ctx, notify.Notice{
		Severity: notify.SeverityError,
		Title:    "Tax Service Error",
		Message:  "Could not connect to tax services. Using fallback tax rates.",
	})
}

func convertAdditional(in []taxapi.AdditionalTax) []AdditionalTax {
	if len(in) == 0 {
		return nil
	}
	out := make([]AdditionalTax, 0, len(in))
	for _, t := range in {
		out = append(out, AdditionalTax{Name: t.Name, Rate: t.Rate, MaxAmount: t.MaxAmount})
	}
	return out
}
