package config

import (
	"errors"
	"fmt"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/etf"
	"github.com/omergulen/mortgage-simulator/pkg/validation"
)

var (
	// ErrMissingField marks a required value that is absent.
	ErrMissingField = errors.New("missing")
	// ErrInvalidValue marks a value outside its allowed range.
	ErrInvalidValue = errors.New("invalid value")
)

// FieldError reports a problem with a single configuration path such as
// scenarios[1].loan.principal.
type FieldError struct {
	Path    string
	Problem error
	Detail  string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Problem)
	}
	return fmt.Sprintf("%s: %v: %s", e.Path, e.Problem, e.Detail)
}

func (e *FieldError) Unwrap() error {
	return e.Problem
}

// Validate checks the configuration for structural problems. All problems
// are returned joined.
func (c *Configuration) Validate() error {
	var errs []error
	add := func(path string, problem error, detail string) {
		errs = append(errs, &FieldError{Path: path, Problem: problem, Detail: detail})
	}

	if c.PropertyValue < 0 {
		add("propertyValue", ErrInvalidValue, "must not be negative")
	}
	if c.ETFReturn <= -constants.PercentageMultiplier {
		add("etfReturn", ErrInvalidValue, "must be above -100")
	}
	if c.InflationRate <= -constants.PercentageMultiplier {
		add("inflationRate", ErrInvalidValue, "must be above -100")
	}
	if c.HorizonYears <= 0 {
		add("horizonYears", ErrInvalidValue, "must be positive")
	}
	if _, err := etf.ParseStrategy(c.Strategy); err != nil {
		add("strategy", ErrInvalidValue, fmt.Sprintf("%q is not one of %v", c.Strategy, etf.Strategies))
	}

	if len(c.Scenarios) == 0 {
		add("scenarios", ErrMissingField, "at least one scenario is required")
	}
	for i, s := range c.Scenarios {
		path := fmt.Sprintf("scenarios[%d].loan", i)
		if s.Loan.Principal == 0 {
			add(path+".principal", ErrMissingField, "")
		} else if s.Loan.Principal < 0 {
			add(path+".principal", ErrInvalidValue, "must be positive")
		}
		if s.Loan.AnnualRate < 0 {
			add(path+".annualRate", ErrInvalidValue, "must not be negative")
		}
		if s.Loan.MonthlyPayment == 0 {
			add(path+".monthlyPayment", ErrMissingField, "set monthlyPayment, initialRepayment or termYears")
		} else if s.Loan.MonthlyPayment < 0 {
			add(path+".monthlyPayment", ErrInvalidValue, "must be positive")
		}
		if s.Loan.ExtraYearly < 0 {
			add(path+".extraYearly", ErrInvalidValue, "must not be negative")
		}
		if s.Loan.ExtraYearlyLimit < 0 {
			add(path+".extraYearlyLimit", ErrInvalidValue, "must not be negative")
		}
	}

	optionSets := []struct {
		path   string
		values []float64
	}{
		{"options.initialEtf", c.Options.InitialETF},
		{"options.monthlyEtf", c.Options.MonthlyETF},
		{"options.extraYearly", c.Options.ExtraYearly},
	}
	for _, set := range optionSets {
		for i, v := range set.values {
			if v < 0 {
				add(fmt.Sprintf("%s[%d]", set.path, i), ErrInvalidValue, "must not be negative")
			}
		}
	}

	return errors.Join(errs...)
}

// Warnings returns soft problems that do not prevent a comparison.
func (c *Configuration) Warnings() []string {
	var warnings []string

	if warning := validation.ValidateHorizon(c.HorizonYears); warning != "" {
		warnings = append(warnings, warning)
	}

	ids := make([]string, 0, len(c.Scenarios))
	limits := make([]float64, 0, len(c.Scenarios))
	for _, s := range c.Scenarios {
		ids = append(ids, s.ID)
		limits = append(limits, s.Loan.ExtraYearlyLimit)
	}
	warnings = append(warnings, validation.ValidateUniqueIDs(ids)...)

	for _, s := range c.Scenarios {
		if warning := validation.ValidateLoanAmortizes(s.Name, s.Loan.Terms()); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	warnings = append(warnings, validation.ValidateExtraOptions(c.Options.ExtraYearly, limits)...)
	return warnings
}
