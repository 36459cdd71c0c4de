package config

import (
	"fmt"

	"github.com/omergulen/mortgage-simulator/pkg/comparison"
	"github.com/omergulen/mortgage-simulator/pkg/etf"
)

// ComparisonScenarios converts the configured scenarios into base offers.
func (c *Configuration) ComparisonScenarios() []comparison.Scenario {
	scenarios := make([]comparison.Scenario, 0, len(c.Scenarios))
	for _, s := range c.Scenarios {
		scenarios = append(scenarios, comparison.Scenario{
			ID:   s.ID,
			Name: s.Name,
			Loan: s.Loan.Terms(),
		})
	}
	return scenarios
}

// ComparisonRequest builds the comparison input for the whole configuration.
func (c *Configuration) ComparisonRequest() (comparison.Request, error) {
	strategy, err := etf.ParseStrategy(c.Strategy)
	if err != nil {
		return comparison.Request{}, &FieldError{Path: "strategy", Problem: ErrInvalidValue, Detail: err.Error()}
	}

	return comparison.Request{
		Combinations:  comparison.GenerateCombinations(c.ComparisonScenarios(), c.Options),
		PropertyValue: c.PropertyValue,
		ETFReturn:     c.ETFReturn,
		HorizonYears:  c.HorizonYears,
		Strategy:      strategy,
		InflationRate: c.InflationRate,
	}, nil
}

// Summary returns a one-line description used in logs.
func (c *Configuration) Summary() string {
	return fmt.Sprintf("%d scenarios, horizon %d years, strategy %s", len(c.Scenarios), c.HorizonYears, c.Strategy)
}
