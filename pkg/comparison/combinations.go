// Package comparison combines loan offers with ETF savings plans and extra
// payment choices and compares the resulting net worth at fixed checkpoints.
package comparison

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/omergulen/mortgage-simulator/pkg/loans"
)

// Scenario is a base loan offer.
type Scenario struct {
	ID   string          `json:"id" yaml:"id"`
	Name string          `json:"name" yaml:"name"`
	Loan loans.LoanTerms `json:"loan" yaml:"loan"`
}

// Options are the user selected values crossed with every scenario.
type Options struct {
	InitialETF  []float64 `json:"initialEtf" yaml:"initialEtf" mapstructure:"initialEtf"`
	MonthlyETF  []float64 `json:"monthlyEtf" yaml:"monthlyEtf" mapstructure:"monthlyEtf"`
	ExtraYearly []float64 `json:"extraYearly" yaml:"extraYearly" mapstructure:"extraYearly"`
}

// Combination is one scenario paired with one choice from every option set.
// Combinations are regenerated, never mutated, when a selection changes.
type Combination struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Scenario    Scenario `json:"scenario"`
	InitialETF  float64  `json:"initialEtf"`
	MonthlyETF  float64  `json:"monthlyEtf"`
	ExtraYearly float64  `json:"extraYearly"`
}

// Loan returns the scenario's loan with the chosen extra payment applied.
func (c Combination) Loan() loans.LoanTerms {
	return c.Scenario.Loan.WithExtraYearly(c.ExtraYearly)
}

// GenerateCombinations returns the cross product of scenarios and options,
// skipping extra payments above a scenario's limit. An empty option set is
// treated as the single choice 0.
func GenerateCombinations(scenarios []Scenario, options Options) []Combination {
	initials := orZero(options.InitialETF)
	monthlies := orZero(options.MonthlyETF)
	extras := orZero(options.ExtraYearly)

	combinations := make([]Combination, 0, len(scenarios)*len(initials)*len(monthlies)*len(extras))
	for _, scenario := range scenarios {
		limit := scenario.Loan.ExtraYearlyLimit
		for _, initial := range initials {
			for _, monthly := range monthlies {
				for _, extra := range extras {
					if limit > 0 && extra > limit {
						continue
					}
					combinations = append(combinations, Combination{
						ID:          combinationID(scenario.ID, initial, monthly, extra),
						Name:        combinationName(scenario.Name, initial, monthly, extra),
						Scenario:    scenario,
						InitialETF:  initial,
						MonthlyETF:  monthly,
						ExtraYearly: extra,
					})
				}
			}
		}
	}
	return combinations
}

func orZero(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{0}
	}
	return values
}

func combinationID(scenarioID string, initial, monthly, extra float64) string {
	return fmt.Sprintf("%s-i%s-m%s-x%s", scenarioID, formatAmount(initial), formatAmount(monthly), formatAmount(extra))
}

func combinationName(base string, initial, monthly, extra float64) string {
	parts := []string{base}
	if initial != 0 {
		parts = append(parts, "ETF "+formatAmount(initial)+" initial")
	}
	if monthly != 0 {
		parts = append(parts, "ETF "+formatAmount(monthly)+"/month")
	}
	if extra != 0 {
		parts = append(parts, "extra "+formatAmount(extra)+"/year")
	}
	return strings.Join(parts, " + ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
