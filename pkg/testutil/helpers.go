// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/omergulen/mortgage-simulator/pkg/comparison"
)

// FindResult finds a result by combination ID in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []comparison.Result, id string) *comparison.Result {
	for i := range results {
		if results[i].Combination.ID == id {
			return &results[i]
		}
	}
	return nil
}

// ResultsForScenario returns the results whose combination was built from the
// given scenario, in input order.
func ResultsForScenario(results []comparison.Result, scenarioID string) []comparison.Result {
	var matched []comparison.Result
	for _, result := range results {
		if result.Combination.Scenario.ID == scenarioID {
			matched = append(matched, result)
		}
	}
	return matched
}
