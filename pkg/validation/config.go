package validation

import (
	"fmt"
	"slices"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/loans"
)

// ValidateLoanAmortizes warns when the monthly payment does not cover the
// first month's interest, in which case the balance never falls.
func ValidateLoanAmortizes(name string, loan loans.LoanTerms) string {
	if loan.Principal <= 0 || loan.MonthlyPayment <= 0 {
		return ""
	}
	interest := loans.CalculateInterestPayment(loan.Principal, loan.AnnualRate)
	if loan.MonthlyPayment > interest {
		return ""
	}
	return fmt.Sprintf("Scenario '%s' monthly payment %.2f does not cover the first month's interest %.2f - the loan never amortizes",
		name, loan.MonthlyPayment, interest)
}

// ValidateHorizon warns when the horizon is not one of the checkpoint years.
func ValidateHorizon(years int) string {
	if slices.Contains(constants.CheckpointYears, years) {
		return ""
	}
	return fmt.Sprintf("Horizon of %d years is not a checkpoint year %v; the closest lower checkpoint is reported",
		years, constants.CheckpointYears)
}

// ValidateExtraOptions warns about extra payment options above every limit.
// A limit of 0 means unlimited, so a single unlimited loan accepts every option.
func ValidateExtraOptions(extras, limits []float64) []string {
	if len(limits) == 0 {
		return nil
	}
	maxLimit := 0.0
	for _, limit := range limits {
		if limit <= 0 {
			return nil
		}
		maxLimit = max(maxLimit, limit)
	}

	var warnings []string
	for _, extra := range extras {
		if extra > maxLimit {
			warnings = append(warnings, fmt.Sprintf("Extra payment option %.2f exceeds every scenario's limit and produces no combination", extra))
		}
	}
	return warnings
}

// ValidateUniqueIDs warns about ids used more than once.
func ValidateUniqueIDs(ids []string) []string {
	var warnings []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			warnings = append(warnings, fmt.Sprintf("Scenario id '%s' is used more than once", id))
		}
		seen[id] = true
	}
	return warnings
}
