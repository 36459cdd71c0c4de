// Package mathutil provides small numeric helpers shared by the engines.
package mathutil

import (
	"math"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
)

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// MonthlyRate converts an annual percentage (e.g. 3.51) to a monthly fraction.
func MonthlyRate(annualPercent float64) float64 {
	return annualPercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// Deflate discounts value by a yearly percentage over the given number of years.
func Deflate(value, annualPercent float64, years int) float64 {
	factor := math.Pow(1+annualPercent/constants.PercentageMultiplier, float64(years))
	if factor == 0 {
		return value
	}
	return value / factor
}
