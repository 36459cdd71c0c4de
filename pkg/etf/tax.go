package etf

import (
	"math"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
)

// Tax returns the capital gains tax due on realizing gain in a single year:
// 30% of the gain is exempt, the allowance is deducted from the taxable
// rest and the remainder is taxed at 26.375%.
func Tax(gain float64) float64 {
	return math.Max(0, gain*constants.TaxableFraction-constants.TaxFreeAllowance) * constants.CapitalGainsTaxRate
}

// TaxableGain returns the part of gain that counts against the allowance.
func TaxableGain(gain float64) float64 {
	return gain * constants.TaxableFraction
}
