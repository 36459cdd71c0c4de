// Package format renders amounts for display using German conventions.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a euro amount with thousands separators (e.g., "-1.234,56 €").
func Currency(amount float64) string {
	return Amount(amount) + " €"
}

// Amount returns an amount with German separators but no symbol (e.g., "-1.234,56").
// Non-finite values are rendered as "n. v." (nicht verfügbar), "∞" or "-∞".
func Amount(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "n. v."
	case math.IsInf(amount, 1):
		return "∞"
	case math.IsInf(amount, -1):
		return "-∞"
	}
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + formatPositive(d.Abs().StringFixed(2))
}

// Percent returns a percentage with two decimals (e.g., "3,51 %").
func Percent(value float64) string {
	return Amount(value) + " %"
}

// Round rounds half away from zero to cents. Non-finite values are returned
// unchanged.
func Round(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

func formatPositive(fixed string) string {
	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte('.')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "," + decPart
}
