package validation

import (
	"strings"
	"testing"

	"github.com/omergulen/mortgage-simulator/pkg/loans"
)

func TestValidateLoanAmortizes(t *testing.T) {
	tests := []struct {
		name       string
		loan       loans.LoanTerms
		expectWarn bool
	}{
		{
			name: "Payment above interest",
			loan: loans.LoanTerms{Principal: 300000, AnnualRate: 3.6, MonthlyPayment: 1400},
		},
		{
			name:       "Payment just below interest",
			loan:       loans.LoanTerms{Principal: 300000, AnnualRate: 3.6, MonthlyPayment: 899},
			expectWarn: true,
		},
		{
			name:       "Payment below interest",
			loan:       loans.LoanTerms{Principal: 300000, AnnualRate: 6, MonthlyPayment: 1000},
			expectWarn: true,
		},
		{
			name: "Zero rate",
			loan: loans.LoanTerms{Principal: 1000, MonthlyPayment: 1},
		},
		{
			name: "Missing payment is a validation error, not a warning",
			loan: loans.LoanTerms{Principal: 1000, AnnualRate: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateLoanAmortizes("Bank", tt.loan)
			if tt.expectWarn && !strings.Contains(warning, "never amortizes") {
				t.Errorf("expected warning, got %q", warning)
			}
			if !tt.expectWarn && warning != "" {
				t.Errorf("expected no warning, got %q", warning)
			}
		})
	}
}

func TestValidateHorizon(t *testing.T) {
	for _, years := range []int{10, 20, 30} {
		if warning := ValidateHorizon(years); warning != "" {
			t.Errorf("horizon %d should be accepted, got %q", years, warning)
		}
	}
	for _, years := range []int{5, 15, 40} {
		if warning := ValidateHorizon(years); warning == "" {
			t.Errorf("horizon %d should warn", years)
		}
	}
}

func TestValidateExtraOptions(t *testing.T) {
	tests := []struct {
		name   string
		extras []float64
		limits []float64
		want   int
	}{
		{name: "No loans", extras: []float64{10000}, want: 0},
		{name: "Unlimited loan accepts everything", extras: []float64{50000}, limits: []float64{5000, 0}, want: 0},
		{name: "Within largest limit", extras: []float64{0, 8000}, limits: []float64{5000, 10000}, want: 0},
		{name: "Above every limit", extras: []float64{0, 12000, 20000}, limits: []float64{5000, 10000}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateExtraOptions(tt.extras, tt.limits); len(got) != tt.want {
				t.Errorf("expected %d warnings, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateUniqueIDs(t *testing.T) {
	if got := ValidateUniqueIDs([]string{"a", "b", "c"}); len(got) != 0 {
		t.Errorf("expected no warnings, got %v", got)
	}
	got := ValidateUniqueIDs([]string{"a", "b", "a", "a"})
	if len(got) != 2 {
		t.Fatalf("expected 2 warnings, got %v", got)
	}
	if !strings.Contains(got[0], "'a'") {
		t.Errorf("warning should name the id: %q", got[0])
	}
}
