package config

import (
	"github.com/google/uuid"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/loans"
)

// Loan indicates a loan offer and its parameters. The monthly payment may be
// given directly, as an initial repayment rate (anfängliche Tilgung) or as a
// term in years.
type Loan struct {
	Principal        float64 `json:"principal" yaml:"principal"`
	AnnualRate       float64 `json:"annualRate" yaml:"annualRate"` // percent
	MonthlyPayment   float64 `json:"monthlyPayment,omitempty" yaml:"monthlyPayment,omitempty"`
	InitialRepayment float64 `json:"initialRepayment,omitempty" yaml:"initialRepayment,omitempty"` // percent
	TermYears        int     `json:"termYears,omitempty" yaml:"termYears,omitempty"`
	ExtraYearly      float64 `json:"extraYearly,omitempty" yaml:"extraYearly,omitempty"`
	ExtraYearlyLimit float64 `json:"extraYearlyLimit,omitempty" yaml:"extraYearlyLimit,omitempty"`
}

func (l *Loan) resolvePayment() {
	if l.MonthlyPayment > 0 || l.Principal <= 0 {
		return
	}
	switch {
	case l.InitialRepayment > 0:
		l.MonthlyPayment = loans.MonthlyPaymentFromRepayment(l.Principal, l.AnnualRate, l.InitialRepayment)
	case l.TermYears > 0:
		l.MonthlyPayment = loans.CalculateMonthlyPayment(l.Principal, l.AnnualRate, l.TermYears*constants.MonthsPerYear)
	}
}

// Terms converts the loan into engine input.
func (l Loan) Terms() loans.LoanTerms {
	return loans.LoanTerms{
		Principal:        l.Principal,
		AnnualRate:       l.AnnualRate,
		MonthlyPayment:   l.MonthlyPayment,
		ExtraYearly:      l.ExtraYearly,
		ExtraYearlyLimit: l.ExtraYearlyLimit,
	}
}

func newID() string {
	return uuid.NewString()
}
