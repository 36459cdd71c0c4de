// Package loans provides the mortgage amortization engine.
package loans

import (
	"math"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanTerms holds the fixed inputs of a loan offer.
type LoanTerms struct {
	Principal      float64 `json:"principal" yaml:"principal"`
	AnnualRate     float64 `json:"annualRate" yaml:"annualRate"` // percent, e.g. 3.51
	MonthlyPayment float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	ExtraYearly    float64 `json:"extraYearly,omitempty" yaml:"extraYearly,omitempty"`
	// ExtraYearlyLimit caps the Sondertilgung a lender accepts per year; 0
	// means unlimited. Only scenario generation consults it.
	ExtraYearlyLimit float64 `json:"extraYearlyLimit,omitempty" yaml:"extraYearlyLimit,omitempty"`
}

// WithExtraYearly returns a copy of the terms with the extra payment resolved.
func (l LoanTerms) WithExtraYearly(extra float64) LoanTerms {
	l.ExtraYearly = extra
	return l
}

// Entry holds the values for a given month of the schedule.
type Entry struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Balance   float64 `json:"balance"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Extra     float64 `json:"extra"`
	Payment   float64 `json:"payment"`
}

// Schedule is the result of one amortization run.
type Schedule struct {
	Entries        []Entry `json:"entries"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalExtra     float64 `json:"totalExtra"`
	TotalPaid      float64 `json:"totalPaid"`
	FinalBalance   float64 `json:"finalBalance"`
	Months         int     `json:"months"`
}

// PaidOff reports whether the run ended below the payoff epsilon.
func (s Schedule) PaidOff() bool {
	return s.FinalBalance <= constants.BalanceEpsilon
}

// CalculateMonthlyPayment calculates the annuity payment that retires a loan in termMonths.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		return principal / float64(termMonths)
	}

	periodicInterestRate := mathutil.MonthlyRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// MonthlyPaymentFromRepayment derives the payment of a German annuity offer
// quoted as interest rate plus initial repayment rate (anfängliche Tilgung).
func MonthlyPaymentFromRepayment(principal, annualInterestRate, initialRepaymentRate float64) float64 {
	return principal * (annualInterestRate + initialRepaymentRate) / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * mathutil.MonthlyRate(annualInterestRate)
}

// Amortize simulates the loan month by month for at most horizonYears.
func Amortize(loan LoanTerms, horizonYears int) Schedule {
	return amortize(loan, horizonYears, zap.NewNop())
}

func amortize(loan LoanTerms, horizonYears int, logger *zap.Logger) Schedule {
	monthlyRate := mathutil.MonthlyRate(loan.AnnualRate)
	totalMonths := horizonYears * constants.MonthsPerYear
	balance := loan.Principal

	schedule := Schedule{FinalBalance: balance}
	if totalMonths > 0 && balance > constants.BalanceEpsilon {
		schedule.Entries = make([]Entry, 0, totalMonths)
	}

	for month := 1; month <= totalMonths && balance > constants.BalanceEpsilon; month++ {
		interest := balance * monthlyRate
		principal := loan.MonthlyPayment - interest

		extra := 0.0
		if month%constants.MonthsPerYear == 0 && loan.ExtraYearly > 0 {
			extra = math.Min(loan.ExtraYearly, balance)
			logger.Debug("applying extra principal payment",
				zap.String("op", "loans.Amortize"),
				zap.Int("month", month),
				zap.Float64("extra", extra),
			)
		}

		if principal+extra > balance {
			logger.Debug("clamping final payment to remaining balance",
				zap.String("op", "loans.Amortize"),
				zap.Int("month", month),
				zap.Float64("balance", balance),
			)
			principal = balance - extra
		}

		balance = math.Max(0, balance-principal-extra)

		entry := Entry{
			Month:     month,
			Year:      (month + constants.MonthsPerYear - 1) / constants.MonthsPerYear,
			Balance:   balance,
			Interest:  interest,
			Principal: principal,
			Extra:     extra,
			Payment:   interest + principal + extra,
		}
		schedule.Entries = append(schedule.Entries, entry)
		schedule.TotalInterest += interest
		schedule.TotalPrincipal += principal + extra
		schedule.TotalExtra += extra
		schedule.TotalPaid += entry.Payment
	}

	schedule.FinalBalance = balance
	schedule.Months = len(schedule.Entries)
	return schedule
}

// BalanceAtYear returns the remaining balance at the end of targetYear.
func BalanceAtYear(loan LoanTerms, targetYear int) float64 {
	if targetYear <= 0 {
		return loan.Principal
	}
	schedule := Amortize(loan, targetYear+constants.BalanceLookaheadYears)
	if len(schedule.Entries) == 0 {
		return loan.Principal
	}
	idx := targetYear*constants.MonthsPerYear - 1
	if idx < len(schedule.Entries) {
		return schedule.Entries[idx].Balance
	}
	return schedule.Entries[len(schedule.Entries)-1].Balance
}

// PayoffMonths returns the number of months until the loan is repaid,
// bounded by PayoffHorizonYears.
func PayoffMonths(loan LoanTerms) int {
	return Amortize(loan, constants.PayoffHorizonYears).Months
}

// PayoffYears is PayoffMonths expressed in (fractional) years.
func PayoffYears(loan LoanTerms) float64 {
	return float64(PayoffMonths(loan)) / constants.MonthsPerYear
}

// TotalPaid returns the cash paid and the interest share of it over the first years.
func TotalPaid(loan LoanTerms, years int) (paid, interest float64) {
	schedule := Amortize(loan, years)
	return schedule.TotalPaid, schedule.TotalInterest
}
