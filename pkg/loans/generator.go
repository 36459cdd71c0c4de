package loans

import (
	"fmt"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"go.uber.org/zap"
)

// YearSummary aggregates one year of a schedule.
type YearSummary struct {
	Year      int     `json:"year"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Extra     float64 `json:"extra"`
	Payment   float64 `json:"payment"`
	Balance   float64 `json:"balance"`
}

// Yearly groups the schedule entries by loan year. The last year may be partial.
func (s Schedule) Yearly() []YearSummary {
	if len(s.Entries) == 0 {
		return nil
	}

	years := make([]YearSummary, 0, (len(s.Entries)+constants.MonthsPerYear-1)/constants.MonthsPerYear)
	for _, entry := range s.Entries {
		if len(years) == 0 || years[len(years)-1].Year != entry.Year {
			years = append(years, YearSummary{Year: entry.Year})
		}
		current := &years[len(years)-1]
		current.Interest += entry.Interest
		current.Principal += entry.Principal
		current.Extra += entry.Extra
		current.Payment += entry.Payment
		current.Balance = entry.Balance
	}
	return years
}

// AmortizationScheduleGenerator runs the amortization engine with logging.
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the amortization schedule for a loan over horizonYears.
func (g *AmortizationScheduleGenerator) GenerateSchedule(name string, loan LoanTerms, horizonYears int) Schedule {
	firstInterest := CalculateInterestPayment(loan.Principal, loan.AnnualRate)
	if loan.Principal > constants.BalanceEpsilon && loan.MonthlyPayment <= firstInterest && loan.ExtraYearly <= 0 {
		g.logger.Warn(fmt.Sprintf("loan %s does not amortize: payment %.2f does not cover interest %.2f",
			name, loan.MonthlyPayment, firstInterest),
			zap.String("op", "loans.GenerateSchedule"),
		)
	}

	schedule := amortize(loan, horizonYears, g.logger.With(zap.String("loan", name)))

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.String("loan", name),
		zap.Int("months", schedule.Months),
		zap.Float64("totalInterest", schedule.TotalInterest),
		zap.Float64("finalBalance", schedule.FinalBalance),
	)
	return schedule
}
