// Package etf projects after-tax growth of a monthly ETF savings plan under
// German capital gains tax, with four alternative tax-gain-harvesting
// strategies.
package etf

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/mathutil"
	"go.uber.org/zap"
)

// Strategy selects how gains are realized during the projection.
type Strategy string

const (
	// StrategyNone never realizes gains; all tax is owed at the end.
	StrategyNone Strategy = "none"
	// StrategyFull sells and rebuys everything at every year end.
	StrategyFull Strategy = "full"
	// StrategyPartial realizes gains up to the allowance every year,
	// shrinking an aggregate cost basis proportionally.
	StrategyPartial Strategy = "partial"
	// StrategyOptimal realizes gains up to the allowance every year,
	// consuming contribution lots first in, first out.
	StrategyOptimal Strategy = "optimal"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategyNone, StrategyFull, StrategyPartial, StrategyOptimal}

// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
var ErrUnknownStrategy = errors.New("unknown harvesting strategy")

// ParseStrategy converts a user supplied name into a Strategy.
func ParseStrategy(value string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Strategies {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, value)
}

// YearSnapshot captures the position at the end of a simulated year.
type YearSnapshot struct {
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
	CostBasis float64 `json:"costBasis"`
	Harvested float64 `json:"harvested"`
	TaxPaid   float64 `json:"taxPaid"`
}

// Result is the outcome of a projection.
type Result struct {
	Strategy           Strategy       `json:"strategy"`
	FutureValue        float64        `json:"futureValue"`
	TotalContributions float64        `json:"totalContributions"`
	TotalGains         float64        `json:"totalGains"`
	TaxPaid            float64        `json:"taxPaid"`
	FinalTax           float64        `json:"finalTax"`
	AfterTaxValue      float64        `json:"afterTaxValue"`
	AfterTaxReal       float64        `json:"afterTaxReal"`
	TotalHarvested     float64        `json:"totalHarvested"`
	Years              []YearSnapshot `json:"years,omitempty"`
}

// Project simulates the savings plan month by month. An unknown strategy is
// projected as StrategyNone.
func Project(initial, monthly, annualReturnPercent float64, years int, strategy Strategy) Result {
	p := projection{
		initial:     initial,
		monthly:     monthly,
		monthlyRate: mathutil.MonthlyRate(annualReturnPercent),
		years:       years,
	}

	var result Result
	switch strategy {
	case StrategyFull:
		result = p.full()
	case StrategyPartial:
		result = p.partial()
	case StrategyOptimal:
		result = p.optimal()
	default:
		result = p.none()
	}

	result.TotalGains = result.FutureValue - initial - result.TotalContributions
	result.AfterTaxValue = result.FutureValue - result.TaxPaid - result.FinalTax
	result.AfterTaxReal = result.AfterTaxValue / math.Pow(1+p.monthlyRate*constants.MonthsPerYear, float64(years))
	return result
}

type projection struct {
	initial     float64
	monthly     float64
	monthlyRate float64
	years       int
}

func (p projection) months() int {
	if p.years <= 0 {
		return 0
	}
	return p.years * constants.MonthsPerYear
}

// step applies one month of growth followed by the contribution and returns
// the amount contributed. A negative contribution is ignored; the plan never
// withdraws.
func (p projection) step(value *float64) float64 {
	*value *= 1 + p.monthlyRate
	if p.monthly > 0 {
		*value += p.monthly
		return p.monthly
	}
	return 0
}

func (p projection) none() Result {
	value := p.initial
	contributed := 0.0
	var snapshots []YearSnapshot

	for month := 1; month <= p.months(); month++ {
		contributed += p.step(&value)
		if month%constants.MonthsPerYear == 0 {
			snapshots = append(snapshots, YearSnapshot{
				Year:      month / constants.MonthsPerYear,
				Value:     value,
				CostBasis: p.initial + contributed,
			})
		}
	}

	return Result{
		Strategy:           StrategyNone,
		FutureValue:        value,
		TotalContributions: contributed,
		FinalTax:           Tax(value - p.initial - contributed),
		Years:              snapshots,
	}
}

func (p projection) full() Result {
	value := p.initial
	basis := p.initial
	contributed, taxPaid, harvested := 0.0, 0.0, 0.0
	var snapshots []YearSnapshot

	for month := 1; month <= p.months(); month++ {
		c := p.step(&value)
		contributed += c
		basis += c

		if month%constants.MonthsPerYear == 0 {
			snapshot := YearSnapshot{Year: month / constants.MonthsPerYear}
			if yearGain := value - basis; yearGain > 0 {
				snapshot.TaxPaid = Tax(yearGain)
				snapshot.Harvested = yearGain
				taxPaid += snapshot.TaxPaid
				harvested += yearGain
			}
			basis = value
			snapshot.Value = value
			snapshot.CostBasis = basis
			snapshots = append(snapshots, snapshot)
		}
	}

	return Result{
		Strategy:           StrategyFull,
		FutureValue:        value,
		TotalContributions: contributed,
		TaxPaid:            taxPaid,
		TotalHarvested:     harvested,
		Years:              snapshots,
	}
}

func (p projection) partial() Result {
	value := p.initial
	basis := p.initial
	contributed, harvested := 0.0, 0.0
	var snapshots []YearSnapshot

	for month := 1; month <= p.months(); month++ {
		c := p.step(&value)
		contributed += c
		basis += c

		if month%constants.MonthsPerYear == 0 {
			snapshot := YearSnapshot{Year: month / constants.MonthsPerYear}
			if unrealized := value - basis; unrealized > 0 {
				amount := math.Min(unrealized, constants.HarvestCeiling)
				basis *= 1 - amount/unrealized
				harvested += amount
				snapshot.Harvested = amount
			}
			snapshot.Value = value
			snapshot.CostBasis = basis
			snapshots = append(snapshots, snapshot)
		}
	}

	return Result{
		Strategy:           StrategyPartial,
		FutureValue:        value,
		TotalContributions: contributed,
		FinalTax:           Tax(value - p.initial - contributed - harvested),
		TotalHarvested:     harvested,
		Years:              snapshots,
	}
}

func (p projection) optimal() Result {
	value := p.initial
	contributed, harvested := 0.0, 0.0
	lots := newLedger()
	lots.buy(0, p.initial)
	var snapshots []YearSnapshot

	for month := 1; month <= p.months(); month++ {
		lots.grow(p.monthlyRate)
		c := p.step(&value)
		contributed += c
		lots.buy(month, c)

		if month%constants.MonthsPerYear == 0 {
			snapshot := YearSnapshot{Year: month / constants.MonthsPerYear}
			if unrealized := value - lots.basis(); unrealized > 0 {
				realized := lots.harvest(month, math.Min(unrealized, constants.HarvestCeiling))
				harvested += realized
				snapshot.Harvested = realized
			}
			snapshot.Value = value
			snapshot.CostBasis = lots.basis()
			snapshots = append(snapshots, snapshot)
		}
	}

	return Result{
		Strategy:           StrategyOptimal,
		FutureValue:        value,
		TotalContributions: contributed,
		FinalTax:           Tax(value - lots.basis()),
		TotalHarvested:     harvested,
		Years:              snapshots,
	}
}

// Projector runs projections with logging.
type Projector struct {
	logger *zap.Logger
}

// NewProjector creates a projector. If logger is nil a no-op logger is used.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// Project runs Project and logs the outcome.
func (pr *Projector) Project(initial, monthly, annualReturnPercent float64, years int, strategy Strategy) Result {
	result := Project(initial, monthly, annualReturnPercent, years, strategy)
	if result.Strategy != strategy {
		pr.logger.Warn("unknown strategy, projected without harvesting",
			zap.String("op", "etf.Project"),
			zap.String("strategy", string(strategy)),
		)
	}
	pr.logger.Debug("projected etf savings plan",
		zap.String("op", "etf.Project"),
		zap.String("strategy", string(result.Strategy)),
		zap.Int("years", years),
		zap.Float64("futureValue", result.FutureValue),
		zap.Float64("afterTaxValue", result.AfterTaxValue),
		zap.Float64("taxPaid", result.TaxPaid),
		zap.Float64("finalTax", result.FinalTax),
	)
	return result
}
