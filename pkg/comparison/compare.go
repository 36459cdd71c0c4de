package comparison

import (
	"context"
	"sort"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/etf"
	"github.com/omergulen/mortgage-simulator/pkg/loans"
	"github.com/omergulen/mortgage-simulator/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Request holds everything a comparison run needs. It is passed in full on
// every recomputation.
type Request struct {
	Combinations  []Combination
	PropertyValue float64
	ETFReturn     float64 // percent per year
	HorizonYears  int
	Strategy      etf.Strategy
	InflationRate float64 // percent per year, display only
}

// Checkpoint is a snapshot of one combination at a checkpoint year.
type Checkpoint struct {
	Year             int     `json:"year"`
	RemainingBalance float64 `json:"remainingBalance"`
	TotalPaid        float64 `json:"totalPaid"`
	TotalInterest    float64 `json:"totalInterest"`
	Equity           float64 `json:"equity"`
	ETFValue         float64 `json:"etfValue"`
	NetWorth         float64 `json:"netWorth"`
	RealNetWorth     float64 `json:"realNetWorth"`
}

// Result is a combination enriched with its checkpoints.
type Result struct {
	Combination   Combination  `json:"combination"`
	PayoffYears   float64      `json:"payoffYears"`
	Checkpoints   []Checkpoint `json:"checkpoints"`
	FinalYear     int          `json:"finalYear"`
	FinalNetWorth float64      `json:"finalNetWorth"`
}

// Checkpoint returns the checkpoint for year, if it was computed.
func (r Result) Checkpoint(year int) (Checkpoint, bool) {
	for _, cp := range r.Checkpoints {
		if cp.Year == year {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// Comparator evaluates combinations concurrently.
type Comparator struct {
	logger  *zap.Logger
	workers int
}

// NewComparator creates a comparator. workers <= 0 selects the default limit.
func NewComparator(logger *zap.Logger, workers int) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = constants.DefaultCompareWorkers
	}
	return &Comparator{logger: logger, workers: workers}
}

// Compare evaluates every combination. Results keep the input order.
func (c *Comparator) Compare(ctx context.Context, req Request) ([]Result, error) {
	results := make([]Result, len(req.Combinations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range req.Combinations {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Evaluate(req.Combinations[i], req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Warn("comparison aborted",
			zap.String("op", "comparison.Compare"),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("compared scenario combinations",
		zap.String("op", "comparison.Compare"),
		zap.Int("combinations", len(results)),
		zap.Int("horizonYears", req.HorizonYears),
		zap.String("strategy", string(req.Strategy)),
	)
	return results, nil
}

// Compare evaluates every combination with a default comparator.
func Compare(ctx context.Context, req Request) ([]Result, error) {
	return NewComparator(nil, 0).Compare(ctx, req)
}

// Evaluate computes the result for a single combination.
func Evaluate(combination Combination, req Request) Result {
	loan := combination.Loan()
	result := Result{
		Combination: combination,
		PayoffYears: loans.PayoffYears(loan),
	}

	for _, year := range constants.CheckpointYears {
		if year > req.HorizonYears {
			break
		}
		balance := loans.BalanceAtYear(loan, year)
		paid, interest := loans.TotalPaid(loan, year)
		etfValue := etf.Project(combination.InitialETF, combination.MonthlyETF, req.ETFReturn, year, req.Strategy).AfterTaxValue
		equity := req.PropertyValue - balance
		netWorth := equity + etfValue

		result.Checkpoints = append(result.Checkpoints, Checkpoint{
			Year:             year,
			RemainingBalance: balance,
			TotalPaid:        paid,
			TotalInterest:    interest,
			Equity:           equity,
			ETFValue:         etfValue,
			NetWorth:         netWorth,
			RealNetWorth:     mathutil.Deflate(netWorth, req.InflationRate, year),
		})
	}

	// The horizon checkpoint, or the closest one below it.
	for i := len(result.Checkpoints) - 1; i >= 0; i-- {
		if result.Checkpoints[i].Year <= req.HorizonYears {
			result.FinalYear = result.Checkpoints[i].Year
			result.FinalNetWorth = result.Checkpoints[i].NetWorth
			break
		}
	}
	return result
}

// Rank returns a copy of results ordered by final net worth, best first.
// Ties keep their original order.
func Rank(results []Result) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalNetWorth > ranked[j].FinalNetWorth
	})
	return ranked
}
