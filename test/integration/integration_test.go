package integration

import (
	"bufio"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/omergulen/mortgage-simulator/internal/config"
	"github.com/omergulen/mortgage-simulator/pkg/comparison"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/etf"
	"github.com/omergulen/mortgage-simulator/pkg/mathutil"
	"github.com/omergulen/mortgage-simulator/pkg/output"
	"github.com/omergulen/mortgage-simulator/pkg/testutil"
	"go.uber.org/zap"
)

const simulationFile = "../simulation.yaml"

// loadAndCompare runs the pipeline exactly as the compare command does.
func loadAndCompare(t *testing.T, workers int) (*config.Configuration, []comparison.Result) {
	t.Helper()

	conf, err := config.LoadConfiguration(simulationFile)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	req, err := conf.ComparisonRequest()
	if err != nil {
		t.Fatalf("ComparisonRequest() error = %v", err)
	}

	results, err := comparison.NewComparator(zap.NewNop(), workers).Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	return conf, results
}

// TestComparisonPipeline checks the expanded combinations and the per
// checkpoint accounting of every result.
func TestComparisonPipeline(t *testing.T) {
	conf, results := loadAndCompare(t, 4)

	if warnings := conf.Warnings(); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	// bank-a: 2 x 2 x 3, bank-b: extra 10000 is over its limit, bank-c: unlimited
	expectedCounts := map[string]int{"bank-a": 12, "bank-b": 8, "bank-c": 12}
	total := 0
	for scenarioID, expected := range expectedCounts {
		got := len(testutil.ResultsForScenario(results, scenarioID))
		if got != expected {
			t.Errorf("Expected %d combinations for %s, got %d", expected, scenarioID, got)
		}
		total += expected
	}
	if len(results) != total {
		t.Fatalf("Expected %d results, got %d", total, len(results))
	}
	if testutil.FindResult(results, "bank-b-i0-m0-x10000") != nil {
		t.Error("bank-b extra repayment above its limit should be filtered")
	}

	for _, result := range results {
		if len(result.Checkpoints) != len(constants.CheckpointYears) {
			t.Fatalf("%s: expected %d checkpoints, got %d", result.Combination.ID, len(constants.CheckpointYears), len(result.Checkpoints))
		}
		for i, cp := range result.Checkpoints {
			if cp.Year != constants.CheckpointYears[i] {
				t.Errorf("%s: checkpoint %d has year %d", result.Combination.ID, i, cp.Year)
			}
			if !mathutil.WithinTolerance(cp.Equity, conf.PropertyValue-cp.RemainingBalance, 1e-6) {
				t.Errorf("%s year %d: equity %.2f does not match property minus balance", result.Combination.ID, cp.Year, cp.Equity)
			}
			if !mathutil.WithinTolerance(cp.NetWorth, cp.Equity+cp.ETFValue, 1e-6) {
				t.Errorf("%s year %d: net worth %.2f is not equity plus ETF", result.Combination.ID, cp.Year, cp.NetWorth)
			}
			if cp.RealNetWorth >= cp.NetWorth {
				t.Errorf("%s year %d: real net worth should be deflated", result.Combination.ID, cp.Year)
			}
		}
		if result.FinalYear != 30 {
			t.Errorf("%s: expected final year 30, got %d", result.Combination.ID, result.FinalYear)
		}
		if last := result.Checkpoints[len(result.Checkpoints)-1]; last.NetWorth != result.FinalNetWorth {
			t.Errorf("%s: final net worth %.2f differs from the last checkpoint %.2f", result.Combination.ID, result.FinalNetWorth, last.NetWorth)
		}
	}
}

// TestExtraRepaymentsAndSavings compares combinations of the same scenario.
func TestExtraRepaymentsAndSavings(t *testing.T) {
	_, results := loadAndCompare(t, 2)

	base := testutil.FindResult(results, "bank-a-i0-m0-x0")
	extra := testutil.FindResult(results, "bank-a-i0-m0-x5000")
	saver := testutil.FindResult(results, "bank-a-i0-m500-x0")
	if base == nil || extra == nil || saver == nil {
		t.Fatal("Expected bank-a combinations to be present")
	}

	baseAt10, _ := base.Checkpoint(10)
	extraAt10, _ := extra.Checkpoint(10)
	saverAt10, _ := saver.Checkpoint(10)

	if extraAt10.RemainingBalance >= baseAt10.RemainingBalance {
		t.Errorf("Extra repayments should lower the balance: %.2f >= %.2f", extraAt10.RemainingBalance, baseAt10.RemainingBalance)
	}
	if extraAt10.TotalInterest >= baseAt10.TotalInterest {
		t.Errorf("Extra repayments should lower the interest paid: %.2f >= %.2f", extraAt10.TotalInterest, baseAt10.TotalInterest)
	}
	if extra.PayoffYears >= base.PayoffYears {
		t.Errorf("Extra repayments should shorten the payoff: %.1f >= %.1f", extra.PayoffYears, base.PayoffYears)
	}

	if !mathutil.IsZero(baseAt10.ETFValue) {
		t.Errorf("Combination without ETF should hold no ETF value, got %.2f", baseAt10.ETFValue)
	}
	if saverAt10.ETFValue <= 10*12*500 {
		t.Errorf("ETF value after 10 years should exceed contributions at 7%%, got %.2f", saverAt10.ETFValue)
	}
	if saverAt10.RemainingBalance != baseAt10.RemainingBalance {
		t.Error("ETF contributions should not change the loan")
	}
}

// TestHarvestingStrategies checks that harvesting within the allowance never
// loses against buy and hold.
func TestHarvestingStrategies(t *testing.T) {
	none := etf.Project(20000, 500, 7, 30, etf.StrategyNone)

	for _, strategy := range []etf.Strategy{etf.StrategyPartial, etf.StrategyOptimal} {
		t.Run(string(strategy), func(t *testing.T) {
			result := etf.Project(20000, 500, 7, 30, strategy)
			if !mathutil.WithinTolerance(result.FutureValue, none.FutureValue, 1e-6) {
				t.Errorf("Harvesting without tax should not change the portfolio value: %.2f vs %.2f", result.FutureValue, none.FutureValue)
			}
			if result.AfterTaxValue < none.AfterTaxValue {
				t.Errorf("%s after-tax value %.2f is below buy and hold %.2f", strategy, result.AfterTaxValue, none.AfterTaxValue)
			}
			if result.TaxPaid != 0 {
				t.Errorf("%s should not pay tax while harvesting, paid %.2f", strategy, result.TaxPaid)
			}
		})
	}
}

// TestRankingAndOutput exercises both output formats on the ranked results.
func TestRankingAndOutput(t *testing.T) {
	_, results := loadAndCompare(t, 8)

	ranked := comparison.Rank(results)
	for i := 1; i < len(ranked); i++ {
		if ranked[i].FinalNetWorth > ranked[i-1].FinalNetWorth {
			t.Fatalf("Ranking out of order at %d", i)
		}
	}

	var csvOut strings.Builder
	if err := output.CSVComparison(&csvOut, ranked); err != nil {
		t.Fatalf("CSVComparison() error = %v", err)
	}
	scanner := bufio.NewScanner(strings.NewReader(csvOut.String()))
	lines := 0
	for scanner.Scan() {
		lines++
	}
	if lines != len(results)+1 {
		t.Errorf("Expected %d CSV lines, got %d", len(results)+1, lines)
	}
	if !strings.HasPrefix(csvOut.String(), "id,name,scenario,") {
		t.Errorf("Unexpected CSV header: %q", strings.SplitN(csvOut.String(), "\n", 2)[0])
	}

	var prettyOut strings.Builder
	output.PrettyComparison(&prettyOut, ranked)
	if !strings.HasPrefix(prettyOut.String(), "--- 1. "+ranked[0].Combination.Name+" ---") {
		t.Errorf("Pretty output should start with the best combination")
	}
	for _, result := range results {
		if !strings.Contains(prettyOut.String(), result.Combination.Name) {
			t.Errorf("Pretty output is missing %s", result.Combination.Name)
		}
	}
}

// TestDataConsistency validates that runs with different worker counts
// produce identical results.
func TestDataConsistency(t *testing.T) {
	_, first := loadAndCompare(t, 1)
	_, second := loadAndCompare(t, 16)

	if !reflect.DeepEqual(first, second) {
		t.Error("Results differ between sequential and concurrent runs")
	}
}

// TestExportRoundTrip checks that an exported configuration reproduces the
// same comparison.
func TestExportRoundTrip(t *testing.T) {
	conf, results := loadAndCompare(t, 4)

	data, err := config.ExportYAML(conf)
	if err != nil {
		t.Fatalf("ExportYAML() error = %v", err)
	}
	reloaded, err := config.ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	req, err := reloaded.ComparisonRequest()
	if err != nil {
		t.Fatalf("ComparisonRequest() error = %v", err)
	}
	again, err := comparison.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if !reflect.DeepEqual(results, again) {
		t.Error("Exported configuration produced different results")
	}
}
