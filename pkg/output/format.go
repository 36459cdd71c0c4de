// Package output provides utilities for formatting and displaying simulation
// results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/omergulen/mortgage-simulator/pkg/comparison"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/etf"
	"github.com/omergulen/mortgage-simulator/pkg/format"
	"github.com/omergulen/mortgage-simulator/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.German)
}

// PrettyComparison writes a human-readable table per result, best first.
func PrettyComparison(w io.Writer, results []comparison.Result) {
	p := printer()
	for i, result := range comparison.Rank(results) {
		_, _ = p.Fprintf(w, "--- %d. %s ---\n", i+1, result.Combination.Name)
		loan := result.Combination.Loan()
		_, _ = fmt.Fprintf(w, "Loan: %s at %s, %s/month\n",
			format.Currency(loan.Principal), format.Percent(loan.AnnualRate), format.Currency(loan.MonthlyPayment))
		_, _ = p.Fprintf(w, "Payoff: %.1f years\n", result.PayoffYears)
		_, _ = fmt.Fprintf(w, "Year | Balance | Paid | Interest | Equity | ETF after tax | Net worth | Real net worth\n")
		_, _ = fmt.Fprintf(w, "____ | _______ | ____ | ________ | ______ | _____________ | _________ | ______________\n")
		for _, cp := range result.Checkpoints {
			_, _ = p.Fprintf(w, "%4d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f\n",
				cp.Year, cp.RemainingBalance, cp.TotalPaid, cp.TotalInterest,
				cp.Equity, cp.ETFValue, cp.NetWorth, cp.RealNetWorth)
		}
		if result.FinalYear > 0 {
			_, _ = fmt.Fprintf(w, "Final net worth (%d years): %s\n", result.FinalYear, format.Currency(result.FinalNetWorth))
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CSVComparison writes one row per result in input order.
func CSVComparison(w io.Writer, results []comparison.Result) error {
	writer := csv.NewWriter(w)

	var years []int
	if len(results) > 0 {
		for _, cp := range results[0].Checkpoints {
			years = append(years, cp.Year)
		}
	}

	header := []string{"id", "name", "scenario", "initialEtf", "monthlyEtf", "extraYearly", "payoffYears"}
	for _, year := range years {
		suffix := "_" + strconv.Itoa(year) + "y"
		header = append(header,
			"balance"+suffix, "paid"+suffix, "interest"+suffix, "equity"+suffix,
			"etfValue"+suffix, "netWorth"+suffix, "realNetWorth"+suffix)
	}
	header = append(header, "finalYear", "finalNetWorth")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		c := result.Combination
		row := []string{c.ID, c.Name, c.Scenario.ID, number(c.InitialETF), number(c.MonthlyETF), number(c.ExtraYearly), number(result.PayoffYears)}
		for _, year := range years {
			cp, ok := result.Checkpoint(year)
			if !ok {
				row = append(row, "", "", "", "", "", "", "")
				continue
			}
			row = append(row,
				number(cp.RemainingBalance), number(cp.TotalPaid), number(cp.TotalInterest), number(cp.Equity),
				number(cp.ETFValue), number(cp.NetWorth), number(cp.RealNetWorth))
		}
		row = append(row, strconv.Itoa(result.FinalYear), number(result.FinalNetWorth))
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVComparisonString returns the CSV rendering of results.
func CSVComparisonString(results []comparison.Result) string {
	var buf bytes.Buffer
	if err := CSVComparison(&buf, results); err != nil {
		return ""
	}
	return buf.String()
}

// PrettySchedule writes the yearly summary of an amortization schedule.
func PrettySchedule(w io.Writer, name string, schedule loans.Schedule) {
	p := printer()
	_, _ = fmt.Fprintf(w, "--- Amortization schedule for %s ---\n", name)
	_, _ = fmt.Fprintf(w, "Year | Interest | Principal | Extra | Balance\n")
	_, _ = fmt.Fprintf(w, "____ | ________ | _________ | _____ | _______\n")
	for _, year := range schedule.Yearly() {
		_, _ = p.Fprintf(w, "%4d | %.2f | %.2f | %.2f | %.2f\n",
			year.Year, year.Interest, year.Principal, year.Extra, year.Balance)
	}
	_, _ = fmt.Fprintf(w, "Total interest: %s\n", format.Currency(schedule.TotalInterest))
	_, _ = fmt.Fprintf(w, "Total paid: %s\n", format.Currency(schedule.TotalPaid))
	if schedule.PaidOff() {
		_, _ = p.Fprintf(w, "Paid off after %d months (%.1f years)\n", schedule.Months, float64(schedule.Months)/constants.MonthsPerYear)
	} else {
		_, _ = fmt.Fprintf(w, "Remaining balance: %s\n", format.Currency(schedule.FinalBalance))
	}
}

// CSVSchedule writes every month of an amortization schedule.
func CSVSchedule(w io.Writer, schedule loans.Schedule) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"month", "year", "payment", "interest", "principal", "extra", "balance"}); err != nil {
		return err
	}
	for _, e := range schedule.Entries {
		row := []string{strconv.Itoa(e.Month), strconv.Itoa(e.Year), number(e.Payment), number(e.Interest), number(e.Principal), number(e.Extra), number(e.Balance)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// PrettyETF writes the yearly snapshots and totals of an ETF projection.
func PrettyETF(w io.Writer, result etf.Result) {
	p := printer()
	_, _ = fmt.Fprintf(w, "--- ETF projection (strategy %s) ---\n", result.Strategy)
	_, _ = fmt.Fprintf(w, "Year | Value | Cost basis | Harvested | Tax paid\n")
	_, _ = fmt.Fprintf(w, "____ | _____ | __________ | _________ | ________\n")
	for _, year := range result.Years {
		_, _ = p.Fprintf(w, "%4d | %.2f | %.2f | %.2f | %.2f\n",
			year.Year, year.Value, year.CostBasis, year.Harvested, year.TaxPaid)
	}
	_, _ = fmt.Fprintf(w, "Contributions: %s\n", format.Currency(result.TotalContributions))
	_, _ = fmt.Fprintf(w, "Future value: %s\n", format.Currency(result.FutureValue))
	_, _ = fmt.Fprintf(w, "Tax paid while harvesting: %s\n", format.Currency(result.TaxPaid))
	_, _ = fmt.Fprintf(w, "Tax on final sale: %s\n", format.Currency(result.FinalTax))
	_, _ = fmt.Fprintf(w, "After-tax value: %s\n", format.Currency(result.AfterTaxValue))
	_, _ = fmt.Fprintf(w, "After-tax value in today's money: %s\n", format.Currency(result.AfterTaxReal))
}

func number(v float64) string {
	return strconv.FormatFloat(format.Round(v), 'f', 2, 64)
}
