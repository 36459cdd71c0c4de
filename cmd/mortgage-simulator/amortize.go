package main

import (
	"errors"
	"fmt"

	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/loans"
	"github.com/omergulen/mortgage-simulator/pkg/output"
	"github.com/omergulen/mortgage-simulator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAmortizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print the amortization schedule of a single loan",
		RunE:  runAmortize,
	}

	flags := cmd.Flags()
	flags.String("name", "loan", "label printed above the schedule")
	flags.Float64("principal", 0, "loan amount")
	flags.Float64("rate", 0, "nominal annual interest rate in percent")
	flags.Float64("payment", 0, "fixed monthly payment")
	flags.Float64("repayment", 0, "initial repayment rate in percent, used when --payment is not set")
	flags.Int("term", 0, "term in years, used when neither --payment nor --repayment is set")
	flags.Float64("extra", 0, "extra repayment at the end of every year")
	flags.Float64("extra-limit", 0, "contractual cap on extra repayments per year, 0 for none")
	flags.Int("years", constants.PayoffHorizonYears, "maximum years to simulate")
	flags.String("output-format", constants.OutputFormatPretty, "type of output: pretty, csv")
	bindFlags(cmd, "amortize", "name", "principal", "rate", "payment", "repayment", "term",
		"extra", "extra-limit", "years", "output-format")
	return cmd
}

func runAmortize(cmd *cobra.Command, args []string) error {
	name := settings.GetString("amortize.name")
	principal := settings.GetFloat64("amortize.principal")
	rate := settings.GetFloat64("amortize.rate")
	payment := settings.GetFloat64("amortize.payment")
	repayment := settings.GetFloat64("amortize.repayment")
	term := settings.GetInt("amortize.term")
	extra := settings.GetFloat64("amortize.extra")
	limit := settings.GetFloat64("amortize.extra-limit")
	years := settings.GetInt("amortize.years")
	outputFormat := settings.GetString("amortize.output-format")

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	if principal <= 0 {
		return errors.New("--principal must be positive")
	}

	switch {
	case payment > 0:
	case repayment > 0:
		payment = loans.MonthlyPaymentFromRepayment(principal, rate, repayment)
	case term > 0:
		payment = loans.CalculateMonthlyPayment(principal, rate, term*constants.MonthsPerYear)
	default:
		return errors.New("one of --payment, --repayment or --term is required")
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	terms := loans.LoanTerms{
		Principal:        principal,
		AnnualRate:       rate,
		MonthlyPayment:   payment,
		ExtraYearly:      extra,
		ExtraYearlyLimit: limit,
	}
	schedule := loans.NewAmortizationScheduleGenerator(logger).GenerateSchedule(name, terms, years)
	if !schedule.PaidOff() {
		logger.Warn("loan is not paid off within the simulated years",
			zap.String("op", "main.amortize"),
			zap.Int("years", years),
			zap.Float64("balance", schedule.FinalBalance),
		)
	}

	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CSVSchedule(cmd.OutOrStdout(), schedule)
	default:
		output.PrettySchedule(cmd.OutOrStdout(), name, schedule)
	}
	return nil
}
