package main

import (
	"errors"
	"fmt"

	"github.com/omergulen/mortgage-simulator/internal/config"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/etf"
	"github.com/omergulen/mortgage-simulator/pkg/output"
	"github.com/spf13/cobra"
)

func newETFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "etf",
		Short: "Project an ETF savings plan after German capital gains tax",
		RunE:  runETF,
	}

	flags := cmd.Flags()
	flags.Float64("initial", 0, "initial investment")
	flags.Float64("monthly", 0, "monthly contribution")
	flags.Float64("return", 7, "expected annual return in percent")
	flags.Int("years", 30, "investment horizon in years")
	flags.String("strategy", config.DefaultStrategy, "tax harvesting strategy: none, full, partial, optimal")
	bindFlags(cmd, "etf", "initial", "monthly", "return", "years", "strategy")
	return cmd
}

func runETF(cmd *cobra.Command, args []string) error {
	initial := settings.GetFloat64("etf.initial")
	monthly := settings.GetFloat64("etf.monthly")
	annualReturn := settings.GetFloat64("etf.return")
	years := settings.GetInt("etf.years")

	strategy, err := etf.ParseStrategy(settings.GetString("etf.strategy"))
	if err != nil {
		return err
	}
	if initial < 0 || monthly < 0 || years < 0 {
		return errors.New("--initial, --monthly and --years must not be negative")
	}
	if annualReturn <= -constants.PercentageMultiplier {
		return errors.New("--return must be above -100")
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	output.PrettyETF(cmd.OutOrStdout(), etf.NewProjector(logger).Project(initial, monthly, annualReturn, years, strategy))
	return nil
}
