package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/omergulen/mortgage-simulator/internal/config"
	"github.com/omergulen/mortgage-simulator/internal/logging"
	"github.com/omergulen/mortgage-simulator/pkg/comparison"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/output"
	"github.com/omergulen/mortgage-simulator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare every scenario and option combination in a simulation file",
		Long: `Compare reads a simulation file, expands every scenario with every
ETF and extra repayment option, and prints the combinations ranked by
net worth at the end of the horizon.

Use --config - to read the simulation from stdin.`,
		RunE: runCompare,
	}

	cmd.Flags().String("config", constants.DefaultConfigFile, "path to simulation file, or - for stdin")
	cmd.Flags().String("output-format", "", "type of output override: pretty, csv")
	cmd.Flags().Int("workers", constants.DefaultCompareWorkers, "maximum concurrent evaluations")
	_ = settings.BindPFlag("config", cmd.Flags().Lookup("config"))
	_ = settings.BindPFlag("output-format", cmd.Flags().Lookup("output-format"))
	_ = settings.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	configLocation := settings.GetString("config")

	var (
		conf *config.Configuration
		err  error
	)
	if configLocation == "-" {
		conf, err = config.LoadConfigurationFromReader(cmd.InOrStdin())
	} else {
		conf, err = config.LoadConfiguration(configLocation)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
	}

	logger, err := logging.New(conf.Logging, settings.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if override := settings.GetString("output-format"); override != "" {
		outputFormat = override
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range conf.Warnings() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.compare"),
		)
	}

	req, err := conf.ComparisonRequest()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := comparison.NewComparator(logger, settings.GetInt("workers")).Compare(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to compare scenarios: %w", err)
	}
	logger.Info("comparison complete",
		zap.String("op", "main.compare"),
		zap.String("config", conf.Summary()),
		zap.Int("combinations", len(results)),
	)

	ranked := comparison.Rank(results)
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyComparison(cmd.OutOrStdout(), ranked)
	case constants.OutputFormatCSV:
		return output.CSVComparison(cmd.OutOrStdout(), ranked)
	}
	return nil
}
