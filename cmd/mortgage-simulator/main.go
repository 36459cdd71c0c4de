// Command mortgage-simulator compares mortgage offers combined with ETF
// savings plans under German capital gains tax.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/omergulen/mortgage-simulator/internal/config"
	"github.com/omergulen/mortgage-simulator/internal/logging"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Set via -ldflags at build time.
var version = "dev"

// settings resolves flags and MORTGAGE_* environment overrides.
var settings = viper.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mortgage-simulator",
		Short:         "Compare mortgage offers combined with ETF savings plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	_ = settings.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
	settings.SetEnvPrefix(constants.EnvPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	settings.AutomaticEnv()

	root.AddCommand(
		newCompareCmd(),
		newAmortizeCmd(),
		newETFCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mortgage-simulator %s\n", version)
		},
	}
}

// bindFlags binds the named local flags of cmd to settings under prefix, so
// "years" on the etf command is also read from MORTGAGE_ETF_YEARS.
func bindFlags(cmd *cobra.Command, prefix string, names ...string) {
	for _, name := range names {
		_ = settings.BindPFlag(prefix+"."+name, cmd.Flags().Lookup(name))
	}
}

// newLogger builds a logger for commands that run without a simulation file.
func newLogger() (*zap.Logger, error) {
	return logging.New(config.LoggingConfig{Format: "console"}, settings.GetString("log-level"))
}
