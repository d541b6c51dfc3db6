// Package cmd provides the command-line interface for fracflow.
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/sarchlab/fracflow/logging"
	"github.com/spf13/cobra"
)

// Environment variables that provide flag defaults. They may be set in a
// .env file in the working directory.
const (
	envOutput      = "FRACFLOW_OUTPUT"
	envMonitorPort = "FRACFLOW_MONITOR_PORT"
	envLogLevel    = "FRACFLOW_LOG_LEVEL"
)

type rootOptions struct {
	logLevel string
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	return logging.NewLogger(o.logLevel, w)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "fracflow",
		Short: "fracflow integrates a fractional-memory relaxation law and a coupled spin pair.",
		Long: `fracflow integrates a scalar relaxation law with a fractional ` +
			`memory correction and the time evolution of two coupled spins ` +
			`on one discrete-event engine, then prints the derived summary.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level",
		envOr(envLogLevel, "info"), "log level: info, debug or trace")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newParamsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

// Execute loads the optional .env file and runs the root command.
func Execute() error {
	_ = godotenv.Load()

	return newRootCmd().Execute()
}
