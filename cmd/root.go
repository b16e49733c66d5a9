package cmd

import (
	"errors"
	"fmt"
	"os"

	"es-diff/core/logger"
	"es-diff/feature/compare"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "es-diff",
	Short: "Elasticsearch index comparison tool",
	Long: `es-diff compares two Elasticsearch indices document by document
and writes every discrepancy to a CSV report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}

		// --fail-on-diff gets its own exit status so CI can tell
		// "indices differ" apart from operational failures.
		if errors.Is(err, compare.ErrDifferencesFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
