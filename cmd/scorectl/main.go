package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scorectl",
	Short: "Operator tool for the tournament scoreboard",
	Long: `scorectl bootstraps scoreboard state directly in the configured store
and mints admin tokens for the HTTP API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger = slog.New(log.NewWithOptions(os.Stderr, log.Options{
			Level:           level,
			ReportTimestamp: true,
			Prefix:          "scorectl",
		}))
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scorectl: %s\n", err)
		os.Exit(1)
	}
}
