package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "MarketAnalyst"
	version = "v0.3.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "analyst",
		Short:         "Technical and quantitative reports for scraped market data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Config file (default $CONFIG_PATH or configs/config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, Telegram bot and HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().Bool("run-on-start", false, "Generate reports for all companies immediately")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate one report from a company document file",
		RunE:  runReport,
	}
	reportCmd.Flags().String("file", "", "Company document JSON file (required)")
	reportCmd.Flags().Bool("json", false, "Print the full report as JSON")
	reportCmd.Flags().Int("chart-window", 0, "Points kept in chart series (default 180)")
	_ = reportCmd.MarkFlagRequired("file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", appName, version)
		},
	}

	rootCmd.AddCommand(serveCmd, reportCmd, versionCmd)
	return rootCmd
}
