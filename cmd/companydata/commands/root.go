package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "companydata",
	Short: "Company Data API - market data and SEC filings aggregation",
	Long: `Company Data API

Aggregates Alpha Vantage company overviews and SEC EDGAR filing
metadata into a single response with a pros/cons assessment.

Usage:
  go run ./cmd/companydata [command]

Examples:
  go run ./cmd/companydata api
  go run ./cmd/companydata quote IBM
  go run ./cmd/companydata filings 320193
  go run ./cmd/companydata analyze AAPL 320193`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
