package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:     "quote SYMBOL",
	Short:   "Print the company overview for a ticker symbol",
	Example: `  go run ./cmd/companydata quote IBM`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) (interface{}, error) {
			return a.service.Quote(ctx, args[0])
		})
	},
}

var filingsCmd = &cobra.Command{
	Use:   "filings CIK",
	Short: "Print annual report filings for a CIK",
	Long: `Print filings of the configured form type (SEC_FORM_TYPE, default 10-K)
with accession number, dates and archive URL.`,
	Example: `  go run ./cmd/companydata filings 320193`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) (interface{}, error) {
			return a.filings.FetchFilings(ctx, args[0])
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:     "analyze SYMBOL CIK",
	Short:   "Print the combined company analysis",
	Example: `  go run ./cmd/companydata analyze AAPL 320193`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) (interface{}, error) {
			return a.service.CompanyAnalysis(ctx, args[0], args[1])
		})
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(filingsCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// withApp wires dependencies, runs fn and prints its result as indented JSON
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) (interface{}, error)) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := fn(ctx, a)
	if err != nil {
		a.log.WithError(err).Error("Command failed")
		return err
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
