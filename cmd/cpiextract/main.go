// Command cpiextract converts a BLS-style year-by-month spreadsheet into a
// JSON list of {date, value} records.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"indicatorcli/internal/app"
	"indicatorcli/internal/config"
)

const toolName = "cpiextract"

func main() {
	ctx, stop := app.SignalContext(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		input      string
		output     string
		sheet      string
		payloadDir string
	)

	cmd := &cobra.Command{
		Use:   toolName,
		Short: "Extract a monthly series from a spreadsheet into JSON",
		Long: `cpiextract reads the active worksheet of an .xlsx workbook laid out one
row per year (year in column A, January to December in columns B to M) and
writes every non-empty monthly value as {"date": "YYYY-MM-01", "value": n}.

Rows whose first cell is not a year between 1900 and 2100 are ignored.`,
		Example: `  # Convert the default BLS export
  cpiextract

  # Choose files and also write the dashboard upload payload
  cpiextract --in SeriesReport.xlsx --out cpi.json --payload-dir public/`,
		Version:       config.AppVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common := app.BindCommonFlags(cmd)
	cmd.Flags().StringVar(&input, "in", config.DefaultSeriesInput, "input workbook")
	cmd.Flags().StringVar(&output, "out", config.DefaultSeriesOutput, "output JSON file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read (default: active sheet)")
	cmd.Flags().StringVar(&payloadDir, "payload-dir", "", "also write the upload payload and preference files here")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts := common.Options(toolName, func(cfg *config.Config) {
			if common.Changed("in") {
				cfg.Series.Input = input
			}
			if common.Changed("out") {
				cfg.Series.Output = output
			}
			if common.Changed("sheet") {
				cfg.Series.Sheet = sheet
			}
			if common.Changed("payload-dir") {
				cfg.Series.PayloadDir = payloadDir
			}
		})

		application, err := app.New(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer application.Shutdown(context.Background())

		result, err := application.ConvertSeries(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(result.Records), result.Output)
		if result.Payload != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote upload payload to %s and %s\n",
				result.Payload.Payload, result.Payload.Preferences)
		}
		return nil
	}

	return cmd
}
