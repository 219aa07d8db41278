// Command dateshift moves the date column of a CSV file forward by whole
// calendar months, normalizing each date to the first of its month.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"indicatorcli/internal/app"
	"indicatorcli/internal/config"
)

const toolName = "dateshift"

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
		input  string
		output string
		months int
	)

	cmd := &cobra.Command{
		Use:   toolName,
		Short: "Shift the date column of a CSV file by whole months",
		Long: `dateshift copies a CSV file, replacing the YYYY-MM-DD date in the first
column of every data row with the first day of the month that many months
later. The header line is copied unchanged, as are rows whose first field is
empty. A date that does not match YYYY-MM-DD stops the run.`,
		Example: `  # Shift the default egg price export forward one month
  dateshift

  # Shift another file back by a quarter
  dateshift --in prices.csv --out prices-shifted.csv --months -3`,
		Version:       config.AppVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common := app.BindCommonFlags(cmd)
	cmd.Flags().StringVar(&input, "in", config.DefaultShiftInput, "input CSV file")
	cmd.Flags().StringVar(&output, "out", config.DefaultShiftOutput, "output CSV file")
	cmd.Flags().IntVar(&months, "months", config.DefaultShiftMonths, "number of months to shift by (negative shifts back)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts := common.Options(toolName, func(cfg *config.Config) {
			if common.Changed("in") {
				cfg.Shift.Input = input
			}
			if common.Changed("out") {
				cfg.Shift.Output = output
			}
			if common.Changed("months") {
				cfg.Shift.Months = months
			}
		})

		application, err := app.New(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer application.Shutdown(context.Background())

		result, err := application.ShiftDates(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Shifted dates written to %s\n", result.Output)
		return nil
	}

	return cmd
}
