package app

import (
	"context"
	"log/slog"
	"os"

	"indicatorcli/internal/dateshift"
	apperrors "indicatorcli/internal/errors"
	"indicatorcli/internal/exporter"
)

const shiftPipeline = "dateshift"

// ShiftResult describes a finished date shift.
type ShiftResult struct {
	Output string
	Stats  dateshift.Stats
}

// ShiftDates rewrites the configured CSV file's date column into the
// configured output. A failed run leaves the rows written before the
// failure in the output file.
func (a *Application) ShiftDates(ctx context.Context) (*ShiftResult, error) {
	cfg := a.Config.Shift
	result := &ShiftResult{Output: cfg.Output}

	err := a.run(ctx, shiftPipeline, func(ctx context.Context) (err error) {
		if err := a.Validator.ValidateCSVFile(cfg.Input); err != nil {
			return err
		}
		if err := a.Validator.ValidateDistinct(cfg.Input, cfg.Output); err != nil {
			return err
		}
		if err := a.Validator.ValidateOutputFile(cfg.Output); err != nil {
			return err
		}

		in, err := os.Open(cfg.Input)
		if err != nil {
			return apperrors.NewMissingInputError(cfg.Input, err)
		}
		defer closeQuietly(a.Logger, cfg.Input, in)

		out, err := exporter.CreateFile(cfg.Output)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := out.Close(); closeErr != nil && err == nil {
				err = apperrors.NewStorageError("failed to close output", closeErr).
					WithContext("path", cfg.Output)
			}
		}()

		a.Logger.InfoContext(ctx, "Shifting dates",
			slog.String("input", cfg.Input),
			slog.String("output", cfg.Output),
			slog.Int("months", cfg.Months))

		shifter := dateshift.NewShifter(cfg.Months, a.Logger)
		stats, err := shifter.Transform(ctx, in, out)
		result.Stats = stats
		a.recordShiftStats(ctx, stats)
		return err
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

func (a *Application) recordShiftStats(ctx context.Context, stats dateshift.Stats) {
	m := a.Telemetry.Metrics
	attrs := pipelineAttr(shiftPipeline)
	m.RowsScanned.Add(ctx, int64(stats.Rows+stats.BlankLines), attrs)
	m.RowsShifted.Add(ctx, int64(stats.Shifted), attrs)
	m.RowsPassedThrough.Add(ctx, int64(stats.PassedThrough), attrs)
}
