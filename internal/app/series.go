package app

import (
	"context"
	"log/slog"

	"indicatorcli/internal/exporter"
	"indicatorcli/internal/series"
	"indicatorcli/internal/spreadsheet"
)

const seriesPipeline = "series"

// SeriesResult describes a finished conversion.
type SeriesResult struct {
	Output  string
	Records []series.Record
	Stats   series.Stats
	// Payload is set when an upload payload was written.
	Payload *exporter.PayloadFiles
}

// ConvertSeries reads the configured workbook, extracts its monthly series
// and writes the JSON record list. The output file is only written when
// every row converted.
func (a *Application) ConvertSeries(ctx context.Context) (*SeriesResult, error) {
	cfg := a.Config.Series
	result := &SeriesResult{Output: cfg.Output}

	err := a.run(ctx, seriesPipeline, func(ctx context.Context) error {
		if err := a.Validator.ValidateExcelFile(cfg.Input); err != nil {
			return err
		}
		if err := a.Validator.ValidateOutputFile(cfg.Output); err != nil {
			return err
		}

		grid, err := spreadsheet.Open(cfg.Input, cfg.Sheet)
		if err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "Reading worksheet",
			slog.String("input", cfg.Input),
			slog.String("sheet", grid.Sheet),
			slog.Int("rows", len(grid.Rows)))

		records, stats, err := series.Extract(ctx, grid, a.Logger)
		result.Stats = stats
		a.recordSeriesStats(ctx, stats)
		if err != nil {
			return err
		}
		result.Records = records

		if err := exporter.WriteRecordsJSON(cfg.Output, records); err != nil {
			return err
		}

		if cfg.PayloadDir != "" {
			files, err := exporter.WriteUploadPayload(cfg.PayloadDir,
				exporter.IndicatorFromConfig(cfg.Indicator), records)
			if err != nil {
				return err
			}
			result.Payload = &files
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

func (a *Application) recordSeriesStats(ctx context.Context, stats series.Stats) {
	m := a.Telemetry.Metrics
	attrs := pipelineAttr(seriesPipeline)
	m.RowsScanned.Add(ctx, int64(stats.RowsScanned), attrs)
	m.RowsSkipped.Add(ctx, int64(stats.RowsSkipped), attrs)
	m.RecordsEmitted.Add(ctx, int64(stats.RecordsEmitted), attrs)
}
