// Package series extracts a monthly time series from a year-by-month
// worksheet: one row per year, the year in column A and January through
// December in columns B to M.
//
// Rows whose first cell is not a plausible year are ignored, so titles,
// header lines, notes and annual-average footers need no special handling.
// Each non-empty monthly cell becomes one Record dated on the first of its
// month. Records keep source order; a year appearing on two rows yields
// two sets of records.
package series

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "indicatorcli/internal/errors"
	"indicatorcli/internal/period"
	"indicatorcli/internal/spreadsheet"
)

const (
	// MinYear and MaxYear are exclusive bounds on the year column.
	MinYear = 1900
	MaxYear = 2100

	monthsPerYear = 12
)

// Record is one dated observation.
type Record struct {
	Date  string `json:"date"`
	Value Value  `json:"value"`
}

// Value is a float64 that serializes as the shortest round-tripping
// decimal. Whole numbers keep a decimal point (100 is written as 100.0);
// magnitudes below 1e-4 or from 1e16 up use exponent form (1e-07, 1e+16).
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported value %v", f)
	}

	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil {
		return nil, fmt.Errorf("unexpected float format %q: %w", e, err)
	}
	if f != 0 && (exp < -4 || exp >= 16) {
		return []byte(e), nil
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}

// RowResult is the outcome of scanning one worksheet row.
type RowResult struct {
	// Row is the zero-based row index in the grid.
	Row     int
	Year    int
	Skipped bool
	Records []Record
	Err     error
}

// Stats summarizes an extraction pass.
type Stats struct {
	RowsScanned    int
	YearRows       int
	RowsSkipped    int
	RecordsEmitted int
	DuplicateYears []int
}

// YearOf reports the year a row is labeled with. ok is false unless the
// first cell is a number strictly between MinYear and MaxYear.
func YearOf(row spreadsheet.Row) (year int, ok bool) {
	first := row.At(0)
	if first.Kind != spreadsheet.Number {
		return 0, false
	}
	if !(first.Number > MinYear && first.Number < MaxYear) {
		return 0, false
	}
	return int(first.Number), true
}

// IsYearRow reports whether the row carries monthly data.
func IsYearRow(row spreadsheet.Row) bool {
	_, ok := YearOf(row)
	return ok
}

// ScanRow converts one row. Non-year rows are reported as skipped; the
// first unconvertible monthly cell ends the row with an error.
func ScanRow(index int, row spreadsheet.Row) RowResult {
	res := RowResult{Row: index}

	year, ok := YearOf(row)
	if !ok {
		res.Skipped = true
		return res
	}
	res.Year = year

	for m := 0; m < monthsPerYear; m++ {
		cell := row.At(m + 1)
		if cell.Kind == spreadsheet.Absent {
			continue
		}

		value, err := ToFloat(cell)
		if err != nil {
			res.Err = apperrors.NewConversionError(spreadsheet.CellName(m+1, index), cell.Text, err).
				WithContext("row", index+1).
				WithContext("kind", cell.Kind.String())
			res.Records = nil
			return res
		}

		res.Records = append(res.Records, Record{
			Date:  period.Make(year, m+1).FirstDayString(),
			Value: Value(value),
		})
	}

	return res
}

// ToFloat converts a non-absent cell to a number. Numeric text is accepted
// after trimming spaces; dates, error values and other text are not.
func ToFloat(cell spreadsheet.Cell) (float64, error) {
	var (
		v   float64
		err error
	)
	switch cell.Kind {
	case spreadsheet.Number, spreadsheet.Bool:
		v = cell.Number
	case spreadsheet.Text:
		v, err = strconv.ParseFloat(strings.TrimSpace(cell.Text), 64)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%s cell is not numeric", cell.Kind)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %v", v)
	}
	return v, nil
}

// Extract scans every row of grid in order and returns all records. It
// stops at the first row that fails and returns that row's error; no
// records are returned in that case.
func Extract(ctx context.Context, grid *spreadsheet.Grid, logger *slog.Logger) ([]Record, Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, span := otel.Tracer("indicatorcli/series").Start(ctx, "series.Extract")
	defer span.End()
	span.SetAttributes(attribute.String("sheet", grid.Sheet), attribute.Int("rows", len(grid.Rows)))

	records := make([]Record, 0, len(grid.Rows)*monthsPerYear)
	var stats Stats
	seen := make(map[int]int)

	for i, row := range grid.Rows {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.RowsScanned++

		res := ScanRow(i, row)
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, "conversion failed")
			return nil, stats, res.Err
		}
		if res.Skipped {
			stats.RowsSkipped++
			logger.DebugContext(ctx, "Skipping non-year row", slog.Int("row", i+1))
			continue
		}

		stats.YearRows++
		if first, dup := seen[res.Year]; dup {
			stats.DuplicateYears = append(stats.DuplicateYears, res.Year)
			logger.WarnContext(ctx, "Year appears on more than one row",
				slog.Int("year", res.Year),
				slog.Int("first_row", first+1),
				slog.Int("row", i+1))
		} else {
			seen[res.Year] = i
		}

		records = append(records, res.Records...)
		stats.RecordsEmitted += len(res.Records)
	}

	span.SetAttributes(
		attribute.Int("year_rows", stats.YearRows),
		attribute.Int("records", stats.RecordsEmitted))

	logger.InfoContext(ctx, "Extracted monthly series",
		slog.String("sheet", grid.Sheet),
		slog.Int("rows_scanned", stats.RowsScanned),
		slog.Int("year_rows", stats.YearRows),
		slog.Int("records", stats.RecordsEmitted))

	return records, stats, nil
}
