// Package dateshift rewrites the date column of a CSV file by a whole number
// of calendar months.
//
// The first line is the header and is copied byte for byte. In every
// following row the first field, when present, must be a YYYY-MM-DD date;
// it is replaced by the first day of the shifted month. Other fields are
// copied unchanged and rows keep their field count. Rows with an empty first
// field pass through untouched, and blank lines are reproduced.
package dateshift

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "indicatorcli/internal/errors"
	"indicatorcli/internal/exporter"
	"indicatorcli/internal/period"
)

// Stats summarizes a Transform pass.
type Stats struct {
	Rows          int
	Shifted       int
	PassedThrough int
	BlankLines    int
}

// Shifter moves dates by Months calendar months. Negative values shift
// backwards.
type Shifter struct {
	Months int
	Logger *slog.Logger
}

// NewShifter returns a Shifter logging to logger, or to the default logger
// when nil.
func NewShifter(months int, logger *slog.Logger) *Shifter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shifter{Months: months, Logger: logger}
}

// ShiftDate parses value as a strict YYYY-MM-DD date and returns the first
// day of the month Months later, in the same layout.
func (s *Shifter) ShiftDate(value string) (string, error) {
	m, err := period.ParseDate(value)
	if err != nil {
		return "", apperrors.NewDateParseError(value, err)
	}
	shifted, err := m.AddMonths(s.Months)
	if err != nil {
		return "", apperrors.NewDateParseError(value, err)
	}
	return shifted.FirstDayString(), nil
}

// ShiftRow returns row with its first field shifted. Rows that are empty or
// whose first field is empty are returned as given. The input slice is not
// modified.
func (s *Shifter) ShiftRow(row []string) ([]string, error) {
	if !hasDate(row) {
		return row, nil
	}

	shifted, err := s.ShiftDate(row[0])
	if err != nil {
		return nil, err
	}

	out := make([]string, len(row))
	copy(out, row)
	out[0] = shifted
	return out, nil
}

func hasDate(row []string) bool {
	return len(row) > 0 && row[0] != ""
}

// Transform copies r to w, shifting the date column of every data row. On a
// row that cannot be shifted the rows written so far are flushed to w and
// the error is returned with the offending line number.
func (s *Shifter) Transform(ctx context.Context, r io.Reader, w io.Writer) (stats Stats, err error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, span := otel.Tracer("indicatorcli/dateshift").Start(ctx, "dateshift.Transform")
	defer func() {
		span.SetAttributes(
			attribute.Int("rows", stats.Rows),
			attribute.Int("shifted", stats.Shifted),
			attribute.Int("passed_through", stats.PassedThrough))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transform failed")
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("months", s.Months))

	br := bufio.NewReader(r)
	header, err := br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return stats, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) == 0 {
		logger.WarnContext(ctx, "Input is empty, nothing to shift")
		return stats, nil
	}

	out := exporter.NewStreamWriter(w, exporter.StreamOptions{
		UseCRLF: bytes.HasSuffix(header, []byte("\r\n")),
	})
	defer func() {
		if flushErr := out.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("failed to write output: %w", flushErr)
		}
	}()

	if err := out.WriteRaw(header); err != nil {
		return stats, err
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// The reader numbers lines from 1 after the header, so physical line
	// numbers are one higher. next is the reader line expected next when no
	// blank lines intervene.
	next := 1
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read row: %w", err)
		}

		start, _ := reader.FieldPos(0)
		if blanks := start - next; blanks > 0 {
			if err := out.WriteBlankLines(blanks); err != nil {
				return stats, err
			}
			stats.BlankLines += blanks
		}
		last := len(row) - 1
		end, _ := reader.FieldPos(last)
		next = end + strings.Count(row[last], "\n") + 1

		line := start + 1
		shifted, err := s.ShiftRow(row)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				appErr.WithContext("line", line)
			}
			logger.ErrorContext(ctx, "Cannot shift row",
				slog.Int("line", line),
				slog.String("value", row[0]),
				slog.String("error", err.Error()))
			return stats, fmt.Errorf("line %d: %w", line, err)
		}

		if err := out.WriteRecord(shifted); err != nil {
			return stats, err
		}
		stats.Rows++
		if hasDate(row) {
			stats.Shifted++
		} else {
			stats.PassedThrough++
			logger.DebugContext(ctx, "Passing row through unchanged", slog.Int("line", line))
		}
	}

	logger.InfoContext(ctx, "Shifted date column",
		slog.Int("months", s.Months),
		slog.Int("rows", stats.Rows),
		slog.Int("shifted", stats.Shifted),
		slog.Int("passed_through", stats.PassedThrough),
		slog.Int("blank_lines", stats.BlankLines))

	return stats, nil
}
