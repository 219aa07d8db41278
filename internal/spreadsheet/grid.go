// Package spreadsheet loads one worksheet of an .xlsx workbook into a typed
// grid of cells. Cells keep the distinction between "no stored value",
// numbers and text, which excelize's string-valued row API flattens.
package spreadsheet

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "indicatorcli/internal/errors"
)

// Kind classifies a cell's stored value.
type Kind int

const (
	Absent Kind = iota
	Number
	Text
	Bool
	Date
	Error
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Number:
		return "number"
	case Text:
		return "text"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Cell is a single typed cell value. Number is set for Number and Bool
// cells; Text holds the stored text for every other non-absent kind.
type Cell struct {
	Kind   Kind
	Number float64
	Text   string
}

// NumberCell, TextCell and AbsentCell are shorthands for building grids.
func NumberCell(v float64) Cell { return Cell{Kind: Number, Number: v, Text: strconv.FormatFloat(v, 'f', -1, 64)} }
func TextCell(s string) Cell    { return Cell{Kind: Text, Text: s} }
func AbsentCell() Cell          { return Cell{} }

// Row is one spreadsheet row; index 0 is column A.
type Row []Cell

// At returns the cell at column index i, or an absent cell past the end.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return AbsentCell()
	}
	return r[i]
}

// Grid is the content of one worksheet. Rows[i] is spreadsheet row i+1.
type Grid struct {
	Sheet string
	Rows  []Row
}

// CellName returns the A1-style name of the zero-based (col, row) position.
func CellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return name
}

// Open reads sheet from the workbook at path. An empty sheet selects the
// workbook's active sheet.
func Open(path, sheet string) (*Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewMissingInputError(path, err)
	}
	defer f.Close()

	return Load(f, sheet)
}

// Load reads sheet (or the active sheet when empty) from an open workbook.
func Load(f *excelize.File, sheet string) (*Grid, error) {
	if sheet == "" {
		sheet = ActiveSheet(f)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewMissingInputError(fmt.Sprintf("%s[%s]", f.Path, sheet), err).
			WithContext("sheet", sheet)
	}

	grid := &Grid{Sheet: sheet, Rows: make([]Row, len(rows))}
	for r, values := range rows {
		row := make(Row, len(values))
		for c, value := range values {
			cellType, err := f.GetCellType(sheet, CellName(c, r))
			if err != nil {
				return nil, fmt.Errorf("failed to read cell type of %s: %w", CellName(c, r), err)
			}
			row[c] = classify(cellType, value)
		}
		grid.Rows[r] = row
	}

	slog.Debug("Loaded worksheet",
		slog.String("sheet", sheet),
		slog.Int("rows", len(grid.Rows)))

	return grid, nil
}

// ActiveSheet returns the name of the workbook's active sheet, falling back
// to the first sheet.
func ActiveSheet(f *excelize.File) string {
	if name := f.GetSheetName(f.GetActiveSheetIndex()); name != "" {
		return name
	}
	if sheets := f.GetSheetList(); len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}

// classify maps an excelize cell type and raw value to a Cell. Plain
// numeric cells carry no type attribute and report CellTypeUnset.
func classify(cellType excelize.CellType, value string) Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return Cell{Kind: Text, Text: value}
	case excelize.CellTypeBool:
		switch strings.ToUpper(value) {
		case "1", "TRUE":
			return Cell{Kind: Bool, Number: 1, Text: value}
		case "":
			return AbsentCell()
		default:
			return Cell{Kind: Bool, Number: 0, Text: value}
		}
	case excelize.CellTypeDate:
		return Cell{Kind: Date, Text: value}
	case excelize.CellTypeError:
		return Cell{Kind: Error, Text: value}
	}

	if value == "" {
		return AbsentCell()
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return Cell{Kind: Number, Number: v, Text: value}
	}
	return Cell{Kind: Text, Text: value}
}
