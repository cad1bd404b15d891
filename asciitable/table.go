package asciitable

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	"github.com/wippyai/fits/internal/layout"
	"github.com/wippyai/fits/internal/positional"
	"github.com/wippyai/fits/tform"
)

// Column describes one ASCII table field.
type Column struct {
	Disp *tform.TDisp
	// DMin, DMax, LMin and LMax are None when the keyword is absent.
	DMin, DMax header.Value
	LMin, LMax header.Value
	Name       string
	Unit       string
	Null       string
	Form       tform.ASCIIForm
	// Offset is the 0-based start of the field within a row.
	Offset int
	Scale  float64
	Zero   float64
	// Scaled reports whether TSCAL or TZERO was present.
	Scaled  bool
	HasNull bool
}

// Table is a decoded ASCII table.
type Table struct {
	Columns  []Column
	Rows     [][]Cell
	RowWidth int
}

// maxFields is the largest TFIELDS the standard allows.
const maxFields = 999

var prefix = []positional.Rule{
	positional.Exact("BITPIX", 8),
	positional.Exact("NAXIS", 2),
	positional.NonNegative("NAXIS1"),
	positional.NonNegative("NAXIS2"),
	positional.Exact("PCOUNT", 0),
	positional.Exact("GCOUNT", 1),
	positional.NonNegative("TFIELDS"),
}

// Decode validates the table keywords of h and decodes every row from
// data. It returns the table and NAXIS1*NAXIS2, the bytes it covers.
func Decode(h *header.Header, data []byte) (*Table, int, error) {
	vals, err := positional.Check(errors.PhaseTable, h, 1, prefix)
	if err != nil {
		return nil, 0, err
	}
	rowWidth, nrows, nfields := int(vals[2]), int(vals[3]), int(vals[6])
	if nfields > maxFields {
		return nil, 0, errors.UnexpectedValue(errors.PhaseTable, "TFIELDS", nfields, "<= 999")
	}

	cols := make([]Column, nfields)
	for i := range cols {
		if cols[i], err = readColumn(h, i+1, rowWidth); err != nil {
			return nil, 0, err
		}
	}
	if err := defaultWidths(h, cols, rowWidth); err != nil {
		return nil, 0, err
	}

	nbytes, ok := layout.Mul(nrows, rowWidth)
	if !ok {
		return nil, 0, errors.New(errors.PhaseTable, errors.KindGeneric).
			Value(len(data)).
			Detail("table size %d x %d overflows", rowWidth, nrows).
			Build()
	}
	if rowWidth == 0 && nrows > 0 {
		return nil, 0, errors.Generic(errors.PhaseTable, "%d rows of zero width", nrows)
	}
	if len(data) < nbytes {
		return nil, 0, errors.New(errors.PhaseTable, errors.KindGeneric).
			Value(len(data)).
			Expected(nbytes).
			Detail("table data is %d bytes, want %d", len(data), nbytes).
			Build()
	}

	t := &Table{Columns: cols, RowWidth: rowWidth, Rows: make([][]Cell, nrows)}
	for r := range nrows {
		row := data[r*rowWidth : (r+1)*rowWidth]
		cells := make([]Cell, nfields)
		for c := range cols {
			cell, err := cols[c].parse(row)
			if err != nil {
				return nil, 0, errors.New(errors.PhaseTable, errors.KindGeneric).
					Keyword(cols[c].Name).
					Index(r).
					Cause(err).
					Detail("row %d column %d", r, c).
					Build()
			}
			cells[c] = cell
		}
		t.Rows[r] = cells
	}
	return t, nbytes, nil
}

func readColumn(h *header.Header, n, rowWidth int) (Column, error) {
	col := Column{Scale: 1}

	tbcol := fmt.Sprintf("TBCOL%d", n)
	v, ok := h.Value(tbcol)
	if !ok {
		return col, errors.MissingKeyword(errors.PhaseTable, tbcol)
	}
	start, ok := v.Int()
	if !ok {
		return col, errors.UnexpectedType(errors.PhaseTable, tbcol, "integer")
	}
	if start < 1 || int(start) > rowWidth {
		return col, errors.UnexpectedValue(errors.PhaseTable, tbcol, start, fmt.Sprintf("1..%d", rowWidth))
	}
	col.Offset = int(start) - 1

	ttype := fmt.Sprintf("TTYPE%d", n)
	v, ok = h.Value(ttype)
	if !ok {
		return col, errors.MissingKeyword(errors.PhaseTable, ttype)
	}
	if col.Name, ok = v.Str(); !ok {
		return col, errors.UnexpectedType(errors.PhaseTable, ttype, "string")
	}

	if s, present, err := optString(h, fmt.Sprintf("TFORM%d", n)); err != nil {
		return col, err
	} else if present {
		if col.Form, err = tform.ParseASCII(s); err != nil {
			return col, err
		}
		if col.Offset+col.Form.Width > rowWidth {
			return col, errors.Generic(errors.PhaseTable, "column %d (%s) ends past row width %d", n, s, rowWidth)
		}
	}

	if s, present, err := optString(h, fmt.Sprintf("TDISP%d", n)); err != nil {
		return col, err
	} else if present {
		d, err := tform.ParseTDisp(s)
		if err != nil {
			return col, err
		}
		col.Disp = &d
	}

	var err error
	if col.Unit, _, err = optString(h, fmt.Sprintf("TUNIT%d", n)); err != nil {
		return col, err
	}
	if col.Null, col.HasNull, err = optString(h, fmt.Sprintf("TNULL%d", n)); err != nil {
		return col, err
	}

	scale, hasScale, err := optFloat(h, fmt.Sprintf("TSCAL%d", n))
	if err != nil {
		return col, err
	}
	zero, hasZero, err := optFloat(h, fmt.Sprintf("TZERO%d", n))
	if err != nil {
		return col, err
	}
	if hasScale {
		col.Scale = scale
	}
	col.Zero = zero
	col.Scaled = hasScale || hasZero

	col.DMin, _ = h.Value(fmt.Sprintf("TDMIN%d", n))
	col.DMax, _ = h.Value(fmt.Sprintf("TDMAX%d", n))
	col.LMin, _ = h.Value(fmt.Sprintf("TLMIN%d", n))
	col.LMax, _ = h.Value(fmt.Sprintf("TLMAX%d", n))
	return col, nil
}

// defaultWidths gives columns without TFORM a character field running to
// the next column start or the end of the row.
func defaultWidths(h *header.Header, cols []Column, rowWidth int) error {
	for i := range cols {
		if cols[i].Form.Width > 0 {
			continue
		}
		end := rowWidth
		for j := range cols {
			if cols[j].Offset > cols[i].Offset && cols[j].Offset < end {
				end = cols[j].Offset
			}
		}
		if end <= cols[i].Offset {
			return errors.MissingKeyword(errors.PhaseTable, fmt.Sprintf("TFORM%d", i+1))
		}
		cols[i].Form = tform.ASCIIForm{Kind: tform.ASCIIChar, Width: end - cols[i].Offset}
	}
	return nil
}

func optString(h *header.Header, name string) (string, bool, error) {
	v, ok := h.Value(name)
	if !ok {
		return "", false, nil
	}
	s, ok := v.Str()
	if !ok {
		return "", false, errors.UnexpectedType(errors.PhaseTable, name, "string")
	}
	return s, true, nil
}

func optFloat(h *header.Header, name string) (float64, bool, error) {
	v, ok := h.Value(name)
	if !ok {
		return 0, false, nil
	}
	f, ok := v.Float()
	if !ok {
		return 0, false, errors.UnexpectedType(errors.PhaseTable, name, "number")
	}
	return f, true, nil
}

// parse decodes this column's field from one row.
func (c *Column) parse(row []byte) (Cell, error) {
	raw := header.DecodeText(row[c.Offset : c.Offset+c.Form.Width])
	text := strings.TrimSpace(raw)

	if c.HasNull && text == strings.TrimSpace(c.Null) {
		return Cell{Kind: NullCell}, nil
	}

	switch c.Form.Kind {
	case tform.ASCIIChar:
		return Cell{Kind: StringCell, Str: strings.TrimRight(raw, " ")}, nil
	case tform.ASCIIInt:
		if text == "" {
			return Cell{Kind: NullCell}, nil
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(text, "+"), 10, 64)
		if err != nil {
			return Cell{}, err
		}
		if c.Scaled {
			n = int64(float64(n)*c.Scale + c.Zero)
		}
		return Cell{Kind: IntCell, Int: n}, nil
	default:
		if text == "" {
			return Cell{Kind: NullCell}, nil
		}
		f, err := parseReal(text, c.Form.Decimals)
		if err != nil {
			return Cell{}, err
		}
		if c.Scaled {
			f = f*c.Scale + c.Zero
		}
		return Cell{Kind: FloatCell, Float: f}, nil
	}
}

// parseReal parses a Fortran-style real. A field without a decimal point
// has decimals implied digits after the point.
func parseReal(text string, decimals int) (float64, error) {
	text = strings.ReplaceAll(header.NormalizeExponent(text), " ", "")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if !strings.Contains(text, ".") && decimals > 0 {
		f /= math.Pow(10, float64(decimals))
	}
	return f, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.Columns) }

// At returns the cell at (row, col).
func (t *Table) At(row, col int) (Cell, error) {
	if row < 0 || row >= len(t.Rows) {
		return Cell{}, errors.InvalidRow(errors.PhaseTable, row, len(t.Rows))
	}
	if col < 0 || col >= len(t.Columns) {
		return Cell{}, errors.InvalidColumn(errors.PhaseTable, col, len(t.Columns))
	}
	return t.Rows[row][col], nil
}

// ColumnIndex returns the index of the column named name, ignoring case,
// or -1.
func (t *Table) ColumnIndex(name string) int {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return i
		}
	}
	return -1
}
