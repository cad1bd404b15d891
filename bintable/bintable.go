package bintable

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	"github.com/wippyai/fits/internal/layout"
	"github.com/wippyai/fits/internal/positional"
	"github.com/wippyai/fits/tform"
)

// Column describes one binary table column.
type Column struct {
	Disp *tform.TDisp
	// DMin, DMax, LMin and LMax are None when the keyword is absent.
	DMin, DMax header.Value
	LMin, LMax header.Value
	Name       string
	Unit       string
	Form       tform.TForm
	Scale      float64
	Zero       float64
	Null       int64
	// Scaled reports whether TSCAL or TZERO was present.
	Scaled  bool
	HasNull bool
}

// BinTable is a decoded binary table. The raw buffer holds the fixed-width
// rows followed by the heap and is never modified after Decode.
type BinTable struct {
	Columns []Column
	raw     []byte
	layout  layout.Info
	// RowWidth is NAXIS1, the bytes per row.
	RowWidth int
	NRows    int
	// PCount is the byte count following the fixed rows (gap plus heap).
	PCount int
	// Heap is the byte offset of the heap from the start of the data.
	Heap int
}

// maxFields is the largest TFIELDS the standard allows.
const maxFields = 999

var prefix = []positional.Rule{
	positional.Exact("BITPIX", 8),
	positional.Exact("NAXIS", 2),
	positional.NonNegative("NAXIS1"),
	positional.NonNegative("NAXIS2"),
	positional.NonNegative("PCOUNT"),
	positional.Exact("GCOUNT", 1),
	positional.NonNegative("TFIELDS"),
}

// Decode validates the binary table keywords of h and captures the table
// bytes from data. It returns the table and the bytes it covers: the
// fixed rows plus PCOUNT.
func Decode(h *header.Header, data []byte) (*BinTable, int, error) {
	vals, err := positional.Check(errors.PhaseBinTable, h, 1, prefix)
	if err != nil {
		return nil, 0, err
	}
	t := &BinTable{
		RowWidth: int(vals[2]),
		NRows:    int(vals[3]),
		PCount:   int(vals[4]),
	}
	ncols := int(vals[6])
	if ncols > maxFields {
		return nil, 0, errors.UnexpectedValue(errors.PhaseBinTable, "TFIELDS", ncols, "<= 999")
	}

	// The table covers the fixed rows plus PCOUNT (gap and heap), which
	// equals THEAP plus the heap size when THEAP is present.
	fixed, ok := layout.Mul(t.RowWidth, t.NRows)
	if !ok {
		return nil, 0, errors.InvalidDataSize(errors.PhaseBinTable, math.MaxInt, len(data))
	}
	nbytes, ok := layout.Add(fixed, t.PCount)
	if !ok {
		return nil, 0, errors.InvalidDataSize(errors.PhaseBinTable, math.MaxInt, len(data))
	}

	t.Heap = fixed
	if v, ok := h.Value("THEAP"); ok {
		theap, isInt := v.Int()
		if !isInt {
			return nil, 0, errors.UnexpectedType(errors.PhaseBinTable, "THEAP", "integer")
		}
		if theap < int64(fixed) || theap > int64(nbytes) {
			return nil, 0, errors.UnexpectedValue(errors.PhaseBinTable, "THEAP", theap,
				fmt.Sprintf("%d..%d", fixed, nbytes))
		}
		t.Heap = int(theap)
	}

	t.Columns = make([]Column, ncols)
	forms := make([]tform.TForm, ncols)
	for i := range t.Columns {
		if t.Columns[i], err = readColumn(h, i+1); err != nil {
			return nil, 0, err
		}
		forms[i] = t.Columns[i].Form
	}
	if t.layout, ok = layout.Calculate(forms); !ok {
		return nil, 0, errors.InvalidDataSize(errors.PhaseBinTable, math.MaxInt, t.RowWidth)
	}
	if t.layout.Size > t.RowWidth {
		return nil, 0, errors.New(errors.PhaseBinTable, errors.KindUnexpectedKeywordValue).
			Keyword("NAXIS1").
			Index(3).
			Value(t.RowWidth).
			Expected(t.layout.Size).
			Detail("columns need %d bytes per row, NAXIS1 is %d", t.layout.Size, t.RowWidth).
			Build()
	}

	if len(data) < nbytes {
		return nil, 0, errors.InvalidDataSize(errors.PhaseBinTable, nbytes, len(data))
	}
	t.raw = bytes.Clone(data[:nbytes])
	return t, nbytes, nil
}

func readColumn(h *header.Header, n int) (Column, error) {
	col := Column{Scale: 1}

	name := fmt.Sprintf("TFORM%d", n)
	v, ok := h.Value(name)
	if !ok {
		return col, errors.MissingKeyword(errors.PhaseBinTable, name)
	}
	s, ok := v.Str()
	if !ok {
		return col, errors.UnexpectedType(errors.PhaseBinTable, name, "string")
	}
	form, err := tform.Parse(s)
	if err != nil {
		return col, err
	}
	col.Form = form

	col.Name, _ = h.ValueString(fmt.Sprintf("TTYPE%d", n))
	col.Unit, _ = h.ValueString(fmt.Sprintf("TUNIT%d", n))

	if s, ok := h.ValueString(fmt.Sprintf("TDISP%d", n)); ok {
		d, err := tform.ParseTDisp(s)
		if err != nil {
			return col, err
		}
		col.Disp = &d
	}

	scale, hasScale := h.ValueFloat(fmt.Sprintf("TSCAL%d", n))
	zero, hasZero := h.ValueFloat(fmt.Sprintf("TZERO%d", n))
	if hasScale {
		col.Scale = scale
	}
	col.Zero = zero
	col.Scaled = hasScale || hasZero

	if v, ok := h.Value(fmt.Sprintf("TNULL%d", n)); ok {
		if col.Null, col.HasNull = v.Int(); !col.HasNull {
			return col, errors.UnexpectedType(errors.PhaseBinTable, fmt.Sprintf("TNULL%d", n), "integer")
		}
	}

	col.DMin, _ = h.Value(fmt.Sprintf("TDMIN%d", n))
	col.DMax, _ = h.Value(fmt.Sprintf("TDMAX%d", n))
	col.LMin, _ = h.Value(fmt.Sprintf("TLMIN%d", n))
	col.LMax, _ = h.Value(fmt.Sprintf("TLMAX%d", n))
	return col, nil
}

// NumCols returns the column count.
func (t *BinTable) NumCols() int { return len(t.Columns) }

// Offset returns the byte offset of column col within a row, or -1 when
// col is out of range.
func (t *BinTable) Offset(col int) int {
	if col < 0 || col >= len(t.layout.Offsets) {
		return -1
	}
	return t.layout.Offsets[col]
}

// ColumnIndex returns the index of the column named name, ignoring case,
// or -1.
func (t *BinTable) ColumnIndex(name string) int {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return i
		}
	}
	return -1
}

// HeapBytes returns the heap area. The slice is shared with the table and
// must not be modified.
func (t *BinTable) HeapBytes() []byte {
	return t.raw[t.Heap:]
}
