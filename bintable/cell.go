package bintable

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	fitsbin "github.com/wippyai/fits/internal/binary"
	"github.com/wippyai/fits/tform"
)

// Cell is one decoded binary table value.
//
// Value holds, by Type:
//
//	Logical, Bit   bool or []bool
//	UnsignedByte   uint8 or []uint8
//	Int16..Int64   int16, int32, int64 or their slices
//	Float32/64     float32, float64 or their slices
//	Complex32/64   complex64, complex128 or their slices
//	Char           string
//	VarArray32/64  VarArray
//
// Logical bytes are 'T' or 'F'; a zero byte in a scalar logical cell is
// null, and anything but 'T' reads as false. A nil Value is a null cell.
type Cell struct {
	Value any
	Type  tform.Type
	// Array reports whether Value is a slice.
	Array bool
}

// IsNull reports whether the cell carries no value.
func (c Cell) IsNull() bool { return c.Value == nil }

func (c Cell) String() string {
	if c.Value == nil {
		return ""
	}
	return fmt.Sprint(c.Value)
}

// VarArray is a heap descriptor read from a P or Q column. It is resolved
// with BinTable.Resolve.
type VarArray struct {
	Elem   tform.Type
	Count  int64
	Offset int64
}

func (v VarArray) String() string {
	return fmt.Sprintf("%s[%d]@%d", v.Elem, v.Count, v.Offset)
}

// At decodes the cell at (row, col).
func (t *BinTable) At(row, col int) (Cell, error) {
	if row < 0 || row >= t.NRows {
		return Cell{}, errors.InvalidRow(errors.PhaseBinTable, row, t.NRows)
	}
	if col < 0 || col >= len(t.Columns) {
		return Cell{}, errors.InvalidColumn(errors.PhaseBinTable, col, len(t.Columns))
	}
	c := &t.Columns[col]

	start, end := t.layout.Span(col)
	base := row * t.RowWidth
	r := fitsbin.NewReader(t.raw[base : base+end])
	if err := r.Reset(start); err != nil {
		return Cell{}, t.readError(c, row, err)
	}
	cell, err := readField(r, c.Form.Type, c.Form.Repeat, c.Form.Repeat != 1)
	if err != nil {
		return Cell{}, t.readError(c, row, r.WrapError(c.Name, err))
	}
	if vd, ok := cell.Value.(VarArray); ok {
		vd.Elem = c.Form.Elem
		cell.Value = vd
	}
	if c.HasNull && !cell.Array && isNull(cell.Value, c.Null) {
		cell.Value = nil
	}
	return cell, nil
}

// Row decodes every cell of row.
func (t *BinTable) Row(row int) ([]Cell, error) {
	cells := make([]Cell, len(t.Columns))
	for col := range cells {
		var err error
		if cells[col], err = t.At(row, col); err != nil {
			return nil, err
		}
	}
	return cells, nil
}

// Resolve reads the heap array a descriptor points to. The result is
// always an array cell, or a string for character data.
func (t *BinTable) Resolve(v VarArray) (Cell, error) {
	if v.Count < 0 || v.Offset < 0 {
		return Cell{}, errors.New(errors.PhaseBinTable, errors.KindGeneric).
			Value(v.String()).
			Detail("negative heap descriptor %s", v).
			Build()
	}
	size := int64(v.Elem.Size())
	if size == 0 || v.Elem.IsVarArray() {
		return Cell{}, errors.New(errors.PhaseBinTable, errors.KindGeneric).
			Value(v.String()).
			Detail("heap descriptor %s has no element type", v).
			Build()
	}

	// Bound the count by the bytes left in the buffer before sizing
	// anything from it.
	avail := int64(len(t.raw) - t.Heap)
	if v.Offset <= avail {
		avail -= v.Offset
	} else {
		avail = -1
	}
	limit := avail / size
	if v.Elem == tform.Bit {
		limit = avail * 8
	}
	if avail < 0 || v.Count > limit {
		return Cell{}, errors.New(errors.PhaseBinTable, errors.KindInvalidDataSize).
			Value(v.String()).
			Expected(max(avail, 0)).
			Detail("heap array %s runs past the end of the heap (%d bytes)", v, len(t.raw)-t.Heap).
			Build()
	}

	r := fitsbin.NewReader(t.raw)
	if err := r.Reset(t.Heap + int(v.Offset)); err != nil {
		return Cell{}, errors.Wrap(errors.PhaseBinTable, errors.KindInvalidDataSize, err, "heap seek")
	}
	cell, err := readField(r, v.Elem, int(v.Count), true)
	if err != nil {
		return Cell{}, errors.Wrap(errors.PhaseBinTable, errors.KindInvalidDataSize, r.WrapError("heap", err), v.String())
	}
	return cell, nil
}

// Physical decodes the cell at (row, col) and applies TSCAL and TZERO to
// numeric values, yielding float64 or []float64. Columns without scaling
// and non-numeric cells are returned as stored.
func (t *BinTable) Physical(row, col int) (Cell, error) {
	cell, err := t.At(row, col)
	if err != nil || cell.IsNull() {
		return cell, err
	}
	c := &t.Columns[col]
	if !c.Scaled {
		return cell, nil
	}
	if !cell.Array {
		if f, ok := toFloat64(cell.Value); ok {
			cell.Value = f*c.Scale + c.Zero
		}
		return cell, nil
	}
	if out, ok := scaleSlice(cell.Value, c.Scale, c.Zero); ok {
		cell.Value = out
	}
	return cell, nil
}

func (t *BinTable) readError(c *Column, row int, err error) error {
	return errors.New(errors.PhaseBinTable, errors.KindInvalidDataSize).
		Keyword(c.Name).
		Index(row).
		Cause(err).
		Detail("reading %s column", c.Form).
		Build()
}

// readField decodes repeat elements of typ. array forces slice results
// for numeric and logical types.
func readField(r *fitsbin.Reader, typ tform.Type, repeat int, array bool) (Cell, error) {
	cell := Cell{Type: typ, Array: array}
	var err error
	switch typ {
	case tform.Char:
		cell.Array = false
		var b []byte
		if b, err = r.ReadBytes(repeat); err == nil {
			cell.Value = decodeChars(b)
		}
	case tform.Logical:
		if !array {
			var b byte
			if b, err = r.ReadByte(); err == nil && b != 0 {
				cell.Value = b == 'T'
			}
			break
		}
		cell.Value, err = readElems(r, repeat, true, func() (bool, error) {
			b, err := r.ReadByte()
			return b == 'T', err
		})
	case tform.Bit:
		cell.Value, err = readBits(r, repeat, array)
	case tform.UnsignedByte:
		cell.Value, err = readElems(r, repeat, array, r.ReadByte)
	case tform.Int16:
		cell.Value, err = readElems(r, repeat, array, r.ReadI16)
	case tform.Int32:
		cell.Value, err = readElems(r, repeat, array, r.ReadI32)
	case tform.Int64:
		cell.Value, err = readElems(r, repeat, array, r.ReadI64)
	case tform.Float32:
		cell.Value, err = readElems(r, repeat, array, r.ReadF32)
	case tform.Float64:
		cell.Value, err = readElems(r, repeat, array, r.ReadF64)
	case tform.Complex32:
		cell.Value, err = readElems(r, repeat, array, func() (complex64, error) {
			re, err := r.ReadF32()
			if err != nil {
				return 0, err
			}
			im, err := r.ReadF32()
			return complex(re, im), err
		})
	case tform.Complex64:
		cell.Value, err = readElems(r, repeat, array, func() (complex128, error) {
			re, err := r.ReadF64()
			if err != nil {
				return 0, err
			}
			im, err := r.ReadF64()
			return complex(re, im), err
		})
	case tform.VarArray32:
		cell.Array = false
		if repeat == 0 {
			return Cell{Type: typ}, nil
		}
		var n, off int32
		if n, err = r.ReadI32(); err == nil {
			off, err = r.ReadI32()
		}
		cell.Value = VarArray{Count: int64(n), Offset: int64(off)}
	case tform.VarArray64:
		cell.Array = false
		if repeat == 0 {
			return Cell{Type: typ}, nil
		}
		var n, off int64
		if n, err = r.ReadI64(); err == nil {
			off, err = r.ReadI64()
		}
		cell.Value = VarArray{Count: n, Offset: off}
	default:
		return Cell{}, fmt.Errorf("unsupported element type %s", typ)
	}
	if err != nil {
		return Cell{}, err
	}
	return cell, nil
}

// readElems reads n values with read, returning a scalar unless array is
// set.
func readElems[T any](r *fitsbin.Reader, n int, array bool, read func() (T, error)) (any, error) {
	if !array {
		return read()
	}
	out := make([]T, n)
	for i := range out {
		v, err := read()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// readBits unpacks ceil(n/8) bytes least significant bit first. A scalar
// bit field reads its whole byte as a boolean.
func readBits(r *fitsbin.Reader, n int, array bool) (any, error) {
	b, err := r.ReadBytes((n + 7) / 8)
	if err != nil {
		return nil, err
	}
	if !array {
		return len(b) > 0 && b[0] != 0, nil
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = b[i/8]&(1<<(i%8)) != 0
	}
	return out, nil
}

func decodeChars(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(header.DecodeText(b), " ")
}

func isNull(v any, null int64) bool {
	switch n := v.(type) {
	case uint8:
		return int64(n) == null
	case int16:
		return int64(n) == null
	case int32:
		return int64(n) == null
	case int64:
		return n == null
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func scaleSlice(v any, scale, zero float64) ([]float64, bool) {
	switch s := v.(type) {
	case []uint8:
		return scaleEach(s, scale, zero), true
	case []int16:
		return scaleEach(s, scale, zero), true
	case []int32:
		return scaleEach(s, scale, zero), true
	case []int64:
		return scaleEach(s, scale, zero), true
	case []float32:
		return scaleEach(s, scale, zero), true
	case []float64:
		return scaleEach(s, scale, zero), true
	}
	return nil, false
}

func scaleEach[T uint8 | int16 | int32 | int64 | float32 | float64](s []T, scale, zero float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)*scale + zero
	}
	return out
}
