package bintable_test

import (
	stderrors "errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/wippyai/fits/bintable"
	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	"github.com/wippyai/fits/internal/fitstest"
	"github.com/wippyai/fits/tform"
)

const (
	rowWidth = 46
	nrows    = 2
	heapSize = 12
)

var columns = []struct{ name, form string }{
	{"FLAG", "1L"},
	{"BITS", "10X"},
	{"COUNT", "1I"},
	{"PAIR", "2J"},
	{"NAME", "4A"},
	{"FLUX", "1E"},
	{"TIME", "1D"},
	{"Z", "1C"},
	{"SPECTRUM", "1PE(2)"},
	{"BYTE", "1B"},
}

func tableCards(pcount int64, extra ...string) []string {
	cards := []string{
		fitstest.Str("XTENSION", "BINTABLE"),
		fitstest.Int("BITPIX", 8),
		fitstest.Int("NAXIS", 2),
		fitstest.Int("NAXIS1", rowWidth),
		fitstest.Int("NAXIS2", nrows),
		fitstest.Int("PCOUNT", pcount),
		fitstest.Int("GCOUNT", 1),
		fitstest.Int("TFIELDS", int64(len(columns))),
	}
	for i, c := range columns {
		n := strconv.Itoa(i + 1)
		cards = append(cards, fitstest.Str("TTYPE"+n, c.name), fitstest.Str("TFORM"+n, c.form))
	}
	cards = append(cards,
		fitstest.Int("TNULL3", -1),
		fitstest.Float("TSCAL3", 2),
		fitstest.Float("TZERO3", 1),
	)
	return append(cards, extra...)
}

func rowData() []byte {
	var b []byte
	b = append(b, fitstest.BigEndian(
		uint8('T'), uint8(0b101), uint8(0b10), int16(7), int32(-3), int32(4))...)
	b = append(b, 'a', 'b', 0, 'z')
	b = append(b, fitstest.BigEndian(
		float32(0.5), 1e10, float32(1), float32(-1), int32(2), int32(0), uint8(200))...)

	b = append(b, fitstest.BigEndian(
		uint8('F'), uint8(0), uint8(0), int16(-1), int32(0), int32(0))...)
	b = append(b, 'c', 'd', ' ', ' ')
	b = append(b, fitstest.BigEndian(
		float32(0), 0.0, float32(0), float32(0), int32(1), int32(8), uint8(0))...)
	return b
}

func heapData() []byte {
	return fitstest.BigEndian(float32(1.5), float32(2.5), float32(3))
}

func headerOf(t *testing.T, cards []string) *header.Header {
	t.Helper()
	h, _, err := header.Scan(fitstest.Header(cards...))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return h
}

func decode(t *testing.T, extra ...string) *bintable.BinTable {
	t.Helper()
	data := append(rowData(), heapData()...)
	tbl, n, err := bintable.Decode(headerOf(t, tableCards(heapSize, extra...)), data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(data) {
		t.Errorf("consumed %d, want %d", n, len(data))
	}
	return tbl
}

func TestDecode_Layout(t *testing.T) {
	tbl := decode(t)

	if tbl.NumCols() != len(columns) || tbl.NRows != nrows || tbl.RowWidth != rowWidth {
		t.Fatalf("got %d cols, %d rows, width %d", tbl.NumCols(), tbl.NRows, tbl.RowWidth)
	}
	if tbl.Heap != rowWidth*nrows {
		t.Errorf("Heap = %d, want %d", tbl.Heap, rowWidth*nrows)
	}
	wantOffsets := []int{0, 1, 3, 5, 13, 17, 21, 29, 37, 45}
	for i, want := range wantOffsets {
		if got := tbl.Offset(i); got != want {
			t.Errorf("Offset(%d) = %d, want %d", i, got, want)
		}
	}
	for _, col := range []int{-1, len(columns)} {
		if got := tbl.Offset(col); got != -1 {
			t.Errorf("Offset(%d) = %d, want -1", col, got)
		}
	}
	if f := tbl.Columns[8].Form; f.Type != tform.VarArray32 || f.Elem != tform.Float32 || f.MaxLen != 2 {
		t.Errorf("SPECTRUM form = %+v", f)
	}
}

func TestAt(t *testing.T) {
	tbl := decode(t)

	tests := []struct {
		row, col int
		want     any
		array    bool
	}{
		{0, 0, true, false},
		{0, 1, []bool{true, false, true, false, false, false, false, false, false, true}, true},
		{0, 2, int16(7), false},
		{0, 3, []int32{-3, 4}, true},
		{0, 4, "ab", false},
		{0, 5, float32(0.5), false},
		{0, 6, 1e10, false},
		{0, 7, complex64(complex(1, -1)), false},
		{0, 8, bintable.VarArray{Elem: tform.Float32, Count: 2, Offset: 0}, false},
		{0, 9, uint8(200), false},
		{1, 0, false, false},
		{1, 2, nil, false},
		{1, 4, "cd", false},
		{1, 8, bintable.VarArray{Elem: tform.Float32, Count: 1, Offset: 8}, false},
	}

	for _, tt := range tests {
		got, err := tbl.At(tt.row, tt.col)
		if err != nil {
			t.Fatalf("At(%d,%d): %v", tt.row, tt.col, err)
		}
		if !reflect.DeepEqual(got.Value, tt.want) {
			t.Errorf("At(%d,%d) = %#v, want %#v", tt.row, tt.col, got.Value, tt.want)
		}
		if got.Array != tt.array {
			t.Errorf("At(%d,%d).Array = %v, want %v", tt.row, tt.col, got.Array, tt.array)
		}
		if got.Type != tbl.Columns[tt.col].Form.Type {
			t.Errorf("At(%d,%d).Type = %s", tt.row, tt.col, got.Type)
		}
	}
}

func TestAt_OutOfRange(t *testing.T) {
	tbl := decode(t)

	_, err := tbl.At(0, len(columns))
	var fe *errors.Error
	if !stderrors.As(err, &fe) || fe.Kind != errors.KindInvalidColumn {
		t.Fatalf("At(0,ncols) error = %v, want invalid column", err)
	}
	if fe.Index != len(columns) || fe.Expected != len(columns) {
		t.Errorf("error carries col %d ncols %v", fe.Index, fe.Expected)
	}

	for _, rc := range [][2]int{{nrows, 0}, {-1, 0}} {
		if _, err := tbl.At(rc[0], rc[1]); !errors.IsKind(err, errors.KindInvalidRow) {
			t.Errorf("At(%d,%d) error = %v", rc[0], rc[1], err)
		}
	}
	if _, err := tbl.At(0, -1); !errors.IsKind(err, errors.KindInvalidColumn) {
		t.Errorf("At(0,-1) error = %v", err)
	}
	if _, err := tbl.Row(nrows); !errors.IsKind(err, errors.KindInvalidRow) {
		t.Errorf("Row(%d) error = %v", nrows, err)
	}
}

func TestRow(t *testing.T) {
	cells, err := decode(t).Row(1)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if len(cells) != len(columns) {
		t.Fatalf("got %d cells", len(cells))
	}
	if !cells[2].IsNull() || cells[4].String() != "cd" {
		t.Errorf("cells = %+v", cells)
	}
}

func TestResolve(t *testing.T) {
	tbl := decode(t)

	for row, want := range [][]float32{{1.5, 2.5}, {3}} {
		c, err := tbl.At(row, 8)
		if err != nil {
			t.Fatalf("At(%d,8): %v", row, err)
		}
		got, err := tbl.Resolve(c.Value.(bintable.VarArray))
		if err != nil {
			t.Fatalf("Resolve row %d: %v", row, err)
		}
		if !got.Array || !reflect.DeepEqual(got.Value, want) {
			t.Errorf("Resolve row %d = %+v, want %v", row, got, want)
		}
	}

	if len(tbl.HeapBytes()) != heapSize {
		t.Errorf("HeapBytes length = %d", len(tbl.HeapBytes()))
	}
}

func TestResolve_Errors(t *testing.T) {
	tbl := decode(t)

	tests := []struct {
		name string
		v    bintable.VarArray
		kind errors.Kind
	}{
		{"past heap end", bintable.VarArray{Elem: tform.Float32, Count: 2, Offset: 8}, errors.KindInvalidDataSize},
		{"negative count", bintable.VarArray{Elem: tform.Float32, Count: -1}, errors.KindGeneric},
		{"negative offset", bintable.VarArray{Elem: tform.Int16, Count: 1, Offset: -4}, errors.KindGeneric},
		{"count overflows size", bintable.VarArray{Elem: tform.Int32, Count: 1 << 62}, errors.KindInvalidDataSize},
		{"offset past heap", bintable.VarArray{Elem: tform.Int16, Count: 1, Offset: 1 << 62}, errors.KindInvalidDataSize},
		{"bits past heap", bintable.VarArray{Elem: tform.Bit, Count: heapSize*8 + 1}, errors.KindInvalidDataSize},
		{"no element type", bintable.VarArray{Count: 1}, errors.KindGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tbl.Resolve(tt.v); !errors.IsKind(err, tt.kind) {
				t.Errorf("error = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestResolve_HeapGap(t *testing.T) {
	const gap = 4
	data := append(rowData(), make([]byte, gap)...)
	data = append(data, heapData()...)

	cards := tableCards(heapSize+gap, fitstest.Int("THEAP", rowWidth*nrows+gap))
	tbl, n, err := bintable.Decode(headerOf(t, cards), data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(data) {
		t.Errorf("consumed %d, want %d", n, len(data))
	}
	got, err := tbl.Resolve(bintable.VarArray{Elem: tform.Float32, Count: 1, Offset: 8})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(got.Value, []float32{3}) {
		t.Errorf("Resolve = %v", got.Value)
	}
}

func TestPhysical(t *testing.T) {
	tbl := decode(t)

	c, err := tbl.Physical(0, 2)
	if err != nil {
		t.Fatalf("Physical: %v", err)
	}
	if c.Value != 15.0 {
		t.Errorf("Physical(0,2) = %v, want 15", c.Value)
	}
	if c, _ := tbl.Physical(1, 2); !c.IsNull() {
		t.Errorf("null cell scaled to %v", c.Value)
	}
	if c, _ := tbl.Physical(0, 5); c.Value != float32(0.5) {
		t.Errorf("unscaled column = %#v", c.Value)
	}

	scaled := decode(t, fitstest.Float("TZERO4", 10))
	c, err = scaled.Physical(0, 3)
	if err != nil {
		t.Fatalf("Physical: %v", err)
	}
	if !reflect.DeepEqual(c.Value, []float64{7, 14}) {
		t.Errorf("Physical(0,3) = %v", c.Value)
	}
}

func TestPhysical_IdentityScaleIsIdempotent(t *testing.T) {
	plain := decode(t)
	scaled := decode(t, fitstest.Float("TSCAL6", 1), fitstest.Float("TZERO6", 0))
	for row := range nrows {
		a, _ := plain.Physical(row, 5)
		b, _ := scaled.Physical(row, 5)
		fa, _ := a.Value.(float32)
		if b.Value != float64(fa) {
			t.Errorf("row %d: %v vs %v", row, a.Value, b.Value)
		}
	}
}

func TestAt_ScalarBitReadsWholeByte(t *testing.T) {
	cards := []string{
		fitstest.Str("XTENSION", "BINTABLE"),
		fitstest.Int("BITPIX", 8),
		fitstest.Int("NAXIS", 2),
		fitstest.Int("NAXIS1", 1),
		fitstest.Int("NAXIS2", 2),
		fitstest.Int("PCOUNT", 0),
		fitstest.Int("GCOUNT", 1),
		fitstest.Int("TFIELDS", 1),
		fitstest.Str("TFORM1", "1X"),
	}
	tbl, _, err := bintable.Decode(headerOf(t, cards), []byte{0x80, 0x00})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for row, want := range []bool{true, false} {
		c, err := tbl.At(row, 0)
		if err != nil {
			t.Fatalf("At: %v", err)
		}
		if c.Value != want {
			t.Errorf("row %d = %v, want %v", row, c.Value, want)
		}
	}
}

func TestAt_Logical(t *testing.T) {
	cards := []string{
		fitstest.Str("XTENSION", "BINTABLE"),
		fitstest.Int("BITPIX", 8),
		fitstest.Int("NAXIS", 2),
		fitstest.Int("NAXIS1", 4),
		fitstest.Int("NAXIS2", 3),
		fitstest.Int("PCOUNT", 0),
		fitstest.Int("GCOUNT", 1),
		fitstest.Int("TFIELDS", 2),
		fitstest.Str("TFORM1", "1L"),
		fitstest.Str("TFORM2", "3L"),
	}
	data := []byte{
		'T', 'T', 'F', 0,
		'F', 'F', 'T', 'X',
		0, 0, 0, 0,
	}
	tbl, _, err := bintable.Decode(headerOf(t, cards), data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	tests := []struct {
		scalar any
		array  []bool
	}{
		{true, []bool{true, false, false}},
		{false, []bool{false, true, false}},
		{nil, []bool{false, false, false}},
	}
	for row, tt := range tests {
		c, err := tbl.At(row, 0)
		if err != nil {
			t.Fatalf("At(%d,0): %v", row, err)
		}
		if c.Value != tt.scalar {
			t.Errorf("At(%d,0) = %#v, want %#v", row, c.Value, tt.scalar)
		}
		c, err = tbl.At(row, 1)
		if err != nil {
			t.Fatalf("At(%d,1): %v", row, err)
		}
		if !reflect.DeepEqual(c.Value, tt.array) {
			t.Errorf("At(%d,1) = %v, want %v", row, c.Value, tt.array)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	data := append(rowData(), heapData()...)

	replace := func(prefix, card string) []string {
		out := tableCards(heapSize)
		for i, c := range out {
			if strings.HasPrefix(c, prefix) {
				out[i] = card
			}
		}
		return out
	}
	without := func(prefix string) []string {
		var out []string
		for _, c := range tableCards(heapSize) {
			if !strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
		return out
	}
	swapped := tableCards(heapSize)
	swapped[3], swapped[4] = swapped[4], swapped[3]

	tests := []struct {
		name  string
		cards []string
		data  []byte
		kind  errors.Kind
	}{
		{"short data", tableCards(heapSize), data[:len(data)-1], errors.KindInvalidDataSize},
		{"missing TFORM", without("TFORM3 "), data, errors.KindMissingKeyword},
		{"narrow NAXIS1", replace("NAXIS1", fitstest.Int("NAXIS1", 40)), data, errors.KindUnexpectedKeywordValue},
		{"bad TFORM", replace("TFORM2 ", fitstest.Str("TFORM2", "3Z")), data, errors.KindInvalidTForm},
		{"gcount 2", replace("GCOUNT", fitstest.Int("GCOUNT", 2)), data, errors.KindUnexpectedKeywordValue},
		{"string TNULL", replace("TNULL3", fitstest.Str("TNULL3", "x")), data, errors.KindUnexpectedValueType},
		{"THEAP before rows", tableCards(heapSize, fitstest.Int("THEAP", 10)), data, errors.KindUnexpectedKeywordValue},
		{"THEAP past data", tableCards(heapSize, fitstest.Int("THEAP", 200)), data, errors.KindUnexpectedKeywordValue},
		{"swapped axes", swapped, data, errors.KindInvalidPlacement},
		{"bad TDISP", tableCards(heapSize, fitstest.Str("TDISP1", "W3")), data, errors.KindInvalidTDisp},
		{"row size overflow", replace("NAXIS1", fitstest.Int("NAXIS1", 1<<62)), data, errors.KindInvalidDataSize},
		{"row count overflow", replace("NAXIS2", fitstest.Int("NAXIS2", 1<<62)), data, errors.KindInvalidDataSize},
		{"heap size overflow", replace("PCOUNT", fitstest.Int("PCOUNT", math.MaxInt64)), data, errors.KindInvalidDataSize},
		{"repeat overflow", replace("TFORM4 ", fitstest.Str("TFORM4", "2305843009213693952J")), data, errors.KindInvalidTForm},
		{"row layout overflow", replace("TFORM5 ", fitstest.Str("TFORM5", "9223372036854775807A")), data, errors.KindInvalidDataSize},
		{"too many fields", replace("TFIELDS", fitstest.Int("TFIELDS", 1000)), data, errors.KindUnexpectedKeywordValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := bintable.Decode(headerOf(t, tt.cards), tt.data)
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("error = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestColumnIndex(t *testing.T) {
	tbl := decode(t)
	if got := tbl.ColumnIndex("flux"); got != 5 {
		t.Errorf("ColumnIndex(flux) = %d", got)
	}
	if tbl.ColumnIndex("missing") != -1 {
		t.Error("unknown column should be -1")
	}
}
