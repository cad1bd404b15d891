package asciitable_test

import (
	"strings"
	"testing"

	"github.com/wippyai/fits/asciitable"
	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	"github.com/wippyai/fits/internal/fitstest"
)

const rowWidth = 20

var rows = []string{
	"alpha      42  3.50 ",
	"beta      -991.5D+01",
	"gamma        250    ",
}

func tableCards(nrows int, extra ...string) []string {
	cards := []string{
		fitstest.Str("XTENSION", "TABLE"),
		fitstest.Int("BITPIX", 8),
		fitstest.Int("NAXIS", 2),
		fitstest.Int("NAXIS1", rowWidth),
		fitstest.Int("NAXIS2", int64(nrows)),
		fitstest.Int("PCOUNT", 0),
		fitstest.Int("GCOUNT", 1),
		fitstest.Int("TFIELDS", 3),
		fitstest.Int("TBCOL1", 1),
		fitstest.Str("TTYPE1", "NAME"),
		fitstest.Str("TFORM1", "A8"),
		fitstest.Int("TBCOL2", 9),
		fitstest.Str("TTYPE2", "COUNT"),
		fitstest.Str("TFORM2", "I5"),
		fitstest.Str("TNULL2", "-99"),
		fitstest.Int("TBCOL3", 14),
		fitstest.Str("TTYPE3", "FLUX"),
		fitstest.Str("TFORM3", "F7.2"),
		fitstest.Str("TUNIT3", "Jy"),
	}
	return append(cards, extra...)
}

func scan(t *testing.T, cards []string) *header.Header {
	t.Helper()
	h, _, err := header.Scan(fitstest.Header(cards...))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return h
}

func decode(t *testing.T, extra ...string) *asciitable.Table {
	t.Helper()
	tbl, n, err := asciitable.Decode(scan(t, tableCards(len(rows), extra...)), []byte(strings.Join(rows, "")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(rows)*rowWidth {
		t.Errorf("consumed %d, want %d", n, len(rows)*rowWidth)
	}
	return tbl
}

func TestDecode(t *testing.T) {
	tbl := decode(t)

	if tbl.NumRows() != 3 || tbl.NumCols() != 3 {
		t.Fatalf("got %d rows, %d cols", tbl.NumRows(), tbl.NumCols())
	}
	if tbl.Columns[2].Unit != "Jy" || tbl.Columns[1].Offset != 8 {
		t.Errorf("column metadata = %+v", tbl.Columns)
	}

	tests := []struct {
		row, col int
		want     asciitable.Cell
	}{
		{0, 0, asciitable.Cell{Kind: asciitable.StringCell, Str: "alpha"}},
		{0, 1, asciitable.Cell{Kind: asciitable.IntCell, Int: 42}},
		{0, 2, asciitable.Cell{Kind: asciitable.FloatCell, Float: 3.5}},
		{1, 1, asciitable.Cell{Kind: asciitable.NullCell}},
		{1, 2, asciitable.Cell{Kind: asciitable.FloatCell, Float: 15}},
		{2, 1, asciitable.Cell{Kind: asciitable.NullCell}},
		{2, 2, asciitable.Cell{Kind: asciitable.FloatCell, Float: 2.5}},
	}
	for _, tt := range tests {
		got, err := tbl.At(tt.row, tt.col)
		if err != nil {
			t.Fatalf("At(%d,%d): %v", tt.row, tt.col, err)
		}
		if got != tt.want {
			t.Errorf("At(%d,%d) = %+v, want %+v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestDecode_ScaleZero(t *testing.T) {
	tbl := decode(t, fitstest.Float("TSCAL2", 2), fitstest.Float("TZERO2", 1), fitstest.Float("TZERO3", -1))

	if c, _ := tbl.At(0, 1); c.Kind != asciitable.IntCell || c.Int != 85 {
		t.Errorf("scaled int = %+v, want 85", c)
	}
	if c, _ := tbl.At(0, 2); c.Float != 2.5 {
		t.Errorf("zero-shifted float = %+v, want 2.5", c)
	}
}

func TestDecode_IdentityScaleIsIdempotent(t *testing.T) {
	plain := decode(t)
	scaled := decode(t,
		fitstest.Float("TSCAL2", 1), fitstest.Float("TZERO2", 0),
		fitstest.Float("TSCAL3", 1), fitstest.Float("TZERO3", 0),
	)
	for r := range plain.Rows {
		for c := range plain.Columns {
			a, _ := plain.At(r, c)
			b, _ := scaled.At(r, c)
			if a != b {
				t.Errorf("(%d,%d): %+v != %+v", r, c, a, b)
			}
		}
	}
}

func TestDecode_NullSentinelWinsOverNumber(t *testing.T) {
	tbl := decode(t, fitstest.Str("TNULL3", "3.50"))
	if c, _ := tbl.At(0, 2); c.Kind != asciitable.NullCell {
		t.Errorf("field equal to TNULL = %+v, want null", c)
	}
	if c, _ := tbl.At(1, 2); c.Kind != asciitable.FloatCell {
		t.Errorf("other field = %+v, want float", c)
	}
}

func TestDecode_MissingTFormIsCharacter(t *testing.T) {
	cards := tableCards(len(rows))
	var kept []string
	for _, c := range cards {
		if !strings.HasPrefix(c, "TFORM3") {
			kept = append(kept, c)
		}
	}
	tbl, _, err := asciitable.Decode(scan(t, kept), []byte(strings.Join(rows, "")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	c, _ := tbl.At(1, 2)
	if c.Kind != asciitable.StringCell || c.Str != "1.5D+01" {
		t.Errorf("At(1,2) = %+v", c)
	}
}

func TestDecode_Errors(t *testing.T) {
	data := []byte(strings.Join(rows, ""))

	without := func(prefix string) []string {
		var out []string
		for _, c := range tableCards(len(rows)) {
			if !strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
		return out
	}
	replace := func(prefix, card string) []string {
		out := tableCards(len(rows))
		for i, c := range out {
			if strings.HasPrefix(c, prefix) {
				out[i] = card
			}
		}
		return out
	}

	tests := []struct {
		name  string
		cards []string
		data  []byte
		kind  errors.Kind
	}{
		{"short data", tableCards(len(rows)), data[:len(data)-1], errors.KindGeneric},
		{"missing TBCOL", without("TBCOL2"), data, errors.KindMissingKeyword},
		{"missing TTYPE", without("TTYPE1"), data, errors.KindMissingKeyword},
		{"nonzero PCOUNT", replace("PCOUNT", fitstest.Int("PCOUNT", 4)), data, errors.KindUnexpectedKeywordValue},
		{"bitpix 16", replace("BITPIX", fitstest.Int("BITPIX", 16)), data, errors.KindUnexpectedKeywordValue},
		{"bad TFORM", replace("TFORM2", fitstest.Str("TFORM2", "Q5")), data, errors.KindInvalidTForm},
		{"bad TDISP", append(tableCards(len(rows)), fitstest.Str("TDISP1", "W3")), data, errors.KindInvalidTDisp},
		{"TBCOL out of row", replace("TBCOL3", fitstest.Int("TBCOL3", 40)), data, errors.KindUnexpectedKeywordValue},
		{"field past row end", replace("TFORM3", fitstest.Str("TFORM3", "F9.2")), data, errors.KindGeneric},
		{"string TSCAL", append(tableCards(len(rows)), fitstest.Str("TSCAL2", "x")), data, errors.KindUnexpectedValueType},
		{"unparseable int", replace("TFORM1", fitstest.Str("TFORM1", "I8")), data, errors.KindGeneric},
		{"row width overflow", replace("NAXIS1", fitstest.Int("NAXIS1", 1<<62)), data, errors.KindGeneric},
		{"row count overflow", replace("NAXIS2", fitstest.Int("NAXIS2", 1<<62)), data, errors.KindGeneric},
		{"too many fields", replace("TFIELDS", fitstest.Int("TFIELDS", 1000)), data, errors.KindUnexpectedKeywordValue},
		{"zero width rows", []string{
			fitstest.Str("XTENSION", "TABLE"),
			fitstest.Int("BITPIX", 8),
			fitstest.Int("NAXIS", 2),
			fitstest.Int("NAXIS1", 0),
			fitstest.Int("NAXIS2", 1<<62),
			fitstest.Int("PCOUNT", 0),
			fitstest.Int("GCOUNT", 1),
			fitstest.Int("TFIELDS", 0),
		}, nil, errors.KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := asciitable.Decode(scan(t, tt.cards), tt.data)
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("error = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestAt_Bounds(t *testing.T) {
	tbl := decode(t)
	if _, err := tbl.At(3, 0); !errors.IsKind(err, errors.KindInvalidRow) {
		t.Errorf("At(3,0) error = %v", err)
	}
	if _, err := tbl.At(0, 3); !errors.IsKind(err, errors.KindInvalidColumn) {
		t.Errorf("At(0,3) error = %v", err)
	}
	if _, err := tbl.At(-1, 0); !errors.IsKind(err, errors.KindInvalidRow) {
		t.Errorf("At(-1,0) error = %v", err)
	}
}

func TestColumnIndex(t *testing.T) {
	tbl := decode(t)
	if tbl.ColumnIndex("flux") != 2 {
		t.Errorf("ColumnIndex(flux) = %d", tbl.ColumnIndex("flux"))
	}
	if tbl.ColumnIndex("nope") != -1 {
		t.Error("unknown column should be -1")
	}
}

func TestCell_Interface(t *testing.T) {
	if (asciitable.Cell{Kind: asciitable.NullCell}).Interface() != nil {
		t.Error("null cell should be nil")
	}
	if (asciitable.Cell{Kind: asciitable.IntCell, Int: 3}).Interface() != int64(3) {
		t.Error("int cell mismatch")
	}
	if (asciitable.Cell{Kind: asciitable.FloatCell, Float: 0.5}).String() != "0.5" {
		t.Error("float cell string mismatch")
	}
}
