package layout

import (
	"math"
	"testing"

	"github.com/wippyai/fits/tform"
)

func TestCalculate(t *testing.T) {
	forms := []tform.TForm{
		{Type: tform.Int32, Repeat: 3},
		{Type: tform.Bit, Repeat: 16},
		{Type: tform.Char, Repeat: 5},
		{Type: tform.VarArray32, Repeat: 1, Elem: tform.Float32},
		{Type: tform.Float64, Repeat: 1},
	}

	info, ok := Calculate(forms)
	if !ok {
		t.Fatal("Calculate overflowed")
	}

	wantOffs := []int{0, 12, 14, 19, 27}
	for i, want := range wantOffs {
		if info.Offsets[i] != want {
			t.Errorf("offset[%d]: got %d, want %d", i, info.Offsets[i], want)
		}
	}
	if info.Size != 35 {
		t.Errorf("size: got %d, want 35", info.Size)
	}

	start, end := info.Span(1)
	if start != 12 || end != 14 {
		t.Errorf("span(1): got [%d,%d), want [12,14)", start, end)
	}
}

func TestCalculateEmpty(t *testing.T) {
	info, _ := Calculate(nil)
	if info.Size != 0 || len(info.Offsets) != 0 {
		t.Errorf("empty layout: got %+v", info)
	}
}

func TestCalculateZeroRepeat(t *testing.T) {
	info, _ := Calculate([]tform.TForm{
		{Type: tform.Int16, Repeat: 0},
		{Type: tform.Int16, Repeat: 1},
	})
	if info.Offsets[1] != 0 || info.Size != 2 {
		t.Errorf("zero repeat: got %+v", info)
	}
}

func TestCalculateOverflow(t *testing.T) {
	_, ok := Calculate([]tform.TForm{
		{Type: tform.Char, Repeat: math.MaxInt - 4},
		{Type: tform.Int64, Repeat: 1},
	})
	if ok {
		t.Error("row width overflow not reported")
	}
}

func TestSizeArithmetic(t *testing.T) {
	tests := []struct {
		name    string
		factors []int
		want    int
		ok      bool
	}{
		{"empty", nil, 1, true},
		{"plain", []int{4, 3, 2}, 24, true},
		{"zero", []int{0, math.MaxInt}, 0, true},
		{"negative", []int{2, -1}, 0, false},
		{"overflow", []int{1 << 62, 2}, 0, false},
		{"overflow late", []int{1 << 31, 1 << 31, 4}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Size(tt.factors...)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Size(%v) = %d, %v; want %d, %v", tt.factors, got, ok, tt.want, tt.ok)
			}
		})
	}

	if _, ok := Add(math.MaxInt, 1); ok {
		t.Error("Add overflow not reported")
	}
	if n, ok := Add(2, 3); n != 5 || !ok {
		t.Errorf("Add(2, 3) = %d, %v", n, ok)
	}
}
