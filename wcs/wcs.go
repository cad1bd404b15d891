package wcs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
)

// maxAxes is the largest axis count the standard allows.
const maxAxes = 999

// WCS holds the coordinate keywords of one HDU. Slices are indexed by
// axis number minus one and stop at the first missing axis.
type WCS struct {
	CD    *Matrix
	PC    *Matrix
	CType []string
	CUnit []string
	CRVal []float64
	CRPix []float64
	CDelt []float64
	// Axes is WCSAXES, or 0 when the keyword is absent.
	Axes int
}

// Matrix is a dense row-major matrix.
type Matrix struct {
	Data       []float64
	Rows, Cols int
}

// Identity returns an n x m matrix with ones on the diagonal.
func Identity(n, m int) *Matrix {
	mat := &Matrix{Rows: n, Cols: m, Data: make([]float64, n*m)}
	for i := 0; i < n && i < m; i++ {
		mat.Data[i*m+i] = 1
	}
	return mat
}

// At returns element (i, j), zero-based.
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set stores v at (i, j), zero-based.
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// FromHeader collects the WCS keywords of h. It returns nil, nil when h
// carries none of them.
func FromHeader(h *header.Header) (*WCS, error) {
	w := &WCS{}
	if v, ok := h.Value("WCSAXES"); ok {
		n, isInt := v.Int()
		if !isInt {
			return nil, errors.UnexpectedType(errors.PhaseHeader, "WCSAXES", "integer")
		}
		if n < 0 || n > maxAxes {
			return nil, errors.UnexpectedValue(errors.PhaseHeader, "WCSAXES", n, "0..999")
		}
		w.Axes = int(n)
	}

	w.CUnit = stringSeq(h, "CUNIT")
	w.CType = stringSeq(h, "CTYPE")
	w.CDelt = floatSeq(h, "CDELT")
	w.CRVal = floatSeq(h, "CRVAL")
	w.CRPix = floatSeq(h, "CRPIX")

	n := w.Axes
	if n == 0 {
		n = max(len(w.CRPix), len(w.CRVal), len(w.CDelt), len(w.CType))
	}
	w.CD = matrix(h, "CD", n)
	w.PC = matrix(h, "PC", n)

	if w.Axes == 0 && w.CD == nil && w.PC == nil && len(w.CUnit) == 0 && len(w.CType) == 0 &&
		len(w.CDelt) == 0 && len(w.CRVal) == 0 && len(w.CRPix) == 0 {
		return nil, nil
	}
	return w, nil
}

func stringSeq(h *header.Header, prefix string) []string {
	var out []string
	for i := 1; ; i++ {
		s, ok := h.ValueString(fmt.Sprintf("%s%d", prefix, i))
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

func floatSeq(h *header.Header, prefix string) []float64 {
	var out []float64
	for i := 1; ; i++ {
		f, ok := h.ValueFloat(fmt.Sprintf("%s%d", prefix, i))
		if !ok {
			return out
		}
		out = append(out, f)
	}
}

// matrix reads prefixI_J for an n x n matrix starting from identity.
// It returns nil when no element is present. The first occurrence of a
// keyword wins.
func matrix(h *header.Header, prefix string, n int) *Matrix {
	var (
		m    *Matrix
		seen = map[[2]int]bool{}
	)
	for _, kw := range h.All() {
		i, j, ok := matrixIndex(kw.Name, prefix)
		if !ok || i > n || j > n || seen[[2]int{i, j}] {
			continue
		}
		seen[[2]int{i, j}] = true
		f, ok := kw.Value.Float()
		if !ok {
			continue
		}
		if m == nil {
			m = Identity(n, n)
		}
		m.Set(i-1, j-1, f)
	}
	return m
}

// matrixIndex splits a keyword such as CD1_2 into its 1-based indices.
func matrixIndex(name, prefix string) (i, j int, ok bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return 0, 0, false
	}
	is, js, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, false
	}
	i, erri := strconv.Atoi(is)
	j, errj := strconv.Atoi(js)
	if erri != nil || errj != nil || i < 1 || j < 1 || strconv.Itoa(i) != is || strconv.Itoa(j) != js {
		return 0, 0, false
	}
	return i, j, true
}
