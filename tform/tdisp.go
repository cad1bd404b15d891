package tform

import (
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/fits/errors"
)

// DispKind is the display format letter of a TDISP value.
type DispKind uint8

const (
	DispChar DispKind = iota + 1
	DispLogical
	DispInt
	DispBinary
	DispOctal
	DispHex
	DispFixed
	DispGeneral
	DispExp
	DispDouble
	DispEngineering
	DispScientific
)

var dispCodes = [...]string{
	DispChar:        "A",
	DispLogical:     "L",
	DispInt:         "I",
	DispBinary:      "B",
	DispOctal:       "O",
	DispHex:         "Z",
	DispFixed:       "F",
	DispGeneral:     "G",
	DispExp:         "E",
	DispDouble:      "D",
	DispEngineering: "EN",
	DispScientific:  "ES",
}

func (k DispKind) String() string {
	if k > 0 && int(k) < len(dispCodes) {
		return dispCodes[k]
	}
	return "?"
}

// TDisp is a parsed TDISP display format.
//
// Digits is the minimum digit count m of the integer forms and the
// fraction digits d of the real forms. Exp is the exponent digit count of
// the E, D and G forms; EN and ES always use 3.
type TDisp struct {
	Kind   DispKind
	Width  int
	Digits int
	Exp    int
}

var errTDisp = stderrors.New("malformed display format")

var widthDispKinds = map[byte]DispKind{'I': DispInt, 'B': DispBinary, 'O': DispOctal, 'Z': DispHex, 'F': DispFixed}

var intVerbs = map[DispKind]string{DispInt: "d", DispBinary: "b", DispOctal: "o", DispHex: "X"}

// ParseTDisp decodes a TDISP string such as "I6", "F8.3", "E15.7E3" or
// "ES12.4".
func ParseTDisp(s string) (TDisp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TDisp{}, errors.InvalidTDisp(s, errEmpty)
	}

	var (
		d   TDisp
		err error
	)
	rest := s[1:]
	switch s[0] {
	case 'A', 'L':
		d.Kind = DispChar
		if s[0] == 'L' {
			d.Kind = DispLogical
		}
		d.Width, err = strconv.Atoi(rest)
	case 'I', 'B', 'O', 'Z', 'F':
		d.Kind = widthDispKinds[s[0]]
		d.Width, d.Digits, err = widthDigits(rest)
	case 'G', 'D':
		d.Kind = DispGeneral
		if s[0] == 'D' {
			d.Kind = DispDouble
		}
		d.Width, d.Digits, d.Exp, err = widthDigitsExp(rest)
	case 'E':
		switch {
		case strings.HasPrefix(rest, "N"), strings.HasPrefix(rest, "S"):
			d.Kind = DispEngineering
			if rest[0] == 'S' {
				d.Kind = DispScientific
			}
			d.Width, d.Digits, err = widthDigits(rest[1:])
			d.Exp = 3
		default:
			d.Kind = DispExp
			d.Width, d.Digits, d.Exp, err = widthDigitsExp(rest)
		}
	default:
		return TDisp{}, errors.InvalidTDisp(s, errTDisp)
	}
	if err != nil {
		return TDisp{}, errors.InvalidTDisp(s, err)
	}
	if d.Width < 0 {
		return TDisp{}, errors.InvalidTDisp(s, errTDisp)
	}
	return d, nil
}

// widthDigits parses "w" or "w.m".
func widthDigits(s string) (w, m int, err error) {
	ws, ms, ok := strings.Cut(s, ".")
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, err
	}
	if ok {
		if m, err = strconv.Atoi(ms); err != nil {
			return 0, 0, err
		}
	}
	return w, m, nil
}

// widthDigitsExp parses "w", "w.d" or "w.dEe".
func widthDigitsExp(s string) (w, d, e int, err error) {
	ws, rest, ok := strings.Cut(s, ".")
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, 0, err
	}
	if !ok {
		return w, 0, 0, nil
	}
	ds, es, hasExp := strings.Cut(rest, "E")
	if d, err = strconv.Atoi(ds); err != nil {
		return 0, 0, 0, err
	}
	if hasExp {
		if e, err = strconv.Atoi(es); err != nil {
			return 0, 0, 0, err
		}
	}
	return w, d, e, nil
}

func (d TDisp) String() string {
	s := d.Kind.String() + strconv.Itoa(d.Width)
	switch d.Kind {
	case DispChar, DispLogical:
		return s
	}
	if d.Digits > 0 {
		s += "." + strconv.Itoa(d.Digits)
	}
	if d.Exp > 0 && d.Kind != DispEngineering && d.Kind != DispScientific {
		s += "E" + strconv.Itoa(d.Exp)
	}
	return s
}

// Format renders v according to the display format. Values that cannot
// be shown in the format fall back to fmt's default rendering; output
// wider than Width is replaced by asterisks.
func (d TDisp) Format(v any) string {
	var s string
	switch d.Kind {
	case DispChar:
		s = fmt.Sprint(v)
		if d.Width > 0 && len(s) > d.Width {
			s = s[:d.Width]
		}
		return fmt.Sprintf("%-*s", d.Width, s)
	case DispLogical:
		b, ok := v.(bool)
		if !ok {
			return fmt.Sprint(v)
		}
		s = "F"
		if b {
			s = "T"
		}
		return fmt.Sprintf("%*s", d.Width, s)
	case DispInt, DispBinary, DispOctal, DispHex:
		n, ok := toInt64(v)
		if !ok {
			return fmt.Sprint(v)
		}
		s = d.formatInt(n)
	case DispFixed, DispGeneral, DispExp, DispDouble, DispEngineering, DispScientific:
		f, ok := toFloat64(v)
		if !ok {
			return fmt.Sprint(v)
		}
		s = d.formatFloat(f)
	default:
		return fmt.Sprint(v)
	}
	if d.Width > 0 && len(s) > d.Width {
		return strings.Repeat("*", d.Width)
	}
	return s
}

func (d TDisp) formatInt(n int64) string {
	verb := intVerbs[d.Kind]
	// A zero precision would print nothing for the value 0.
	if d.Digits > 0 {
		return fmt.Sprintf("%*.*"+verb, d.Width, d.Digits, n)
	}
	return fmt.Sprintf("%*"+verb, d.Width, n)
}

func (d TDisp) formatFloat(f float64) string {
	switch d.Kind {
	case DispFixed:
		return fmt.Sprintf("%*.*f", d.Width, d.Digits, f)
	case DispGeneral:
		return fmt.Sprintf("%*.*G", d.Width, max(d.Digits, 1), f)
	case DispExp, DispScientific:
		return fmt.Sprintf("%*.*E", d.Width, d.Digits, f)
	case DispDouble:
		return strings.Replace(fmt.Sprintf("%*.*E", d.Width, d.Digits, f), "E", "D", 1)
	case DispEngineering:
		return fmt.Sprintf("%*s", d.Width, engineering(f, d.Digits))
	}
	return strconv.FormatFloat(f, 'G', -1, 64)
}

// engineering formats f with an exponent that is a multiple of three.
func engineering(f float64, digits int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'G', -1, 64)
	}
	if f == 0 {
		return strconv.FormatFloat(0, 'f', digits, 64) + "E+000"
	}
	exp := int(math.Floor(math.Log10(math.Abs(f))))
	exp -= ((exp % 3) + 3) % 3
	mant := f / math.Pow(10, float64(exp))
	return fmt.Sprintf("%.*fE%+04d", digits, mant, exp)
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}
