package tform

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/wippyai/fits/errors"
)

// ASCIIKind is the field type of an ASCII table column.
type ASCIIKind uint8

const (
	ASCIIChar   ASCIIKind = iota // Aw
	ASCIIInt                     // Iw
	ASCIIFixed                   // Fw.d
	ASCIIExp                     // Ew.d
	ASCIIDouble                  // Dw.d
)

func (k ASCIIKind) String() string {
	switch k {
	case ASCIIChar:
		return "A"
	case ASCIIInt:
		return "I"
	case ASCIIFixed:
		return "F"
	case ASCIIExp:
		return "E"
	case ASCIIDouble:
		return "D"
	}
	return "?"
}

// ASCIIForm is a parsed ASCII table TFORM.
type ASCIIForm struct {
	Kind     ASCIIKind
	Width    int
	Decimals int
}

// IsFloat reports whether the field holds a real number.
func (f ASCIIForm) IsFloat() bool {
	return f.Kind == ASCIIFixed || f.Kind == ASCIIExp || f.Kind == ASCIIDouble
}

func (f ASCIIForm) String() string {
	s := f.Kind.String() + strconv.Itoa(f.Width)
	if f.IsFloat() {
		s += "." + strconv.Itoa(f.Decimals)
	}
	return s
}

var errWidth = stderrors.New("malformed field width")

// ParseASCII decodes an ASCII table TFORM. The decimals part is required
// for F, E and D and rejected for A and I.
func ParseASCII(s string) (ASCIIForm, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ASCIIForm{}, errors.InvalidTForm(s, errEmpty)
	}

	var f ASCIIForm
	switch s[0] {
	case 'A':
		f.Kind = ASCIIChar
	case 'I':
		f.Kind = ASCIIInt
	case 'F':
		f.Kind = ASCIIFixed
	case 'E':
		f.Kind = ASCIIExp
	case 'D':
		f.Kind = ASCIIDouble
	default:
		return ASCIIForm{}, errors.InvalidTForm(s, errUnknownType)
	}

	w, d, hasDot := strings.Cut(s[1:], ".")
	if hasDot != f.IsFloat() {
		return ASCIIForm{}, errors.InvalidTForm(s, errWidth)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return ASCIIForm{}, errors.InvalidTForm(s, errWidth)
	}
	f.Width = width
	if hasDot {
		dec, err := strconv.Atoi(d)
		if err != nil || dec < 0 {
			return ASCIIForm{}, errors.InvalidTForm(s, errWidth)
		}
		f.Decimals = dec
	}
	return f, nil
}
