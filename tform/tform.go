package tform

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/fits/errors"
)

// Type is a binary table element type.
type Type uint8

const (
	Invalid Type = iota
	Logical
	Bit
	UnsignedByte
	Int16
	Int32
	Int64
	Char
	Float32
	Float64
	Complex32
	Complex64
	VarArray32
	VarArray64
)

var typeCodes = [...]byte{
	Logical:      'L',
	Bit:          'X',
	UnsignedByte: 'B',
	Int16:        'I',
	Int32:        'J',
	Int64:        'K',
	Char:         'A',
	Float32:      'E',
	Float64:      'D',
	Complex32:    'C',
	Complex64:    'M',
	VarArray32:   'P',
	VarArray64:   'Q',
}

var typeNames = [...]string{
	Invalid:      "invalid",
	Logical:      "logical",
	Bit:          "bit",
	UnsignedByte: "uint8",
	Int16:        "int16",
	Int32:        "int32",
	Int64:        "int64",
	Char:         "char",
	Float32:      "float32",
	Float64:      "float64",
	Complex32:    "complex64",
	Complex64:    "complex128",
	VarArray32:   "vararray32",
	VarArray64:   "vararray64",
}

var elemSizes = [...]int{
	Logical:      1,
	Bit:          1,
	UnsignedByte: 1,
	Int16:        2,
	Int32:        4,
	Int64:        8,
	Char:         1,
	Float32:      4,
	Float64:      8,
	Complex32:    8,
	Complex64:    16,
	VarArray32:   8,
	VarArray64:   16,
}

// TypeFromCode maps a TFORM type letter to its Type.
func TypeFromCode(c byte) (Type, bool) {
	for t := Logical; t <= VarArray64; t++ {
		if typeCodes[t] == c {
			return t, true
		}
	}
	return Invalid, false
}

// Code returns the TFORM letter for t, or 0 for Invalid.
func (t Type) Code() byte {
	if int(t) < len(typeCodes) {
		return typeCodes[t]
	}
	return 0
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Size returns the byte size of one element. For heap descriptors this is
// the size of the (count, offset) pair: 8 bytes for P (two int32) and 16
// for Q (two int64), not the 4 and 8 of a bare offset.
func (t Type) Size() int {
	if int(t) < len(elemSizes) {
		return elemSizes[t]
	}
	return 0
}

// IsVarArray reports whether t is a heap descriptor type.
func (t Type) IsVarArray() bool {
	return t == VarArray32 || t == VarArray64
}

// TForm is a parsed binary table column descriptor.
type TForm struct {
	Type   Type
	Repeat int
	// Elem is the heap element type of a P or Q column.
	Elem Type
	// MaxLen is the declared maximum heap array length, or -1 if absent.
	MaxLen int
}

var (
	errEmpty       = stderrors.New("empty descriptor")
	errUnknownType = stderrors.New("unknown type code")
	errVarRepeat   = stderrors.New("heap descriptor repeat must be 0 or 1")
	errVarElem     = stderrors.New("heap descriptor element cannot be a heap descriptor")
	errMaxLen      = stderrors.New("malformed maximum length")
	errRepeat      = stderrors.New("repeat count overflows the row width")
)

// Parse decodes a TFORM string.
func Parse(s string) (TForm, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TForm{}, errors.InvalidTForm(s, errEmpty)
	}

	digits := leadingDigits(s)
	repeat := 1
	if digits > 0 {
		n, err := strconv.Atoi(s[:digits])
		if err != nil {
			return TForm{}, errors.InvalidTForm(s, err)
		}
		repeat = n
	}
	if digits == len(s) {
		return TForm{}, errors.InvalidTForm(s, errUnknownType)
	}

	typ, ok := TypeFromCode(s[digits])
	if !ok {
		return TForm{}, errors.InvalidTForm(s, errUnknownType)
	}

	if repeat > math.MaxInt/typ.Size() {
		return TForm{}, errors.InvalidTForm(s, errRepeat)
	}

	tf := TForm{Type: typ, Repeat: repeat, MaxLen: -1}
	if !typ.IsVarArray() {
		// Trailing characters (e.g. the substring width of rAw) carry no
		// layout information.
		return tf, nil
	}

	if repeat > 1 {
		return TForm{}, errors.InvalidTForm(s, errVarRepeat)
	}

	rest := s[digits+1:]
	tf.Elem = UnsignedByte
	if rest != "" && rest[0] != '(' {
		elem, ok := TypeFromCode(rest[0])
		if !ok {
			return TForm{}, errors.InvalidTForm(s, errUnknownType)
		}
		if elem.IsVarArray() {
			return TForm{}, errors.InvalidTForm(s, errVarElem)
		}
		tf.Elem = elem
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return TForm{}, errors.InvalidTForm(s, errMaxLen)
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil || n < 0 {
			return TForm{}, errors.InvalidTForm(s, errMaxLen)
		}
		tf.MaxLen = n
	}
	return tf, nil
}

// Bytes returns the number of bytes the column occupies in a row.
func (f TForm) Bytes() int {
	if f.Type == Bit {
		return f.Repeat/8 + min(f.Repeat%8, 1)
	}
	return f.Repeat * f.Type.Size()
}

func (f TForm) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(f.Repeat))
	b.WriteByte(f.Type.Code())
	if f.Type.IsVarArray() {
		b.WriteByte(f.Elem.Code())
		if f.MaxLen >= 0 {
			b.WriteByte('(')
			b.WriteString(strconv.Itoa(f.MaxLen))
			b.WriteByte(')')
		}
	}
	return b.String()
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
