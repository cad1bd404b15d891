package header

import (
	"fmt"
	"strconv"
)

// ValueKind identifies the active variant of a Value.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindBool
	KindString
	KindInt
	KindFloat
	KindComplexInt
	KindComplexFloat
	KindUndefined
)

var valueKindNames = [...]string{
	KindNone:         "none",
	KindBool:         "bool",
	KindString:       "string",
	KindInt:          "int",
	KindFloat:        "float",
	KindComplexInt:   "complex int",
	KindComplexFloat: "complex float",
	KindUndefined:    "undefined",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "unknown"
}

// Value is the decoded value of a keyword record. Exactly one variant is
// active; the zero Value is None.
type Value struct {
	s    string
	i    [2]int64
	f    [2]float64
	kind ValueKind
	b    bool
}

func NoneValue() Value { return Value{} }
func UndefinedValue() Value { return Value{kind: KindUndefined} }
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func IntValue(i int64) Value { return Value{kind: KindInt, i: [2]int64{i, 0}} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: [2]float64{f, 0}} }
func ComplexIntValue(re, im int64) Value { return Value{kind: KindComplexInt, i: [2]int64{re, im}} }
func ComplexFloatValue(re, im float64) Value {
	return Value{kind: KindComplexFloat, f: [2]float64{re, im}}
}

// Kind returns the active variant.
func (v Value) Kind() ValueKind { return v.kind }

// IsNone reports whether the keyword carries no value (commentary keyword).
func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) Int() (int64, bool) {
	return v.i[0], v.kind == KindInt
}

// Float returns the value as float64. Int values are promoted.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f[0], true
	case KindInt:
		return float64(v.i[0]), true
	}
	return 0, false
}

func (v Value) ComplexInt() (re, im int64, ok bool) {
	return v.i[0], v.i[1], v.kind == KindComplexInt
}

func (v Value) ComplexFloat() (re, im float64, ok bool) {
	return v.f[0], v.f[1], v.kind == KindComplexFloat
}

// Interface returns the value as a plain Go value: nil, bool, string,
// int64, float64, [2]int64 or complex128.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindInt:
		return v.i[0]
	case KindFloat:
		return v.f[0]
	case KindComplexInt:
		return v.i
	case KindComplexFloat:
		return complex(v.f[0], v.f[1])
	}
	return nil
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return ""
	case KindUndefined:
		return "undefined"
	case KindBool:
		if v.b {
			return "T"
		}
		return "F"
	case KindString:
		return strconv.Quote(v.s)
	case KindInt:
		return strconv.FormatInt(v.i[0], 10)
	case KindFloat:
		return strconv.FormatFloat(v.f[0], 'G', -1, 64)
	case KindComplexInt:
		return fmt.Sprintf("(%d, %d)", v.i[0], v.i[1])
	case KindComplexFloat:
		return fmt.Sprintf("(%s, %s)",
			strconv.FormatFloat(v.f[0], 'G', -1, 64),
			strconv.FormatFloat(v.f[1], 'G', -1, 64))
	}
	return "?"
}
