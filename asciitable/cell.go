package asciitable

import "strconv"

// CellKind identifies the active variant of a Cell.
type CellKind uint8

const (
	NullCell CellKind = iota
	StringCell
	IntCell
	FloatCell
)

func (k CellKind) String() string {
	switch k {
	case NullCell:
		return "null"
	case StringCell:
		return "string"
	case IntCell:
		return "int"
	case FloatCell:
		return "float"
	}
	return "unknown"
}

// Cell is one decoded table field.
type Cell struct {
	Str   string
	Int   int64
	Float float64
	Kind  CellKind
}

// Interface returns nil, string, int64 or float64.
func (c Cell) Interface() any {
	switch c.Kind {
	case StringCell:
		return c.Str
	case IntCell:
		return c.Int
	case FloatCell:
		return c.Float
	}
	return nil
}

func (c Cell) String() string {
	switch c.Kind {
	case StringCell:
		return c.Str
	case IntCell:
		return strconv.FormatInt(c.Int, 10)
	case FloatCell:
		return strconv.FormatFloat(c.Float, 'G', -1, 64)
	}
	return "null"
}
