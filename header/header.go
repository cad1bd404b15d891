package header

import (
	"iter"
	"strings"
)

// Header is the ordered keyword list of one HDU. Order is significant:
// the payload decoders validate mandatory keywords by position. A Header
// is immutable once built and safe for concurrent readers.
type Header struct {
	keywords []Keyword
}

// New builds a Header from keywords, copying the slice.
func New(keywords []Keyword) *Header {
	return &Header{keywords: append([]Keyword(nil), keywords...)}
}

// Len returns the number of keywords.
func (h *Header) Len() int {
	return len(h.keywords)
}

// Get returns the keyword at position i.
func (h *Header) Get(i int) (Keyword, bool) {
	if i < 0 || i >= len(h.keywords) {
		return Keyword{}, false
	}
	return h.keywords[i], true
}

// Index returns the position of the first keyword called name, or -1.
func (h *Header) Index(name string) int {
	for i := range h.keywords {
		if h.keywords[i].Name == name {
			return i
		}
	}
	return -1
}

// Find returns the first keyword called name.
func (h *Header) Find(name string) (Keyword, bool) {
	i := h.Index(name)
	if i < 0 {
		return Keyword{}, false
	}
	return h.keywords[i], true
}

// Value returns the value of the first keyword called name.
func (h *Header) Value(name string) (Value, bool) {
	kw, ok := h.Find(name)
	return kw.Value, ok
}

// The typed accessors below report ok=false both when the keyword is
// absent and when it holds a different type.

func (h *Header) ValueString(name string) (string, bool) {
	v, _ := h.Value(name)
	return v.Str()
}

func (h *Header) ValueInt(name string) (int64, bool) {
	v, _ := h.Value(name)
	return v.Int()
}

// ValueFloat accepts both real and integer values.
func (h *Header) ValueFloat(name string) (float64, bool) {
	v, _ := h.Value(name)
	return v.Float()
}

func (h *Header) ValueBool(name string) (bool, bool) {
	v, _ := h.Value(name)
	return v.Bool()
}

// LongString returns a string value joined with any CONTINUE records that
// follow it. Each continued segment ends in '&', which is dropped.
func (h *Header) LongString(name string) (string, bool) {
	i := h.Index(name)
	if i < 0 {
		return "", false
	}
	s, ok := h.keywords[i].Value.Str()
	if !ok {
		return "", false
	}

	var b strings.Builder
	for j := i + 1; strings.HasSuffix(s, "&") && j < len(h.keywords); j++ {
		next := h.keywords[j]
		cont, isStr := next.Value.Str()
		if next.Name != ContinueKeyword || !isStr {
			break
		}
		b.WriteString(s[:len(s)-1])
		s = cont
	}
	b.WriteString(s)
	return b.String(), true
}

// Keywords returns a copy of the keyword list.
func (h *Header) Keywords() []Keyword {
	return append([]Keyword(nil), h.keywords...)
}

// All iterates keywords in header order.
func (h *Header) All() iter.Seq2[int, Keyword] {
	return func(yield func(int, Keyword) bool) {
		for i, kw := range h.keywords {
			if !yield(i, kw) {
				return
			}
		}
	}
}
