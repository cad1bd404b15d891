package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which decoding stage produced the error
type Phase string

const (
	PhaseRecord   Phase = "record"   // 80-byte keyword record
	PhaseHeader   Phase = "header"   // header block scanning
	PhaseTForm    Phase = "tform"    // TFORM grammar
	PhaseTDisp    Phase = "tdisp"    // TDISP grammar
	PhaseImage    Phase = "image"    // image payload
	PhaseTable    Phase = "table"    // ASCII table payload
	PhaseBinTable Phase = "bintable" // binary table payload
	PhaseDispatch Phase = "dispatch" // HDU classification
	PhaseLoad     Phase = "load"     // whole-file glue
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidHeader          Kind = "invalid_header"
	KindBadKeywordLength       Kind = "bad_keyword_length"
	KindInvalidCharacter       Kind = "invalid_character_in_keyword"
	KindInvalidKeywordRecord   Kind = "invalid_keyword_record"
	KindMissingKeyword         Kind = "missing_keyword"
	KindInvalidPlacement       Kind = "invalid_keyword_placement"
	KindUnexpectedValueType    Kind = "unexpected_value_type"
	KindUnexpectedKeywordValue Kind = "unexpected_keyword_value"
	KindInvalidTForm           Kind = "invalid_tform"
	KindInvalidTDisp           Kind = "invalid_tdisp"
	KindUnsupportedExtension   Kind = "unsupported_extension"
	KindInvalidDataSize        Kind = "invalid_data_size"
	KindInvalidRow             Kind = "invalid_row"
	KindInvalidColumn          Kind = "invalid_column"
	KindGeneric                Kind = "generic"
)

// NoIndex marks an error that is not tied to a header position or table index.
const NoIndex = -1

// Error is the structured error type returned by every decoder
type Error struct {
	Value    any
	Expected any
	Cause    error
	Phase    Phase
	Kind     Kind
	Keyword  string
	Detail   string
	Index    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Keyword != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(e.Keyword))
	}

	if e.Index >= 0 {
		b.WriteString(" at ")
		b.WriteString(strconv.Itoa(e.Index))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain holds an *Error of the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Index: NoIndex,
		},
	}
}

// Keyword sets the offending keyword name
func (b *Builder) Keyword(name string) *Builder {
	b.err.Keyword = name
	return b
}

// Index sets the header position or table index
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Expected sets the value the decoder required
func (b *Builder) Expected(v any) *Builder {
	b.err.Expected = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidHeader creates a short or misaligned header block error
func InvalidHeader(detail string) *Error {
	return &Error{
		Phase:  PhaseHeader,
		Kind:   KindInvalidHeader,
		Index:  NoIndex,
		Detail: detail,
	}
}

// BadKeywordLength creates an error for a record that is not 80 bytes long
func BadKeywordLength(length int) *Error {
	return &Error{
		Phase:  PhaseRecord,
		Kind:   KindBadKeywordLength,
		Index:  NoIndex,
		Value:  length,
		Detail: fmt.Sprintf("record is %d bytes, want 80", length),
	}
}

// InvalidCharacter creates an error for an illegal keyword name
func InvalidCharacter(name string) *Error {
	return &Error{
		Phase:   PhaseRecord,
		Kind:    KindInvalidCharacter,
		Index:   NoIndex,
		Keyword: name,
	}
}

// InvalidRecord creates an error for an unclassifiable value field
func InvalidRecord(name string, record string, cause error) *Error {
	return &Error{
		Phase:   PhaseRecord,
		Kind:    KindInvalidKeywordRecord,
		Index:   NoIndex,
		Keyword: name,
		Value:   record,
		Cause:   cause,
	}
}

// MissingKeyword creates a missing keyword error
func MissingKeyword(phase Phase, name string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindMissingKeyword,
		Index:   NoIndex,
		Keyword: name,
	}
}

// InvalidPlacement creates an error for a keyword found at the wrong position
func InvalidPlacement(phase Phase, found string, index int, want string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidPlacement,
		Keyword:  found,
		Index:    index,
		Expected: want,
		Detail:   fmt.Sprintf("expected %s", want),
	}
}

// UnexpectedType creates an error for a keyword whose value has the wrong type
func UnexpectedType(phase Phase, name string, want string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnexpectedValueType,
		Index:    NoIndex,
		Keyword:  name,
		Expected: want,
		Detail:   fmt.Sprintf("expected %s value", want),
	}
}

// UnexpectedValue creates an error for a keyword whose value is not allowed
func UnexpectedValue(phase Phase, name string, got, want any) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnexpectedKeywordValue,
		Index:    NoIndex,
		Keyword:  name,
		Value:    got,
		Expected: want,
		Detail:   fmt.Sprintf("%s = %v, want %v", name, got, want),
	}
}

// InvalidTForm creates a malformed TFORM error
func InvalidTForm(s string, cause error) *Error {
	return &Error{
		Phase:  PhaseTForm,
		Kind:   KindInvalidTForm,
		Index:  NoIndex,
		Value:  s,
		Detail: fmt.Sprintf("invalid TFORM %q", s),
		Cause:  cause,
	}
}

// InvalidTDisp creates a malformed TDISP error
func InvalidTDisp(s string, cause error) *Error {
	return &Error{
		Phase:  PhaseTDisp,
		Kind:   KindInvalidTDisp,
		Index:  NoIndex,
		Value:  s,
		Detail: fmt.Sprintf("invalid TDISP %q", s),
		Cause:  cause,
	}
}

// UnsupportedExtension creates an error for an unknown XTENSION value
func UnsupportedExtension(value any) *Error {
	return &Error{
		Phase:   PhaseDispatch,
		Kind:    KindUnsupportedExtension,
		Index:   NoIndex,
		Keyword: "XTENSION",
		Value:   value,
		Detail:  fmt.Sprintf("unsupported extension %v", value),
	}
}

// InvalidDataSize creates an error for a payload shorter than declared
func InvalidDataSize(phase Phase, want, got int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidDataSize,
		Index:    NoIndex,
		Value:    got,
		Expected: want,
		Detail:   fmt.Sprintf("expected %d bytes, got %d", want, got),
	}
}

// InvalidRow creates an out of range row error
func InvalidRow(phase Phase, row, nrows int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidRow,
		Index:    row,
		Value:    row,
		Expected: nrows,
		Detail:   fmt.Sprintf("row %d out of range (rows %d)", row, nrows),
	}
}

// InvalidColumn creates an out of range column error
func InvalidColumn(phase Phase, col, ncols int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidColumn,
		Index:    col,
		Value:    col,
		Expected: ncols,
		Detail:   fmt.Sprintf("column %d out of range (columns %d)", col, ncols),
	}
}

// Generic creates a catch-all validation error
func Generic(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindGeneric,
		Index:  NoIndex,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Index:  NoIndex,
		Detail: detail,
		Cause:  cause,
	}
}
