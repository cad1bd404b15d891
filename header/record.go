package header

import (
	"bytes"
	stderrors "errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/fits/errors"
)

var (
	errUnterminatedString = stderrors.New("unterminated string")
	errUnclassified       = stderrors.New("value is not a string, logical, integer, real or complex")
	errBadComplex         = stderrors.New("malformed complex value")
)

const (
	nameLen        = 8
	valueStart     = 10
	boolColumn     = 29
	valueIndicator = "= "
)

// ParseRecord decodes one 80-byte keyword record.
func ParseRecord(rec []byte) (Keyword, error) {
	if len(rec) != RecordSize {
		return Keyword{}, errors.BadKeywordLength(len(rec))
	}

	rawName := rec[:nameLen]
	for _, c := range rawName {
		if !validNameByte(c) {
			return Keyword{}, errors.InvalidCharacter(DecodeText(rawName))
		}
	}
	name := strings.TrimSpace(string(rawName))
	if strings.ContainsRune(name, ' ') {
		return Keyword{}, errors.InvalidCharacter(name)
	}

	kw := Keyword{Name: name}

	if string(rec[nameLen:valueStart]) != valueIndicator {
		if name == ContinueKeyword {
			return parseContinue(kw, rec)
		}
		// Commentary keyword: bytes 8..79 are free text.
		kw.Comment = strings.TrimSpace(DecodeText(rec[nameLen:]))
		return kw, nil
	}

	field := rec[valueStart:]
	lead := countLeadingSpaces(field)

	if lead < len(field) && field[lead] == '\'' {
		s, rest, err := parseQuoted(field[lead:])
		if err != nil {
			return Keyword{}, errors.InvalidRecord(name, DecodeText(rec), err)
		}
		kw.Value = StringValue(s)
		kw.Comment = commentAfter(rest)
		return kw, nil
	}

	if isFixedLogical(rec) {
		kw.Value = BoolValue(rec[boolColumn] == 'T')
		kw.Comment = commentAfter(rec[boolColumn+1:])
		return kw, nil
	}

	token := field
	var comment string
	if i := bytes.IndexByte(field, '/'); i >= 0 {
		token = field[:i]
		comment = strings.TrimSpace(DecodeText(field[i+1:]))
	}
	value, err := classify(strings.TrimSpace(string(token)))
	if err != nil {
		return Keyword{}, errors.InvalidRecord(name, DecodeText(rec), err)
	}
	kw.Value = value
	kw.Comment = comment
	return kw, nil
}

// isFixedLogical reports a fixed-format logical: T or F in column 30
// preceded only by spaces.
func isFixedLogical(rec []byte) bool {
	c := rec[boolColumn]
	if c != 'T' && c != 'F' {
		return false
	}
	return countLeadingSpaces(rec[valueStart:boolColumn]) == boolColumn-valueStart
}

func validNameByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == ' ' || c == '-' || c == '_'
}

func countLeadingSpaces(b []byte) int {
	n := 0
	for n < len(b) && b[n] == ' ' {
		n++
	}
	return n
}

// parseQuoted reads a quoted string starting at b[0] == '\''. A doubled
// quote is a literal quote. It returns the trimmed content and the bytes
// following the closing quote.
func parseQuoted(b []byte) (string, []byte, error) {
	var content []byte
	end := 1
	for end < len(b) {
		if b[end] == '\'' {
			if end+1 < len(b) && b[end+1] == '\'' {
				content = append(content, '\'')
				end += 2
				continue
			}
			return strings.TrimSpace(DecodeText(content)), b[end+1:], nil
		}
		content = append(content, b[end])
		end++
	}
	return "", nil, errUnterminatedString
}

func commentAfter(b []byte) string {
	i := bytes.IndexByte(b, '/')
	if i < 0 || i == len(b)-1 {
		return ""
	}
	return strings.TrimSpace(DecodeText(b[i+1:]))
}

// classify turns a trimmed numeric/logical token into a Value.
func classify(tok string) (Value, error) {
	switch {
	case tok == "":
		return UndefinedValue(), nil
	case tok == "T":
		return BoolValue(true), nil
	case tok == "F":
		return BoolValue(false), nil
	case tok[0] == '(':
		return parseComplex(tok)
	case isIntToken(tok):
		if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return IntValue(i), nil
		}
		// Out of int64 range, still a valid FITS integer.
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case isFloatToken(tok):
		f, err := parseFloat(tok)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	}
	return Value{}, errUnclassified
}

func parseComplex(tok string) (Value, error) {
	if !strings.HasSuffix(tok, ")") {
		return Value{}, errBadComplex
	}
	parts := strings.Split(tok[1:len(tok)-1], ",")
	if len(parts) != 2 {
		return Value{}, errBadComplex
	}
	re, im := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if re == "" || im == "" {
		return Value{}, errBadComplex
	}

	if isIntToken(re) && isIntToken(im) {
		r, err := strconv.ParseInt(re, 10, 64)
		if err != nil {
			return Value{}, err
		}
		i, err := strconv.ParseInt(im, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return ComplexIntValue(r, i), nil
	}
	if isFloatToken(re) && isFloatToken(im) {
		r, err := parseFloat(re)
		if err != nil {
			return Value{}, err
		}
		i, err := parseFloat(im)
		if err != nil {
			return Value{}, err
		}
		return ComplexFloatValue(r, i), nil
	}
	return Value{}, errBadComplex
}

func isIntToken(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '+' && c != '-' {
			return false
		}
	}
	return s != ""
}

func isFloatToken(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c == '+', c == '-', c == '.', c == 'E', c == 'D', c == 'e', c == 'd':
		default:
			return false
		}
	}
	return s != ""
}

// parseFloat parses a FITS real, accepting Fortran 'D' exponents.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(NormalizeExponent(s), 64)
}

// NormalizeExponent rewrites Fortran double-precision exponent markers
// ('D', 'd') as 'E' so the string can be handed to strconv.
func NormalizeExponent(s string) string {
	if strings.ContainsAny(s, "Dd") {
		return strings.NewReplacer("D", "E", "d", "E").Replace(s)
	}
	return s
}

// parseContinue decodes a CONTINUE record, whose quoted string starts at
// byte 10 without a value indicator.
func parseContinue(kw Keyword, rec []byte) (Keyword, error) {
	field := rec[valueStart:]
	lead := countLeadingSpaces(field)
	if lead == len(field) || field[lead] != '\'' {
		kw.Comment = strings.TrimSpace(DecodeText(rec[nameLen:]))
		return kw, nil
	}
	s, rest, err := parseQuoted(field[lead:])
	if err != nil {
		return Keyword{}, errors.InvalidRecord(kw.Name, DecodeText(rec), err)
	}
	kw.Value = StringValue(s)
	kw.Comment = commentAfter(rest)
	return kw, nil
}

// DecodeText converts FITS character bytes to a string. Bytes outside 7-bit ASCII
// are mapped through ISO-8859-1 so the result is always valid UTF-8.
func DecodeText(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for _, c := range b {
		sb.WriteRune(charmap.ISO8859_1.DecodeByte(c))
	}
	return sb.String()
}
