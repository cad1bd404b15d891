package header

import "strings"

const (
	// RecordSize is the fixed length of a keyword record.
	RecordSize = 80
	// BlockSize is the length of every FITS header and data block.
	BlockSize = 2880
	// RecordsPerBlock is the number of keyword records in a header block.
	RecordsPerBlock = BlockSize / RecordSize

	// EndKeyword marks the logical end of a header.
	EndKeyword = "END"
	// ContinueKeyword continues a long string value on the next record.
	ContinueKeyword = "CONTINUE"
)

// Keyword is one decoded keyword record.
type Keyword struct {
	Name    string
	Value   Value
	Comment string
}

func (k Keyword) String() string {
	var b strings.Builder
	b.WriteString(k.Name)
	if !k.Value.IsNone() {
		b.WriteString(" = ")
		b.WriteString(k.Value.String())
	}
	if k.Comment != "" {
		b.WriteString(" / ")
		b.WriteString(k.Comment)
	}
	return b.String()
}

// IsCommentary reports whether the keyword carries no value.
func (k Keyword) IsCommentary() bool {
	return k.Value.IsNone()
}
