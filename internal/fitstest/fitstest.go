// Package fitstest builds synthetic FITS records, headers and data units
// for tests.
package fitstest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	recordSize = 80
	blockSize  = 2880
)

// Record pads s with spaces to one 80-byte record. Longer input is cut.
func Record(s string) []byte {
	rec := bytes.Repeat([]byte{' '}, recordSize)
	copy(rec, s)
	return rec
}

func card(name, value, comment string) string {
	s := fmt.Sprintf("%-8s= %20s", name, value)
	if comment != "" {
		s += " / " + comment
	}
	return s
}

// Int formats a fixed-format integer card.
func Int(name string, v int64) string {
	return card(name, strconv.FormatInt(v, 10), "")
}

// Float formats a fixed-format real card.
func Float(name string, v float64) string {
	return card(name, strconv.FormatFloat(v, 'E', -1, 64), "")
}

// Bool formats a fixed-format logical card.
func Bool(name string, v bool) string {
	if v {
		return card(name, "T", "")
	}
	return card(name, "F", "")
}

// Str formats a string card, doubling embedded quotes.
func Str(name, v string) string {
	q := "'" + strings.ReplaceAll(v, "'", "''")
	for len(q) < 9 {
		q += " "
	}
	return fmt.Sprintf("%-8s= %-20s", name, q+"'")
}

// Comment formats a commentary card.
func Comment(text string) string {
	return "COMMENT " + text
}

// Header builds header blocks from cards, appending END and padding to a
// whole number of blocks.
func Header(cards ...string) []byte {
	var b bytes.Buffer
	for _, c := range cards {
		b.Write(Record(c))
	}
	b.Write(Record("END"))
	return PadBlock(b.Bytes(), ' ')
}

// PadBlock pads b with fill to the next 2880-byte boundary.
func PadBlock(b []byte, fill byte) []byte {
	if rem := len(b) % blockSize; rem != 0 {
		b = append(b, bytes.Repeat([]byte{fill}, blockSize-rem)...)
	}
	return b
}

// HDU concatenates a header built from cards with data padded to a block.
func HDU(data []byte, cards ...string) []byte {
	out := Header(cards...)
	return append(out, PadBlock(append([]byte(nil), data...), 0)...)
}

// BigEndian encodes values as a big-endian byte sequence. Supported
// element types: int8, uint8, int16, int32, int64, float32, float64.
func BigEndian(values ...any) []byte {
	var buf []byte
	for _, v := range values {
		switch x := v.(type) {
		case int8:
			buf = append(buf, byte(x))
		case uint8:
			buf = append(buf, x)
		case int16:
			buf = binary.BigEndian.AppendUint16(buf, uint16(x))
		case int32:
			buf = binary.BigEndian.AppendUint32(buf, uint32(x))
		case int64:
			buf = binary.BigEndian.AppendUint64(buf, uint64(x))
		case float32:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(x))
		case float64:
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(x))
		default:
			panic(fmt.Sprintf("fitstest: unsupported type %T", v))
		}
	}
	return buf
}
