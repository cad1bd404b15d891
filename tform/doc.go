// Package tform parses the column descriptor grammars of FITS tables.
//
// Binary table columns are described by TFORMn strings of the form rT,
// where r is an optional repeat count and T an element type code:
//
//	L logical   X bit        B uint8     I int16    J int32    K int64
//	A char      E float32    D float64   C complex64 M complex128
//	P 32-bit heap descriptor  Q 64-bit heap descriptor
//
// Heap descriptors take an optional element type and maximum length,
// as in 1PE(100). ASCII table columns use the Aw, Iw, Fw.d, Ew.d and
// Dw.d forms, parsed by ParseASCII. TDISPn display formats are parsed by
// ParseTDisp and rendered with TDisp.Format.
//
// # Byte Sizes
//
//   - Bit columns occupy ceil(r/8) bytes
//   - P and Q columns occupy r (count, offset) pairs of 8 and 16 bytes
//   - every other type occupies r times its element size
package tform
