// Package bintable decodes FITS binary table extensions.
//
// Decode validates the positional keyword prefix, parses every TFORMn and
// keeps the raw fixed-width rows and heap as one buffer. Cells are decoded
// on demand by At:
//
//	tbl, n, err := bintable.Decode(h, data)
//	cell, err := tbl.At(row, col)
//
// Multi-byte values are big-endian on disk. Bit columns unpack LSB-first
// within each byte. Variable-length array columns (P and Q) yield a
// VarArray descriptor from At; Resolve reads the heap slice it points to.
package bintable
