// Package layout computes the byte layout of a binary table row.
//
// Columns are packed back to back with no alignment padding: the offset
// of a column is the sum of the TForm byte sizes of the columns before
// it, and the row width is the sum over all columns.
//
//	info, ok := layout.Calculate(forms)
//	// info.Size, info.Offsets[col] available when ok
//
// Mul, Add and Size are overflow-checked helpers for byte counts derived
// from header integers.
//
// This package is internal to the table decoders.
package layout
