// Package errors provides structured error types for the FITS decoder.
//
// Errors are categorized by Phase (which decoder raised them) and Kind
// (the violated rule). The Error type carries the offending keyword name,
// the header position or table index, the found and expected values and an
// optional cause, so a diagnostic can be produced without the raw bytes.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseImage, errors.KindInvalidPlacement).
//		Keyword("NAXIS2").
//		Index(3).
//		Expected("NAXIS1").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingKeyword(errors.PhaseBinTable, "TFORM3")
//	err := errors.InvalidColumn(errors.PhaseBinTable, 7, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on Kind alone when the phase does not matter.
package errors
