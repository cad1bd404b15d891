// Package positional validates the mandatory keyword prefix of an HDU
// header.
//
// The FITS standard fixes the position of the leading structural
// keywords (BITPIX, NAXIS, NAXISn, PCOUNT, GCOUNT, TFIELDS). Each payload
// decoder describes its prefix as a table of Rules and hands it to Check,
// which returns the integer values in rule order or the first violation.
//
//	vals, err := positional.Check(errors.PhaseTable, h, 1, []positional.Rule{
//	    positional.Exact("BITPIX", 8),
//	    positional.Exact("NAXIS", 2),
//	    positional.NonNegative("NAXIS1"),
//	})
package positional
