// Package asciitable decodes FITS ASCII table extensions.
//
// Each row is NAXIS1 characters; column i starts at TBCOLi (1-based) and
// is parsed according to TFORMi (Aw, Iw, Fw.d, Ew.d, Dw.d). Numeric
// fields equal to TNULLi, or entirely blank, decode to Null. When TSCALi
// or TZEROi is present the physical value raw*TSCAL+TZERO is stored.
//
// Rows are decoded eagerly by Decode; At is a bounds-checked accessor.
package asciitable
