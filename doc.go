// Package fits decodes FITS (Flexible Image Transport System) files.
//
// A FITS file is a sequence of Header-Data Units. Each header is a run of
// 80-byte keyword records in 2880-byte blocks, terminated by END; the data
// that follows is an image, an ASCII table or a binary table, padded to a
// whole block.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	fits/                Root package: whole-file parsing and EXTNAME lookup
//	├── hdu/             Header-Data Unit dispatch and block padding
//	├── header/          Keyword record tokenizer and header block scanner
//	├── image/           BITPIX-typed pixel decoding, BSCALE/BZERO/BLANK
//	├── asciitable/      Fixed-column ASCII tables with TNULL and scaling
//	├── bintable/        Binary tables, bit arrays and heap arrays
//	├── tform/           TFORM and TDISP grammars
//	├── wcs/             World coordinate keywords
//	├── errors/          Structured error types for debugging
//	└── cmd/fitsinfo/    Command line inspector
//
// # Quick Start
//
//	f, err := fits.Open("m31.fits.gz", fits.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	img := f.Primary().Image()
//	v, _ := img.At(10, 20)
//
//	if u, ok := f.Lookup("EVENTS"); ok {
//	    cell, _ := u.BinTable().At(0, 0)
//	    fmt.Println(cell)
//	}
//
// Open and ParseReader accept gzip and zstd compressed input, detected
// from the leading magic bytes.
//
// # Errors
//
// Every failure is an *errors.Error carrying the phase, a kind and, where
// it applies, the keyword and its record index. Use errors.IsKind to test
// for a kind anywhere in the chain.
//
// # Thread Safety
//
// Decoded values are never modified after parsing and are safe for
// concurrent reads.
package fits
