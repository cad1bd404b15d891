// Package hdu classifies and decodes one FITS Header-Data Unit.
//
// Decode scans the header blocks, inspects the first keyword and hands the
// data that follows to the matching payload decoder:
//
//	SIMPLE                  image.Decode
//	XTENSION = 'IMAGE'      image.Decode
//	XTENSION = 'TABLE'      asciitable.Decode
//	XTENSION = 'BINTABLE'   bintable.Decode
//
// Any other XTENSION value is rejected with an unsupported_extension error.
// A header that starts with neither keyword yields an HDU of kind None.
//
// The returned byte count covers the header blocks plus the data rounded
// up to a whole 2880-byte block, so the next HDU starts exactly there:
//
//	for off := 0; off < len(buf); {
//	    u, n, err := hdu.Decode(buf[off:])
//	    if err != nil {
//	        return err
//	    }
//	    off += n
//	}
package hdu
