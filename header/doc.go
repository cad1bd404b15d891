// Package header decodes FITS keyword records and header blocks.
//
// A header is a sequence of 2880-byte blocks, each holding 36 keyword
// records of 80 bytes. ParseRecord turns one record into a Keyword whose
// Value is a closed variant (none, logical, string, integer, real, complex
// integer, complex real or undefined). Scan walks blocks until END and
// reports the bytes consumed so the caller can locate the data unit.
//
//	h, n, err := header.Scan(data)
//	if err != nil {
//	    return err
//	}
//	naxis, ok := h.ValueInt("NAXIS")
//
// Typed accessors never fail: a missing keyword and a keyword of another
// type both report ok=false.
package header
