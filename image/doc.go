// Package image decodes FITS image payloads.
//
// Decode validates the positional BITPIX/NAXIS/NAXISn prefix (plus
// PCOUNT/GCOUNT for IMAGE extensions), converts the big-endian payload to
// host byte order and returns an Image. The first axis varies fastest:
//
//	img, n, err := image.Decode(h, data)
//	v, err := img.At(x, y)          // raw stored value
//	p, ok, err := img.Physical(x, y) // BSCALE/BZERO applied, ok=false on BLANK
//
// A header with a zero pixel count has no payload and decodes to a nil
// Image.
package image
