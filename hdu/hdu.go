package hdu

import (
	"go.uber.org/zap"

	"github.com/wippyai/fits/asciitable"
	"github.com/wippyai/fits/bintable"
	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	"github.com/wippyai/fits/image"
)

// Kind identifies the payload an HDU carries.
type Kind uint8

const (
	KindNone Kind = iota
	KindImage
	KindTable
	KindBinTable
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	case KindBinTable:
		return "bintable"
	default:
		return "none"
	}
}

// HDU is one decoded Header-Data Unit. Exactly one payload accessor
// returns non-nil, selected by Kind, unless Kind is None.
type HDU struct {
	Header   *header.Header
	image    *image.Image
	table    *asciitable.Table
	bintable *bintable.BinTable
	Kind     Kind
}

// Image returns the image payload or nil.
func (u *HDU) Image() *image.Image { return u.image }

// Table returns the ASCII table payload or nil.
func (u *HDU) Table() *asciitable.Table { return u.table }

// BinTable returns the binary table payload or nil.
func (u *HDU) BinTable() *bintable.BinTable { return u.bintable }

// Primary reports whether the header starts with SIMPLE.
func (u *HDU) Primary() bool {
	kw, ok := u.Header.Get(0)
	return ok && kw.Name == "SIMPLE"
}

// ExtName returns the EXTNAME value, if any.
func (u *HDU) ExtName() (string, bool) {
	return u.Header.ValueString("EXTNAME")
}

// Decode decodes the HDU at the start of buf. It returns the HDU and the
// number of bytes it spans: the header blocks plus the payload padded to
// a whole block.
func Decode(buf []byte) (*HDU, int, error) {
	h, hdrLen, err := header.Scan(buf)
	if err != nil {
		return nil, 0, err
	}
	data := buf[hdrLen:]
	u := &HDU{Header: h}

	n, err := u.decodePayload(data)
	if err != nil {
		Logger().Debug("payload decode failed",
			zap.Int("header_bytes", hdrLen),
			zap.Error(err))
		return nil, 0, err
	}

	total := hdrLen + Pad(n)
	Logger().Debug("decoded hdu",
		zap.Stringer("kind", u.Kind),
		zap.Int("keywords", h.Len()),
		zap.Int("header_bytes", hdrLen),
		zap.Int("data_bytes", n),
		zap.Int("total_bytes", total))
	return u, total, nil
}

func (u *HDU) decodePayload(data []byte) (int, error) {
	first, ok := u.Header.Get(0)
	if !ok {
		return 0, nil
	}

	switch first.Name {
	case "SIMPLE":
		return u.decodeImage(data)
	case "XTENSION":
	default:
		return 0, nil
	}

	ext, ok := first.Value.Str()
	if !ok {
		return 0, errors.UnsupportedExtension(first.Value.Interface())
	}
	switch ext {
	case "IMAGE":
		return u.decodeImage(data)
	case "TABLE":
		t, n, err := asciitable.Decode(u.Header, data)
		if err != nil {
			return 0, err
		}
		u.table, u.Kind = t, KindTable
		return n, nil
	case "BINTABLE":
		t, n, err := bintable.Decode(u.Header, data)
		if err != nil {
			return 0, err
		}
		u.bintable, u.Kind = t, KindBinTable
		return n, nil
	default:
		return 0, errors.UnsupportedExtension(ext)
	}
}

func (u *HDU) decodeImage(data []byte) (int, error) {
	img, n, err := image.Decode(u.Header, data)
	if err != nil {
		return 0, err
	}
	if img != nil {
		u.image, u.Kind = img, KindImage
	}
	return n, nil
}

// Pad rounds n up to a whole number of FITS blocks.
func Pad(n int) int {
	if rem := n % header.BlockSize; rem != 0 {
		return n + header.BlockSize - rem
	}
	return n
}
