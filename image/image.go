package image

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	fitsbin "github.com/wippyai/fits/internal/binary"
	"github.com/wippyai/fits/internal/layout"
	"github.com/wippyai/fits/internal/positional"
	"github.com/wippyai/fits/wcs"
)

// maxAxes is the largest NAXIS the standard allows.
const maxAxes = 999

// Image is a decoded image payload. Pixel bytes are stored in host byte
// order and never modified after Decode.
type Image struct {
	WCS    *wcs.WCS
	Axes   []int
	raw    []byte
	BScale float64
	BZero  float64
	Blank  int64
	PCount int
	GCount int
	Bitpix Bitpix
	// HasBlank reports whether BLANK was present for an integer image.
	HasBlank bool
}

// Decode validates the image keywords of h and decodes the pixel payload
// at the start of data. It returns the image and the number of data bytes
// it covers, before block padding. A zero pixel count yields a nil image.
func Decode(h *header.Header, data []byte) (*Image, int, error) {
	vals, err := positional.Check(errors.PhaseImage, h, 1, []positional.Rule{
		positional.Int("BITPIX"),
		positional.NonNegative("NAXIS"),
	})
	if err != nil {
		return nil, 0, err
	}
	bitpix, ok := ParseBitpix(vals[0])
	if !ok {
		return nil, 0, errors.New(errors.PhaseImage, errors.KindGeneric).
			Keyword("BITPIX").
			Index(1).
			Value(vals[0]).
			Expected("8, 16, 32, 64, -32 or -64").
			Detail("invalid BITPIX %d", vals[0]).
			Build()
	}
	naxis := int(vals[1])
	if naxis > maxAxes {
		return nil, 0, errors.UnexpectedValue(errors.PhaseImage, "NAXIS", naxis, "<= 999")
	}

	axisVals, err := positional.Check(errors.PhaseImage, h, 3, positional.Axes(naxis))
	if err != nil {
		return nil, 0, err
	}

	pcount, gcount := int64(0), int64(1)
	if isImageExtension(h) {
		counts, err := positional.Check(errors.PhaseImage, h, 3+naxis, []positional.Rule{
			positional.NonNegative("PCOUNT"),
			positional.NonNegative("GCOUNT"),
		})
		if err != nil {
			return nil, 0, err
		}
		pcount, gcount = counts[0], counts[1]
	}

	axes := make([]int, naxis)
	npixels := 0
	if naxis > 0 {
		npixels = 1
	}
	for i, v := range axisVals {
		axes[i] = int(v)
		if npixels, ok = layout.Mul(npixels, int(v)); !ok {
			return nil, 0, errors.InvalidDataSize(errors.PhaseImage, math.MaxInt, len(data))
		}
	}

	// Data bytes are |BITPIX|/8 * GCOUNT * (PCOUNT + pixels); none of the
	// factors may overflow.
	size := bitpix.Size()
	nbytes, ok := layout.Mul(npixels, size)
	if !ok {
		return nil, 0, errors.InvalidDataSize(errors.PhaseImage, math.MaxInt, len(data))
	}
	group, ok := layout.Add(int(pcount), npixels)
	if !ok {
		return nil, 0, errors.InvalidDataSize(errors.PhaseImage, math.MaxInt, len(data))
	}
	consumed, ok := layout.Size(size, int(gcount), group)
	if !ok {
		return nil, 0, errors.InvalidDataSize(errors.PhaseImage, math.MaxInt, len(data))
	}
	if want := max(nbytes, consumed); len(data) < want {
		return nil, 0, errors.InvalidDataSize(errors.PhaseImage, want, len(data))
	}
	if npixels == 0 {
		return nil, consumed, nil
	}

	raw, err := fitsbin.ToNative(data[:nbytes], size)
	if err != nil {
		return nil, 0, errors.Wrap(errors.PhaseImage, errors.KindInvalidDataSize, err, "pixel conversion")
	}

	w, err := wcs.FromHeader(h)
	if err != nil {
		return nil, 0, err
	}

	img := &Image{
		Bitpix: bitpix,
		Axes:   axes,
		raw:    raw,
		WCS:    w,
		PCount: int(pcount),
		GCount: int(gcount),
		BScale: 1,
	}
	if v, ok := h.ValueFloat("BSCALE"); ok {
		img.BScale = v
	}
	if v, ok := h.ValueFloat("BZERO"); ok {
		img.BZero = v
	}
	if !bitpix.IsFloat() {
		img.Blank, img.HasBlank = h.ValueInt("BLANK")
	}
	return img, consumed, nil
}

func isImageExtension(h *header.Header) bool {
	kw, ok := h.Get(0)
	if !ok || kw.Name != "XTENSION" {
		return false
	}
	s, _ := kw.Value.Str()
	return s == "IMAGE"
}

// NDims returns the number of axes.
func (img *Image) NDims() int {
	return len(img.Axes)
}

// Len returns the number of pixels.
func (img *Image) Len() int {
	return len(img.raw) / img.Bitpix.Size()
}

// Raw returns the pixel bytes in host byte order. The slice is shared
// with the image and must not be modified.
func (img *Image) Raw() []byte {
	return img.raw
}

// Index converts per-axis coordinates, first axis fastest, to a linear
// pixel index.
func (img *Image) Index(loc ...int) (int, error) {
	if len(loc) != len(img.Axes) {
		return 0, errors.Generic(errors.PhaseImage, "got %d coordinates for %d axes", len(loc), len(img.Axes))
	}
	idx, stride := 0, 1
	for i, c := range loc {
		if c < 0 || c >= img.Axes[i] {
			return 0, errors.New(errors.PhaseImage, errors.KindGeneric).
				Keyword(axisName(i)).
				Index(c).
				Expected(img.Axes[i]).
				Detail("coordinate %d out of range for axis %d of length %d", c, i+1, img.Axes[i]).
				Build()
		}
		idx += c * stride
		stride *= img.Axes[i]
	}
	return idx, nil
}

// At returns the stored value at loc as uint8, int16, int32, int64,
// float32 or float64 depending on Bitpix.
func (img *Image) At(loc ...int) (any, error) {
	i, err := img.Index(loc...)
	if err != nil {
		return nil, err
	}
	return img.value(i), nil
}

func (img *Image) value(i int) any {
	off := i * img.Bitpix.Size()
	b := img.raw[off:]
	switch img.Bitpix {
	case Uint8:
		return b[0]
	case Int16:
		return int16(binary.NativeEndian.Uint16(b))
	case Int32:
		return int32(binary.NativeEndian.Uint32(b))
	case Int64:
		return int64(binary.NativeEndian.Uint64(b))
	case Float32:
		return math.Float32frombits(binary.NativeEndian.Uint32(b))
	default:
		return math.Float64frombits(binary.NativeEndian.Uint64(b))
	}
}

// physical maps the stored value of pixel i through BSCALE/BZERO.
func (img *Image) physical(i int) (float64, bool) {
	switch v := img.value(i).(type) {
	case float32:
		if math.IsNaN(float64(v)) {
			return math.NaN(), false
		}
		return float64(v)*img.BScale + img.BZero, true
	case float64:
		if math.IsNaN(v) {
			return math.NaN(), false
		}
		return v*img.BScale + img.BZero, true
	default:
		n := toInt64(v)
		if img.HasBlank && n == img.Blank {
			return math.NaN(), false
		}
		return float64(n)*img.BScale + img.BZero, true
	}
}

// Physical returns BSCALE*raw+BZERO at loc. ok is false for an undefined
// pixel: an integer equal to BLANK or a floating point NaN.
func (img *Image) Physical(loc ...int) (float64, bool, error) {
	i, err := img.Index(loc...)
	if err != nil {
		return 0, false, err
	}
	v, ok := img.physical(i)
	return v, ok, nil
}

// Float64s returns every pixel in physical units, NaN for undefined
// pixels.
func (img *Image) Float64s() []float64 {
	out := make([]float64, img.Len())
	for i := range out {
		out[i], _ = img.physical(i)
	}
	return out
}

// Pixel is the set of Go types an image can be viewed as.
type Pixel interface {
	uint8 | int16 | int32 | int64 | float32 | float64
}

// Pixels copies the stored values of img into a typed slice. T must match
// the image's Bitpix.
func Pixels[T Pixel](img *Image) ([]T, error) {
	out := make([]T, img.Len())
	for i := range out {
		v, ok := img.value(i).(T)
		if !ok {
			return nil, errors.New(errors.PhaseImage, errors.KindUnexpectedValueType).
				Keyword("BITPIX").
				Value(img.Bitpix.String()).
				Detail("image holds %s pixels", img.Bitpix).
				Build()
		}
		out[i] = v
	}
	return out, nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case uint8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func axisName(i int) string {
	return "NAXIS" + strconv.Itoa(i+1)
}
