package image

import "strconv"

// Bitpix is the pixel storage type selected by the BITPIX keyword.
type Bitpix int8

const (
	Uint8   Bitpix = 8
	Int16   Bitpix = 16
	Int32   Bitpix = 32
	Int64   Bitpix = 64
	Float32 Bitpix = -32
	Float64 Bitpix = -64
)

// ParseBitpix validates a BITPIX value.
func ParseBitpix(v int64) (Bitpix, bool) {
	switch b := Bitpix(v); b {
	case Uint8, Int16, Int32, Int64, Float32, Float64:
		if int64(b) == v {
			return b, true
		}
	}
	return 0, false
}

// Size returns the byte size of one pixel.
func (b Bitpix) Size() int {
	if b < 0 {
		return int(-b) / 8
	}
	return int(b) / 8
}

// IsFloat reports whether pixels are IEEE floating point.
func (b Bitpix) IsFloat() bool {
	return b < 0
}

func (b Bitpix) String() string {
	switch b {
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "bitpix(" + strconv.Itoa(int(b)) + ")"
}
