package binary

import (
	"encoding/binary"
	"fmt"
)

// ToNative copies src, a sequence of big-endian elements of the given
// size, into a new buffer laid out in the host byte order. Sizes 1, 2, 4
// and 8 are supported; len(src) must be a multiple of size.
func ToNative(src []byte, size int) ([]byte, error) {
	if size != 1 && size != 2 && size != 4 && size != 8 {
		return nil, fmt.Errorf("unsupported element size %d", size)
	}
	if len(src)%size != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of %d", len(src), size)
	}

	dst := make([]byte, len(src))
	switch size {
	case 1:
		copy(dst, src)
	case 2:
		for i := 0; i < len(src); i += 2 {
			binary.NativeEndian.PutUint16(dst[i:], binary.BigEndian.Uint16(src[i:]))
		}
	case 4:
		for i := 0; i < len(src); i += 4 {
			binary.NativeEndian.PutUint32(dst[i:], binary.BigEndian.Uint32(src[i:]))
		}
	case 8:
		for i := 0; i < len(src); i += 8 {
			binary.NativeEndian.PutUint64(dst[i:], binary.BigEndian.Uint64(src[i:]))
		}
	}
	return dst, nil
}
