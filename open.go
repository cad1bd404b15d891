package fits

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/wippyai/fits/errors"
)

// Compression is a transparent input encoding.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect identifies the compression of a stream from its first bytes.
func Detect(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// Open reads and parses the FITS file at path. Gzip and zstd compressed
// files are decompressed transparently.
func Open(path string, opts Options) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindGeneric, err, "open "+path)
	}
	defer fh.Close()
	return ParseReader(fh, opts)
}

// ParseReader reads r to the end and parses the result. Gzip and zstd
// streams are decompressed transparently.
func ParseReader(r io.Reader, opts Options) (*File, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))
	comp := Detect(head)

	src, err := decompressor(br, comp)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindGeneric, err, comp.String()+" stream")
	}
	defer src.Close()

	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindGeneric, err, "read input")
	}

	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	log.Debug("read input", zap.Stringer("compression", comp), zap.Int("bytes", len(buf)))
	return ParseWithOptions(buf, opts)
}

func decompressor(r io.Reader, comp Compression) (io.ReadCloser, error) {
	switch comp {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}
