package fits

import (
	"bytes"
	"slices"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"go.uber.org/zap"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/hdu"
	"github.com/wippyai/fits/header"
)

// PrimaryName is the lookup name of a primary HDU without EXTNAME.
const PrimaryName = "PRIMARY"

// Options configures file parsing.
type Options struct {
	// Logger receives parse diagnostics. Nil uses the package logger.
	Logger *zap.Logger
	// MaxHDUs stops parsing after this many HDUs. Zero means no limit.
	MaxHDUs int
}

// DefaultOptions returns default parsing configuration.
func DefaultOptions() Options {
	return Options{}
}

// File is a parsed FITS file.
type File struct {
	HDUs  []*hdu.HDU
	names *orderedmap.OrderedMap[string, int]
}

// Parse decodes every HDU in buf with default options.
func Parse(buf []byte) (*File, error) {
	return ParseWithOptions(buf, DefaultOptions())
}

// ParseWithOptions decodes HDUs from buf back to back until the input is
// exhausted, the remainder is block padding, or opts.MaxHDUs is reached.
func ParseWithOptions(buf []byte, opts Options) (*File, error) {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}

	f := &File{names: orderedmap.NewOrderedMap[string, int]()}
	for off := 0; off < len(buf); {
		if opts.MaxHDUs > 0 && len(f.HDUs) == opts.MaxHDUs {
			log.Debug("hdu limit reached", zap.Int("max_hdus", opts.MaxHDUs), zap.Int("offset", off))
			break
		}
		rest := buf[off:]
		if len(f.HDUs) > 0 && isTrailer(rest) {
			log.Debug("ignoring trailing bytes", zap.Int("offset", off), zap.Int("bytes", len(rest)))
			break
		}

		u, n, err := hdu.Decode(rest)
		if err != nil {
			kind := errors.KindOf(err)
			if kind == "" {
				kind = errors.KindGeneric
			}
			return nil, errors.New(errors.PhaseLoad, kind).
				Index(len(f.HDUs)).
				Cause(err).
				Detail("hdu %d at byte %d", len(f.HDUs), off).
				Build()
		}
		log.Debug("hdu",
			zap.Int("index", len(f.HDUs)),
			zap.Int("offset", off),
			zap.Stringer("kind", u.Kind),
			zap.Int("bytes", n))

		f.add(u)
		off += n
	}

	if len(f.HDUs) == 0 {
		return nil, errors.Generic(errors.PhaseLoad, "no HDU found in %d bytes", len(buf))
	}
	return f, nil
}

// isTrailer reports whether rest is a partial block or a run of zero or
// blank bytes left after the last HDU.
func isTrailer(rest []byte) bool {
	if len(rest) < header.BlockSize {
		return true
	}
	return len(bytes.Trim(rest, "\x00")) == 0 || len(bytes.TrimSpace(rest)) == 0
}

func (f *File) add(u *hdu.HDU) {
	i := len(f.HDUs)
	f.HDUs = append(f.HDUs, u)

	name, ok := u.ExtName()
	if !ok && i == 0 {
		name, ok = PrimaryName, true
	}
	if !ok {
		return
	}
	key := strings.ToUpper(strings.TrimSpace(name))
	if !f.names.Has(key) {
		f.names.Set(key, i)
	}
}

// Len returns the number of HDUs.
func (f *File) Len() int { return len(f.HDUs) }

// Primary returns the first HDU.
func (f *File) Primary() *hdu.HDU { return f.HDUs[0] }

// HDU returns the HDU at index i.
func (f *File) HDU(i int) (*hdu.HDU, error) {
	if i < 0 || i >= len(f.HDUs) {
		return nil, errors.New(errors.PhaseLoad, errors.KindGeneric).
			Index(i).
			Expected(len(f.HDUs)).
			Detail("hdu %d out of range (file has %d)", i, len(f.HDUs)).
			Build()
	}
	return f.HDUs[i], nil
}

// Lookup returns the first HDU whose EXTNAME equals name, ignoring case.
// The primary HDU also answers to PrimaryName.
func (f *File) Lookup(name string) (*hdu.HDU, bool) {
	i, ok := f.names.Get(strings.ToUpper(strings.TrimSpace(name)))
	if !ok {
		return nil, false
	}
	return f.HDUs[i], true
}

// Names returns the lookup names in file order.
func (f *File) Names() []string {
	return slices.Collect(f.names.Keys())
}
