package header

import (
	stderrors "errors"

	"github.com/wippyai/fits/errors"
)

// Scan decodes header blocks from the start of data until the END
// keyword. It returns the header and the number of bytes consumed, which
// is always a whole number of 2880-byte blocks. Blank records are
// skipped; END itself is not part of the returned header and records
// after it are not decoded.
func Scan(data []byte) (*Header, int, error) {
	var keywords []Keyword

	for nblocks := 0; ; nblocks++ {
		off := nblocks * BlockSize
		if len(data)-off < BlockSize {
			if nblocks == 0 {
				return nil, 0, errors.InvalidHeader("fewer than 2880 bytes available for a header block")
			}
			return nil, 0, errors.InvalidHeader("END keyword not found before end of input")
		}

		block := data[off : off+BlockSize]
		for r := 0; r < RecordsPerBlock; r++ {
			kw, err := ParseRecord(block[r*RecordSize : (r+1)*RecordSize])
			if err != nil {
				var fe *errors.Error
				if stderrors.As(err, &fe) {
					fe.Index = nblocks*RecordsPerBlock + r
				}
				return nil, 0, err
			}
			if kw.Name == "" {
				continue
			}
			if kw.Name == EndKeyword {
				return &Header{keywords: keywords}, off + BlockSize, nil
			}
			keywords = append(keywords, kw)
		}
	}
}
