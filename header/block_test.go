package header_test

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
	"github.com/wippyai/fits/internal/fitstest"
)

func TestScan_SingleBlock(t *testing.T) {
	data := fitstest.Header(
		fitstest.Bool("SIMPLE", true),
		fitstest.Int("BITPIX", 8),
		fitstest.Int("NAXIS", 0),
		"",
		fitstest.Comment("hello"),
	)
	data = append(data, bytes.Repeat([]byte{0xFF}, 100)...)

	h, n, err := header.Scan(data)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n != header.BlockSize {
		t.Errorf("consumed %d bytes, want %d", n, header.BlockSize)
	}
	if h.Len() != 4 {
		t.Fatalf("Len = %d, want 4 (blank skipped, END excluded)", h.Len())
	}
	if kw, _ := h.Get(3); kw.Name != "COMMENT" || kw.Comment != "hello" {
		t.Errorf("keyword 3 = %v", kw)
	}
	if h.Index(header.EndKeyword) != -1 {
		t.Error("END must not be part of the header")
	}
}

func TestScan_MultipleBlocks(t *testing.T) {
	cards := []string{fitstest.Bool("SIMPLE", true), fitstest.Int("BITPIX", 8), fitstest.Int("NAXIS", 0)}
	for i := range 40 {
		cards = append(cards, fitstest.Int(fmt.Sprintf("KEY%d", i), int64(i)))
	}

	h, n, err := header.Scan(fitstest.Header(cards...))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n != 2*header.BlockSize {
		t.Errorf("consumed %d bytes, want %d", n, 2*header.BlockSize)
	}
	if h.Len() != 43 {
		t.Errorf("Len = %d, want 43", h.Len())
	}
	if v, ok := h.ValueInt("KEY39"); !ok || v != 39 {
		t.Errorf("KEY39 = %d, %v", v, ok)
	}
}

func TestScan_IgnoresRecordsAfterEnd(t *testing.T) {
	data := fitstest.Header(fitstest.Bool("SIMPLE", true))
	// Garbage after END in the same block is not decoded.
	copy(data[2*header.RecordSize:], "bad record !!")

	h, _, err := header.Scan(data)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestScan_Errors(t *testing.T) {
	noEnd := fitstest.PadBlock(fitstest.Record(fitstest.Bool("SIMPLE", true)), ' ')

	badSecond := fitstest.PadBlock(fitstest.Record(fitstest.Bool("SIMPLE", true)), ' ')
	badSecond = append(badSecond, fitstest.Header("lower   =                    1")...)

	tests := []struct {
		name  string
		data  []byte
		kind  errors.Kind
		index int
	}{
		{"empty", nil, errors.KindInvalidHeader, errors.NoIndex},
		{"short block", make([]byte, 100), errors.KindInvalidHeader, errors.NoIndex},
		{"no END", noEnd, errors.KindInvalidHeader, errors.NoIndex},
		{"bad record in second block", badSecond, errors.KindInvalidCharacter, header.RecordsPerBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := header.Scan(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			var fe *errors.Error
			if !stderrors.As(err, &fe) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if fe.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", fe.Kind, tt.kind)
			}
			if fe.Index != tt.index {
				t.Errorf("Index = %d, want %d", fe.Index, tt.index)
			}
		})
	}
}
