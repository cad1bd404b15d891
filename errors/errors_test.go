package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name:     "placement",
			err:      InvalidPlacement(PhaseImage, "NAXIS2", 3, "NAXIS1"),
			contains: []string{"[image]", "invalid_keyword_placement", `"NAXIS2"`, "at 3", "expected NAXIS1"},
		},
		{
			name:     "minimal error",
			err:      &Error{Phase: PhaseHeader, Kind: KindInvalidHeader, Index: NoIndex},
			contains: []string{"[header]", "invalid_header"},
			excludes: []string{" at "},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRecord,
				Kind:   KindInvalidKeywordRecord,
				Index:  NoIndex,
				Detail: "bad float",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[record]", "invalid_keyword_record", "bad float", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseTable, KindGeneric, cause, "parse cell")

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := InvalidColumn(PhaseBinTable, 5, 3)

	if !err.Is(&Error{Phase: PhaseBinTable, Kind: KindInvalidColumn}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseTable, Kind: KindInvalidColumn}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseBinTable, Kind: KindInvalidRow}) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("hdu 2: %w", err)
	if !errors.Is(wrapped, &Error{Phase: PhaseBinTable, Kind: KindInvalidColumn}) {
		t.Error("errors.Is should match through fmt wrapping")
	}
}

func TestIsKind(t *testing.T) {
	inner := MissingKeyword(PhaseBinTable, "TFORM1")
	outer := Wrap(PhaseDispatch, KindGeneric, inner, "decode payload")

	if !IsKind(outer, KindGeneric) {
		t.Error("IsKind should match outer kind")
	}
	if !IsKind(outer, KindMissingKeyword) {
		t.Error("IsKind should match kind in cause chain")
	}
	if IsKind(outer, KindInvalidRow) {
		t.Error("IsKind matched absent kind")
	}
	if IsKind(errors.New("plain"), KindGeneric) {
		t.Error("IsKind matched plain error")
	}
	if KindOf(fmt.Errorf("x: %w", inner)) != KindMissingKeyword {
		t.Errorf("KindOf = %q", KindOf(inner))
	}
	if KindOf(nil) != "" {
		t.Error("KindOf(nil) should be empty")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseImage, KindUnexpectedKeywordValue).
		Keyword("BITPIX").
		Index(1).
		Value(int64(12)).
		Expected("8, 16, 32, 64, -32 or -64").
		Cause(cause).
		Detail("unsupported %s", "BITPIX").
		Build()

	if err.Phase != PhaseImage {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseImage)
	}
	if err.Kind != KindUnexpectedKeywordValue {
		t.Errorf("Kind = %v", err.Kind)
	}
	if err.Keyword != "BITPIX" || err.Index != 1 {
		t.Errorf("Keyword=%q Index=%d", err.Keyword, err.Index)
	}
	if err.Value != int64(12) {
		t.Errorf("Value = %v", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "unsupported BITPIX" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestBuilder_DefaultIndex(t *testing.T) {
	err := New(PhaseHeader, KindInvalidHeader).Build()
	if err.Index != NoIndex {
		t.Errorf("Index = %d, want NoIndex", err.Index)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err   *Error
		name  string
		kind  Kind
		phase Phase
	}{
		{InvalidHeader("short block"), "InvalidHeader", KindInvalidHeader, PhaseHeader},
		{BadKeywordLength(79), "BadKeywordLength", KindBadKeywordLength, PhaseRecord},
		{InvalidCharacter("a b"), "InvalidCharacter", KindInvalidCharacter, PhaseRecord},
		{InvalidRecord("X", "raw", nil), "InvalidRecord", KindInvalidKeywordRecord, PhaseRecord},
		{MissingKeyword(PhaseTable, "TBCOL1"), "MissingKeyword", KindMissingKeyword, PhaseTable},
		{UnexpectedType(PhaseImage, "NAXIS", "integer"), "UnexpectedType", KindUnexpectedValueType, PhaseImage},
		{UnexpectedValue(PhaseTable, "GCOUNT", int64(2), int64(1)), "UnexpectedValue", KindUnexpectedKeywordValue, PhaseTable},
		{InvalidTForm("3Z", nil), "InvalidTForm", KindInvalidTForm, PhaseTForm},
		{InvalidTDisp("Q3", nil), "InvalidTDisp", KindInvalidTDisp, PhaseTDisp},
		{UnsupportedExtension("A3DTABLE"), "UnsupportedExtension", KindUnsupportedExtension, PhaseDispatch},
		{InvalidDataSize(PhaseBinTable, 100, 10), "InvalidDataSize", KindInvalidDataSize, PhaseBinTable},
		{InvalidRow(PhaseBinTable, 9, 3), "InvalidRow", KindInvalidRow, PhaseBinTable},
		{Generic(PhaseTable, "row %d too short", 4), "Generic", KindGeneric, PhaseTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestInvalidColumnCarriesBounds(t *testing.T) {
	err := InvalidColumn(PhaseBinTable, 4, 4)
	if err.Index != 4 || err.Expected != 4 {
		t.Errorf("Index=%d Expected=%v", err.Index, err.Expected)
	}
	if !strings.Contains(err.Error(), "column 4 out of range (columns 4)") {
		t.Errorf("message %q", err.Error())
	}
}
