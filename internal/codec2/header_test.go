package codec2_test

import (
	"errors"
	"testing"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/google/go-cmp/cmp"
)

func TestBuildHeaderLayout(t *testing.T) {
	tests := []struct {
		mode codec2.Mode
		side bool
		want [codec2.HeaderSize]byte
	}{
		{codec2.Mode700C, true, [codec2.HeaderSize]byte{0xC0, 0xDE, 0xC2, 1, 0, 6, 1}},
		{codec2.Mode2400, false, [codec2.HeaderSize]byte{0xC0, 0xDE, 0xC2, 1, 0, 1, 0}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, codec2.BuildHeader(tc.mode, tc.side)); diff != "" {
			t.Errorf("BuildHeader(%s, %t) mismatch (-want +got):\n%s", tc.mode, tc.side, diff)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	for _, m := range codec2.Modes() {
		for _, side := range []bool{false, true} {
			b := codec2.BuildHeader(m, side)
			h, err := codec2.ParseHeader(b[:])
			if err != nil {
				t.Fatalf("ParseHeader(%x) error = %v", b, err)
			}
			want := codec2.Header{VersionMajor: 1, VersionMinor: 0, Mode: m}
			if side {
				want.Flags = codec2.FlagSideInfo
			}
			if diff := cmp.Diff(want, h); diff != "" {
				t.Errorf("ParseHeader mismatch (-want +got):\n%s", diff)
			}
			if h.SideInfo() != side {
				t.Errorf("SideInfo() = %t, want %t", h.SideInfo(), side)
			}
		}
	}
}

func TestParseHeaderRejects(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{name: "empty", in: nil},
		{name: "short", in: []byte{0xC0, 0xDE, 0xC2, 1, 0, 1}},
		{name: "long", in: []byte{0xC0, 0xDE, 0xC2, 1, 0, 1, 0, 0}},
		{name: "bad first magic byte", in: []byte{0xC1, 0xDE, 0xC2, 1, 0, 1, 0}},
		{name: "bad second magic byte", in: []byte{0xC0, 0xDF, 0xC2, 1, 0, 1, 0}},
		{name: "bad third magic byte", in: []byte{0xC0, 0xDE, 0x00, 1, 0, 1, 0}},
		{name: "mode 7", in: []byte{0xC0, 0xDE, 0xC2, 1, 0, 7, 0}},
		{name: "mode 255", in: []byte{0xC0, 0xDE, 0xC2, 1, 0, 255, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec2.ParseHeader(tc.in)
			var malformed *codec2.MalformedHeaderError
			if !errors.As(err, &malformed) {
				t.Errorf("expected MalformedHeaderError, got %v", err)
			}
		})
	}
}

func TestBuildHeaderInvalidModeDoesNotParse(t *testing.T) {
	b := codec2.BuildHeader(codec2.Mode(9), false)
	if diff := cmp.Diff([codec2.HeaderSize]byte{0xC0, 0xDE, 0xC2, 1, 0, 9, 0}, b); diff != "" {
		t.Errorf("BuildHeader mismatch (-want +got):\n%s", diff)
	}
	var malformed *codec2.MalformedHeaderError
	if _, err := codec2.ParseHeader(b[:]); !errors.As(err, &malformed) {
		t.Errorf("expected MalformedHeaderError, got %v", err)
	}
}

func TestParseHeaderToleratesUnknownVersion(t *testing.T) {
	h, err := codec2.ParseHeader([]byte{0xC0, 0xDE, 0xC2, 9, 42, 3, 0x81})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := codec2.Header{VersionMajor: 9, VersionMinor: 42, Mode: codec2.Mode1400, Flags: 0x81}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("ParseHeader mismatch (-want +got):\n%s", diff)
	}
	if !h.SideInfo() {
		t.Error("SideInfo() = false for flags 0x81")
	}
}

func TestHeaderBinaryMarshaling(t *testing.T) {
	h := codec2.NewHeader(codec2.Mode1200, true)
	b, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(b) != codec2.HeaderSize {
		t.Fatalf("MarshalBinary() returned %d bytes", len(b))
	}

	var got codec2.Header
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Errorf("UnmarshalBinary mismatch (-want +got):\n%s", diff)
	}

	if err := got.UnmarshalBinary(b[:3]); err == nil {
		t.Error("expected UnmarshalBinary of 3 bytes to fail")
	}
}
