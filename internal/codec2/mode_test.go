package codec2_test

import (
	"testing"
	"time"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/google/go-cmp/cmp"
)

func TestModeGeometry(t *testing.T) {
	want := map[codec2.Mode]int{
		codec2.Mode3200: 8,
		codec2.Mode2400: 8,
		codec2.Mode1600: 8,
		codec2.Mode1400: 6,
		codec2.Mode1300: 6,
		codec2.Mode1200: 6,
		codec2.Mode700C: 6,
	}
	if len(codec2.Modes()) != len(want) {
		t.Fatalf("Modes() has %d entries, want %d", len(codec2.Modes()), len(want))
	}

	for _, m := range codec2.Modes() {
		t.Run(m.String(), func(t *testing.T) {
			g := m.Geometry()
			if g.SamplesPerFrame != 160 {
				t.Errorf("SamplesPerFrame = %d, want 160", g.SamplesPerFrame)
			}
			if g.PCMBytesPerFrame() != 320 {
				t.Errorf("PCMBytesPerFrame() = %d, want 320", g.PCMBytesPerFrame())
			}
			if g.BytesPerFrame != want[m] {
				t.Errorf("BytesPerFrame = %d, want %d", g.BytesPerFrame, want[m])
			}
			if g.FrameDuration() != 20*time.Millisecond {
				t.Errorf("FrameDuration() = %v, want 20ms", g.FrameDuration())
			}
		})
	}
}

func TestModeIDsAreStable(t *testing.T) {
	ids := []struct {
		mode codec2.Mode
		id   byte
		name string
	}{
		{codec2.Mode3200, 0, "3200"},
		{codec2.Mode2400, 1, "2400"},
		{codec2.Mode1600, 2, "1600"},
		{codec2.Mode1400, 3, "1400"},
		{codec2.Mode1300, 4, "1300"},
		{codec2.Mode1200, 5, "1200"},
		{codec2.Mode700C, 6, "700C"},
	}
	for _, tc := range ids {
		if got := tc.mode.ID(); got != tc.id {
			t.Errorf("%s.ID() = %d, want %d", tc.name, got, tc.id)
		}
		if got := tc.mode.String(); got != tc.name {
			t.Errorf("String() = %q, want %q", got, tc.name)
		}

		m, ok := codec2.ModeFromID(tc.id)
		if !ok || m != tc.mode {
			t.Errorf("ModeFromID(%d) = %v, %v, want %v, true", tc.id, m, ok, tc.mode)
		}
	}

	if _, ok := codec2.ModeFromID(7); ok {
		t.Error("ModeFromID(7) reported a known mode")
	}
	if codec2.Mode(200).Valid() {
		t.Error("Mode(200).Valid() = true")
	}
	if got := codec2.Mode(200).String(); got != "Mode(200)" {
		t.Errorf("Mode(200).String() = %q", got)
	}
}

func TestBitRate(t *testing.T) {
	if got := codec2.Mode3200.Geometry().BitRate(); got != 3200 {
		t.Errorf("3200 BitRate() = %d", got)
	}
	if got := codec2.Mode1400.Geometry().BitRate(); got != 2400 {
		t.Errorf("1400 BitRate() = %d, want 2400", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    codec2.Mode
		wantErr bool
	}{
		{in: "3200", want: codec2.Mode3200},
		{in: "700c", want: codec2.Mode700C},
		{in: "MODE_1300", want: codec2.Mode1300},
		{in: " 2400 ", want: codec2.Mode2400},
		{in: "450", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := codec2.ParseMode(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error but got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestModesListsIDOrder(t *testing.T) {
	var ids []byte
	for _, m := range codec2.Modes() {
		ids = append(ids, m.ID())
	}
	if diff := cmp.Diff([]byte{0, 1, 2, 3, 4, 5, 6}, ids); diff != "" {
		t.Errorf("Modes() order mismatch (-want +got):\n%s", diff)
	}
}

func TestGeometryOfUnknownModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Geometry of Mode(7) to panic")
		}
	}()
	codec2.Mode(7).Geometry()
}
