package codec2

import (
	"fmt"
	"strings"
	"time"
)

// SampleRate is the only PCM sample rate accepted by every mode.
const SampleRate = 8000

// Mode selects the Codec2 bit rate. The numeric value is persisted in stream
// headers and must never be renumbered.
type Mode uint8

const (
	Mode3200 Mode = 0
	Mode2400 Mode = 1
	Mode1600 Mode = 2
	Mode1400 Mode = 3
	Mode1300 Mode = 4
	Mode1200 Mode = 5
	Mode700C Mode = 6

	modeCount = 7
)

// Geometry describes the frame sizes of a mode.
type Geometry struct {
	SamplesPerFrame int
	BytesPerFrame   int
}

// PCMBytesPerFrame is the byte length of a full PCM frame.
func (g Geometry) PCMBytesPerFrame() int {
	return g.SamplesPerFrame * 2
}

// FrameDuration is the audio time covered by one frame.
func (g Geometry) FrameDuration() time.Duration {
	return time.Duration(g.SamplesPerFrame) * time.Second / SampleRate
}

// BitRate is the encoded payload rate in bits per second, rounded to the
// frame's byte boundary.
func (g Geometry) BitRate() int {
	return g.BytesPerFrame * 8 * SampleRate / g.SamplesPerFrame
}

var modeTable = [modeCount]struct {
	name     string
	geometry Geometry
}{
	Mode3200: {"3200", Geometry{SamplesPerFrame: 160, BytesPerFrame: 8}},
	Mode2400: {"2400", Geometry{SamplesPerFrame: 160, BytesPerFrame: 8}},
	Mode1600: {"1600", Geometry{SamplesPerFrame: 160, BytesPerFrame: 8}},
	Mode1400: {"1400", Geometry{SamplesPerFrame: 160, BytesPerFrame: 6}},
	Mode1300: {"1300", Geometry{SamplesPerFrame: 160, BytesPerFrame: 6}},
	Mode1200: {"1200", Geometry{SamplesPerFrame: 160, BytesPerFrame: 6}},
	Mode700C: {"700C", Geometry{SamplesPerFrame: 160, BytesPerFrame: 6}},
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m < modeCount
}

// Geometry returns the frame geometry of m. It panics if m is not Valid;
// values obtained from the Mode constants, ParseMode, or ModeFromID always are.
func (m Mode) Geometry() Geometry {
	if !m.Valid() {
		panic(fmt.Sprintf("codec2: geometry of unknown mode %d", uint8(m)))
	}
	return modeTable[m].geometry
}

// ID is the byte persisted in stream headers.
func (m Mode) ID() byte {
	return byte(m)
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeTable[m].name
}

// ModeFromID maps a persisted mode id back to a Mode.
func ModeFromID(id byte) (Mode, bool) {
	m := Mode(id)
	return m, m.Valid()
}

// ParseMode accepts mode names such as "2400", "700C" or "MODE_700C".
func ParseMode(name string) (Mode, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "MODE_")
	s = strings.TrimPrefix(s, "MODE")
	for i, entry := range modeTable {
		if entry.name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown codec2 mode %q", name)
}

// Modes returns every mode in id order.
func Modes() []Mode {
	modes := make([]Mode, modeCount)
	for i := range modes {
		modes[i] = Mode(i)
	}
	return modes
}
