package codec2

import "fmt"

const (
	// HeaderSize is the length of a .c2 stream header.
	HeaderSize = 7

	VersionMajor = 1
	VersionMinor = 0

	// FlagSideInfo marks a stream that carries side information.
	FlagSideInfo byte = 1 << 0
)

// Magic opens every .c2 stream.
var Magic = [3]byte{0xC0, 0xDE, 0xC2}

// Header is the decoded form of a .c2 stream header.
type Header struct {
	VersionMajor byte
	VersionMinor byte
	Mode         Mode
	Flags        byte
}

// NewHeader returns a current-version header for mode.
func NewHeader(mode Mode, sideInfo bool) Header {
	h := Header{
		VersionMajor: VersionMajor,
		VersionMinor: VersionMinor,
		Mode:         mode,
	}
	if sideInfo {
		h.Flags |= FlagSideInfo
	}
	return h
}

// SideInfo reports whether bit 0 of the flags is set.
func (h Header) SideInfo() bool {
	return h.Flags&FlagSideInfo != 0
}

// Bytes encodes h.
func (h Header) Bytes() [HeaderSize]byte {
	return [HeaderSize]byte{
		Magic[0], Magic[1], Magic[2],
		h.VersionMajor,
		h.VersionMinor,
		h.Mode.ID(),
		h.Flags,
	}
}

func (h Header) MarshalBinary() ([]byte, error) {
	b := h.Bytes()
	return b[:], nil
}

func (h *Header) UnmarshalBinary(data []byte) error {
	parsed, err := ParseHeader(data)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// BuildHeader encodes a version 1.0 header for mode. The mode byte is written
// as is, so an invalid mode yields a header ParseHeader rejects; callers
// validate with Mode.Valid first.
func BuildHeader(mode Mode, sideInfo bool) [HeaderSize]byte {
	return NewHeader(mode, sideInfo).Bytes()
}

// ParseHeader decodes a header. Any version is accepted; the magic and mode
// must be known.
func ParseHeader(data []byte) (Header, error) {
	if len(data) != HeaderSize {
		return Header{}, &MalformedHeaderError{Reason: fmt.Sprintf("length %d, want %d", len(data), HeaderSize)}
	}
	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] {
		return Header{}, &MalformedHeaderError{Reason: fmt.Sprintf("bad magic % x", data[:3])}
	}
	mode, ok := ModeFromID(data[5])
	if !ok {
		return Header{}, &MalformedHeaderError{Reason: fmt.Sprintf("unknown mode id %d", data[5])}
	}
	return Header{
		VersionMajor: data[3],
		VersionMinor: data[4],
		Mode:         mode,
		Flags:        data[6],
	}, nil
}
