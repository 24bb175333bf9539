package codec2

// Engine creates codec states. Implementations wrap the native codec library.
type Engine interface {
	// NewState allocates state for mode. It returns an error if the mode is
	// unsupported or allocation fails.
	NewState(mode Mode) (State, error)
}

// State is one engine instance. It is mutated in place by every transform and
// is never shared between Codecs.
type State interface {
	// Encode compresses samples native-endian int16 values read from pcm
	// (len(pcm) >= 2*samples) into one encoded frame. Fewer than a full
	// frame of samples is zero-padded.
	Encode(pcm []byte, samples int) ([]byte, error)
	// Decode expands one encoded frame into a full frame of native-endian PCM.
	Decode(bits []byte) ([]byte, error)
	// Destroy releases the state. It is called exactly once.
	Destroy()
}
