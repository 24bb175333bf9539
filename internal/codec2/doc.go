// Package codec2 manages Codec2 speech codec state and the .c2 stream format.
//
// A Codec owns exactly one engine state for one Mode. Encode and Decode
// transform a single 20ms frame per call: 160 native-endian 16-bit samples
// on the PCM side, and Mode.Geometry().BytesPerFrame bytes on the encoded side.
// A Codec is not safe for concurrent use; serialize access or use one Codec
// per goroutine. Close must be called exactly once.
//
// Persisted streams start with a 7-byte header ([0xC0 0xDE 0xC2][major][minor][mode][flags])
// followed by concatenated encoded frames. StreamWriter and StreamReader
// produce and consume that format.
package codec2
