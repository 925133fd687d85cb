// ABOUTME: Audio fundamentals package providing sample packing utilities
// ABOUTME: Converts between float32 frames and the byte layouts sinks consume
// Package audio provides sample conversion helpers shared by the sink backends.
//
// Samples are float32 in the -1.0..1.0 range, interleaved L,R,L,R. Backends that
// hand raw bytes to the device use the little-endian packing helpers here.
//
// Example:
//
//	frames := []float32{-1, -1, 0.5, 0.5}
//	out := make([]byte, len(frames)*audio.Float32Size)
//	audio.PutFloat32LE(out, frames)
package audio
