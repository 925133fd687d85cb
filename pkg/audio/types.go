// ABOUTME: Sample conversion helpers
// ABOUTME: Packs float32 samples into little-endian bytes and back
package audio

import (
	"encoding/binary"
	"math"
)

// Float32Size is the byte width of one packed float32 sample
const Float32Size = 4

// PutFloat32LE packs samples into dst as little-endian float32 and returns the
// number of bytes written. Samples that do not fit in dst are dropped.
func PutFloat32LE(dst []byte, samples []float32) int {
	n := len(dst) / Float32Size
	if len(samples) < n {
		n = len(samples)
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*Float32Size:], math.Float32bits(samples[i]))
	}
	return n * Float32Size
}

// Float32FromLE unpacks little-endian float32 bytes into dst and returns the
// number of samples read
func Float32FromLE(dst []float32, src []byte) int {
	n := len(src) / Float32Size
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*Float32Size:]))
	}
	return n
}
