// ABOUTME: Growable stereo sample buffer with an append-only write cursor
// ABOUTME: Holds the left/right channels that the rasterizer fills
package scope

import (
	"fmt"
	"runtime"
)

// DefaultMaxSamples caps buffer growth (about 7 minutes at 160kHz)
const DefaultMaxSamples = 1 << 26

// Buffer holds two equal-length channels and a write cursor.
//
// Samples below the cursor are only ever changed by amending the most
// recently written index. Once sealed, the buffer refuses every mutation.
type Buffer struct {
	left   []float32
	right  []float32
	cursor int
	limit  int
	sealed bool
}

// NewBuffer creates an empty buffer that refuses to grow past limit frames.
// A limit of zero means unlimited.
func NewBuffer(limit int) *Buffer {
	return &Buffer{limit: limit}
}

// Grow reallocates the buffer to hold additional frames, copying every
// written sample to the same index in the new storage. The buffer is left
// untouched if the allocation fails.
func (b *Buffer) Grow(additional int) (err error) {
	if b.sealed {
		return ErrIllegalMutationWhilePlaying
	}
	if additional < 0 {
		return fmt.Errorf("scope: negative buffer growth %d", additional)
	}
	if additional == 0 {
		return nil
	}

	size := len(b.left) + additional
	if size < len(b.left) || (b.limit > 0 && size > b.limit) {
		return &AllocationError{Requested: size, Limit: b.limit}
	}

	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			err = &AllocationError{Requested: size, Limit: b.limit, Err: rerr}
		}
	}()

	left := make([]float32, size)
	right := make([]float32, size)
	copy(left, b.left[:b.cursor])
	copy(right, b.right[:b.cursor])

	b.left, b.right = left, right
	return nil
}

// Write stores a sample pair at index. Only the cursor (append) or the index
// right before it (amend) may be written; anything else panics with
// ErrOutOfOrderWrite.
func (b *Buffer) Write(index int, left, right float32) {
	if b.sealed || index < 0 || index >= len(b.left) || (index != b.cursor && index != b.cursor-1) {
		panic(fmt.Errorf("%w: index %d, cursor %d, capacity %d, sealed %v",
			ErrOutOfOrderWrite, index, b.cursor, len(b.left), b.sealed))
	}
	b.left[index] = left
	b.right[index] = right
}

// Advance moves the cursor past the sample just written
func (b *Buffer) Advance() {
	if b.sealed || b.cursor >= len(b.left) {
		panic(fmt.Errorf("%w: advance past capacity %d", ErrOutOfOrderWrite, len(b.left)))
	}
	b.cursor++
}

// Append writes at the cursor and advances it
func (b *Buffer) Append(left, right float32) {
	b.Write(b.cursor, left, right)
	b.Advance()
}

// Last returns the most recently written sample pair
func (b *Buffer) Last() (left, right float32, ok bool) {
	if b.cursor == 0 {
		return 0, 0, false
	}
	return b.left[b.cursor-1], b.right[b.cursor-1], true
}

// Len returns the number of written frames
func (b *Buffer) Len() int { return b.cursor }

// Cap returns the number of allocated frames
func (b *Buffer) Cap() int { return len(b.left) }

// Sealed reports whether the buffer is frozen for playback
func (b *Buffer) Sealed() bool { return b.sealed }

// Reset drops every sample and releases the storage
func (b *Buffer) Reset() error {
	if b.sealed {
		return ErrIllegalMutationWhilePlaying
	}
	b.left, b.right = nil, nil
	b.cursor = 0
	return nil
}

// Snapshot returns a read-only view of the written samples
func (b *Buffer) Snapshot() Snapshot {
	n := b.cursor
	return Snapshot{
		left:  b.left[:n:n],
		right: b.right[:n:n],
	}
}

func (b *Buffer) seal()   { b.sealed = true }
func (b *Buffer) unseal() { b.sealed = false }

// Snapshot is an immutable view of a buffer's written samples
type Snapshot struct {
	left  []float32
	right []float32
}

// Len returns the number of frames in the snapshot
func (s Snapshot) Len() int { return len(s.left) }

// At returns the frame at index i
func (s Snapshot) At(i int) (left, right float32) {
	return s.left[i], s.right[i]
}

// Interleaved copies the snapshot into a new L,R,L,R... slice
func (s Snapshot) Interleaved() []float32 {
	out := make([]float32, 2*len(s.left))
	for i := range s.left {
		out[2*i] = s.left[i]
		out[2*i+1] = s.right[i]
	}
	return out
}
