// ABOUTME: Real-time reader over a sealed snapshot
// ABOUTME: Fills sink periods with looping interleaved frames without locks or allocation
package scope

import "sync/atomic"

// Playhead reads a snapshot for the sink callback. The image is redrawn from
// the start each time the end of the snapshot is reached.
//
// Fill is the only method that may run on the audio thread. Played and Loops
// may be called from any goroutine.
type Playhead struct {
	snap Snapshot
	pos  int

	played atomic.Uint64
	loops  atomic.Uint64
}

// NewPlayhead creates a playhead positioned at the first frame
func NewPlayhead(snap Snapshot) *Playhead {
	return &Playhead{snap: snap}
}

// Fill writes len(out)/2 interleaved stereo frames. An empty snapshot yields
// silence, which parks the beam at the center of the screen.
func (p *Playhead) Fill(out []float32) {
	frames := len(out) / 2
	if len(out)%2 == 1 {
		out[len(out)-1] = 0
	}

	n := p.snap.Len()
	if n == 0 {
		clear(out)
		p.played.Add(uint64(frames))
		return
	}

	for i := 0; i < frames; i++ {
		out[2*i] = p.snap.left[p.pos]
		out[2*i+1] = p.snap.right[p.pos]
		p.pos++
		if p.pos == n {
			p.pos = 0
			p.loops.Add(1)
		}
	}
	p.played.Add(uint64(frames))
}

// Played returns the number of frames handed to the sink
func (p *Playhead) Played() uint64 { return p.played.Load() }

// Loops returns how many times the whole image has been traced
func (p *Playhead) Loops() uint64 { return p.loops.Load() }
