// ABOUTME: Playback adapter between the render session and an audio sink
// ABOUTME: Opens and starts the sink with a playhead over the sealed snapshot
package scope

import (
	"sync/atomic"

	"github.com/xyscope/xyscope/pkg/sink"
)

// Playback drives one sink. Begin and End are called by the producer only.
type Playback struct {
	sink            sink.Sink
	framesPerPeriod int

	head    atomic.Pointer[Playhead]
	open    bool
	running bool
}

// NewPlayback creates an adapter for out
func NewPlayback(out sink.Sink, framesPerPeriod int) *Playback {
	return &Playback{
		sink:            out,
		framesPerPeriod: framesPerPeriod,
	}
}

// Begin opens the sink and starts pulling from snap. Sink errors are returned
// unchanged. If start fails the sink is closed again.
func (p *Playback) Begin(snap Snapshot, sampleRate int) error {
	head := NewPlayhead(snap)

	err := p.sink.Open(sink.Config{
		SampleRate:      sampleRate,
		Channels:        2,
		FramesPerPeriod: p.framesPerPeriod,
	})
	if err != nil {
		return err
	}
	p.open = true
	p.head.Store(head)

	if err := p.sink.Start(head.Fill); err != nil {
		if cerr := p.sink.Close(); cerr == nil {
			p.open = false
		}
		return err
	}
	p.running = true
	return nil
}

// End stops and closes the sink. Steps that already succeeded are skipped
// when End is retried after a failure.
func (p *Playback) End() error {
	if p.running {
		if err := p.sink.Stop(); err != nil {
			return err
		}
		p.running = false
	}
	if p.open {
		if err := p.sink.Close(); err != nil {
			return err
		}
		p.open = false
	}
	return nil
}

// Running reports whether the sink may still be invoking the pull callback
func (p *Playback) Running() bool {
	return p.running
}

// Position returns the frames played and loops completed by the most recent
// playhead. Safe to call from any goroutine.
func (p *Playback) Position() (played, loops uint64) {
	head := p.head.Load()
	if head == nil {
		return 0, 0
	}
	return head.Played(), head.Loops()
}
