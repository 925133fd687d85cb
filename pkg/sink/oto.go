// ABOUTME: Oto-based audio sink implementation
// ABOUTME: Feeds an oto float32 player from the pull callback through an io.Reader
package sink

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/xyscope/xyscope/pkg/audio"
)

// oto allows one context per process, so every Oto sink shares it
var (
	otoShared       *oto.Context
	otoSharedConfig Config
)

// player is the part of *oto.Player the sink drives
type player interface {
	Play()
	Pause()
	Close() error
}

// Oto sink implementation using oto library
type Oto struct {
	config Config
	player player
	reader *pullReader
	open   bool
}

// NewOto creates a new Oto sink
func NewOto() Sink {
	return &Oto{}
}

// Open creates (or resumes) the shared oto context
func (o *Oto) Open(config Config) error {
	if o.open {
		return newError("oto", "open", ErrAlreadyOpen)
	}
	cfg, err := config.withDefaults()
	if err != nil {
		return newError("oto", "open", err)
	}

	if otoShared == nil {
		op := &oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: cfg.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   periodDuration(cfg),
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return newError("oto", "open", fmt.Errorf("failed to create oto context: %w", err))
		}
		<-readyChan

		otoShared = ctx
		otoSharedConfig = cfg
	} else {
		if otoSharedConfig.SampleRate != cfg.SampleRate || otoSharedConfig.Channels != cfg.Channels {
			// oto cannot reinitialize, keep playing at the first format
			log.Printf("Warning: format change detected (%dHz %dch -> %dHz %dch) but oto doesn't support reinitialization. Continuing with existing context.",
				otoSharedConfig.SampleRate, otoSharedConfig.Channels, cfg.SampleRate, cfg.Channels)
			cfg.SampleRate = otoSharedConfig.SampleRate
			cfg.Channels = otoSharedConfig.Channels
		}
		if err := otoShared.Resume(); err != nil {
			return newError("oto", "open", fmt.Errorf("failed to resume oto context: %w", err))
		}
	}

	o.config = cfg
	o.open = true

	log.Printf("Audio sink opened: %dHz, %d channels, %d frames per period (oto)",
		cfg.SampleRate, cfg.Channels, cfg.FramesPerPeriod)
	return nil
}

// Start creates a player that reads from the pull callback
func (o *Oto) Start(pull PullFunc) error {
	if !o.open {
		return newError("oto", "start", ErrNotOpen)
	}
	if o.player != nil {
		return newError("oto", "start", ErrStarted)
	}

	o.reader = newPullReader(pull, o.config)
	p := otoShared.NewPlayer(o.reader)
	p.Play()
	o.player = p
	return nil
}

// Stop silences the reader before closing the player so no pull happens after
// Stop returns. If the player fails to close it is kept, and Stop may be
// called again.
func (o *Oto) Stop() error {
	if o.player == nil {
		return newError("oto", "stop", ErrNotStarted)
	}

	o.reader.stop()
	o.player.Pause()
	if err := o.player.Close(); err != nil {
		return newError("oto", "stop", err)
	}
	o.player = nil
	o.reader = nil
	return nil
}

// Close suspends the shared context
func (o *Oto) Close() error {
	if o.player != nil {
		if err := o.Stop(); err != nil {
			return err
		}
	}
	if !o.open {
		return nil
	}
	o.open = false
	if err := otoShared.Suspend(); err != nil {
		return newError("oto", "close", err)
	}
	return nil
}

func periodDuration(cfg Config) time.Duration {
	return time.Duration(cfg.FramesPerPeriod) * time.Second / time.Duration(cfg.SampleRate)
}

// pullReader adapts a PullFunc to the io.Reader oto players consume
type pullReader struct {
	pull     PullFunc
	channels int
	scratch  []float32
	stopped  atomic.Bool
	inflight atomic.Int32

	// one encoded frame split across reads; pending is its unread tail
	partial []byte
	pending []byte
}

func newPullReader(pull PullFunc, cfg Config) *pullReader {
	return &pullReader{
		pull:     pull,
		channels: cfg.Channels,
		scratch:  make([]float32, cfg.FramesPerPeriod*cfg.Channels),
		partial:  make([]byte, audio.Float32Size*cfg.Channels),
	}
}

// Read fills p with float32 samples. A read shorter than a frame gets the
// head of the next frame and the following read continues it, so the stream
// stays frame aligned. It never allocates.
func (r *pullReader) Read(p []byte) (int, error) {
	r.inflight.Add(1)
	defer r.inflight.Add(-1)

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	if len(r.pending) > 0 {
		return n, nil
	}

	frameBytes := audio.Float32Size * r.channels
	frames := (len(p) - n) / frameBytes
	periodFrames := len(r.scratch) / r.channels

	if frames == 0 && n == 0 && len(p) > 0 {
		buf := r.scratch[:r.channels]
		r.fill(buf)
		audio.PutFloat32LE(r.partial, buf)
		n = copy(p, r.partial)
		r.pending = r.partial[n:]
		return n, nil
	}

	for frames > 0 {
		chunk := frames
		if chunk > periodFrames {
			chunk = periodFrames
		}
		buf := r.scratch[:chunk*r.channels]
		r.fill(buf)
		n += audio.PutFloat32LE(p[n:], buf)
		frames -= chunk
	}
	return n, nil
}

func (r *pullReader) fill(buf []float32) {
	if r.stopped.Load() {
		clear(buf)
	} else {
		r.pull(buf)
	}
}

// stop makes future reads return silence and waits out a read in progress
func (r *pullReader) stop() {
	r.stopped.Store(true)
	for r.inflight.Load() > 0 {
		time.Sleep(time.Millisecond)
	}
}
