// ABOUTME: Render session owning the sample buffer and playback lifecycle
// ABOUTME: Accepts draw commands while building and seals the buffer for playback
package scope

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/xyscope/xyscope/pkg/sink"
)

// State of a render session
type State int32

const (
	StateBuilding State = iota
	StateSealed
	StateFailed
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateSealed:
		return "sealed"
	case StateFailed:
		return "failed"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Logger receives diagnostic lines. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Config holds session configuration
type Config struct {
	// Sink receives the sealed buffer on Start
	Sink sink.Sink

	// FramesPerPeriod is the sink period size (default: 800)
	FramesPerPeriod int

	// MaxSamples caps the buffer in frames (default: DefaultMaxSamples).
	// The cap counts allocated frames, not written ones: every draw grows by
	// the command's full Capacity, and a line usually writes fewer samples
	// than that, so a drawing of long diagonals fails before Frames reaches
	// MaxSamples.
	MaxSamples int

	// ClearOnStop discards the drawing when playback stops. By default the
	// samples are kept and later draws extend them.
	ClearOnStop bool

	// Trace logs every rasterizer step
	Trace bool

	// Logger receives diagnostics (default: the standard logger)
	Logger Logger
}

// Stats is a point-in-time view of a session, safe to take from any goroutine
type Stats struct {
	ID           string
	State        State
	Frames       int
	Capacity     int
	SampleRate   int
	FramesPlayed uint64
	Loops        uint64
}

// Session renders vector commands into a sample buffer and plays it.
//
// Draw, Start, Stop, Clear and Close must be called from a single goroutine.
// State and Stats may be called from anywhere.
type Session struct {
	id       string
	config   Config
	buf      *Buffer
	playback *Playback
	failure  error

	state      atomic.Int32
	frames     atomic.Int64
	capacity   atomic.Int64
	sampleRate atomic.Int64
}

// NewSession creates a session in the building state with an empty buffer
func NewSession(config Config) *Session {
	if config.FramesPerPeriod == 0 {
		config.FramesPerPeriod = sink.DefaultFramesPerPeriod
	}
	if config.MaxSamples == 0 {
		config.MaxSamples = DefaultMaxSamples
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	s := &Session{
		id:     uuid.New().String(),
		config: config,
		buf:    NewBuffer(config.MaxSamples),
	}
	if config.Sink != nil {
		s.playback = NewPlayback(config.Sink, config.FramesPerPeriod)
	}
	s.state.Store(int32(StateBuilding))
	return s
}

// ID returns the session's unique identifier
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state
func (s *Session) State() State { return State(s.state.Load()) }

// DrawLine appends a line from (x1, y1) to (x2, y2)
func (s *Session) DrawLine(x1, y1, x2, y2 uint) error {
	return s.Draw(Line{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// DrawPoint appends a point held for dwell extra frames
func (s *Session) DrawPoint(x, y, dwell uint) error {
	return s.Draw(Point{X: x, Y: y, Dwell: dwell})
}

// Draw grows the buffer by the command's capacity and rasterizes it
func (s *Session) Draw(cmd Command) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	return s.draw(cmd)
}

// DrawAll validates every command before drawing any of them
func (s *Session) DrawAll(cmds ...Command) error {
	if err := s.mutable(); err != nil {
		return err
	}
	for i, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("command %d (%v): %w", i, cmd, err)
		}
	}
	for i, cmd := range cmds {
		if err := s.draw(cmd); err != nil {
			return fmt.Errorf("command %d (%v): %w", i, cmd, err)
		}
	}
	return nil
}

func (s *Session) draw(cmd Command) error {
	start := s.buf.Len()
	if err := s.buf.Grow(cmd.Capacity()); err != nil {
		if errors.Is(err, ErrAllocation) {
			s.fail(err)
		}
		return err
	}

	written := cmd.rasterize(s.buf.Append, s.tracer())
	s.publish()

	if s.config.Trace {
		s.config.Logger.Printf("Drew %v: %d frames at %d (buffer %d/%d)",
			cmd, written, start, s.buf.Len(), s.buf.Cap())
	}
	return nil
}

// Start seals the buffer and hands a snapshot of it to the sink. The seal is
// complete before the sink sees the first frame. On a sink error the session
// returns to building and the error is returned unchanged.
func (s *Session) Start(sampleRate int) error {
	switch s.State() {
	case StateSealed:
		return ErrAlreadyPlaying
	case StateFailed:
		return s.failure
	case StateDestroyed:
		return ErrClosed
	}
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if s.playback == nil {
		return ErrNoSink
	}

	s.buf.seal()
	snap := s.buf.Snapshot()
	s.state.Store(int32(StateSealed))

	if err := s.playback.Begin(snap, sampleRate); err != nil {
		s.buf.unseal()
		s.state.Store(int32(StateBuilding))
		s.config.Logger.Printf("Playback failed to start: %v", err)
		return err
	}

	s.sampleRate.Store(int64(sampleRate))
	s.config.Logger.Printf("Playback started: %d frames at %dHz (session %s)", snap.Len(), sampleRate, s.id)
	return nil
}

// Stop halts the sink and returns the session to building. The session stays
// sealed if the sink cannot be stopped; Stop may then be retried.
func (s *Session) Stop() error {
	switch s.State() {
	case StateBuilding:
		return ErrNotPlaying
	case StateFailed:
		return s.failure
	case StateDestroyed:
		return ErrClosed
	}

	if err := s.playback.End(); err != nil {
		s.config.Logger.Printf("Playback failed to stop: %v", err)
		return err
	}

	s.buf.unseal()
	if s.config.ClearOnStop {
		_ = s.buf.Reset()
		s.publish()
	}
	s.sampleRate.Store(0)
	s.state.Store(int32(StateBuilding))

	played, loops := s.playback.Position()
	s.config.Logger.Printf("Playback stopped after %d frames (%d loops)", played, loops)
	return nil
}

// Clear drops every sample drawn so far
func (s *Session) Clear() error {
	if err := s.mutable(); err != nil {
		return err
	}
	if err := s.buf.Reset(); err != nil {
		return err
	}
	s.publish()
	return nil
}

// Close stops playback if needed and destroys the session. Close is
// idempotent.
func (s *Session) Close() error {
	if s.State() == StateDestroyed {
		return nil
	}
	if s.playback != nil {
		if err := s.playback.End(); err != nil {
			return err
		}
	}

	s.buf.unseal()
	_ = s.buf.Reset()
	s.publish()
	s.sampleRate.Store(0)
	s.state.Store(int32(StateDestroyed))
	return nil
}

// Snapshot returns a view of the samples drawn so far. It must be taken on
// the producer goroutine.
func (s *Session) Snapshot() Snapshot {
	return s.buf.Snapshot()
}

// Stats returns counters for monitoring
func (s *Session) Stats() Stats {
	st := Stats{
		ID:         s.id,
		State:      s.State(),
		Frames:     int(s.frames.Load()),
		Capacity:   int(s.capacity.Load()),
		SampleRate: int(s.sampleRate.Load()),
	}
	if s.playback != nil {
		st.FramesPlayed, st.Loops = s.playback.Position()
	}
	return st
}

func (s *Session) mutable() error {
	switch s.State() {
	case StateSealed:
		return ErrIllegalMutationWhilePlaying
	case StateFailed:
		return s.failure
	case StateDestroyed:
		return ErrClosed
	}
	return nil
}

func (s *Session) fail(err error) {
	s.failure = err
	s.state.Store(int32(StateFailed))
	s.config.Logger.Printf("Session %s failed: %v", s.id, err)
}

// publish copies the buffer counters into atomics for Stats
func (s *Session) publish() {
	s.frames.Store(int64(s.buf.Len()))
	s.capacity.Store(int64(s.buf.Cap()))
}

func (s *Session) tracer() traceFunc {
	if !s.config.Trace {
		return nil
	}
	return s.config.Logger.Printf
}
