// ABOUTME: Audio sink interface definition
// ABOUTME: Common pull-based contract for playback backends
package sink

import (
	"fmt"
	"strings"
)

// Default stream parameters
const (
	DefaultChannels        = 2
	DefaultFramesPerPeriod = 800
)

// Config describes the stream a sink should open
type Config struct {
	SampleRate      int
	Channels        int
	FramesPerPeriod int
}

// withDefaults fills in zero fields and rejects impossible values
func (c Config) withDefaults() (Config, error) {
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.FramesPerPeriod == 0 {
		c.FramesPerPeriod = DefaultFramesPerPeriod
	}
	if c.SampleRate <= 0 {
		return c, fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.Channels < 0 || c.FramesPerPeriod < 0 {
		return c, fmt.Errorf("invalid stream layout: %d channels, %d frames per period", c.Channels, c.FramesPerPeriod)
	}
	return c, nil
}

// PullFunc fills out with interleaved frames. len(out) is always a multiple
// of the channel count. It runs on the sink's real-time thread.
type PullFunc func(out []float32)

// Sink represents a pull-based audio output device
type Sink interface {
	// Open prepares the device with the given stream layout
	Open(config Config) error

	// Start begins invoking pull periodically
	Start(pull PullFunc) error

	// Stop halts playback. No pull call is in flight or pending once it returns.
	Stop() error

	// Close releases device resources
	Close() error
}

var backends = map[string]func() Sink{
	"oto":       func() Sink { return NewOto() },
	"malgo":     func() Sink { return NewMalgo() },
	"portaudio": func() Sink { return NewPortAudio() },
	"memory":    func() Sink { return NewMemory() },
}

// Backends lists the backend names accepted by New
func Backends() []string {
	return []string{"oto", "malgo", "portaudio", "memory"}
}

// New creates the sink backend with the given name
func New(backend string) (Sink, error) {
	newSink, ok := backends[strings.ToLower(backend)]
	if !ok {
		return nil, fmt.Errorf("unknown sink backend %q (supported: %s)", backend, strings.Join(Backends(), ", "))
	}
	return newSink(), nil
}
