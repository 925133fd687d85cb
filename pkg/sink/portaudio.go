//go:build portaudio

// ABOUTME: PortAudio sink implementation
// ABOUTME: Cross-platform output using a PortAudio float32 stream callback
package sink

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudio sink implementation
type PortAudio struct {
	stream *portaudio.Stream
	config Config
	pull   atomic.Pointer[PullFunc]
}

// NewPortAudio creates a new PortAudio sink
func NewPortAudio() Sink {
	return &PortAudio{}
}

// Open initializes PortAudio and opens the default output stream
func (p *PortAudio) Open(config Config) error {
	if p.stream != nil {
		return newError("portaudio", "open", ErrAlreadyOpen)
	}
	cfg, err := config.withDefaults()
	if err != nil {
		return newError("portaudio", "open", err)
	}

	if err := portaudio.Initialize(); err != nil {
		return portAudioError("open", fmt.Errorf("failed to initialize portaudio: %w", err))
	}

	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), cfg.FramesPerPeriod, p.process)
	if err != nil {
		portaudio.Terminate()
		return portAudioError("open", fmt.Errorf("failed to open stream: %w", err))
	}

	p.stream = stream
	p.config = cfg
	return nil
}

// process is the stream callback; it outputs silence until Start installs a
// pull function
func (p *PortAudio) process(out []float32) {
	pull := p.pull.Load()
	if pull == nil {
		clear(out)
		return
	}
	(*pull)(out)
}

// Start begins playback
func (p *PortAudio) Start(pull PullFunc) error {
	if p.stream == nil {
		return newError("portaudio", "start", ErrNotOpen)
	}
	p.pull.Store(&pull)
	if err := p.stream.Start(); err != nil {
		p.pull.Store(nil)
		return portAudioError("start", err)
	}
	return nil
}

// Stop halts the stream; Pa_StopStream returns after the last callback
func (p *PortAudio) Stop() error {
	if p.stream == nil {
		return newError("portaudio", "stop", ErrNotOpen)
	}
	if err := p.stream.Stop(); err != nil {
		return portAudioError("stop", err)
	}
	p.pull.Store(nil)
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Close(); err != nil {
		return portAudioError("close", err)
	}
	p.stream = nil
	if err := portaudio.Terminate(); err != nil {
		return portAudioError("close", err)
	}
	return nil
}

// portAudioError keeps the native PaError code alongside the message
func portAudioError(op string, err error) error {
	serr := &Error{Backend: "portaudio", Op: op, Err: err}
	var paErr portaudio.Error
	if errors.As(err, &paErr) {
		serr.Code = int(paErr)
	}
	return serr
}
