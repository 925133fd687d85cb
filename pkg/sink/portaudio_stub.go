//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package sink

import (
	"errors"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio sink implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio sink
func NewPortAudio() Sink {
	return &PortAudio{}
}

// Open always fails without the portaudio build tag
func (p *PortAudio) Open(config Config) error {
	return newError("portaudio", "open", errPortAudioDisabled)
}

func (p *PortAudio) Start(pull PullFunc) error {
	return newError("portaudio", "start", errPortAudioDisabled)
}

func (p *PortAudio) Stop() error {
	return newError("portaudio", "stop", errPortAudioDisabled)
}

func (p *PortAudio) Close() error {
	return nil
}
