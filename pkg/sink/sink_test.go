// ABOUTME: Sink interface tests
// ABOUTME: Verifies backend construction, config defaults and error wrapping
package sink

import (
	"errors"
	"testing"
)

func TestBackendsImplementSink(t *testing.T) {
	var _ Sink = (*Oto)(nil)
	var _ Sink = (*Malgo)(nil)
	var _ Sink = (*PortAudio)(nil)
	var _ Sink = (*Memory)(nil)
}

func TestNew(t *testing.T) {
	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", name, err)
			}
			if s == nil {
				t.Fatalf("New(%q) returned nil", name)
			}
		})
	}
}

func TestNewCaseInsensitive(t *testing.T) {
	s, err := New("Memory")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("expected *Memory, got %T", s)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New("jack"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := Config{SampleRate: 48000}.withDefaults()
	if err != nil {
		t.Fatalf("withDefaults failed: %v", err)
	}
	if cfg.Channels != DefaultChannels {
		t.Errorf("expected %d channels, got %d", DefaultChannels, cfg.Channels)
	}
	if cfg.FramesPerPeriod != DefaultFramesPerPeriod {
		t.Errorf("expected %d frames per period, got %d", DefaultFramesPerPeriod, cfg.FramesPerPeriod)
	}
}

func TestConfigInvalid(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"zero rate", Config{}},
		{"negative rate", Config{SampleRate: -1}},
		{"negative channels", Config{SampleRate: 44100, Channels: -2}},
		{"negative period", Config{SampleRate: 44100, FramesPerPeriod: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.config.withDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("device busy")

	err := &Error{Backend: "portaudio", Op: "start", Code: -9985, Err: cause}
	if got := err.Error(); got != "portaudio start failed (code -9985): device busy" {
		t.Errorf("unexpected message: %s", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to unwrap to its cause")
	}

	plain := &Error{Backend: "oto", Op: "open", Err: cause}
	if got := plain.Error(); got != "oto open failed: device busy" {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestNewErrorKeepsExistingSinkError(t *testing.T) {
	inner := &Error{Backend: "malgo", Op: "start", Code: 3, Err: errors.New("boom")}

	err := newError("memory", "open", inner)
	if err != inner {
		t.Errorf("expected wrapped sink error to be returned unchanged, got %v", err)
	}
	if newError("memory", "open", nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestPortAudioStubWithoutTag(t *testing.T) {
	p := NewPortAudio()
	err := p.Open(Config{SampleRate: 44100})
	if err == nil {
		// Built with -tags portaudio and a working device
		_ = p.Close()
		t.Skip("portaudio build tag enabled")
	}

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if serr.Backend != "portaudio" || serr.Op != "open" {
		t.Errorf("unexpected error fields: %+v", serr)
	}
}
