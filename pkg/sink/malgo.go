// ABOUTME: Malgo-based audio sink implementation
// ABOUTME: Uses miniaudio via malgo with a float32 data callback that pulls frames
package sink

import (
	"fmt"
	"log"

	"github.com/gen2brain/malgo"
	"github.com/xyscope/xyscope/pkg/audio"
)

// Malgo sink implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	config   Config
	scratch  []float32
}

// NewMalgo creates a new Malgo sink
func NewMalgo() Sink {
	return &Malgo{}
}

// Open initializes the miniaudio context
func (m *Malgo) Open(config Config) error {
	if m.malgoCtx != nil {
		return newError("malgo", "open", ErrAlreadyOpen)
	}
	cfg, err := config.withDefaults()
	if err != nil {
		return newError("malgo", "open", err)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("malgo: %s", message)
	})
	if err != nil {
		return newError("malgo", "open", fmt.Errorf("failed to initialize malgo context: %w", err))
	}

	m.malgoCtx = ctx
	m.config = cfg
	m.scratch = make([]float32, cfg.FramesPerPeriod*cfg.Channels)

	log.Printf("Audio sink opened: %dHz, %d channels, %d frames per period (malgo)",
		cfg.SampleRate, cfg.Channels, cfg.FramesPerPeriod)
	return nil
}

// Start creates and starts a playback device whose callback pulls frames
func (m *Malgo) Start(pull PullFunc) error {
	if m.malgoCtx == nil {
		return newError("malgo", "start", ErrNotOpen)
	}
	if m.device != nil {
		return newError("malgo", "start", ErrStarted)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(m.config.Channels)
	deviceConfig.SampleRate = uint32(m.config.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(m.config.FramesPerPeriod)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		m.dataCallback(pOutputSample, frameCount, pull)
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return newError("malgo", "start", fmt.Errorf("failed to initialize playback device: %w", err))
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return newError("malgo", "start", fmt.Errorf("failed to start device: %w", err))
	}

	m.device = device
	return nil
}

// dataCallback is called by malgo to fill the output buffer. It reuses the
// scratch slice so the device thread never allocates.
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32, pull PullFunc) {
	periodFrames := len(m.scratch) / m.config.Channels
	frames := int(frameCount)

	n := 0
	for frames > 0 {
		chunk := frames
		if chunk > periodFrames {
			chunk = periodFrames
		}
		buf := m.scratch[:chunk*m.config.Channels]
		pull(buf)
		n += audio.PutFloat32LE(pOutput[n:], buf)
		frames -= chunk
	}
}

// Stop stops and uninitializes the device. miniaudio waits for the data
// callback to return before Stop completes.
func (m *Malgo) Stop() error {
	if m.device == nil {
		return newError("malgo", "stop", ErrNotStarted)
	}

	err := m.device.Stop()
	if err != nil {
		return newError("malgo", "stop", err)
	}
	m.device.Uninit()
	m.device = nil
	return nil
}

// Close releases the miniaudio context
func (m *Malgo) Close() error {
	if m.device != nil {
		if err := m.Stop(); err != nil {
			return err
		}
	}
	if m.malgoCtx == nil {
		return nil
	}

	err := m.malgoCtx.Uninit()
	m.malgoCtx.Free()
	m.malgoCtx = nil
	if err != nil {
		return newError("malgo", "close", err)
	}
	return nil
}
