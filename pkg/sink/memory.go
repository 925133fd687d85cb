// ABOUTME: In-process sink driven manually by Pump
// ABOUTME: Used by tests and headless runs where no audio device exists
package sink

import (
	"errors"
	"sync"
)

// Memory is a sink without a device. Nothing pulls until Pump is called.
type Memory struct {
	mu      sync.Mutex
	config  Config
	pull    PullFunc
	open    bool
	running bool
	pumped  int
	fail    map[string]error
}

// NewMemory creates a memory sink
func NewMemory() *Memory {
	return &Memory{fail: make(map[string]error)}
}

// Fail makes the next call of op ("open", "start", "stop" or "close") return err
func (m *Memory) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = err
}

func (m *Memory) injected(op string) error {
	err, ok := m.fail[op]
	if !ok {
		return nil
	}
	delete(m.fail, op)
	return &Error{Backend: "memory", Op: op, Code: -1, Err: err}
}

func (m *Memory) Open(config Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("open"); err != nil {
		return err
	}
	if m.open {
		return newError("memory", "open", ErrAlreadyOpen)
	}
	cfg, err := config.withDefaults()
	if err != nil {
		return newError("memory", "open", err)
	}

	m.config = cfg
	m.open = true
	return nil
}

func (m *Memory) Start(pull PullFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("start"); err != nil {
		return err
	}
	if !m.open {
		return newError("memory", "start", ErrNotOpen)
	}
	if m.running {
		return newError("memory", "start", ErrStarted)
	}
	if pull == nil {
		return newError("memory", "start", errors.New("nil pull function"))
	}

	m.pull = pull
	m.running = true
	return nil
}

// Stop waits for any Pump in progress, since Pump holds the lock while pulling
func (m *Memory) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("stop"); err != nil {
		return err
	}
	if !m.running {
		return newError("memory", "stop", ErrNotStarted)
	}

	m.pull = nil
	m.running = false
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("close"); err != nil {
		return err
	}
	if m.running {
		m.pull = nil
		m.running = false
	}
	m.open = false
	return nil
}

// Pump pulls frames from the running callback and returns them interleaved.
// It returns nil when the sink is not running.
func (m *Memory) Pump(frames int) []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || frames <= 0 {
		return nil
	}

	out := make([]float32, frames*m.config.Channels)
	m.pull(out)
	m.pumped += frames
	return out
}

// Running reports whether the sink is currently started
func (m *Memory) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// IsOpen reports whether the sink is open
func (m *Memory) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Config returns the stream layout the sink was opened with
func (m *Memory) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Pumped returns the total number of frames pulled
func (m *Memory) Pumped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pumped
}
