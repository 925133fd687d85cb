// ABOUTME: Runtime configuration from the environment and an optional .env file
// ABOUTME: Supplies defaults for command-line flags of the xyscope programs
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultBackend         = "oto"
	DefaultSampleRate      = 44100
	DefaultFramesPerPeriod = 800
	DefaultPort            = 8928
)

// Config holds settings shared by the player, server and control client
type Config struct {
	Backend         string
	SampleRate      int
	FramesPerPeriod int
	Port            int
	Name            string
	MaxSamples      int
	ClearOnStop     bool
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Backend:         DefaultBackend,
		SampleRate:      DefaultSampleRate,
		FramesPerPeriod: DefaultFramesPerPeriod,
		Port:            DefaultPort,
	}
}

// Load reads the given .env files (".env" if none are named) into the
// process environment and builds a Config from XYSCOPE_* variables. Missing
// files are ignored; variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a variable lookup function
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("XYSCOPE_BACKEND"); ok && v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("XYSCOPE_NAME"); ok {
		cfg.Name = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"XYSCOPE_SAMPLE_RATE", &cfg.SampleRate},
		{"XYSCOPE_FRAMES_PER_PERIOD", &cfg.FramesPerPeriod},
		{"XYSCOPE_PORT", &cfg.Port},
		{"XYSCOPE_MAX_SAMPLES", &cfg.MaxSamples},
	}
	for _, field := range ints {
		v, ok := lookup(field.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be a non-negative integer", field.key, v)
		}
		*field.dst = n
	}

	if v, ok := lookup("XYSCOPE_CLEAR_ON_STOP"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid XYSCOPE_CLEAR_ON_STOP %q: %w", v, err)
		}
		cfg.ClearOnStop = b
	}

	return cfg, nil
}

// DisplayName returns Name, or hostname-suffix when no name is configured
func (c Config) DisplayName(suffix string) string {
	if c.Name != "" {
		return c.Name
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%s", hostname, suffix)
}
