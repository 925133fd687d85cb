// ABOUTME: Tests for configuration loading
// ABOUTME: Tests defaults, environment overrides and .env files
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Backend != "oto" || cfg.SampleRate != 44100 || cfg.FramesPerPeriod != 800 || cfg.Port != 8928 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"XYSCOPE_BACKEND":           "Malgo",
		"XYSCOPE_SAMPLE_RATE":       "160000",
		"XYSCOPE_FRAMES_PER_PERIOD": "256",
		"XYSCOPE_PORT":              "9000",
		"XYSCOPE_NAME":              "bench",
		"XYSCOPE_MAX_SAMPLES":       "1000",
		"XYSCOPE_CLEAR_ON_STOP":     "true",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	expected := Config{
		Backend:         "malgo",
		SampleRate:      160000,
		FramesPerPeriod: 256,
		Port:            9000,
		Name:            "bench",
		MaxSamples:      1000,
		ClearOnStop:     true,
	}
	if cfg != expected {
		t.Errorf("expected %+v, got %+v", expected, cfg)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric rate", "XYSCOPE_SAMPLE_RATE", "fast"},
		{"negative port", "XYSCOPE_PORT", "-1"},
		{"bad bool", "XYSCOPE_CLEAR_ON_STOP", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookupFrom(map[string]string{tt.key: tt.val}))
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected error naming %s, got %v", tt.key, err)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("XYSCOPE_PORT=9100\nXYSCOPE_NAME=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XYSCOPE_PORT", "")
	t.Setenv("XYSCOPE_NAME", "from-env")
	// godotenv only fills variables that are unset
	os.Unsetenv("XYSCOPE_PORT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("expected port from file, got %d", cfg.Port)
	}
	if cfg.Name != "from-env" {
		t.Errorf("expected environment to win, got %q", cfg.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Config{Name: "lab"}).DisplayName("xyscope"); got != "lab" {
		t.Errorf("expected configured name, got %q", got)
	}
	if got := (Config{}).DisplayName("xyscope"); !strings.HasSuffix(got, "-xyscope") {
		t.Errorf("expected hostname-based name, got %q", got)
	}
}
