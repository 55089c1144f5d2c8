package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfigOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Resolver.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected default model %q", cfg.Resolver.Model)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", got)
	}
}

func TestLoadRoundTripsSavedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Resolver.Model = "llama-3.1-8b-instant"
	cfg.Voice.StartMuted = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Resolver.Model != "llama-3.1-8b-instant" {
		t.Errorf("unexpected model %q", loaded.Resolver.Model)
	}
	if !loaded.Voice.StartMuted {
		t.Errorf("expected start_muted to survive the round trip")
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.Resolver.TimeoutSeconds = -5
	cfg.Normalize()

	if cfg.Resolver.Model == "" {
		t.Errorf("expected a default model")
	}
	if cfg.Resolver.TimeoutSeconds != 0 {
		t.Errorf("expected negative timeout clamped to 0, got %d", cfg.Resolver.TimeoutSeconds)
	}
	if cfg.Voice.PlaybackBufferFrames <= 0 {
		t.Errorf("expected a default playback buffer size")
	}
	if cfg.ExportDir == "" {
		t.Errorf("expected a default export dir")
	}
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}
