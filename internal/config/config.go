// Package config provides the YAML-based application configuration,
// including first-run config creation.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ResolverConfig controls the language model used for command resolution.
type ResolverConfig struct {
	// Model is the chat completion model identifier.
	Model string `yaml:"model" json:"model"`
	// Endpoint overrides the completion endpoint. Empty means the default
	// Groq endpoint.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	// TimeoutSeconds bounds a single resolution request. Zero or negative
	// means unbounded.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// VoiceConfig controls speech input and output.
type VoiceConfig struct {
	// Voice is the synthesis voice identifier.
	Voice string `yaml:"voice" json:"voice"`
	// CaptureEnabled toggles microphone capture. Disabled still allows
	// typed commands.
	CaptureEnabled bool `yaml:"capture_enabled" json:"capture_enabled"`
	// PlaybackBufferFrames is the playback device buffer size in frames.
	PlaybackBufferFrames int `yaml:"playback_buffer_frames" json:"playback_buffer_frames"`
	// StartMuted starts sessions with voice output off.
	StartMuted bool `yaml:"start_muted" json:"start_muted"`
}

// Config is the top-level application configuration.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver" json:"resolver"`
	Voice    VoiceConfig    `yaml:"voice" json:"voice"`

	// ExportDir is where calendar exports are written.
	ExportDir string `yaml:"export_dir" json:"export_dir"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			Model:          "llama-3.3-70b-versatile",
			TimeoutSeconds: 30,
		},
		Voice: VoiceConfig{
			Voice:                "aura-2-thalia-en",
			CaptureEnabled:       true,
			PlaybackBufferFrames: 480,
		},
		ExportDir: ".",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Resolver.Model == "" {
		c.Resolver.Model = "llama-3.3-70b-versatile"
	}
	if c.Resolver.TimeoutSeconds < 0 {
		c.Resolver.TimeoutSeconds = 0
	}
	if c.Voice.Voice == "" {
		c.Voice.Voice = "aura-2-thalia-en"
	}
	if c.Voice.PlaybackBufferFrames <= 0 {
		c.Voice.PlaybackBufferFrames = 480
	}
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (creating
// the parent directory if needed) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically,
// with 0600 permissions on the final file.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".voicecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
