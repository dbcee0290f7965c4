package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Limits shared by the config, the transport and the composer
const (
	MinTempo = 20
	MaxTempo = 300
	MinBeats = 1
	MaxBeats = 64
)

// MIDIConfig selects optional external MIDI ports
type MIDIConfig struct {
	OutputPort   string `json:"outputPort,omitempty"`
	Channel      int    `json:"channel,omitempty"` // 1-16
	KeyboardPort string `json:"keyboardPort,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette  string `json:"palette,omitempty"` // path to a .gpl file, embedded default if empty
	LastView int    `json:"lastView,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Tempo       int        `json:"tempo"`
	Instrument  string     `json:"instrument"`
	Beats       int        `json:"beats"`
	SamplesDir  string     `json:"samplesDir"`
	ExportDir   string     `json:"exportDir,omitempty"`
	CatalogPath string     `json:"catalogPath,omitempty"`
	SampleRate  int        `json:"sampleRate"`
	MIDI        MIDIConfig `json:"midi,omitempty"`
	UI          UIConfig   `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo:      100,
		Instrument: "harmonium",
		Beats:      16,
		SamplesDir: "samples",
		ExportDir:  ".",
		SampleRate: 44100,
		MIDI: MIDIConfig{
			Channel: 1,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lehra"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// CompositionsDir is where the composer saves its work
func CompositionsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "compositions"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file; missing fields keep their defaults
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize clamps values into their valid ranges
func (c *Config) Normalize() {
	c.Tempo = clamp(c.Tempo, MinTempo, MaxTempo)
	c.Beats = clamp(c.Beats, MinBeats, MaxBeats)
	c.MIDI.Channel = clamp(c.MIDI.Channel, 1, 16)
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}
	if c.Instrument == "" {
		c.Instrument = "harmonium"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to the given path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
