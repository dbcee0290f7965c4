package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tempo != 100 || cfg.Beats != 16 || cfg.Instrument != "harmonium" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lehra", "config.json")

	cfg := DefaultConfig()
	cfg.Tempo = 72
	cfg.Instrument = "sarangi"
	cfg.MIDI.OutputPort = "IAC Driver Bus 1"
	cfg.MIDI.Channel = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	back, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Tempo != 72 || back.Instrument != "sarangi" || back.MIDI.OutputPort != "IAC Driver Bus 1" || back.MIDI.Channel != 3 {
		t.Errorf("round trip = %+v", back)
	}
}

func TestLoadPartialAndClamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"tempo": 900, "beats": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tempo != MaxTempo {
		t.Errorf("tempo = %d, want %d", cfg.Tempo, MaxTempo)
	}
	if cfg.Beats != MinBeats {
		t.Errorf("beats = %d, want %d", cfg.Beats, MinBeats)
	}
	if cfg.SamplesDir != "samples" {
		t.Errorf("samplesDir default lost: %q", cfg.SamplesDir)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{tempo`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}
