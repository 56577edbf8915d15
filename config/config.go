package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/shhawkins/hex-a-theremin/effects"
	"github.com/shhawkins/hex-a-theremin/pitch"
)

// SoundConfig selects the audio backend.
type SoundConfig struct {
	// MIDIPort, when set, routes all sound to this MIDI output instead of
	// the built-in synth.
	MIDIPort string `json:"midiPort,omitempty"`
	Waveform string `json:"waveform,omitempty"` // sine, triangle, saw, square
}

// PitchConfig stores the gesture-to-pitch mapping preferences.
type PitchConfig struct {
	RootNote    string `json:"rootNote"`
	OctaveRange int    `json:"octaveRange"`
	Axis        string `json:"axis"`            // x or y
	Scale       string `json:"scale,omitempty"` // empty means continuous pitch
	Chord       string `json:"chord,omitempty"` // off, triad, seventh
}

// UIConfig stores display preferences.
type UIConfig struct {
	GhostsEnabled bool `json:"ghostsEnabled"`
	PressureTone  bool `json:"pressureTone,omitempty"`
	Debug         bool `json:"debug,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	Sound   SoundConfig `json:"sound,omitempty"`
	Pitch   PitchConfig `json:"pitch"`
	Effects [6]string   `json:"effects"`
	UI      UIConfig    `json:"ui"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{
		Pitch: PitchConfig{
			RootNote:    "C",
			OctaveRange: 2,
			Axis:        "x",
		},
		UI: UIConfig{
			GhostsEnabled: true,
		},
	}
	for i, k := range effects.DefaultAssignments {
		cfg.Effects[i] = k.String()
	}
	return cfg
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hex-a-theremin"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// PitchAxis resolves the configured axis name.
func (c *Config) PitchAxis() pitch.Axis {
	if c.Pitch.Axis == "y" {
		return pitch.AxisY
	}
	return pitch.AxisX
}

// ChordMode resolves the configured chord name.
func (c *Config) ChordMode() pitch.ChordMode {
	switch c.Pitch.Chord {
	case "triad":
		return pitch.ChordTriad
	case "seventh":
		return pitch.ChordSeventh
	}
	return pitch.ChordOff
}

// EffectKinds resolves the six configured slot kinds. Unknown names fall
// back to the defaults so a stale config never leaves a slot empty.
func (c *Config) EffectKinds() [6]effects.Kind {
	var kinds [6]effects.Kind
	for i, name := range c.Effects {
		k := effects.KindByName(name)
		if k < 0 {
			k = effects.DefaultAssignments[i]
		}
		kinds[i] = k
	}
	return kinds
}
