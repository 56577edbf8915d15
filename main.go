package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shhawkins/hex-a-theremin/config"
	"github.com/shhawkins/hex-a-theremin/debug"
	"github.com/shhawkins/hex-a-theremin/engine"
	"github.com/shhawkins/hex-a-theremin/hex"
	"github.com/shhawkins/hex-a-theremin/synth"
	"github.com/shhawkins/hex-a-theremin/theme"
	"github.com/shhawkins/hex-a-theremin/tui"
)

// The instrument lives in an abstract 1000x1000 coordinate space; input
// layers (the TUI canvas, a touch surface) map into it.
const (
	surfaceCenter = 500
	surfaceRadius = 400
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}
	if cfg.UI.Debug {
		if err := debug.Enable(); err == nil {
			defer debug.Disable()
		}
	}

	h, err := hex.New(hex.Point{X: surfaceCenter, Y: surfaceCenter}, surfaceRadius)
	if err != nil {
		fmt.Printf("geometry: %v\n", err)
		os.Exit(1)
	}

	backend := pickBackend(cfg)

	e := engine.New(h, backend)
	e.SetRootNote(cfg.Pitch.RootNote)
	e.SetOctaveRange(cfg.Pitch.OctaveRange)
	e.SetPitchAxis(cfg.PitchAxis())
	e.SetScale(cfg.Pitch.Scale)
	e.SetChord(cfg.ChordMode())
	e.SetGhostsEnabled(cfg.UI.GhostsEnabled)
	e.SetPressureTone(cfg.UI.PressureTone)
	for i, k := range cfg.EffectKinds() {
		e.AssignEffect(i, k)
	}

	m := tui.NewModel(e, theme.NewStyles())
	if s, ok := backend.(*synth.Oto); ok {
		m.Waveform = s.Waveform
		m.SetWave = s.SetWave
		m.Wave = synth.WaveByName(cfg.Sound.Waveform)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Settings changed during the session survive the next launch.
	if fm, ok := final.(tui.Model); ok {
		saveSession(cfg, fm)
	}
}

func saveSession(cfg *config.Config, m tui.Model) {
	s := m.Engine.Settings()
	cfg.Pitch.RootNote = s.RootNote
	cfg.Pitch.OctaveRange = s.OctaveRange
	cfg.Pitch.Axis = s.Axis.String()
	cfg.Pitch.Scale = s.Scale
	cfg.Pitch.Chord = s.Chord.String()
	cfg.UI.GhostsEnabled = s.Ghosts
	if m.SetWave != nil {
		cfg.Sound.Waveform = m.Wave.String()
	}
	for i, k := range m.Engine.Rack().Kinds() {
		cfg.Effects[i] = k.String()
	}
	if err := cfg.Save(); err != nil {
		fmt.Printf("config save: %v\n", err)
	}
}

// pickBackend chooses the sound output: a configured MIDI port when one is
// named, the built-in synth otherwise, and a silent backend as the last
// resort so the instrument still runs for looking around.
func pickBackend(cfg *config.Config) synth.Backend {
	if cfg.Sound.MIDIPort != "" {
		out, err := synth.NewMIDIOut(cfg.Sound.MIDIPort)
		if err == nil {
			return out
		}
		fmt.Printf("midi port %q: %v, falling back to built-in synth\n", cfg.Sound.MIDIPort, err)
	}
	s, err := synth.NewOto(synth.WaveByName(cfg.Sound.Waveform))
	if err != nil {
		fmt.Printf("audio: %v, running silent\n", err)
		return synth.Null{}
	}
	return s
}
