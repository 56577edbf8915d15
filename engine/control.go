package engine

import (
	"github.com/shhawkins/hex-a-theremin/debug"
	"github.com/shhawkins/hex-a-theremin/effects"
	"github.com/shhawkins/hex-a-theremin/looper"
	"github.com/shhawkins/hex-a-theremin/pitch"
	"github.com/shhawkins/hex-a-theremin/synth"
)

// Configuration setters. These are the narrow surface the UI widgets drive;
// they take plain values and never fail loudly.

// SetRootNote selects the root by chromatic name.
func (e *Engine) SetRootNote(name string) {
	e.mapper.Root = pitch.RootFrequency(name)
	e.rootName = name
}

// SetOctaveRange sets how many octaves the pitch axis spans, clamped 1..5.
func (e *Engine) SetOctaveRange(n int) {
	if n < 1 {
		n = 1
	} else if n > 5 {
		n = 5
	}
	e.mapper.Octaves = n
}

// SetPitchAxis selects which surface axis drives pitch.
func (e *Engine) SetPitchAxis(a pitch.Axis) { e.mapper.Axis = a }

// SetScale enables quantization to the named scale; an unknown or empty
// name disables it.
func (e *Engine) SetScale(name string) {
	e.mapper.Scale = pitch.ScaleByName(name)
}

// SetChord sets the chord expansion mode.
func (e *Engine) SetChord(mode pitch.ChordMode) { e.mapper.Chord = mode }

// SetGhostsEnabled toggles ghost emission in the render frame. Playback
// audio is unaffected.
func (e *Engine) SetGhostsEnabled(on bool) { e.ghostsOn = on }

// SetPressureTone routes touch pressure to the backend's global tone.
func (e *Engine) SetPressureTone(on bool) { e.pressureTone = on }

// AssignEffect puts kind on slot, resolving conflicts by swapping, and
// keeps kind-aware backends in sync.
func (e *Engine) AssignEffect(slot int, kind effects.Kind) {
	swapped := e.rack.Assign(slot, kind)
	if swapped >= 0 {
		debug.Log("engine", "effect %v moved to slot %d by swap", kind, slot)
	}
	if ka, ok := e.backend.(synth.KindAware); ok {
		ka.SetEffectKind(slot, e.rack.Slot(slot).Kind.String())
		if swapped >= 0 {
			ka.SetEffectKind(swapped, e.rack.Slot(swapped).Kind.String())
		}
	}
}

// Transport actions.

// ToggleRecord cycles a track through arm/record/stop. Arming is rejected
// with the recorder's error (e.g. before any loop exists on tracks 2..4);
// the caller shows the track unarmed.
func (e *Engine) ToggleRecord(i int) error {
	switch e.rec.TrackState(i) {
	case looper.Recording:
		return e.rec.StopRecording(i)
	case looper.Armed:
		e.rec.Disarm(i)
		return nil
	default:
		if err := e.rec.Arm(i); err != nil {
			return err
		}
		// Re-arming a playing track stops its replay mid-loop; the
		// scheduled up events will never arrive, so cut its voices now.
		e.pool.ReleaseTrack(i)
		return nil
	}
}

// TogglePlay flips a track between playing and stopped, silencing its
// replay voices on stop.
func (e *Engine) TogglePlay(i int) {
	if !e.rec.TogglePlayback(i) {
		e.pool.ReleaseTrack(i)
	}
}

// ToggleMute flips a track's mute flag, cutting its replay voices
// immediately.
func (e *Engine) ToggleMute(i int) {
	m := !e.rec.Muted(i)
	e.rec.SetMuted(i, m)
	if m {
		e.pool.ReleaseTrack(i)
	}
}

// ClearTrack empties a track and silences it.
func (e *Engine) ClearTrack(i int) {
	wasRecording := e.rec.TrackState(i) == looper.Recording
	e.rec.Clear(i)
	e.pool.ReleaseTrack(i)
	if wasRecording {
		debug.Log("engine", "cleared track %d mid-recording", i)
	}
}

// ClearAll empties every track and releases every replay voice.
func (e *Engine) ClearAll() {
	e.rec.ClearAll()
	for i := 0; i < looper.NumTracks; i++ {
		e.pool.ReleaseTrack(i)
	}
}

// SetTrackGain sets a track's playback gain.
func (e *Engine) SetTrackGain(i int, g float64) { e.rec.SetGain(i, g) }

// Settings is a read-only view of the current mapping configuration.
type Settings struct {
	RootNote    string
	OctaveRange int
	Axis        pitch.Axis
	Scale       string // empty when pitch is continuous
	Chord       pitch.ChordMode
	Ghosts      bool
}

// Settings reports the current mapping configuration.
func (e *Engine) Settings() Settings {
	s := Settings{
		RootNote:    e.rootName,
		OctaveRange: e.mapper.Octaves,
		Axis:        e.mapper.Axis,
		Chord:       e.mapper.Chord,
		Ghosts:      e.ghostsOn,
	}
	if e.mapper.Scale != nil {
		s.Scale = e.mapper.Scale.Name
	}
	return s
}
